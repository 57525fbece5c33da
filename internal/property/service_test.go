package property

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/shared"
)

type fakeRepository struct {
	props      map[string]*Property
	lastPublic PublicListOptions
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{props: map[string]*Property{}}
}

func (f *fakeRepository) Create(_ context.Context, prop *Property) error {
	f.props[prop.ID.String()] = prop
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Property, error) {
	if prop, ok := f.props[id]; ok {
		copied := *prop
		return &copied, nil
	}
	return nil, common.ErrNotFound.WithDetails("Property not found.")
}

func (f *fakeRepository) FindPublic(_ context.Context, opts PublicListOptions) ([]Property, error) {
	f.lastPublic = opts
	var out []Property
	for _, prop := range f.props {
		if prop.VerificationStatus != VerificationVerified || prop.IsSold() {
			continue
		}
		if opts.OnlyAdvertised && !prop.IsAdvertised {
			continue
		}
		excluded := false
		for _, uid := range opts.ExcludeAgentUIDs {
			if prop.AgentUID == uid {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if opts.Search != "" && !strings.Contains(strings.ToLower(prop.Location), strings.ToLower(opts.Search)) {
			continue
		}
		out = append(out, *prop)
	}
	return out, nil
}

func (f *fakeRepository) FindAll(_ context.Context) ([]Property, error) {
	var out []Property
	for _, prop := range f.props {
		out = append(out, *prop)
	}
	return out, nil
}

func (f *fakeRepository) FindAdvertised(_ context.Context) ([]Property, error) {
	var out []Property
	for _, prop := range f.props {
		if prop.IsAdvertised {
			out = append(out, *prop)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindByAgent(_ context.Context, agentUID string) ([]Property, error) {
	var out []Property
	for _, prop := range f.props {
		if prop.AgentUID == agentUID {
			out = append(out, *prop)
		}
	}
	return out, nil
}

func (f *fakeRepository) UpdateFields(_ context.Context, id string, fields bson.M) error {
	prop, ok := f.props[id]
	if !ok {
		return common.ErrNotFound.WithDetails("Property not found.")
	}
	if v, ok := fields["title"]; ok {
		prop.Title = v.(string)
	}
	if v, ok := fields["location"]; ok {
		prop.Location = v.(string)
	}
	if v, ok := fields["description"]; ok {
		prop.Description = v.(string)
	}
	if v, ok := fields["minPrice"]; ok {
		prop.MinPrice = v.(float64)
	}
	if v, ok := fields["maxPrice"]; ok {
		prop.MaxPrice = v.(float64)
	}
	if v, ok := fields["priceRange"]; ok {
		prop.PriceRange = v.(string)
	}
	if v, ok := fields["image"]; ok {
		prop.Image = v.(string)
	}
	if v, ok := fields["verificationStatus"]; ok {
		prop.VerificationStatus = v.(VerificationStatus)
	}
	if v, ok := fields["isAdvertised"]; ok {
		prop.IsAdvertised = v.(bool)
	}
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.props[id]; !ok {
		return common.ErrNotFound.WithDetails("Property not found.")
	}
	delete(f.props, id)
	return nil
}

func (f *fakeRepository) DeleteByAgent(_ context.Context, agentUID string) error {
	for id, prop := range f.props {
		if prop.AgentUID == agentUID {
			delete(f.props, id)
		}
	}
	return nil
}

func (f *fakeRepository) MarkSold(_ context.Context, id, soldTo string, soldAt time.Time) error {
	prop, ok := f.props[id]
	if !ok {
		return common.ErrNotFound.WithDetails("Property not found.")
	}
	prop.Status = StatusSold
	prop.SoldAt = &soldAt
	prop.SoldTo = soldTo
	return nil
}

type fakeFraudLookup struct {
	uids []string
}

func (f *fakeFraudLookup) FraudAgentUIDs(_ context.Context) ([]string, error) {
	return f.uids, nil
}

func newTestService(repo *fakeRepository, fraud *fakeFraudLookup) Service {
	if fraud == nil {
		fraud = &fakeFraudLookup{}
	}
	return NewService(repo, fraud, zap.NewNop())
}

func agentUser(uid string) *shared.User {
	return &shared.User{UID: uid, Email: uid + "@example.com", DisplayName: "Agent " + uid, Role: common.RoleAgent}
}

func TestCreateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("new listings start unverified and unadvertised", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo, nil)

		prop, err := svc.Create(ctx, agentUser("agent-1"), CreatePropertyRequest{
			Title:    "Modern Downtown Loft",
			Location: "Seattle, WA",
			MinPrice: 450000,
			MaxPrice: 520000,
		})
		require.NoError(t, err)
		assert.Equal(t, VerificationPending, prop.VerificationStatus)
		assert.False(t, prop.IsAdvertised)
		assert.Equal(t, StatusActive, prop.Status)
		assert.Equal(t, "agent-1", prop.AgentUID)
		assert.Equal(t, "$450,000 - $520,000", prop.PriceRange)
		assert.True(t, strings.HasPrefix(prop.Slug, "modern-downtown-loft-"))
	})

	t.Run("non-agents cannot publish", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo, nil)

		buyer := &shared.User{UID: "buyer-1", Role: common.RoleUser}
		_, err := svc.Create(ctx, buyer, CreatePropertyRequest{Title: "X", Location: "Y"})
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	})

	t.Run("fraud-flagged agents cannot publish", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo, nil)

		fraudAgent := agentUser("agent-2")
		fraudAgent.IsFraud = true
		_, err := svc.Create(ctx, fraudAgent, CreatePropertyRequest{Title: "X", Location: "Y"})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := newTestService(repo, nil)

	for _, bad := range []string{"", "   ", "undefined"} {
		_, err := svc.GetByID(ctx, bad)
		require.Error(t, err, "id %q should be rejected", bad)
		assert.ErrorIs(t, err, common.ErrBadRequest)
	}
}

func TestUpdateProperty(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *fakeRepository, verification VerificationStatus) *Property {
		svc := newTestService(repo, nil)
		prop, err := svc.Create(ctx, agentUser("agent-1"), CreatePropertyRequest{
			Title:    "Lakefront Villa",
			Location: "Seattle",
			Image:    "villa.jpg",
			MinPrice: 800000,
			MaxPrice: 950000,
		})
		if err != nil {
			panic(err)
		}
		repo.props[prop.ID.String()].VerificationStatus = verification
		return prop
	}

	t.Run("owner can update and price range is re-rendered", func(t *testing.T) {
		repo := newFakeRepository()
		prop := seed(repo, VerificationVerified)
		svc := newTestService(repo, nil)

		updated, err := svc.Update(ctx, "agent-1", prop.ID.String(), UpdatePropertyRequest{
			Title:    "Lakefront Villa",
			Location: "Bellevue",
			MinPrice: 900000,
			MaxPrice: 0,
		})
		require.NoError(t, err)
		assert.Equal(t, "Bellevue", updated.Location)
		assert.Equal(t, "From $900,000", updated.PriceRange)
		assert.Equal(t, "villa.jpg", updated.Image, "image kept when not supplied")
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := newFakeRepository()
		prop := seed(repo, VerificationVerified)
		svc := newTestService(repo, nil)

		_, err := svc.Update(ctx, "agent-2", prop.ID.String(), UpdatePropertyRequest{Title: "Hijacked"})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("rejected listings are frozen", func(t *testing.T) {
		repo := newFakeRepository()
		prop := seed(repo, VerificationRejected)
		svc := newTestService(repo, nil)

		_, err := svc.Update(ctx, "agent-1", prop.ID.String(), UpdatePropertyRequest{Title: "Retry"})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})
}

func TestPublicListings(t *testing.T) {
	ctx := context.Background()

	t.Run("fraud agents are excluded from public views", func(t *testing.T) {
		repo := newFakeRepository()
		fraud := &fakeFraudLookup{uids: []string{"agent-bad"}}
		svc := newTestService(repo, fraud)

		good, _ := svc.Create(ctx, agentUser("agent-1"), CreatePropertyRequest{Title: "Good", Location: "Seattle"})
		bad, _ := svc.Create(ctx, agentUser("agent-bad"), CreatePropertyRequest{Title: "Bad", Location: "Seattle"})
		repo.props[good.ID.String()].VerificationStatus = VerificationVerified
		repo.props[bad.ID.String()].VerificationStatus = VerificationVerified

		props, err := svc.ListPublic(ctx, ListQuery{})
		require.NoError(t, err)
		require.Len(t, props, 1)
		assert.Equal(t, "agent-1", props[0].AgentUID)
		assert.Equal(t, []string{"agent-bad"}, repo.lastPublic.ExcludeAgentUIDs)
	})

	t.Run("latest advertised defaults the limit", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo, nil)

		_, err := svc.ListLatestAdvertised(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(4), repo.lastPublic.Limit)
		assert.True(t, repo.lastPublic.OnlyAdvertised)
	})

	t.Run("location search requires a location", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo, nil)

		_, err := svc.SearchByLocation(ctx, "  ")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrBadRequest)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := newTestService(repo, nil)

	prop, err := svc.Create(ctx, agentUser("agent-1"), CreatePropertyRequest{Title: "Loft", Location: "Seattle"})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, prop.ID.String(), VerificationStatus("maybe"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)

	updated, err := svc.Verify(ctx, prop.ID.String(), VerificationVerified)
	require.NoError(t, err)
	assert.Equal(t, VerificationVerified, updated.VerificationStatus)
}

func TestFormatPriceRange(t *testing.T) {
	tests := []struct {
		name     string
		minPrice float64
		maxPrice float64
		want     string
	}{
		{"both bounds", 450000, 520000, "$450,000 - $520,000"},
		{"min only", 900000, 0, "From $900,000"},
		{"max only", 0, 250000, "Up to $250,000"},
		{"neither", 0, 0, "Price on request"},
		{"small amounts", 500, 999, "$500 - $999"},
		{"millions", 1250000, 2000000, "$1,250,000 - $2,000,000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatPriceRange(tc.minPrice, tc.maxPrice))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,250,000", formatAmount(1250000))
	assert.Equal(t, "999", formatAmount(999))
	assert.Equal(t, "1,000", formatAmount(1000))
	assert.Equal(t, "-12,500", formatAmount(-12500))
}
