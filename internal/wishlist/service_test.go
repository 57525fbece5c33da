package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/property"
)

type fakeRepository struct {
	items []*Item
}

func (f *fakeRepository) Create(_ context.Context, item *Item) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Item, error) {
	for _, item := range f.items {
		if item.ID.String() == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound.WithDetails("Wishlist item not found.")
}

func (f *fakeRepository) FindByUserAndProperty(_ context.Context, userID, propertyID string) (*Item, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.PropertyID == propertyID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound.WithDetails("Wishlist item not found.")
}

func (f *fakeRepository) FindByUser(_ context.Context, userID string) ([]Item, error) {
	var out []Item
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	for i, item := range f.items {
		if item.ID.String() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound.WithDetails("Wishlist item not found.")
}

func (f *fakeRepository) DeleteByUser(_ context.Context, userID string) error {
	kept := f.items[:0]
	for _, item := range f.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeRepository) DeleteByProperty(_ context.Context, propertyID string) (int64, error) {
	var removed int64
	kept := f.items[:0]
	for _, item := range f.items {
		if item.PropertyID == propertyID {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept
	return removed, nil
}

type fakePropertyRepository struct {
	props map[string]*property.Property
}

func (f *fakePropertyRepository) Create(_ context.Context, prop *property.Property) error {
	f.props[prop.ID.String()] = prop
	return nil
}

func (f *fakePropertyRepository) FindByID(_ context.Context, id string) (*property.Property, error) {
	if prop, ok := f.props[id]; ok {
		copied := *prop
		return &copied, nil
	}
	return nil, common.ErrNotFound.WithDetails("Property not found.")
}

func (f *fakePropertyRepository) FindPublic(_ context.Context, _ property.PublicListOptions) ([]property.Property, error) {
	return nil, nil
}
func (f *fakePropertyRepository) FindAll(_ context.Context) ([]property.Property, error) {
	return nil, nil
}
func (f *fakePropertyRepository) FindAdvertised(_ context.Context) ([]property.Property, error) {
	return nil, nil
}
func (f *fakePropertyRepository) FindByAgent(_ context.Context, _ string) ([]property.Property, error) {
	return nil, nil
}
func (f *fakePropertyRepository) UpdateFields(_ context.Context, _ string, _ bson.M) error {
	return nil
}
func (f *fakePropertyRepository) Delete(_ context.Context, _ string) error        { return nil }
func (f *fakePropertyRepository) DeleteByAgent(_ context.Context, _ string) error { return nil }
func (f *fakePropertyRepository) MarkSold(_ context.Context, id, soldTo string, soldAt time.Time) error {
	prop, ok := f.props[id]
	if !ok {
		return common.ErrNotFound.WithDetails("Property not found.")
	}
	prop.Status = property.StatusSold
	prop.SoldAt = &soldAt
	prop.SoldTo = soldTo
	return nil
}

type wishlistFixture struct {
	repo  *fakeRepository
	props *fakePropertyRepository
	svc   Service
}

func newWishlistFixture() *wishlistFixture {
	repo := &fakeRepository{}
	props := &fakePropertyRepository{props: map[string]*property.Property{}}
	svc := NewService(repo, props, zap.NewNop())
	return &wishlistFixture{repo: repo, props: props, svc: svc}
}

func (f *wishlistFixture) addProperty(id string, status property.Status) *property.Property {
	prop := &property.Property{
		ID:                 database.ParseID(id),
		Title:              "Lakefront Villa",
		Location:           "Seattle",
		PriceRange:         "$800,000 - $950,000",
		AgentName:          "Agent Smith",
		AgentEmail:         "agent@example.com",
		VerificationStatus: property.VerificationVerified,
		Status:             status,
	}
	f.props.props[id] = prop
	return prop
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("saves a listing once", func(t *testing.T) {
		f := newWishlistFixture()
		f.addProperty("property1", property.StatusActive)

		item, err := f.svc.Add(ctx, "user-1", AddRequest{PropertyID: "property1"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", item.UserID)
		assert.Equal(t, "property1", item.PropertyID)
		assert.False(t, item.AddedAt.IsZero())
	})

	t.Run("saving the same listing twice conflicts", func(t *testing.T) {
		f := newWishlistFixture()
		f.addProperty("property1", property.StatusActive)

		_, err := f.svc.Add(ctx, "user-1", AddRequest{PropertyID: "property1"})
		require.NoError(t, err)

		_, err = f.svc.Add(ctx, "user-1", AddRequest{PropertyID: "property1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrConflict)
	})

	t.Run("missing listing is not found", func(t *testing.T) {
		f := newWishlistFixture()

		_, err := f.svc.Add(ctx, "user-1", AddRequest{PropertyID: "nope"})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("entries are populated with listing details", func(t *testing.T) {
		f := newWishlistFixture()
		f.addProperty("property1", property.StatusActive)
		_, err := f.svc.Add(ctx, "user-1", AddRequest{PropertyID: "property1"})
		require.NoError(t, err)

		items, err := f.svc.ListForUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Lakefront Villa", items[0].PropertyTitle)
		assert.Equal(t, "$800,000 - $950,000", items[0].PriceRange)
		assert.Equal(t, "agent@example.com", items[0].AgentEmail)
		assert.False(t, items[0].IsSold)
	})

	t.Run("sold and deleted listings are dropped", func(t *testing.T) {
		f := newWishlistFixture()
		f.addProperty("property-active", property.StatusActive)
		sold := f.addProperty("property-sold", property.StatusActive)
		f.addProperty("property-gone", property.StatusActive)

		for _, id := range []string{"property-active", "property-sold", "property-gone"} {
			_, err := f.svc.Add(ctx, "user-1", AddRequest{PropertyID: id})
			require.NoError(t, err)
		}
		sold.Status = property.StatusSold
		delete(f.props.props, "property-gone")

		items, err := f.svc.ListForUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "property-active", items[0].PropertyID)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	seed := func(f *wishlistFixture) *Item {
		f.addProperty("property1", property.StatusActive)
		item, err := f.svc.Add(ctx, "user-1", AddRequest{PropertyID: "property1"})
		if err != nil {
			panic(err)
		}
		return item
	}

	t.Run("owner can remove", func(t *testing.T) {
		f := newWishlistFixture()
		item := seed(f)

		require.NoError(t, f.svc.Remove(ctx, "user-1", common.RoleUser, item.ID.String()))
		assert.Empty(t, f.repo.items)
	})

	t.Run("admin can remove any entry", func(t *testing.T) {
		f := newWishlistFixture()
		item := seed(f)

		require.NoError(t, f.svc.Remove(ctx, "admin-1", common.RoleAdmin, item.ID.String()))
		assert.Empty(t, f.repo.items)
	})

	t.Run("strangers are forbidden", func(t *testing.T) {
		f := newWishlistFixture()
		item := seed(f)

		err := f.svc.Remove(ctx, "user-2", common.RoleUser, item.ID.String())
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrForbidden)
		assert.Len(t, f.repo.items, 1)
	})
}

func TestPurgeForProperty(t *testing.T) {
	ctx := context.Background()
	f := newWishlistFixture()
	f.addProperty("property1", property.StatusActive)
	f.addProperty("property2", property.StatusActive)

	for _, user := range []string{"user-1", "user-2", "user-3"} {
		_, err := f.svc.Add(ctx, user, AddRequest{PropertyID: "property1"})
		require.NoError(t, err)
	}
	_, err := f.svc.Add(ctx, "user-1", AddRequest{PropertyID: "property2"})
	require.NoError(t, err)

	removed, err := f.svc.PurgeForProperty(ctx, "property1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	require.Len(t, f.repo.items, 1)
	assert.Equal(t, "property2", f.repo.items[0].PropertyID)
}
