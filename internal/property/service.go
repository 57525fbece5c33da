// File: internal/property/service.go
package property

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/shared"
)

// FraudLookup reports which agent accounts are flagged as fraudulent. The user
// repository satisfies this.
type FraudLookup interface {
	FraudAgentUIDs(ctx context.Context) ([]string, error)
}

// Service defines property business logic.
type Service interface {
	Create(ctx context.Context, agent *shared.User, req CreatePropertyRequest) (*Property, error)
	GetByID(ctx context.Context, id string) (*Property, error)
	ListPublic(ctx context.Context, query ListQuery) ([]Property, error)
	ListAdvertisedPublic(ctx context.Context) ([]Property, error)
	ListLatestAdvertised(ctx context.Context, limit int64) ([]Property, error)
	SearchByLocation(ctx context.Context, location string) ([]Property, error)
	ListMine(ctx context.Context, agentUID string) ([]Property, error)
	Update(ctx context.Context, agentUID, id string, req UpdatePropertyRequest) (*Property, error)
	Delete(ctx context.Context, agentUID, id string) error
	// Admin operations.
	ListAll(ctx context.Context) ([]Property, error)
	ListAdvertisedAdmin(ctx context.Context) ([]Property, error)
	Verify(ctx context.Context, id string, status VerificationStatus) (*Property, error)
	Advertise(ctx context.Context, id string, isAdvertised bool) (*Property, error)
}

type service struct {
	repo   Repository
	fraud  FraudLookup
	logger *zap.Logger
}

// NewService creates a new property service.
func NewService(repo Repository, fraud FraudLookup, logger *zap.Logger) Service {
	return &service{repo: repo, fraud: fraud, logger: logger}
}

// Create publishes a new listing. Only non-fraud agents may publish, and every
// listing starts unverified and unadvertised.
func (s *service) Create(ctx context.Context, agent *shared.User, req CreatePropertyRequest) (*Property, error) {
	if agent.Role != common.RoleAgent {
		return nil, common.ErrForbidden.WithDetails("Only agents can add properties.")
	}
	if agent.IsFraud {
		return nil, common.ErrForbidden.WithDetails("Agent marked as fraud, cannot add property.")
	}

	id := database.NewID()
	now := time.Now()
	prop := &Property{
		ID:                 id,
		Title:              req.Title,
		Slug:               makeSlug(req.Title, id),
		Location:           req.Location,
		Image:              req.Image,
		Description:        req.Description,
		MinPrice:           req.MinPrice,
		MaxPrice:           req.MaxPrice,
		PriceRange:         formatPriceRange(req.MinPrice, req.MaxPrice),
		AgentUID:           agent.UID,
		AgentName:          agent.DisplayName,
		AgentEmail:         agent.Email,
		VerificationStatus: VerificationPending,
		IsAdvertised:       false,
		Status:             StatusActive,
		CreatedAt:          now,
	}
	if err := s.repo.Create(ctx, prop); err != nil {
		s.logger.Error("Failed to create property", zap.Error(err), zap.String("agentUid", agent.UID))
		return nil, err
	}

	s.logger.Info("Property created",
		zap.String("propertyID", prop.ID.String()),
		zap.String("title", prop.Title),
		zap.String("agentUid", agent.UID),
	)
	return prop, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Property, error) {
	if strings.TrimSpace(id) == "" || id == "undefined" {
		return nil, common.ErrBadRequest.WithDetails("Invalid property ID.")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListPublic(ctx context.Context, query ListQuery) ([]Property, error) {
	fraudUIDs, err := s.fraud.FraudAgentUIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindPublic(ctx, PublicListOptions{
		Search:           query.Search,
		Sort:             query.Sort,
		ExcludeAgentUIDs: fraudUIDs,
	})
}

func (s *service) ListAdvertisedPublic(ctx context.Context) ([]Property, error) {
	fraudUIDs, err := s.fraud.FraudAgentUIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindPublic(ctx, PublicListOptions{
		OnlyAdvertised:   true,
		ExcludeAgentUIDs: fraudUIDs,
	})
}

func (s *service) ListLatestAdvertised(ctx context.Context, limit int64) ([]Property, error) {
	if limit <= 0 {
		limit = 4
	}
	fraudUIDs, err := s.fraud.FraudAgentUIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindPublic(ctx, PublicListOptions{
		OnlyAdvertised:   true,
		Limit:            limit,
		ExcludeAgentUIDs: fraudUIDs,
	})
}

func (s *service) SearchByLocation(ctx context.Context, location string) ([]Property, error) {
	if strings.TrimSpace(location) == "" {
		return nil, common.ErrBadRequest.WithDetails("Location parameter is required.")
	}
	return s.ListPublic(ctx, ListQuery{Search: location})
}

func (s *service) ListMine(ctx context.Context, agentUID string) ([]Property, error) {
	return s.repo.FindByAgent(ctx, agentUID)
}

// Update edits a listing. Only the owning agent may edit, and rejected
// listings are frozen.
func (s *service) Update(ctx context.Context, agentUID, id string, req UpdatePropertyRequest) (*Property, error) {
	prop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prop.AgentUID != agentUID {
		return nil, common.ErrForbidden.WithDetails("Not authorized to update this property.")
	}
	if prop.VerificationStatus == VerificationRejected {
		return nil, common.ErrForbidden.WithDetails("Cannot update rejected property.")
	}

	now := time.Now()
	fields := bson.M{
		"title":       req.Title,
		"location":    req.Location,
		"description": req.Description,
		"minPrice":    req.MinPrice,
		"maxPrice":    req.MaxPrice,
		"priceRange":  formatPriceRange(req.MinPrice, req.MaxPrice),
		"updatedAt":   now,
	}
	if req.Image != "" {
		fields["image"] = req.Image
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, agentUID, id string) error {
	prop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if prop.AgentUID != agentUID {
		return common.ErrForbidden.WithDetails("Not authorized to delete this property.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Property deleted", zap.String("propertyID", id), zap.String("agentUid", agentUID))
	return nil
}

func (s *service) ListAll(ctx context.Context) ([]Property, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) ListAdvertisedAdmin(ctx context.Context) ([]Property, error) {
	return s.repo.FindAdvertised(ctx)
}

func (s *service) Verify(ctx context.Context, id string, status VerificationStatus) (*Property, error) {
	if status != VerificationVerified && status != VerificationRejected {
		return nil, common.ErrBadRequest.WithDetails("Invalid verification status.")
	}
	if err := s.repo.UpdateFields(ctx, id, bson.M{"verificationStatus": status}); err != nil {
		return nil, err
	}
	s.logger.Info("Property verification updated", zap.String("propertyID", id), zap.String("status", string(status)))
	return s.repo.FindByID(ctx, id)
}

func (s *service) Advertise(ctx context.Context, id string, isAdvertised bool) (*Property, error) {
	if err := s.repo.UpdateFields(ctx, id, bson.M{"isAdvertised": isAdvertised}); err != nil {
		return nil, err
	}
	s.logger.Info("Property advertise flag updated", zap.String("propertyID", id), zap.Bool("isAdvertised", isAdvertised))
	return s.repo.FindByID(ctx, id)
}

func makeSlug(title string, id database.ID) string {
	base := slug.Make(title)
	hex := id.String()
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return base + "-" + hex
}

// formatPriceRange renders the display string shown on listing cards.
func formatPriceRange(minPrice, maxPrice float64) string {
	switch {
	case minPrice > 0 && maxPrice > 0:
		return fmt.Sprintf("$%s - $%s", formatAmount(minPrice), formatAmount(maxPrice))
	case minPrice > 0:
		return fmt.Sprintf("From $%s", formatAmount(minPrice))
	case maxPrice > 0:
		return fmt.Sprintf("Up to $%s", formatAmount(maxPrice))
	default:
		return "Price on request"
	}
}

// formatAmount inserts thousands separators, e.g. 1250000 -> "1,250,000".
func formatAmount(v float64) string {
	whole := strconv.FormatFloat(v, 'f', 0, 64)
	negative := strings.HasPrefix(whole, "-")
	if negative {
		whole = whole[1:]
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
