// File: internal/wishlist/service.go
package wishlist

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/property"
)

// Service defines wishlist business logic.
type Service interface {
	Add(ctx context.Context, userID string, req AddRequest) (*Item, error)
	ListForUser(ctx context.Context, userID string) ([]ItemResponse, error)
	Remove(ctx context.Context, userID string, role common.Role, itemID string) error
	// PurgeForProperty removes every saved entry for a listing.
	PurgeForProperty(ctx context.Context, propertyID string) (int64, error)
}

type service struct {
	repo       Repository
	properties property.Repository
	logger     *zap.Logger
}

// NewService creates a new wishlist service.
func NewService(repo Repository, properties property.Repository, logger *zap.Logger) Service {
	return &service{repo: repo, properties: properties, logger: logger}
}

// Add saves a property to the caller's wishlist. Saving the same listing
// twice is a conflict.
func (s *service) Add(ctx context.Context, userID string, req AddRequest) (*Item, error) {
	if _, err := s.properties.FindByID(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUserAndProperty(ctx, userID, req.PropertyID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrConflict.WithDetails("Property already in wishlist.")
	}

	item := &Item{
		ID:         database.NewID(),
		UserID:     userID,
		PropertyID: req.PropertyID,
		AddedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListForUser returns the caller's wishlist populated with listing details.
// Entries whose property was sold or deleted are dropped from the result.
func (s *service) ListForUser(ctx context.Context, userID string) ([]ItemResponse, error) {
	items, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		prop, err := s.properties.FindByID(ctx, item.PropertyID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if prop.IsSold() {
			continue
		}
		responses = append(responses, ItemResponse{
			ID:                 item.ID,
			UserID:             item.UserID,
			PropertyID:         item.PropertyID,
			AddedAt:            item.AddedAt,
			PropertyDetails:    prop,
			VerificationStatus: prop.VerificationStatus,
			PropertyTitle:      prop.Title,
			PropertyLocation:   prop.Location,
			PriceRange:         prop.PriceRange,
			AgentName:          prop.AgentName,
			AgentEmail:         prop.AgentEmail,
			PropertyImage:      prop.Image,
			IsSold:             false,
		})
	}
	return responses, nil
}

// Remove deletes a wishlist entry. Only the owner or an admin may remove it.
func (s *service) Remove(ctx context.Context, userID string, role common.Role, itemID string) error {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID && role != common.RoleAdmin {
		return common.ErrForbidden.WithDetails("Not authorized to remove this wishlist item.")
	}
	return s.repo.Delete(ctx, itemID)
}

func (s *service) PurgeForProperty(ctx context.Context, propertyID string) (int64, error) {
	removed, err := s.repo.DeleteByProperty(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("Wishlist entries purged for property",
			zap.String("propertyID", propertyID),
			zap.Int64("removed", removed),
		)
	}
	return removed, nil
}
