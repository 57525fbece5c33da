// File: internal/review/service.go
package review

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/property"
	"realestate_backend/internal/shared"
)

// Service defines review business logic.
type Service interface {
	Add(ctx context.Context, reviewer *shared.User, req AddReviewRequest) (*Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]Review, error)
	ListMine(ctx context.Context, reviewerUID string) ([]Review, error)
	ListLatest(ctx context.Context, limit int64) ([]Review, error)
	ListAll(ctx context.Context) ([]Review, error)
	Delete(ctx context.Context, callerUID string, role common.Role, id string) error
}

type service struct {
	repo       Repository
	properties property.Repository
	logger     *zap.Logger
}

// NewService creates a new review service.
func NewService(repo Repository, properties property.Repository, logger *zap.Logger) Service {
	return &service{repo: repo, properties: properties, logger: logger}
}

// Add writes a review. Only buyer accounts review; agents and admins do not.
func (s *service) Add(ctx context.Context, reviewer *shared.User, req AddReviewRequest) (*Review, error) {
	if reviewer.Role != common.RoleUser {
		return nil, common.ErrForbidden.WithDetails("Only users can add reviews.")
	}

	prop, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	rev := &Review{
		ID:                database.NewID(),
		PropertyID:        req.PropertyID,
		PropertyTitle:     prop.Title,
		PropertyImage:     prop.Image,
		PropertyAgentUID:  prop.AgentUID,
		PropertyAgentName: prop.AgentName,
		ReviewerUID:       reviewer.UID,
		ReviewerName:      reviewer.DisplayName,
		ReviewerEmail:     reviewer.Email,
		ReviewerImage:     reviewer.PhotoURL,
		ReviewText:        req.ReviewText,
		CreatedAt:         time.Now(),
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	s.logger.Info("Review added",
		zap.String("reviewID", rev.ID.String()),
		zap.String("propertyID", rev.PropertyID),
		zap.String("reviewerUid", rev.ReviewerUID),
	)
	return rev, nil
}

func (s *service) ListByProperty(ctx context.Context, propertyID string) ([]Review, error) {
	if strings.TrimSpace(propertyID) == "" || propertyID == "undefined" {
		return nil, common.ErrBadRequest.WithDetails("Invalid property ID.")
	}
	return s.repo.FindByProperty(ctx, propertyID)
}

// ListMine returns the caller's reviews, backfilling the property image for
// older reviews written before images were snapshotted.
func (s *service) ListMine(ctx context.Context, reviewerUID string) ([]Review, error) {
	reviews, err := s.repo.FindByReviewer(ctx, reviewerUID)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].PropertyImage != "" || reviews[i].PropertyID == "" {
			continue
		}
		prop, err := s.properties.FindByID(ctx, reviews[i].PropertyID)
		if err != nil {
			continue
		}
		reviews[i].PropertyImage = prop.Image
	}
	return reviews, nil
}

func (s *service) ListLatest(ctx context.Context, limit int64) ([]Review, error) {
	if limit <= 0 {
		limit = 3
	}
	return s.repo.FindLatest(ctx, limit)
}

func (s *service) ListAll(ctx context.Context) ([]Review, error) {
	return s.repo.FindAll(ctx)
}

// Delete removes a review. Only the reviewer or an admin may delete it.
func (s *service) Delete(ctx context.Context, callerUID string, role common.Role, id string) error {
	rev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rev.ReviewerUID != callerUID && role != common.RoleAdmin {
		return common.ErrForbidden.WithDetails("Not authorized to delete this review.")
	}
	return s.repo.Delete(ctx, id)
}
