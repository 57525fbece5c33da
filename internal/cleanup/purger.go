// File: internal/cleanup/purger.go

// Package cleanup removes everything an account owns across collections when
// the account is deleted.
package cleanup

import (
	"context"

	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/offer"
	"realestate_backend/internal/property"
	"realestate_backend/internal/review"
	"realestate_backend/internal/shared"
	"realestate_backend/internal/wishlist"
)

// Purger deletes user-owned records from every collection. Agents lose their
// listings; everyone loses their offers, reviews, and wishlist entries.
type Purger struct {
	properties property.Repository
	offers     offer.Repository
	reviews    review.Repository
	wishlists  wishlist.Repository
	logger     *zap.Logger
}

// NewPurger creates a new cross-collection purger.
func NewPurger(
	properties property.Repository,
	offers offer.Repository,
	reviews review.Repository,
	wishlists wishlist.Repository,
	logger *zap.Logger,
) *Purger {
	return &Purger{
		properties: properties,
		offers:     offers,
		reviews:    reviews,
		wishlists:  wishlists,
		logger:     logger,
	}
}

// PurgeUserData removes the account's listings (for agents), offers, reviews,
// and wishlist entries. The first failure aborts so the account record itself
// is not deleted while owned data remains.
func (p *Purger) PurgeUserData(ctx context.Context, usr *shared.User) error {
	if usr.Role == common.RoleAgent || usr.Role == common.RoleFraud {
		if err := p.properties.DeleteByAgent(ctx, usr.UID); err != nil {
			p.logger.Error("Purge: failed to delete agent properties", zap.Error(err), zap.String("uid", usr.UID))
			return err
		}
	}
	if err := p.offers.DeleteByBuyer(ctx, usr.UID); err != nil {
		p.logger.Error("Purge: failed to delete offers", zap.Error(err), zap.String("uid", usr.UID))
		return err
	}
	if err := p.reviews.DeleteByReviewer(ctx, usr.UID); err != nil {
		p.logger.Error("Purge: failed to delete reviews", zap.Error(err), zap.String("uid", usr.UID))
		return err
	}
	if err := p.wishlists.DeleteByUser(ctx, usr.UID); err != nil {
		p.logger.Error("Purge: failed to delete wishlist entries", zap.Error(err), zap.String("uid", usr.UID))
		return err
	}

	p.logger.Info("User data purged", zap.String("uid", usr.UID), zap.String("role", usr.Role.String()))
	return nil
}
