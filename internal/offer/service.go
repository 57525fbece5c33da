// File: internal/offer/service.go
package offer

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/property"
	"realestate_backend/internal/shared"
	"realestate_backend/internal/wishlist"
)

// ErrDuplicateOffer is returned when a buyer already holds a pending or
// accepted offer on the property.
var ErrDuplicateOffer = common.NewAPIError(http.StatusBadRequest, "DUPLICATE_OFFER", "You already have an active offer for this property.")

// State-guard failures on the respond and pay paths surface as 400 to the
// client, keeping the CONFLICT code for error matching.
var (
	errAlreadyResponded = common.NewAPIError(http.StatusBadRequest, "CONFLICT", "Offer already responded.")
	errNotAccepted      = common.NewAPIError(http.StatusBadRequest, "CONFLICT", "Offer not accepted yet.")
)

// Service is the offer lifecycle engine. It owns the pending -> accepted ->
// bought state machine and the cascades that keep offers, properties, and
// wishlists consistent with each other.
type Service interface {
	Make(ctx context.Context, buyer *shared.User, req MakeOfferRequest) (*Offer, error)
	GetByID(ctx context.Context, id string) (*Offer, error)
	ListMine(ctx context.Context, buyerUID string) ([]Offer, error)
	ListBought(ctx context.Context, buyer *shared.User) (*BoughtSummary, error)
	ListRequestedForAgent(ctx context.Context, agent *shared.User) ([]Offer, error)
	ListSoldForAgent(ctx context.Context, agent *shared.User) ([]Offer, error)
	TotalSoldAmountForAgent(ctx context.Context, agent *shared.User) (float64, error)
	Respond(ctx context.Context, agent *shared.User, offerID, action string) (*Offer, error)
	Cancel(ctx context.Context, buyerUID, offerID string) error
	MarkBought(ctx context.Context, buyerUID, offerID, transactionID string) (*Offer, error)
	CompleteSale(ctx context.Context, offerID, transactionID string) (*Offer, error)
	ReconcileSales(ctx context.Context) (int, error)
}

type service struct {
	repo       Repository
	properties property.Repository
	wishlists  wishlist.Service
	logger     *zap.Logger
}

// NewService creates the offer lifecycle engine.
func NewService(repo Repository, properties property.Repository, wishlists wishlist.Service, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		properties: properties,
		wishlists:  wishlists,
		logger:     logger,
	}
}

// Make submits a new offer. Only buyer accounts may offer, the listing must
// still be open, and a buyer may hold at most one pending or accepted offer
// per property.
func (s *service) Make(ctx context.Context, buyer *shared.User, req MakeOfferRequest) (*Offer, error) {
	if buyer.Role != common.RoleUser {
		return nil, common.ErrForbidden.WithDetails("Only users can make offers.")
	}

	prop, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop.IsSold() {
		return nil, common.ErrConflict.WithDetails("Property has already been sold.")
	}

	existing, err := s.repo.FindActiveByBuyerAndProperty(ctx, buyer.UID, req.PropertyID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateOffer
	}

	off := &Offer{
		ID:               database.NewID(),
		PropertyID:       req.PropertyID,
		PropertyTitle:    fallback(req.PropertyTitle, prop.Title),
		PropertyLocation: fallback(req.PropertyLocation, prop.Location),
		PropertyImage:    fallback(req.PropertyImage, prop.Image),
		AgentUID:         prop.AgentUID,
		AgentName:        fallback(req.AgentName, prop.AgentName),
		AgentEmail:       fallback(req.AgentEmail, prop.AgentEmail),
		BuyerUID:         buyer.UID,
		BuyerEmail:       fallback(req.BuyerEmail, buyer.Email),
		BuyerName:        fallback(req.BuyerName, buyer.DisplayName),
		OfferedAmount:    req.OfferedAmount,
		BuyingDate:       req.BuyingDate,
		Status:           StatusPending,
		CreatedAt:        time.Now(),
	}
	if err := s.repo.Create(ctx, off); err != nil {
		s.logger.Error("Failed to create offer", zap.Error(err), zap.String("buyerUid", buyer.UID))
		return nil, err
	}

	s.logger.Info("Offer created",
		zap.String("offerID", off.ID.String()),
		zap.String("propertyID", off.PropertyID),
		zap.String("buyerUid", off.BuyerUID),
		zap.Float64("offeredAmount", off.OfferedAmount),
	)
	return off, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Offer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListMine(ctx context.Context, buyerUID string) ([]Offer, error) {
	return s.repo.FindByBuyer(ctx, buyerUID)
}

func (s *service) ListBought(ctx context.Context, buyer *shared.User) (*BoughtSummary, error) {
	offers, err := s.repo.FindBoughtByBuyer(ctx, buyer.UID, buyer.Email)
	if err != nil {
		return nil, err
	}
	summary := &BoughtSummary{
		Properties:     offers,
		TotalPurchases: len(offers),
	}
	for _, off := range offers {
		summary.TotalSpent += off.OfferedAmount
	}
	return summary, nil
}

// ListRequestedForAgent returns the full offer history on the agent's
// listings, pending offers first, newest first within each group.
func (s *service) ListRequestedForAgent(ctx context.Context, agent *shared.User) ([]Offer, error) {
	offers, err := s.repo.FindByAgent(ctx, agent.UID, agent.Email)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(offers, func(i, j int) bool {
		iPending := offers[i].Status == StatusPending
		jPending := offers[j].Status == StatusPending
		if iPending != jPending {
			return iPending
		}
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}

func (s *service) ListSoldForAgent(ctx context.Context, agent *shared.User) ([]Offer, error) {
	return s.repo.FindSoldByAgent(ctx, agent.UID, agent.Email)
}

func (s *service) TotalSoldAmountForAgent(ctx context.Context, agent *shared.User) (float64, error) {
	return s.repo.TotalSoldAmountByAgent(ctx, agent.UID, agent.Email)
}

// Respond applies the agent's accept or reject decision. Accepting an offer
// rejects every competitor that is not already accepted or bought, so at most
// one accepted offer exists per property after the call.
func (s *service) Respond(ctx context.Context, agent *shared.User, offerID, action string) (*Offer, error) {
	if offerID == "" || offerID == "undefined" {
		return nil, common.ErrBadRequest.WithDetails("Invalid offer ID.")
	}

	off, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if off.AgentEmail != agent.Email {
		return nil, common.ErrForbidden.WithDetails("Not authorized to respond to this offer.")
	}
	// Re-read just happened above; the status check must run against this
	// read, not anything cached by the caller.
	if off.Status != StatusPending {
		return nil, errAlreadyResponded
	}

	prop, err := s.properties.FindByID(ctx, off.PropertyID)
	if err == nil && prop.IsSold() {
		return nil, common.ErrConflict.WithDetails("Property has already been sold.")
	}

	switch action {
	case "accept":
		if err := s.repo.UpdateFields(ctx, offerID, bson.M{"status": StatusAccepted}); err != nil {
			return nil, err
		}
		rejected, err := s.repo.RejectOthers(ctx, off.PropertyID, off.ID, false, "")
		if err != nil {
			// The accept itself is committed; competitors are swept again by
			// the reconciliation job if this write failed.
			s.logger.Error("Failed to reject competing offers after accept",
				zap.Error(err),
				zap.String("offerID", offerID),
				zap.String("propertyID", off.PropertyID),
			)
		} else {
			s.logger.Info("Offer accepted",
				zap.String("offerID", offerID),
				zap.String("propertyID", off.PropertyID),
				zap.Int64("competitorsRejected", rejected),
			)
		}
	case "reject":
		if err := s.repo.UpdateFields(ctx, offerID, bson.M{"status": StatusRejected}); err != nil {
			return nil, err
		}
		s.logger.Info("Offer rejected", zap.String("offerID", offerID), zap.String("propertyID", off.PropertyID))
	default:
		return nil, common.ErrBadRequest.WithDetails("Invalid action.")
	}

	return s.repo.FindByID(ctx, offerID)
}

// Cancel deletes the buyer's own offer while it is still pending. The
// pending-only guard is part of the delete filter, so there is no window
// between check and removal.
func (s *service) Cancel(ctx context.Context, buyerUID, offerID string) error {
	if err := s.repo.DeletePendingByIDAndBuyer(ctx, offerID, buyerUID); err != nil {
		return err
	}
	s.logger.Info("Offer cancelled", zap.String("offerID", offerID), zap.String("buyerUid", buyerUID))
	return nil
}

// MarkBought is the legacy pay path: the buyer supplies a transaction id
// directly instead of going through gateway confirmation. Kept for
// compatibility with older clients.
func (s *service) MarkBought(ctx context.Context, buyerUID, offerID, transactionID string) (*Offer, error) {
	off, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if off.BuyerUID != buyerUID {
		return nil, common.ErrForbidden.WithDetails("Not authorized to pay for this offer.")
	}
	if off.Status != StatusAccepted {
		return nil, errNotAccepted
	}

	now := time.Now()
	fields := bson.M{
		"status":        StatusBought,
		"transactionId": transactionID,
		"paidAt":        now,
	}
	if err := s.repo.UpdateFields(ctx, offerID, fields); err != nil {
		return nil, err
	}

	off.Status = StatusBought
	off.TransactionID = transactionID
	off.PaidAt = &now
	s.finalizeSale(ctx, off)
	return s.repo.FindByID(ctx, offerID)
}

// CompleteSale transitions an accepted offer to bought after the gateway has
// confirmed the charge, then runs the sale cascade. The status write is
// fatal; cascade failures are logged and recovered since the money has
// already moved.
func (s *service) CompleteSale(ctx context.Context, offerID, transactionID string) (*Offer, error) {
	off, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if off.Status == StatusBought && off.TransactionID == transactionID {
		// Confirmation retried; nothing left to do beyond re-running the
		// cascade in case an earlier attempt died partway.
		s.finalizeSale(ctx, off)
		return off, nil
	}
	if off.Status != StatusAccepted {
		return nil, common.ErrConflict.WithDetails("Only accepted offers can be paid for.")
	}

	now := time.Now()
	fields := bson.M{
		"status":        StatusBought,
		"transactionId": transactionID,
		"paidAt":        now,
	}
	if err := s.repo.UpdateFields(ctx, offerID, fields); err != nil {
		return nil, err
	}

	off.Status = StatusBought
	off.TransactionID = transactionID
	off.PaidAt = &now
	s.finalizeSale(ctx, off)

	s.logger.Info("Sale completed",
		zap.String("offerID", offerID),
		zap.String("propertyID", off.PropertyID),
		zap.String("transactionID", transactionID),
	)
	return off, nil
}

// finalizeSale runs the post-sale cascade in a fixed order: mark the property
// sold, reject remaining pending offers, purge wishlist entries. Every step
// is independently logged and recovered; the reconciliation sweep retries
// whatever failed here.
func (s *service) finalizeSale(ctx context.Context, off *Offer) {
	if err := s.properties.MarkSold(ctx, off.PropertyID, off.BuyerEmail, time.Now()); err != nil {
		s.logger.Error("Sale cascade: failed to mark property sold",
			zap.Error(err),
			zap.String("offerID", off.ID.String()),
			zap.String("propertyID", off.PropertyID),
		)
	}

	if rejected, err := s.repo.RejectOthers(ctx, off.PropertyID, off.ID, true, RejectedReasonSold); err != nil {
		s.logger.Error("Sale cascade: failed to reject pending offers",
			zap.Error(err),
			zap.String("propertyID", off.PropertyID),
		)
	} else if rejected > 0 {
		s.logger.Info("Sale cascade: pending offers rejected",
			zap.String("propertyID", off.PropertyID),
			zap.Int64("rejected", rejected),
		)
	}

	if _, err := s.wishlists.PurgeForProperty(ctx, off.PropertyID); err != nil {
		s.logger.Error("Sale cascade: failed to purge wishlist entries",
			zap.Error(err),
			zap.String("propertyID", off.PropertyID),
		)
	}
}

// ReconcileSales sweeps every bought offer and re-applies the sale cascade
// where a previous run failed partway: the property is still open, pending
// competitors survive, or wishlist entries still reference the property.
// Returns how many sales needed repair.
func (s *service) ReconcileSales(ctx context.Context) (int, error) {
	bought, err := s.repo.FindAllBought(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for i := range bought {
		off := &bought[i]

		prop, err := s.properties.FindByID(ctx, off.PropertyID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			s.logger.Error("Reconcile: failed to load property",
				zap.Error(err),
				zap.String("propertyID", off.PropertyID),
			)
			continue
		}

		pending, err := s.repo.FindPendingByProperty(ctx, off.PropertyID)
		if err != nil {
			s.logger.Error("Reconcile: failed to list pending offers",
				zap.Error(err),
				zap.String("propertyID", off.PropertyID),
			)
			continue
		}

		if prop.IsSold() && len(pending) == 0 {
			continue
		}

		s.logger.Warn("Reconcile: repairing incomplete sale cascade",
			zap.String("offerID", off.ID.String()),
			zap.String("propertyID", off.PropertyID),
			zap.Bool("propertySold", prop.IsSold()),
			zap.Int("pendingCompetitors", len(pending)),
		)
		s.finalizeSale(ctx, off)
		repaired++
	}
	return repaired, nil
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}
