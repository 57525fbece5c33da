// File: internal/payment/service.go
package payment

import (
	"context"
	"math"

	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/config"
	"realestate_backend/internal/offer"
	"realestate_backend/internal/shared"
)

// CreateIntentRequest is the payload for starting a payment.
type CreateIntentRequest struct {
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	OfferID string  `json:"offerId" binding:"required"`
}

// CreateIntentResponse carries the client-side handle for the created charge.
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// ConfirmRequest is the payload for confirming a completed payment.
type ConfirmRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	OfferID         string `json:"offerId" binding:"required"`
}

// Service defines payment business logic.
type Service interface {
	CreateIntent(ctx context.Context, buyer *shared.User, req CreateIntentRequest) (*CreateIntentResponse, error)
	Confirm(ctx context.Context, req ConfirmRequest) (*offer.Offer, error)
}

type service struct {
	gateway  Gateway
	offers   offer.Service
	currency string
	logger   *zap.Logger
}

// NewService creates a new payment service.
func NewService(gateway Gateway, offers offer.Service, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		gateway:  gateway,
		offers:   offers,
		currency: cfg.PaymentCurrency,
		logger:   logger,
	}
}

// CreateIntent opens a gateway charge for an accepted offer. The amount is
// converted to integer minor units; the charge is tagged with the offer and
// buyer so confirmations can be traced back.
func (s *service) CreateIntent(ctx context.Context, buyer *shared.User, req CreateIntentRequest) (*CreateIntentResponse, error) {
	off, err := s.offers.GetByID(ctx, req.OfferID)
	if err != nil {
		return nil, err
	}
	if off.Status != offer.StatusAccepted {
		return nil, common.ErrBadRequest.WithDetails("Only accepted offers can be paid for.")
	}
	if off.BuyerEmail != buyer.Email {
		return nil, common.ErrForbidden.WithDetails("Unauthorized to pay for this offer.")
	}

	amountCents := int64(math.Round(req.Amount * 100))
	metadata := map[string]string{
		"offerId":       req.OfferID,
		"userId":        buyer.UID,
		"propertyTitle": off.PropertyTitle,
		"buyerEmail":    off.BuyerEmail,
	}

	intent, err := s.gateway.CreateIntent(ctx, amountCents, s.currency, metadata)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment intent created",
		zap.String("paymentIntentID", intent.ID),
		zap.String("offerID", req.OfferID),
		zap.Int64("amountCents", amountCents),
	)
	return &CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

// Confirm verifies the charge with the gateway and, if it succeeded, completes
// the sale. Completion marks the offer bought and runs the sale cascade.
func (s *service) Confirm(ctx context.Context, req ConfirmRequest) (*offer.Offer, error) {
	intent, err := s.gateway.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != IntentStatusSucceeded {
		return nil, common.ErrBadRequest.WithDetails("Payment not completed.")
	}

	off, err := s.offers.CompleteSale(ctx, req.OfferID, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment confirmed",
		zap.String("paymentIntentID", req.PaymentIntentID),
		zap.String("offerID", req.OfferID),
		zap.String("propertyID", off.PropertyID),
	)
	return off, nil
}
