package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/config"
	"realestate_backend/internal/offer"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/shared"
)

// fakeGateway records the charge requests it receives.
type fakeGateway struct {
	lastAmountCents int64
	lastCurrency    string
	lastMetadata    map[string]string
	createErr       error

	intents map[string]*Intent
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastAmountCents = amountCents
	g.lastCurrency = currency
	g.lastMetadata = metadata
	return &Intent{ID: "pi_test_1", ClientSecret: "pi_test_1_secret", Status: "requires_payment_method"}, nil
}

func (g *fakeGateway) RetrieveIntent(_ context.Context, id string) (*Intent, error) {
	if intent, ok := g.intents[id]; ok {
		return intent, nil
	}
	return nil, common.ErrUpstream.WithDetails("No such payment intent.")
}

// fakeOfferService serves a fixed set of offers and records completions.
type fakeOfferService struct {
	offers    map[string]*offer.Offer
	completed []string
}

func (s *fakeOfferService) GetByID(_ context.Context, id string) (*offer.Offer, error) {
	if off, ok := s.offers[id]; ok {
		return off, nil
	}
	return nil, common.ErrNotFound.WithDetails("Offer not found.")
}

func (s *fakeOfferService) CompleteSale(_ context.Context, offerID, transactionID string) (*offer.Offer, error) {
	off, ok := s.offers[offerID]
	if !ok {
		return nil, common.ErrNotFound.WithDetails("Offer not found.")
	}
	if off.Status != offer.StatusAccepted {
		return nil, common.ErrConflict.WithDetails("Only accepted offers can be paid for.")
	}
	now := time.Now()
	off.Status = offer.StatusBought
	off.TransactionID = transactionID
	off.PaidAt = &now
	s.completed = append(s.completed, offerID)
	return off, nil
}

func (s *fakeOfferService) Make(_ context.Context, _ *shared.User, _ offer.MakeOfferRequest) (*offer.Offer, error) {
	panic("not used")
}
func (s *fakeOfferService) ListMine(_ context.Context, _ string) ([]offer.Offer, error) {
	panic("not used")
}
func (s *fakeOfferService) ListBought(_ context.Context, _ *shared.User) (*offer.BoughtSummary, error) {
	panic("not used")
}
func (s *fakeOfferService) ListRequestedForAgent(_ context.Context, _ *shared.User) ([]offer.Offer, error) {
	panic("not used")
}
func (s *fakeOfferService) ListSoldForAgent(_ context.Context, _ *shared.User) ([]offer.Offer, error) {
	panic("not used")
}
func (s *fakeOfferService) TotalSoldAmountForAgent(_ context.Context, _ *shared.User) (float64, error) {
	panic("not used")
}
func (s *fakeOfferService) Respond(_ context.Context, _ *shared.User, _, _ string) (*offer.Offer, error) {
	panic("not used")
}
func (s *fakeOfferService) Cancel(_ context.Context, _, _ string) error { panic("not used") }
func (s *fakeOfferService) MarkBought(_ context.Context, _, _, _ string) (*offer.Offer, error) {
	panic("not used")
}
func (s *fakeOfferService) ReconcileSales(_ context.Context) (int, error) { panic("not used") }

type paymentFixture struct {
	gateway *fakeGateway
	offers  *fakeOfferService
	svc     Service
}

func newPaymentFixture() *paymentFixture {
	gateway := &fakeGateway{intents: map[string]*Intent{}}
	offers := &fakeOfferService{offers: map[string]*offer.Offer{}}
	cfg := &config.Config{PaymentCurrency: "usd"}
	svc := NewService(gateway, offers, cfg, zap.NewNop())
	return &paymentFixture{gateway: gateway, offers: offers, svc: svc}
}

func (f *paymentFixture) addOffer(id string, status offer.Status, buyerEmail string) *offer.Offer {
	off := &offer.Offer{
		ID:            database.ParseID(id),
		PropertyID:    "property1",
		PropertyTitle: "Lakefront Villa",
		BuyerUID:      "buyer-1",
		BuyerEmail:    buyerEmail,
		OfferedAmount: 500000,
		Status:        status,
		CreatedAt:     time.Now(),
	}
	f.offers.offers[id] = off
	return off
}

func TestCreateIntent(t *testing.T) {
	ctx := context.Background()
	payer := &shared.User{UID: "buyer-1", Email: "buyer@example.com", Role: common.RoleUser}

	t.Run("charges the offered amount in minor units", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusAccepted, "buyer@example.com")

		resp, err := f.svc.CreateIntent(ctx, payer, CreateIntentRequest{Amount: 500000, OfferID: "offer1"})
		require.NoError(t, err)
		assert.Equal(t, "pi_test_1", resp.PaymentIntentID)
		assert.Equal(t, "pi_test_1_secret", resp.ClientSecret)
		assert.Equal(t, int64(50000000), f.gateway.lastAmountCents)
		assert.Equal(t, "usd", f.gateway.lastCurrency)
	})

	t.Run("fractional amounts round to the nearest cent", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusAccepted, "buyer@example.com")

		_, err := f.svc.CreateIntent(ctx, payer, CreateIntentRequest{Amount: 1234.565, OfferID: "offer1"})
		require.NoError(t, err)
		assert.Equal(t, int64(123457), f.gateway.lastAmountCents)
	})

	t.Run("tags the charge with offer and buyer metadata", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusAccepted, "buyer@example.com")

		_, err := f.svc.CreateIntent(ctx, payer, CreateIntentRequest{Amount: 500000, OfferID: "offer1"})
		require.NoError(t, err)
		assert.Equal(t, "offer1", f.gateway.lastMetadata["offerId"])
		assert.Equal(t, "buyer-1", f.gateway.lastMetadata["userId"])
		assert.Equal(t, "Lakefront Villa", f.gateway.lastMetadata["propertyTitle"])
		assert.Equal(t, "buyer@example.com", f.gateway.lastMetadata["buyerEmail"])
	})

	t.Run("only accepted offers can be paid for", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusPending, "buyer@example.com")

		_, err := f.svc.CreateIntent(ctx, payer, CreateIntentRequest{Amount: 500000, OfferID: "offer1"})
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, common.ErrBadRequest.Code, apiErr.Code)
	})

	t.Run("only the offer's buyer may pay", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusAccepted, "someone-else@example.com")

		_, err := f.svc.CreateIntent(ctx, payer, CreateIntentRequest{Amount: 500000, OfferID: "offer1"})
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	})

	t.Run("gateway failures surface to the caller", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusAccepted, "buyer@example.com")
		f.gateway.createErr = common.ErrUpstream.WithDetails("Payment processing failed.")

		_, err := f.svc.CreateIntent(ctx, payer, CreateIntentRequest{Amount: 500000, OfferID: "offer1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrUpstream)
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeded charge completes the sale", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusAccepted, "buyer@example.com")
		f.gateway.intents["pi_1"] = &Intent{ID: "pi_1", Status: IntentStatusSucceeded}

		off, err := f.svc.Confirm(ctx, ConfirmRequest{PaymentIntentID: "pi_1", OfferID: "offer1"})
		require.NoError(t, err)
		assert.Equal(t, offer.StatusBought, off.Status)
		assert.Equal(t, "pi_1", off.TransactionID)
		assert.Equal(t, []string{"offer1"}, f.offers.completed)
	})

	t.Run("unfinished charge does not complete the sale", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusAccepted, "buyer@example.com")
		f.gateway.intents["pi_1"] = &Intent{ID: "pi_1", Status: "requires_payment_method"}

		_, err := f.svc.Confirm(ctx, ConfirmRequest{PaymentIntentID: "pi_1", OfferID: "offer1"})
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, common.ErrBadRequest.Code, apiErr.Code)
		assert.Empty(t, f.offers.completed)
	})

	t.Run("unknown intent fails the confirmation", func(t *testing.T) {
		f := newPaymentFixture()
		f.addOffer("offer1", offer.StatusAccepted, "buyer@example.com")

		_, err := f.svc.Confirm(ctx, ConfirmRequest{PaymentIntentID: "pi_missing", OfferID: "offer1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrUpstream)
	})
}
