// File: internal/payment/stripe.go
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"realestate_backend/internal/common"
	"realestate_backend/internal/config"
)

// stripeGateway talks to the Stripe REST API directly with form-encoded
// requests. Kept to the two payment-intent calls the engine needs.
type stripeGateway struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewStripeGateway creates the Stripe-backed payment gateway.
func NewStripeGateway(cfg *config.Config, logger *zap.Logger) Gateway {
	return &stripeGateway{
		baseURL:   strings.TrimRight(cfg.StripeAPIBaseURL, "/"),
		secretKey: cfg.StripeSecretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *stripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var resp stripeIntentResponse
	if err := g.do(ctx, http.MethodPost, "/v1/payment_intents", form, &resp); err != nil {
		return nil, err
	}
	return &Intent{ID: resp.ID, ClientSecret: resp.ClientSecret, Status: resp.Status}, nil
}

func (g *stripeGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	var resp stripeIntentResponse
	if err := g.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &Intent{ID: resp.ID, ClientSecret: resp.ClientSecret, Status: resp.Status}, nil
}

func (g *stripeGateway) do(ctx context.Context, method, path string, form url.Values, out *stripeIntentResponse) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	httpResp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Error("Payment gateway request failed", zap.Error(err), zap.String("path", path))
		return common.ErrUpstream.WithDetails("Unable to connect to payment service. Please try again later.")
	}
	defer httpResp.Body.Close()

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		g.logger.Error("Payment gateway returned malformed response", zap.Error(err), zap.String("path", path))
		return common.ErrUpstream.WithDetails("Payment service error. Please try again.")
	}

	if httpResp.StatusCode >= 400 || out.Error != nil {
		message := "Payment service error. Please try again."
		if out.Error != nil {
			g.logger.Error("Payment gateway rejected request",
				zap.Int("status", httpResp.StatusCode),
				zap.String("errorType", out.Error.Type),
				zap.String("errorMessage", out.Error.Message),
				zap.String("path", path),
			)
			if out.Error.Type == "invalid_request_error" {
				message = out.Error.Message
			}
		} else {
			g.logger.Error("Payment gateway returned error status",
				zap.Int("status", httpResp.StatusCode),
				zap.String("path", path),
			)
		}
		return common.ErrUpstream.WithDetails(message)
	}

	return nil
}
