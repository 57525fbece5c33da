// File: internal/payment/gateway.go
package payment

import "context"

// IntentStatusSucceeded is the gateway status for a completed charge.
const IntentStatusSucceeded = "succeeded"

// Intent is a charge at the payment provider.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Gateway is the charge-creation/confirmation interface to the payment
// provider. Amounts are integer minor units (cents).
type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
