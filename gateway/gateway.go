// Package gateway wraps the payment processor behind a small interface
// with a live (Stripe) and a local mock implementation.
package gateway

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"studio/config"
)

type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

type Status string

const (
	StatusRequiresPaymentMethod Status = "requires_payment_method"
	StatusRequiresConfirmation  Status = "requires_confirmation"
	StatusRequiresAction        Status = "requires_action"
	StatusProcessing            Status = "processing"
	StatusSucceeded             Status = "succeeded"
	StatusFailed                Status = "failed"
	StatusCanceled              Status = "canceled"
)

type IntentRequest struct {
	Amount   decimal.Decimal
	Currency string
	Metadata map[string]string
}

// Intent is a snapshot of a processor-side payment intent.
type Intent struct {
	ID            string `json:"id"`
	ClientSecret  string `json:"-"`
	Amount        int64  `json:"amount"` // minor units
	Currency      string `json:"currency"`
	Mode          Mode   `json:"mode"`
	Status        Status `json:"status"`
	NextActionURL string `json:"nextActionUrl,omitempty"`
}

type BillingDetails struct {
	Name  string
	Email string
	Phone string
}

type ConfirmRequest struct {
	ClientSecret    string
	PaymentMethodID string
	Billing         BillingDetails
	ReturnURL       string
}

type CheckoutRequest struct {
	PriceID string
	Origin  string
}

type Gateway interface {
	Mode() Mode
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
	RetrieveIntent(ctx context.Context, id string) (Intent, error)
	ConfirmIntent(ctx context.Context, req ConfirmRequest) (Intent, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
}

// New returns the gateway for the backend resolved at startup.
func New(backend config.PaymentBackend, mockDelay time.Duration) Gateway {
	if backend.Kind == config.PaymentLive {
		log.Println("[GATEWAY] using live Stripe backend")
		return NewStripe(backend.SecretKey)
	}
	log.Println("[GATEWAY] using mock payment backend")
	return NewMock(mockDelay)
}

// IntentIDFromSecret extracts "pi_123" from a secret shaped "pi_123_secret_abc".
func IntentIDFromSecret(secret string) string {
	if i := strings.Index(secret, "_secret_"); i > 0 {
		return secret[:i]
	}
	return ""
}
