package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mock simulates the processor locally. It never makes network calls and
// every confirmation succeeds after a fixed delay.
type Mock struct {
	delay    time.Duration
	newToken func() string
}

func NewMock(delay time.Duration) *Mock {
	return &Mock{
		delay:    delay,
		newToken: func() string { return uuid.NewString() },
	}
}

func (m *Mock) Mode() Mode {
	return ModeMock
}

func (m *Mock) CreateIntent(_ context.Context, req IntentRequest) (Intent, error) {
	amount, err := ToMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return Intent{}, &GatewayError{Op: "create", Err: err}
	}
	currency, _ := NormalizeCurrency(req.Currency)

	first := m.newToken()
	second := m.newToken()
	for second == first {
		second = m.newToken()
	}
	secret := fmt.Sprintf("mock_%s_secret_%s", first, second)

	log.Printf("[GATEWAY] mock intent created (amount=%d %s)", amount, currency)
	return Intent{
		ID:           "mock_" + first,
		ClientSecret: secret,
		Amount:       amount,
		Currency:     currency,
		Mode:         ModeMock,
		Status:       StatusRequiresPaymentMethod,
	}, nil
}

func (m *Mock) RetrieveIntent(_ context.Context, id string) (Intent, error) {
	return Intent{
		ID:       id,
		Amount:   0,
		Currency: "usd",
		Mode:     ModeMock,
		Status:   StatusSucceeded,
	}, nil
}

// ConfirmIntent waits the simulated delay and reports success. A cancelled
// context aborts the wait.
func (m *Mock) ConfirmIntent(ctx context.Context, req ConfirmRequest) (Intent, error) {
	if !strings.HasPrefix(req.ClientSecret, "mock_") {
		return Intent{}, &GatewayError{Op: "confirm", Err: ErrInvalidSecret}
	}

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Intent{}, &GatewayError{Op: "confirm", Err: ctx.Err()}
		case <-timer.C:
		}
	}

	return Intent{
		ID:           IntentIDFromSecret(req.ClientSecret),
		ClientSecret: req.ClientSecret,
		Mode:         ModeMock,
		Status:       StatusSucceeded,
	}, nil
}

func (m *Mock) CreateCheckoutSession(_ context.Context, req CheckoutRequest) (string, error) {
	origin := strings.TrimRight(req.Origin, "/")
	return fmt.Sprintf("%s/success?session_id=mock_cs_%s", origin, m.newToken()), nil
}
