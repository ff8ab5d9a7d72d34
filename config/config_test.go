package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaymentBackend(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   PaymentBackendKind
	}{
		{"empty", "", PaymentMock},
		{"whitespace", "   ", PaymentMock},
		{"sample placeholder", "sk_test_your_secret_key_here", PaymentMock},
		{"placeholder any case", "YOUR_SECRET_KEY", PaymentMock},
		{"real looking key", "sk_test_51Habc123", PaymentLive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePaymentBackend(tt.secret, "pk_test_1")
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, "pk_test_1", got.PublishableKey)
			if tt.want == PaymentMock {
				assert.Empty(t, got.SecretKey)
			}
		})
	}
}

func TestResolveMailBackend(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want MailBackendKind
	}{
		{"nothing set", Config{}, MailDev},
		{"host only", Config{MailHost: "smtp.example.com"}, MailDev},
		{"host and user", Config{MailHost: "smtp.example.com", MailUser: "u"}, MailDev},
		{"full smtp", Config{MailHost: "smtp.example.com", MailUser: "u", MailPassword: "p", MailPort: 465}, MailSMTP},
		{"sendgrid", Config{SendGridAPIKey: "SG.x"}, MailSendGrid},
		{"remote wins", Config{NotifyEndpoint: "http://mailer:3000/", SendGridAPIKey: "SG.x"}, MailRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			got := ResolveMailBackend(&cfg)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestResolveLocalMailBackendSkipsRemote(t *testing.T) {
	cfg := Config{NotifyEndpoint: "http://localhost:3000", SendGridAPIKey: "SG.x"}
	assert.Equal(t, MailRemote, ResolveMailBackend(&cfg).Kind)
	assert.Equal(t, MailSendGrid, ResolveLocalMailBackend(&cfg).Kind)

	cfg = Config{NotifyEndpoint: "http://localhost:3000"}
	assert.Equal(t, MailDev, ResolveLocalMailBackend(&cfg).Kind)
}

func TestReadDefaults(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("PUBLIC_URL", "https://yglevel.test")

	cfg, err := Read()
	require.NoError(t, err)

	assert.Equal(t, "usd", cfg.CourseCurrency)
	assert.Equal(t, PaymentMock, cfg.Payment.Kind)
	assert.Equal(t, "https://yglevel.test/", cfg.PaymentReturnURL)
	assert.Equal(t, "@every 5m", cfg.SweepSchedule)
}
