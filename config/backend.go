package config

import (
	"strings"
)

type PaymentBackendKind string

const (
	PaymentMock PaymentBackendKind = "mock"
	PaymentLive PaymentBackendKind = "live"
)

// PaymentBackend is either Live(credentials) or Mock.
type PaymentBackend struct {
	Kind           PaymentBackendKind
	SecretKey      string
	PublishableKey string
}

// keys that ship in sample .env files and never authenticate
var placeholderKeys = []string{
	"your_secret_key",
	"sk_test_your",
	"sk_live_your",
	"changeme",
}

// ResolvePaymentBackend picks the live backend only for a usable secret key.
func ResolvePaymentBackend(secretKey, publishableKey string) PaymentBackend {
	secretKey = strings.TrimSpace(secretKey)
	if isPlaceholder(secretKey) {
		return PaymentBackend{Kind: PaymentMock, PublishableKey: publishableKey}
	}
	return PaymentBackend{
		Kind:           PaymentLive,
		SecretKey:      secretKey,
		PublishableKey: publishableKey,
	}
}

func isPlaceholder(key string) bool {
	if key == "" {
		return true
	}
	lower := strings.ToLower(key)
	for _, p := range placeholderKeys {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

type MailBackendKind string

const (
	MailDev      MailBackendKind = "dev"
	MailSMTP     MailBackendKind = "smtp"
	MailSendGrid MailBackendKind = "sendgrid"
	MailRemote   MailBackendKind = "remote"
)

type MailBackend struct {
	Kind     MailBackendKind
	Host     string
	Port     int
	User     string
	Password string
	From     string
	APIKey   string
	Endpoint string
}

// ResolveMailBackend prefers the remote notification endpoint, then the
// local transports of ResolveLocalMailBackend.
func ResolveMailBackend(cfg *Config) MailBackend {
	if cfg.NotifyEndpoint != "" {
		return MailBackend{
			Kind:     MailRemote,
			From:     cfg.MailFrom,
			Endpoint: strings.TrimRight(cfg.NotifyEndpoint, "/"),
		}
	}
	return ResolveLocalMailBackend(cfg)
}

// ResolveLocalMailBackend never returns MailRemote. It falls back to MailDev
// unless a transport has every credential it needs. A relay host without
// user/password is not enough.
func ResolveLocalMailBackend(cfg *Config) MailBackend {
	mb := MailBackend{Kind: MailDev, From: cfg.MailFrom}
	switch {
	case cfg.SendGridAPIKey != "":
		mb.Kind = MailSendGrid
		mb.APIKey = cfg.SendGridAPIKey
	case cfg.MailHost != "" && cfg.MailUser != "" && cfg.MailPassword != "":
		mb.Kind = MailSMTP
		mb.Host = cfg.MailHost
		mb.Port = cfg.MailPort
		mb.User = cfg.MailUser
		mb.Password = cfg.MailPassword
	}
	return mb
}
