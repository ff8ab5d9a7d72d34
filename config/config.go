package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string `env:"PORT" env-default:"3000"`
	JWTKey    string `env:"JWT_SECRET_KEY" env-default:"defaultSecret"`
	SaltRound int    `env:"SALT_ROUND" env-default:"10"`
	PublicURL string `env:"PUBLIC_URL" env-default:"http://localhost:3000"`

	DBDriver   string `env:"DB_DRIVER" env-default:"sqlite"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" env-default:"studio.db"`

	StripeSecretKey      string        `env:"STRIPE_SECRET_KEY"`
	StripePublishableKey string        `env:"STRIPE_PUBLISHABLE_KEY"`
	StripePriceID        string        `env:"STRIPE_PRICE_ID"`
	CourseCurrency       string        `env:"COURSE_CURRENCY" env-default:"usd"`
	PaymentReturnURL     string        `env:"PAYMENT_RETURN_URL"`
	MockConfirmDelay     time.Duration `env:"MOCK_CONFIRM_DELAY" env-default:"1500ms"`

	AdminEmail     string `env:"ADMIN_EMAIL" env-default:"admin@yglevel.studio"`
	AdminPassword  string `env:"ADMIN_PASSWORD"`
	MailHost       string `env:"EMAIL_SERVER_HOST"`
	MailPort       int    `env:"EMAIL_SERVER_PORT" env-default:"465"`
	MailUser       string `env:"EMAIL_SERVER_USER"`
	MailPassword   string `env:"EMAIL_SERVER_PASSWORD"`
	MailFrom       string `env:"EMAIL_FROM" env-default:"YG Level <no-reply@yglevel.studio>"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	NotifyEndpoint string `env:"NOTIFY_ENDPOINT"`

	TranslationsPath string        `env:"TRANSLATIONS_PATH"`
	AttemptTTL       time.Duration `env:"ATTEMPT_TTL" env-default:"30m"`
	SweepSchedule    string        `env:"SWEEP_SCHEDULE" env-default:"@every 5m"`

	// Resolved once in LoadConfig.
	Payment PaymentBackend
	Mail    MailBackend
	// LocalMail serves the notification endpoint itself.
	LocalMail MailBackend
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg, err := Read()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	AppConfig = cfg

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.Payment.Kind == PaymentMock {
		log.Println("Warning: no valid STRIPE_SECRET_KEY found. Payments run in mock mode.")
	}
	if AppConfig.Mail.Kind == MailDev {
		log.Println("Warning: mail transport not configured. Notifications are logged only.")
	}
}

// Read parses the environment into a Config and resolves the payment and
// mail backends. It does not touch AppConfig.
func Read() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Payment = ResolvePaymentBackend(cfg.StripeSecretKey, cfg.StripePublishableKey)
	cfg.Mail = ResolveMailBackend(cfg)
	cfg.LocalMail = ResolveLocalMailBackend(cfg)
	if cfg.PaymentReturnURL == "" {
		cfg.PaymentReturnURL = cfg.PublicURL + "/"
	}
	return cfg, nil
}
