// Package services wires the domain components once at startup and exposes
// them to the HTTP handlers.
package services

import (
	"fmt"

	"gorm.io/gorm"

	"studio/catalog"
	"studio/config"
	"studio/database"
	"studio/enrollment"
	"studio/gateway"
	"studio/i18n"
	"studio/notify"
)

type Services struct {
	Config   *config.Config
	Text     *i18n.Store
	Catalog  *catalog.Catalog
	Gateway  gateway.Gateway
	Notifier notify.Dispatcher
	// LocalNotifier serves POST /api/send-admin-notification. It is never
	// the remote backend, so the endpoint cannot forward to itself.
	LocalNotifier notify.Dispatcher
	Orchestrator  *enrollment.Orchestrator
	Recorder      *database.Recorder
}

// App is the process-wide instance used by the controllers.
var App *Services

// New builds every component from cfg. db may be nil, in which case
// attempts are not persisted.
func New(cfg *config.Config, db *gorm.DB) (*Services, error) {
	text, err := i18n.Load(cfg.TranslationsPath)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	s := &Services{
		Config:   cfg,
		Text:     text,
		Catalog:  catalog.New(text, cfg.CourseCurrency),
		Gateway:  gateway.New(cfg.Payment, cfg.MockConfirmDelay),
		Notifier: notify.New(cfg.Mail),
	}
	s.LocalNotifier = s.Notifier
	if cfg.Mail.Kind == config.MailRemote {
		s.LocalNotifier = notify.New(cfg.LocalMail)
	}

	opts := enrollment.Options{
		ReturnURL:  cfg.PaymentReturnURL,
		AdminEmail: cfg.AdminEmail,
	}
	if db != nil {
		s.Recorder = database.NewRecorder(db)
		opts.Recorder = s.Recorder
	}
	s.Orchestrator = enrollment.New(s.Gateway, s.Notifier, s.Catalog, s.Text, opts)
	return s, nil
}

// Init builds the services and stores them in App.
func Init(cfg *config.Config, db *gorm.DB) error {
	s, err := New(cfg, db)
	if err != nil {
		return err
	}
	App = s
	return nil
}
