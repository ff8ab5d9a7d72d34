// Package notify sends the admin email that announces a confirmed
// enrollment. Sending is best-effort: callers log failures and move on.
package notify

import (
	"context"
	"fmt"
	"log"

	"studio/config"
)

// EnrollmentNotification is the payload of one admin notification. The JSON
// shape is the body accepted by POST /api/send-admin-notification.
type EnrollmentNotification struct {
	To            string `json:"to" validate:"required,email"`
	Subject       string `json:"subject" validate:"required"`
	CourseTitle   string `json:"courseTitle"`
	CoursePrice   string `json:"coursePrice"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
}

type Dispatcher interface {
	Backend() config.MailBackendKind
	Notify(ctx context.Context, n EnrollmentNotification) error
}

// NotificationError wraps a failed send. It never affects payment state.
type NotificationError struct {
	Backend config.MailBackendKind
	Err     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify via %s: %v", e.Backend, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// New returns the dispatcher for the mail backend resolved at startup.
func New(mb config.MailBackend) Dispatcher {
	log.Printf("[NOTIFY] using %s mail backend", mb.Kind)
	switch mb.Kind {
	case config.MailSMTP:
		return NewSMTP(mb.Host, mb.Port, mb.User, mb.Password, mb.From)
	case config.MailSendGrid:
		return NewSendGrid(mb.APIKey, mb.From)
	case config.MailRemote:
		return NewRemote(mb.Endpoint)
	default:
		return NewDev()
	}
}
