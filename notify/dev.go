package notify

import (
	"context"
	"log"

	"studio/config"
)

// Dev logs the notification instead of sending it.
type Dev struct{}

func NewDev() *Dev {
	return &Dev{}
}

func (d *Dev) Backend() config.MailBackendKind {
	return config.MailDev
}

func (d *Dev) Notify(_ context.Context, n EnrollmentNotification) error {
	log.Printf("[NOTIFY] email would be sent (development mode): to=%s subject=%q course=%q price=%s customer=%q email=%s phone=%s",
		n.To, n.Subject, n.CourseTitle, n.CoursePrice, n.CustomerName, n.CustomerEmail, n.CustomerPhone)
	return nil
}
