package notify

import (
	"context"
	"fmt"
	"log"
	netmail "net/mail"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"studio/config"
)

// SendGrid sends through the SendGrid v3 mail API.
type SendGrid struct {
	client *sendgrid.Client
	from   string
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}
}

func (s *SendGrid) Backend() config.MailBackendKind {
	return config.MailSendGrid
}

func (s *SendGrid) Notify(ctx context.Context, n EnrollmentNotification) error {
	msg, err := s.message(n)
	if err != nil {
		return &NotificationError{Backend: config.MailSendGrid, Err: err}
	}

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		log.Printf("[NOTIFY] sendgrid error: %v", err)
		return &NotificationError{Backend: config.MailSendGrid, Err: err}
	}
	if resp.StatusCode >= 300 {
		log.Printf("[NOTIFY] sendgrid rejected message: %d %s", resp.StatusCode, resp.Body)
		return &NotificationError{
			Backend: config.MailSendGrid,
			Err:     fmt.Errorf("sendgrid status %d", resp.StatusCode),
		}
	}

	log.Printf("[NOTIFY] enrollment email sent to %s", n.To)
	return nil
}

func (s *SendGrid) message(n EnrollmentNotification) (*mail.SGMailV3, error) {
	fromAddr, err := netmail.ParseAddress(s.from)
	if err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", s.from, err)
	}
	html, err := RenderHTML(n)
	if err != nil {
		return nil, err
	}

	from := mail.NewEmail(fromAddr.Name, fromAddr.Address)
	to := mail.NewEmail("", n.To)
	return mail.NewSingleEmail(from, n.Subject, to, renderText(n), html), nil
}
