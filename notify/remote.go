package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"

	"studio/config"
)

const notificationPath = "/api/send-admin-notification"

// Remote hands the notification to another instance's
// POST /api/send-admin-notification endpoint.
type Remote struct {
	client   *resty.Client
	endpoint string
}

func NewRemote(endpoint string) *Remote {
	return &Remote{
		client:   resty.New(),
		endpoint: endpoint,
	}
}

func (r *Remote) Backend() config.MailBackendKind {
	return config.MailRemote
}

func (r *Remote) Notify(ctx context.Context, n EnrollmentNotification) error {
	var result struct {
		Success bool `json:"success"`
	}
	var failure struct {
		Error string `json:"error"`
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(n).
		SetResult(&result).
		SetError(&failure).
		Post(r.endpoint + notificationPath)
	if err != nil {
		log.Printf("[NOTIFY] remote notification failed: %v", err)
		return &NotificationError{Backend: config.MailRemote, Err: err}
	}
	if resp.IsError() {
		return &NotificationError{
			Backend: config.MailRemote,
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode(), failure.Error),
		}
	}
	if !result.Success {
		return &NotificationError{Backend: config.MailRemote, Err: fmt.Errorf("endpoint reported failure")}
	}
	return nil
}
