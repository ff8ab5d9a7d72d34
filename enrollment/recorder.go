package enrollment

import (
	"context"

	"studio/config"
	"studio/notify"
)

// Recorder persists attempt snapshots and notification outcomes for the
// admin listing. Failures are logged by the caller and never change state.
type Recorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
	RecordNotification(ctx context.Context, key Key, backend config.MailBackendKind, n notify.EnrollmentNotification, sendErr error) error
}

type nopRecorder struct{}

func (nopRecorder) RecordAttempt(context.Context, Attempt) error { return nil }

func (nopRecorder) RecordNotification(context.Context, Key, config.MailBackendKind, notify.EnrollmentNotification, error) error {
	return nil
}
