package database

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studio/config"
	"studio/enrollment"
	"studio/models"
	"studio/notify"
)

var ErrNotFound = errors.New("record not found")

// Recorder writes attempt snapshots and notification outcomes. It keeps one
// row per attempt, rewritten on every transition.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

var attemptColumns = []string{
	"updated_at", "course_title", "state", "payment_mode", "intent_id", "amount", "currency",
	"customer_name", "customer_email", "customer_phone", "error_message",
	"notified", "metadata", "completed_at",
}

func (r *Recorder) RecordAttempt(ctx context.Context, a enrollment.Attempt) error {
	row := models.EnrollmentAttempt{
		AttemptID:     a.AttemptID,
		CourseID:      a.CourseID,
		CourseTitle:   a.Course.Title,
		State:         string(a.State),
		PaymentMode:   string(a.Mode()),
		IntentID:      a.Intent.ID,
		Amount:        a.Intent.Amount,
		Currency:      a.Intent.Currency,
		CustomerName:  a.Customer.Name,
		CustomerEmail: a.Customer.Email,
		CustomerPhone: a.Customer.Phone,
		ErrorMessage:  a.Error,
		Notified:      a.Notified,
		Metadata: datatypes.JSONMap{
			"lang":         a.Lang,
			"price":        a.Course.Price.String(),
			"intentStatus": string(a.Intent.Status),
			"redirectUrl":  a.RedirectURL,
		},
	}
	if a.State.Terminal() {
		completed := a.UpdatedAt
		row.CompletedAt = &completed
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "attempt_id"}},
		DoUpdates: clause.AssignmentColumns(attemptColumns),
	}).Create(&row).Error
}

func (r *Recorder) RecordNotification(ctx context.Context, key enrollment.Key, backend config.MailBackendKind, n notify.EnrollmentNotification, sendErr error) error {
	row := models.NotificationLog{
		CourseID:  key.CourseID,
		AttemptID: key.AttemptID,
		Backend:   string(backend),
		Recipient: n.To,
		Subject:   n.Subject,
		Status:    models.NotificationSent,
	}
	if sendErr != nil {
		row.Status = models.NotificationFailed
		row.Error = sendErr.Error()
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// ListAttempts returns attempts newest first. An empty state matches all.
func (r *Recorder) ListAttempts(ctx context.Context, state string, page, limit int) ([]models.EnrollmentAttempt, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EnrollmentAttempt{})
	if state != "" {
		query = query.Where("state = ?", state)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EnrollmentAttempt
	err := query.Order("updated_at DESC").Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

// FindAttempt returns one attempt and its notification log.
func (r *Recorder) FindAttempt(ctx context.Context, courseID uint, attemptID string) (models.EnrollmentAttempt, []models.NotificationLog, error) {
	var row models.EnrollmentAttempt
	err := r.db.WithContext(ctx).Where("course_id = ? AND attempt_id = ?", courseID, attemptID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, nil, ErrNotFound
	}
	if err != nil {
		return row, nil, err
	}

	var logs []models.NotificationLog
	err = r.db.WithContext(ctx).Where("course_id = ? AND attempt_id = ?", courseID, attemptID).Order("id").Find(&logs).Error
	return row, logs, err
}
