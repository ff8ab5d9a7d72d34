package models

import "gorm.io/gorm"

const (
	NotificationSent   = "SENT"
	NotificationFailed = "FAILED"
)

// NotificationLog records one admin notification dispatch.
type NotificationLog struct {
	gorm.Model
	CourseID  uint   `json:"courseId" gorm:"index:idx_notification_attempt"`
	AttemptID string `json:"attemptId" gorm:"type:varchar(64);index:idx_notification_attempt"`
	Backend   string `json:"backend" gorm:"type:varchar(16)"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Status    string `json:"status" gorm:"type:varchar(16)"`
	Error     string `json:"error" gorm:"type:text"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
