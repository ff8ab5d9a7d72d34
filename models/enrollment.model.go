package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrollmentAttempt is the audit row of one pass through the payment flow.
// The row is rewritten on every state transition of the attempt and is
// identified by the course and attempt id together.
type EnrollmentAttempt struct {
	gorm.Model
	CourseID      uint              `json:"courseId" gorm:"uniqueIndex:idx_course_attempt;not null"`
	AttemptID     string            `json:"attemptId" gorm:"type:varchar(64);uniqueIndex:idx_course_attempt;not null"`
	CourseTitle   string            `json:"courseTitle"`
	State         string            `json:"state" gorm:"type:varchar(32);index"`
	PaymentMode   string            `json:"paymentMode" gorm:"type:varchar(16)"` // mock, live
	IntentID      string            `json:"intentId" gorm:"type:varchar(100);index"`
	Amount        int64             `json:"amount"` // minor units
	Currency      string            `json:"currency" gorm:"type:varchar(3)"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerPhone string            `json:"customerPhone"`
	ErrorMessage  string            `json:"errorMessage" gorm:"type:text"`
	Notified      bool              `json:"notified" gorm:"default:false"`
	Metadata      datatypes.JSONMap `json:"metadata"`
	CompletedAt   *time.Time        `json:"completedAt"`
}

func (EnrollmentAttempt) TableName() string {
	return "enrollment_attempts"
}
