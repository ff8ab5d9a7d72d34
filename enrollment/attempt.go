package enrollment

import (
	"fmt"
	"time"

	"studio/gateway"
	"studio/models"
)

// Key identifies one enrollment attempt. A course card may run several
// attempts over its lifetime but at most one is live at a time.
type Key struct {
	CourseID  uint
	AttemptID string
}

func (k Key) String() string {
	return fmt.Sprintf("course %d attempt %s", k.CourseID, k.AttemptID)
}

// Attempt is the state of one enrollment. Values returned by the
// Orchestrator are snapshots and never alias its internal copy.
type Attempt struct {
	Key
	Lang        string
	State       State
	Course      models.Course
	Intent      gateway.Intent
	Customer    CustomerDetails
	Error       string
	Notified    bool
	RedirectURL string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Mode is the payment mode of the intent, empty before one exists.
func (a Attempt) Mode() gateway.Mode {
	return a.Intent.Mode
}
