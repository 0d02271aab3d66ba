package reminder

import (
	"time"

	"github.com/riyazhq/riyaz/core"
)

// Reminder kinds.
const (
	KindPayment = "payment"
	KindClass   = "class"
	KindAlert   = "alert"
)

// Reminder is a short notice shown to (and optionally mailed to) one user.
type Reminder struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Kind      string    `json:"kind" db:"kind"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	DueDate   string    `json:"due_date" db:"due_date"` // YYYY-MM-DD
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewReminder contains information needed to create a new Reminder.
type NewReminder struct {
	Kind    string `json:"kind" validate:"required,oneof=payment class alert"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

func (nr *NewReminder) Validate() error {
	nr.Title = core.CleanString(nr.Title)
	nr.Message = core.CleanString(nr.Message)
	return core.Validate.Struct(nr)
}
