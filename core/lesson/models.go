package lesson

import (
	"time"

	"github.com/riyazhq/riyaz/core"
)

// Wire formats for lesson dates and times-of-day.
const (
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04"
	monthLayout = "2006-01"
)

// Lesson is one scheduled music lesson instance, billable and markable
// paid/completed. ID, TeacherID and CreatedAt are immutable once created;
// Paid, Completed and FeePerClass may be toggled later by the teacher.
type Lesson struct {
	ID             string    `json:"id" db:"id"`
	TeacherID      string    `json:"teacher_id" db:"teacher_id"`
	StudentID      string    `json:"student_id" db:"student_id"`
	StudentName    string    `json:"student_name" db:"student_name"`
	StudentEmail   string    `json:"student_email,omitempty" db:"student_email"`
	Date           string    `json:"date" db:"date"` // YYYY-MM-DD
	Time           string    `json:"time" db:"time"` // HH:MM
	Instrument     string    `json:"instrument" db:"instrument"`
	FeePerClass    int       `json:"fee_per_class" db:"fee_per_class"`
	Paid           bool      `json:"paid" db:"paid"`
	Completed      bool      `json:"completed" db:"completed"`
	MonthYear      string    `json:"month_year,omitempty" db:"month_year"`           // YYYY-MM, provenance only
	MonthlyPackage int       `json:"monthly_package,omitempty" db:"monthly_package"` // 4 or 8, provenance only
	CreatedAt      time.Time `json:"created_at" db:"created_at"`                     // UTC
}

// monthKey derives the lesson's billing month from its date. The stored
// MonthYear tag is never trusted; it can drift from the date after edits.
func (l Lesson) monthKey() (string, bool) {
	t, err := time.Parse(DateLayout, l.Date)
	if err != nil {
		return "", false
	}
	return t.Format(monthLayout), true
}

// studentKey identifies the student across lesson records: the email when one
// was captured (students may authenticate independently by email), the roster
// id otherwise.
func (l Lesson) studentKey() string {
	if l.StudentEmail != "" {
		return l.StudentEmail
	}
	return l.StudentID
}

// NewLesson contains information needed to create a single new Lesson.
type NewLesson struct {
	StudentID      string `json:"student_id"`
	StudentName    string `json:"student_name" validate:"required"`
	StudentEmail   string `json:"student_email" validate:"omitempty,email"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string `json:"time" validate:"required,datetime=15:04"`
	Instrument     string `json:"instrument" validate:"required"`
	FeePerClass    int    `json:"fee_per_class" validate:"min=0"`
	MonthlyPackage int    `json:"monthly_package" validate:"omitempty,oneof=4 8"`
}

func (nl *NewLesson) Validate() error {
	nl.StudentName = core.CleanString(nl.StudentName)
	nl.StudentEmail = core.CleanString(nl.StudentEmail, true /* lower */)
	nl.Instrument = core.CleanString(nl.Instrument)
	if err := core.Validate.Struct(nl); err != nil {
		return err
	}
	return nil
}

// UpdateLesson defines the mutable subset of a Lesson.
type UpdateLesson struct {
	Paid        *bool `json:"paid"`
	Completed   *bool `json:"completed"`
	FeePerClass *int  `json:"fee_per_class" validate:"omitempty,min=0"`
}

func (ul *UpdateLesson) Validate() error { return core.Validate.Struct(ul) }

func (ul *UpdateLesson) IsEmpty() bool {
	return ul.Paid == nil && ul.Completed == nil && ul.FeePerClass == nil
}

// ScheduleRequest asks for a month's worth of recurring lessons for one
// roster student: lessons at the given time on the given weekdays
// (0 = Sunday ... 6 = Saturday), starting at StartDate and never crossing
// into the next calendar month. Count defaults to the student's monthly
// package size when zero.
type ScheduleRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
	Weekdays  []int  `json:"weekdays" validate:"required,min=1,dive,min=0,max=6"`
	Count     int    `json:"count" validate:"omitempty,min=1"`
}

func (sr *ScheduleRequest) Validate() error {
	if err := core.Validate.Struct(sr); err != nil {
		return err
	}
	return nil
}

// QueryFilter narrows a lesson query to one actor's records.
type QueryFilter struct {
	TeacherID    string `query:"teacher_id"`
	StudentID    string `query:"student_id"`
	StudentEmail string `query:"student_email"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.TeacherID == "" && qf.StudentID == "" && qf.StudentEmail == ""
}
