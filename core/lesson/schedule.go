package lesson

import (
	"errors"
	"time"

	"github.com/riyazhq/riyaz/core"
	"github.com/riyazhq/riyaz/core/student"
)

var (
	errEmptyWeekdays  = errors.New("at least one weekday is required")
	errBadWeekday     = errors.New("weekdays must be between 0 (Sunday) and 6 (Saturday)")
	errBadStartDate   = errors.New("start date must be a valid YYYY-MM-DD date")
	errBadTimeOfDay   = errors.New("time must be a valid HH:MM time of day")
	errBadTargetCount = errors.New("lesson count must be positive")
)

// BuildMonthlySchedule emits lesson-creation requests for one student for one
// calendar month: it scans dates from startDate forward, one day at a time,
// and emits a request for every date whose weekday is in weekdays, stopping
// once targetCount lessons are emitted or the month ends. The scan never
// crosses into the next month, so fewer than targetCount requests (possibly
// zero) is a normal outcome the caller must surface, not an error.
//
// Each request snapshots the student's name, email, instrument and fee at
// generation time; later roster edits do not touch already-scheduled lessons.
// Requests are returned in ascending date order.
//
// Validation failures (empty weekday set, malformed date or time) are
// reported as a core.ValidationError before anything is emitted.
func BuildMonthlySchedule(st student.Student, startDate, timeOfDay string, weekdays []int, targetCount int) ([]NewLesson, error) {
	if len(weekdays) == 0 {
		return nil, core.NewValidationError(errEmptyWeekdays, core.FieldError{Field: "weekdays", Error: errEmptyWeekdays.Error()})
	}
	var wanted [7]bool
	for _, wd := range weekdays {
		if wd < 0 || wd > 6 {
			return nil, core.NewValidationError(errBadWeekday, core.FieldError{Field: "weekdays", Error: errBadWeekday.Error()})
		}
		wanted[wd] = true
	}
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, core.NewValidationError(errBadStartDate, core.FieldError{Field: "start_date", Error: errBadStartDate.Error()})
	}
	if _, err := time.Parse(TimeLayout, timeOfDay); err != nil {
		return nil, core.NewValidationError(errBadTimeOfDay, core.FieldError{Field: "time", Error: errBadTimeOfDay.Error()})
	}
	if targetCount <= 0 {
		return nil, core.NewValidationError(errBadTargetCount, core.FieldError{Field: "count", Error: errBadTargetCount.Error()})
	}

	// only standard package sizes are recorded as provenance
	var pkg int
	if targetCount == student.PackageFour || targetCount == student.PackageEight {
		pkg = targetCount
	}

	// last day of startDate's month; day 0 of month+1 normalizes back
	endOfMonth := time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, start.Location())

	batch := make([]NewLesson, 0, targetCount)
	for d := start; !d.After(endOfMonth) && len(batch) < targetCount; d = d.AddDate(0, 0, 1) {
		if !wanted[d.Weekday()] {
			continue
		}
		batch = append(batch, NewLesson{
			StudentID:      st.ID,
			StudentName:    st.Name,
			StudentEmail:   st.Email,
			Date:           d.Format(DateLayout),
			Time:           timeOfDay,
			Instrument:     st.Instrument,
			FeePerClass:    st.FeePerClass,
			MonthlyPackage: pkg,
		})
	}
	return batch, nil
}
