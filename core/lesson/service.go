package lesson

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/riyazhq/riyaz/core"
	"github.com/riyazhq/riyaz/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("lesson not found")

	errStudentNotFound = errors.New("student not found in roster")
	errBadDate         = errors.New("date must be a valid YYYY-MM-DD date")
)

type (
	Repository interface {
		CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		QueryLessonsByTeacher(ctx context.Context, teacherID string) ([]Lesson, error)
		QueryLessonsByStudent(ctx context.Context, studentID string) ([]Lesson, error)
		QueryLessonsByStudentEmail(ctx context.Context, email string) ([]Lesson, error)
		UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error
	}

	// BillingReport is the teacher's payment-tracking view: one bill per
	// (student, month) plus overall totals. Skipped counts lessons whose
	// dates could not be parsed and were left out of the aggregation.
	BillingReport struct {
		Bills   []MonthlyBill  `json:"bills"`
		Summary BillingSummary `json:"summary"`
		Skipped int            `json:"skipped,omitempty"`
	}

	Service interface {
		Create(ctx context.Context, teacherID string, nl NewLesson) (Lesson, error)
		// BulkSchedule generates a month of recurring lessons and persists
		// them concurrently. The returned lessons are the ones actually
		// created, in ascending date order; the error is a
		// *core.PartialError when only a subset could be written.
		BulkSchedule(ctx context.Context, teacherID string, req ScheduleRequest) ([]Lesson, error)
		GetByID(ctx context.Context, id string) (Lesson, error)
		QueryByTeacher(ctx context.Context, teacherID string) ([]Lesson, error)
		// QueryByStudent finds a student's lessons by roster id, falling
		// back to the contact email for students who signed up on their own.
		QueryByStudent(ctx context.Context, studentID, email string) ([]Lesson, error)
		Update(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		Delete(ctx context.Context, id string) error

		MonthlyBills(ctx context.Context, teacherID string) (BillingReport, error)
		StudentMonthStatus(ctx context.Context, studentID, email string, now time.Time) (MonthStatus, error)
		// SetMonthPaid toggles the paid flag on every lesson of one
		// (student, month) group via independent per-lesson updates.
		// A *core.PartialError reports any subset that failed.
		SetMonthPaid(ctx context.Context, teacherID, studentKey, month string, paid bool) error

		// Subscribe registers fn to receive a fresh snapshot of the filtered
		// lessons after every mutation made through this service. It returns
		// an unsubscribe func. Snapshots are sorted by date descending.
		Subscribe(filter QueryFilter, fn func([]Lesson)) func()
	}

	service struct {
		repo     Repository
		students student.Repository

		mu      sync.Mutex
		nextSub int
		subs    map[int]subscription
	}

	subscription struct {
		filter QueryFilter
		fn     func([]Lesson)
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, students student.Repository) Service {
	return &service{
		repo:     repo,
		students: students,
		subs:     make(map[int]subscription),
	}
}

func (svc *service) Create(ctx context.Context, teacherID string, nl NewLesson) (Lesson, error) {
	day, err := time.Parse(DateLayout, nl.Date)
	if err != nil {
		return Lesson{}, core.NewValidationError(errBadDate, core.FieldError{Field: "date", Error: errBadDate.Error()})
	}
	l := Lesson{
		TeacherID:      teacherID,
		StudentID:      nl.StudentID,
		StudentName:    nl.StudentName,
		StudentEmail:   nl.StudentEmail,
		Date:           nl.Date,
		Time:           nl.Time,
		Instrument:     nl.Instrument,
		FeePerClass:    nl.FeePerClass,
		MonthYear:      day.Format(monthLayout), // always derived from the date
		MonthlyPackage: nl.MonthlyPackage,
		CreatedAt:      time.Now().UTC(),
	}
	created, err := svc.repo.CreateLesson(ctx, l)
	if err != nil {
		return Lesson{}, err
	}
	svc.notify(ctx)
	return created, nil
}

func (svc *service) BulkSchedule(ctx context.Context, teacherID string, req ScheduleRequest) ([]Lesson, error) {
	st, err := svc.students.GetStudentByID(ctx, req.StudentID)
	if err != nil || st.TeacherID != teacherID {
		return nil, core.NewValidationError(errStudentNotFound, core.FieldError{Field: "student_id", Error: errStudentNotFound.Error()})
	}

	count := req.Count
	if count == 0 {
		count = st.MonthlyPackage
	}
	batch, err := BuildMonthlySchedule(st, req.StartDate, req.Time, req.Weekdays, count)
	if err != nil {
		return nil, err
	}

	// fan-out: creation requests are independent; one failing leaves the
	// others alone
	type result struct {
		lesson Lesson
		err    error
	}
	now := time.Now().UTC()
	results := make([]result, len(batch))
	var wg sync.WaitGroup
	for i, nl := range batch {
		wg.Add(1)
		go func(i int, nl NewLesson) {
			defer wg.Done()
			l := Lesson{
				TeacherID:      teacherID,
				StudentID:      nl.StudentID,
				StudentName:    nl.StudentName,
				StudentEmail:   nl.StudentEmail,
				Date:           nl.Date,
				Time:           nl.Time,
				Instrument:     nl.Instrument,
				FeePerClass:    nl.FeePerClass,
				MonthYear:      nl.Date[:7],
				MonthlyPackage: nl.MonthlyPackage,
				CreatedAt:      now,
			}
			results[i].lesson, results[i].err = svc.repo.CreateLesson(ctx, l)
		}(i, nl)
	}
	wg.Wait()

	created := make([]Lesson, 0, len(batch))
	var failed []core.FailedItem
	for i, res := range results {
		if res.err != nil {
			failed = append(failed, core.FailedItem{ID: batch[i].Date, Error: res.err.Error()})
			continue
		}
		created = append(created, res.lesson)
	}
	sort.Slice(created, func(i, j int) bool { return created[i].Date < created[j].Date })

	if len(created) > 0 {
		svc.notify(ctx)
	}
	if len(failed) > 0 {
		return created, core.NewPartialError("bulk schedule", len(created), failed)
	}
	return created, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *service) QueryByTeacher(ctx context.Context, teacherID string) ([]Lesson, error) {
	lessons, err := svc.repo.QueryLessonsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	sortByDateDesc(lessons)
	return lessons, nil
}

func (svc *service) QueryByStudent(ctx context.Context, studentID, email string) ([]Lesson, error) {
	var lessons []Lesson
	var err error
	if studentID != "" {
		if lessons, err = svc.repo.QueryLessonsByStudent(ctx, studentID); err != nil {
			return nil, err
		}
	}
	if len(lessons) == 0 && email != "" {
		if lessons, err = svc.repo.QueryLessonsByStudentEmail(ctx, core.CleanString(email, true /* lower */)); err != nil {
			return nil, err
		}
	}
	sortByDateDesc(lessons)
	return lessons, nil
}

func (svc *service) Update(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	l, err := svc.repo.UpdateLesson(ctx, id, ul)
	if err != nil {
		return Lesson{}, err
	}
	svc.notify(ctx)
	return l, nil
}

func (svc *service) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteLesson(ctx, id); err != nil {
		return err
	}
	svc.notify(ctx)
	return nil
}

func (svc *service) MonthlyBills(ctx context.Context, teacherID string) (BillingReport, error) {
	lessons, err := svc.repo.QueryLessonsByTeacher(ctx, teacherID)
	if err != nil {
		return BillingReport{}, err
	}
	bills, skipped := AggregateByStudentMonth(lessons)
	return BillingReport{
		Bills:   bills,
		Summary: Summarize(bills),
		Skipped: skipped,
	}, nil
}

func (svc *service) StudentMonthStatus(ctx context.Context, studentID, email string, now time.Time) (MonthStatus, error) {
	lessons, err := svc.QueryByStudent(ctx, studentID, email)
	if err != nil {
		return MonthStatus{}, err
	}
	status := CurrentMonthStatus(lessons, now)
	status.Upcoming = UpcomingCount(lessons, now)
	return status, nil
}

func (svc *service) SetMonthPaid(ctx context.Context, teacherID, studentKey, month string, paid bool) error {
	lessons, err := svc.repo.QueryLessonsByTeacher(ctx, teacherID)
	if err != nil {
		return err
	}
	var targets []Lesson
	for _, l := range lessons {
		m, ok := l.monthKey()
		if !ok || m != month {
			continue
		}
		// the key matches either the contact email or the roster id
		if l.StudentEmail == studentKey || l.StudentID == studentKey {
			targets = append(targets, l)
		}
	}

	// fan-out independent updates, fan-in before reporting
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, l := range targets {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = svc.repo.UpdateLesson(ctx, id, UpdateLesson{Paid: &paid})
		}(i, l.ID)
	}
	wg.Wait()

	var failed []core.FailedItem
	for i, err := range errs {
		if err != nil {
			failed = append(failed, core.FailedItem{ID: targets[i].ID, Error: err.Error()})
		}
	}
	if len(failed) < len(targets) {
		svc.notify(ctx)
	}
	if len(failed) > 0 {
		return core.NewPartialError("set month paid", len(targets)-len(failed), failed)
	}
	return nil
}

func (svc *service) Subscribe(filter QueryFilter, fn func([]Lesson)) func() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	id := svc.nextSub
	svc.nextSub++
	svc.subs[id] = subscription{filter: filter, fn: fn}
	return func() {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		delete(svc.subs, id)
	}
}

// notify pushes a fresh snapshot to every subscriber. The store itself has no
// push channel we rely on; re-querying after each mutation keeps the derived
// views (which are pure projections) in sync with the lesson sequence.
func (svc *service) notify(ctx context.Context) {
	svc.mu.Lock()
	subs := make([]subscription, 0, len(svc.subs))
	for _, s := range svc.subs {
		subs = append(subs, s)
	}
	svc.mu.Unlock()

	for _, s := range subs {
		var lessons []Lesson
		var err error
		if s.filter.TeacherID != "" {
			lessons, err = svc.QueryByTeacher(ctx, s.filter.TeacherID)
		} else {
			lessons, err = svc.QueryByStudent(ctx, s.filter.StudentID, s.filter.StudentEmail)
		}
		if err != nil {
			continue
		}
		s.fn(lessons)
	}
}

func sortByDateDesc(lessons []Lesson) {
	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].Date != lessons[j].Date {
			return lessons[i].Date > lessons[j].Date
		}
		return lessons[i].Time > lessons[j].Time
	})
}
