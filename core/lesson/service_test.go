package lesson

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riyazhq/riyaz/core"
	"github.com/riyazhq/riyaz/core/student"
)

// test fixtures

type fakeLessonRepo struct {
	mu      sync.Mutex
	seq     int
	lessons map[string]*Lesson

	failDates map[string]bool // CreateLesson fails for these dates
	failIDs   map[string]bool // UpdateLesson fails for these ids
}

var _ Repository = (*fakeLessonRepo)(nil)

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{
		lessons:   make(map[string]*Lesson),
		failDates: make(map[string]bool),
		failIDs:   make(map[string]bool),
	}
}

func (r *fakeLessonRepo) CreateLesson(_ context.Context, l Lesson) (Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDates[l.Date] {
		return Lesson{}, errors.New("write refused")
	}
	r.seq++
	l.ID = fmt.Sprintf("l-%03d", r.seq)
	r.lessons[l.ID] = &l
	return l, nil
}

func (r *fakeLessonRepo) GetLessonByID(_ context.Context, id string) (Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lessons[id]; ok {
		return *l, nil
	}
	return Lesson{}, ErrNotFound
}

func (r *fakeLessonRepo) QueryLessonsByTeacher(_ context.Context, teacherID string) ([]Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Lesson
	for _, l := range r.lessons {
		if l.TeacherID == teacherID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) QueryLessonsByStudent(_ context.Context, studentID string) ([]Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Lesson
	for _, l := range r.lessons {
		if l.StudentID == studentID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) QueryLessonsByStudentEmail(_ context.Context, email string) ([]Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Lesson
	for _, l := range r.lessons {
		if l.StudentEmail == email {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) UpdateLesson(_ context.Context, id string, ul UpdateLesson) (Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIDs[id] {
		return Lesson{}, errors.New("write refused")
	}
	l, ok := r.lessons[id]
	if !ok {
		return Lesson{}, ErrNotFound
	}
	if ul.Paid != nil {
		l.Paid = *ul.Paid
	}
	if ul.Completed != nil {
		l.Completed = *ul.Completed
	}
	if ul.FeePerClass != nil {
		l.FeePerClass = *ul.FeePerClass
	}
	return *l, nil
}

func (r *fakeLessonRepo) DeleteLesson(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lessons[id]; !ok {
		return ErrNotFound
	}
	delete(r.lessons, id)
	return nil
}

type fakeStudentRepo struct {
	students map[string]student.Student
}

var _ student.Repository = (*fakeStudentRepo)(nil)

func (r *fakeStudentRepo) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	r.students[st.ID] = st
	return st, nil
}

func (r *fakeStudentRepo) QueryStudentsByTeacher(_ context.Context, teacherID string) ([]student.Student, error) {
	var out []student.Student
	for _, st := range r.students {
		if st.TeacherID == teacherID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	if st, ok := r.students[id]; ok {
		return st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (r *fakeStudentRepo) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	for _, st := range r.students {
		if st.Email == email {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (r *fakeStudentRepo) UpdateStudent(_ context.Context, id string, _ student.UpdateStudent) (student.Student, error) {
	return r.students[id], nil
}

func (r *fakeStudentRepo) DeleteStudent(_ context.Context, id string) error {
	delete(r.students, id)
	return nil
}

func setup(students ...student.Student) (*fakeLessonRepo, Service) {
	repo := newFakeLessonRepo()
	stRepo := &fakeStudentRepo{students: make(map[string]student.Student)}
	for _, st := range students {
		stRepo.students[st.ID] = st
	}
	return repo, NewService(repo, stRepo)
}

// tests

func Test_service_Create(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()

	l, err := svc.Create(ctx, "t-001", NewLesson{
		StudentName: "Asha",
		Date:        "2025-10-01",
		Time:        "16:00",
		Instrument:  "Violin",
		FeePerClass: 500,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if l.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if l.TeacherID != "t-001" {
		t.Errorf("TeacherID = %s, want t-001", l.TeacherID)
	}
	if l.MonthYear != "2025-10" {
		t.Errorf("MonthYear = %s, want 2025-10 (derived from date)", l.MonthYear)
	}

	if _, err = svc.Create(ctx, "t-001", NewLesson{StudentName: "Asha", Date: "lol", Time: "16:00"}); err == nil {
		t.Error("Create() with a bad date expected an error")
	} else if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("Create() error = %T, want *core.ValidationError", err)
	}
}

func Test_service_BulkSchedule(t *testing.T) {
	repo, svc := setup(asha)
	ctx := context.Background()

	created, err := svc.BulkSchedule(ctx, "t-001", ScheduleRequest{
		StudentID: asha.ID,
		StartDate: "2025-10-01",
		Time:      "16:00",
		Weekdays:  []int{1, 3},
		Count:     8,
	})
	if err != nil {
		t.Fatalf("BulkSchedule() error = %v", err)
	}
	if len(created) != 8 {
		t.Fatalf("created %d lessons, want 8", len(created))
	}
	for i := 1; i < len(created); i++ {
		if created[i-1].Date >= created[i].Date {
			t.Errorf("created lessons not in ascending date order: %s >= %s", created[i-1].Date, created[i].Date)
		}
	}
	if len(repo.lessons) != 8 {
		t.Errorf("repo holds %d lessons, want 8", len(repo.lessons))
	}
	for _, l := range created {
		if l.MonthYear != "2025-10" {
			t.Errorf("MonthYear = %s, want 2025-10", l.MonthYear)
		}
	}
}

func Test_service_BulkSchedule_defaultsToPackage(t *testing.T) {
	st := asha
	st.MonthlyPackage = student.PackageFour
	_, svc := setup(st)

	created, err := svc.BulkSchedule(context.Background(), "t-001", ScheduleRequest{
		StudentID: st.ID,
		StartDate: "2025-10-01",
		Time:      "16:00",
		Weekdays:  []int{1, 3},
	})
	if err != nil {
		t.Fatalf("BulkSchedule() error = %v", err)
	}
	if len(created) != 4 {
		t.Errorf("created %d lessons, want the package size 4", len(created))
	}
}

func Test_service_BulkSchedule_unknownStudent(t *testing.T) {
	_, svc := setup(asha)

	tests := []struct {
		name      string
		teacherID string
		studentID string
	}{
		{name: "unknown student", teacherID: "t-001", studentID: "nope"},
		{name: "someone else's student", teacherID: "t-999", studentID: asha.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BulkSchedule(context.Background(), tt.teacherID, ScheduleRequest{
				StudentID: tt.studentID,
				StartDate: "2025-10-01",
				Time:      "16:00",
				Weekdays:  []int{1},
			})
			if err == nil {
				t.Fatal("BulkSchedule() expected an error")
			}
			if _, ok := err.(*core.ValidationError); !ok {
				t.Errorf("BulkSchedule() error = %T, want *core.ValidationError", err)
			}
		})
	}
}

func Test_service_BulkSchedule_partialFailure(t *testing.T) {
	repo, svc := setup(asha)
	repo.failDates["2025-10-08"] = true

	created, err := svc.BulkSchedule(context.Background(), "t-001", ScheduleRequest{
		StudentID: asha.ID,
		StartDate: "2025-10-01",
		Time:      "16:00",
		Weekdays:  []int{1, 3},
		Count:     8,
	})
	if err == nil {
		t.Fatal("BulkSchedule() expected a partial error")
	}
	perr, ok := err.(*core.PartialError)
	if !ok {
		t.Fatalf("BulkSchedule() error = %T, want *core.PartialError", err)
	}
	if perr.Succeeded != 7 || len(perr.Failed) != 1 {
		t.Errorf("partial error = %+v, want 7 succeeded / 1 failed", perr)
	}
	if perr.Failed[0].ID != "2025-10-08" {
		t.Errorf("failed item = %+v, want the refused date", perr.Failed[0])
	}
	if len(created) != 7 {
		t.Errorf("created %d lessons, want 7; the rest must stay written", len(created))
	}
}

func Test_service_SetMonthPaid(t *testing.T) {
	repo, svc := setup(asha)
	ctx := context.Background()

	// two October lessons, one November lesson, one for another student
	mustCreate := func(nl NewLesson) Lesson {
		l, err := svc.Create(ctx, "t-001", nl)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return l
	}
	oct1 := mustCreate(NewLesson{StudentID: asha.ID, StudentEmail: asha.Email, StudentName: "Asha", Date: "2025-10-01", Time: "16:00", FeePerClass: 500})
	oct2 := mustCreate(NewLesson{StudentID: asha.ID, StudentEmail: asha.Email, StudentName: "Asha", Date: "2025-10-08", Time: "16:00", FeePerClass: 500})
	nov := mustCreate(NewLesson{StudentID: asha.ID, StudentEmail: asha.Email, StudentName: "Asha", Date: "2025-11-03", Time: "16:00", FeePerClass: 500})
	other := mustCreate(NewLesson{StudentID: "st-2", StudentName: "Bilal", Date: "2025-10-02", Time: "10:00", FeePerClass: 400})

	if err := svc.SetMonthPaid(ctx, "t-001", asha.Email, "2025-10", true); err != nil {
		t.Fatalf("SetMonthPaid() error = %v", err)
	}
	assertPaid := func(id string, want bool) {
		t.Helper()
		if got := repo.lessons[id].Paid; got != want {
			t.Errorf("lesson %s Paid = %v, want %v", id, got, want)
		}
	}
	assertPaid(oct1.ID, true)
	assertPaid(oct2.ID, true)
	assertPaid(nov.ID, false)
	assertPaid(other.ID, false)

	// flipping back is the exact inverse
	if err := svc.SetMonthPaid(ctx, "t-001", asha.Email, "2025-10", false); err != nil {
		t.Fatalf("SetMonthPaid() error = %v", err)
	}
	assertPaid(oct1.ID, false)
	assertPaid(oct2.ID, false)
}

func Test_service_SetMonthPaid_partialFailure(t *testing.T) {
	repo, svc := setup(asha)
	ctx := context.Background()

	l1, _ := svc.Create(ctx, "t-001", NewLesson{StudentID: asha.ID, StudentName: "Asha", Date: "2025-10-01", Time: "16:00"})
	l2, _ := svc.Create(ctx, "t-001", NewLesson{StudentID: asha.ID, StudentName: "Asha", Date: "2025-10-08", Time: "16:00"})
	repo.failIDs[l2.ID] = true

	err := svc.SetMonthPaid(ctx, "t-001", asha.ID, "2025-10", true)
	perr, ok := err.(*core.PartialError)
	if !ok {
		t.Fatalf("SetMonthPaid() error = %T, want *core.PartialError", err)
	}
	if perr.Succeeded != 1 || len(perr.Failed) != 1 {
		t.Errorf("partial error = %+v, want 1 succeeded / 1 failed", perr)
	}
	if !repo.lessons[l1.ID].Paid {
		t.Error("the successful update must not be rolled back")
	}
	if repo.lessons[l2.ID].Paid {
		t.Error("the failed update must not be applied")
	}
}

func Test_service_QueryByStudent_emailFallback(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()

	// scheduled before the student ever signed up: no roster id on file
	if _, err := svc.Create(ctx, "t-001", NewLesson{StudentEmail: "asha@test.cd", StudentName: "Asha", Date: "2025-10-01", Time: "16:00"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	lessons, err := svc.QueryByStudent(ctx, "some-auth-id", "asha@test.cd")
	if err != nil {
		t.Fatalf("QueryByStudent() error = %v", err)
	}
	if len(lessons) != 1 {
		t.Errorf("QueryByStudent() found %d lessons, want 1 via the email fallback", len(lessons))
	}
}

func Test_service_StudentMonthStatus(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()

	for _, date := range []string{"2025-10-01", "2025-10-08", "2025-09-24"} {
		if _, err := svc.Create(ctx, "t-001", NewLesson{
			StudentEmail: "asha@test.cd", StudentName: "Asha", Date: date, Time: "16:00", FeePerClass: 500,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	now := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	status, err := svc.StudentMonthStatus(ctx, "", "asha@test.cd", now)
	if err != nil {
		t.Fatalf("StudentMonthStatus() error = %v", err)
	}
	if status.Month != "2025-10" || status.LessonCount != 2 || status.TotalFee != 1000 {
		t.Errorf("status = %+v, want the two October lessons", status)
	}
	if !status.HasLessons || status.Paid {
		t.Errorf("status = %+v, want unpaid with lessons", status)
	}
	if status.Upcoming != 1 {
		t.Errorf("Upcoming = %d, want 1 (only 2025-10-08 is ahead of now)", status.Upcoming)
	}
}

func Test_service_Subscribe(t *testing.T) {
	_, svc := setup(asha)
	ctx := context.Background()

	var mu sync.Mutex
	var snapshots [][]Lesson
	unsubscribe := svc.Subscribe(QueryFilter{TeacherID: "t-001"}, func(lessons []Lesson) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, lessons)
	})

	if _, err := svc.Create(ctx, "t-001", NewLesson{StudentName: "Asha", Date: "2025-10-01", Time: "16:00"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mu.Lock()
	if len(snapshots) != 1 || len(snapshots[0]) != 1 {
		t.Fatalf("snapshots = %d (last len %d), want one snapshot of one lesson", len(snapshots), len(snapshots[len(snapshots)-1]))
	}
	mu.Unlock()

	unsubscribe()
	if _, err := svc.Create(ctx, "t-001", NewLesson{StudentName: "Asha", Date: "2025-10-08", Time: "16:00"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(snapshots) != 1 {
		t.Errorf("got %d snapshots after unsubscribe, want still 1", len(snapshots))
	}
}
