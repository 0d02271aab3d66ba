package lesson

import (
	"reflect"
	"testing"
	"time"
)

func mkLesson(studentID, email, name, date string, fee int, paid bool) Lesson {
	return Lesson{
		StudentID:    studentID,
		StudentEmail: email,
		StudentName:  name,
		Date:         date,
		Time:         "16:00",
		FeePerClass:  fee,
		Paid:         paid,
	}
}

func Test_AggregateByStudentMonth(t *testing.T) {
	lessons := []Lesson{
		mkLesson("st-1", "asha@test.cd", "Asha", "2025-10-01", 500, true),
		mkLesson("st-1", "asha@test.cd", "Asha", "2025-10-08", 500, false),
		mkLesson("st-1", "asha@test.cd", "Asha", "2025-11-03", 500, false),
		mkLesson("st-2", "", "Bilal", "2025-10-02", 400, true),
		mkLesson("st-2", "", "Bilal", "2025-10-09", 400, true),
	}

	bills, skipped := AggregateByStudentMonth(lessons)
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}

	want := []MonthlyBill{
		{StudentKey: "asha@test.cd", StudentName: "Asha", Month: "2025-11", LessonCount: 1, TotalFee: 500, AllPaid: false},
		{StudentKey: "asha@test.cd", StudentName: "Asha", Month: "2025-10", LessonCount: 2, TotalFee: 1000, AllPaid: false},
		{StudentKey: "st-2", StudentName: "Bilal", Month: "2025-10", LessonCount: 2, TotalFee: 800, AllPaid: true},
	}
	if !reflect.DeepEqual(bills, want) {
		t.Errorf("bills = %+v, want %+v", bills, want)
	}
}

func Test_AggregateByStudentMonth_orderIndependent(t *testing.T) {
	lessons := []Lesson{
		mkLesson("st-1", "asha@test.cd", "Asha", "2025-10-01", 500, true),
		mkLesson("st-2", "", "Bilal", "2025-10-02", 400, true),
		mkLesson("st-1", "asha@test.cd", "Asha", "2025-10-08", 500, false),
		mkLesson("st-2", "", "Bilal", "2025-09-25", 400, false),
	}
	bills1, _ := AggregateByStudentMonth(lessons)

	reversed := make([]Lesson, 0, len(lessons))
	for i := len(lessons) - 1; i >= 0; i-- {
		reversed = append(reversed, lessons[i])
	}
	bills2, _ := AggregateByStudentMonth(reversed)

	if !reflect.DeepEqual(bills1, bills2) {
		t.Errorf("aggregation depends on input order:\n%+v\n%+v", bills1, bills2)
	}
}

// the month is derived from the date; a stale stored tag must not move the
// lesson into another bill
func Test_AggregateByStudentMonth_ignoresStoredMonthTag(t *testing.T) {
	l := mkLesson("st-1", "", "Asha", "2025-11-03", 500, false)
	l.MonthYear = "2025-10" // stale after a date edit

	bills, _ := AggregateByStudentMonth([]Lesson{l})
	if len(bills) != 1 {
		t.Fatalf("got %d bills, want 1", len(bills))
	}
	if bills[0].Month != "2025-11" {
		t.Errorf("Month = %s, want 2025-11", bills[0].Month)
	}
}

func Test_AggregateByStudentMonth_skipsUnparsableDates(t *testing.T) {
	lessons := []Lesson{
		mkLesson("st-1", "", "Asha", "2025-10-01", 500, true),
		mkLesson("st-1", "", "Asha", "not-a-date", 500, true),
		mkLesson("st-1", "", "Asha", "", 500, true),
	}
	bills, skipped := AggregateByStudentMonth(lessons)
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(bills) != 1 || bills[0].LessonCount != 1 {
		t.Errorf("bills = %+v, want a single 1-lesson bill", bills)
	}
}

// a lesson with no email is billed under the roster id; one with an email is
// billed under the email, even for the same person
func Test_AggregateByStudentMonth_studentKey(t *testing.T) {
	lessons := []Lesson{
		mkLesson("st-1", "asha@test.cd", "Asha", "2025-10-01", 500, true),
		mkLesson("st-1", "", "Asha", "2025-10-08", 500, true),
	}
	bills, _ := AggregateByStudentMonth(lessons)
	if len(bills) != 2 {
		t.Fatalf("got %d bills, want 2 (email and id keys are distinct)", len(bills))
	}
	keys := map[string]bool{bills[0].StudentKey: true, bills[1].StudentKey: true}
	if !keys["asha@test.cd"] || !keys["st-1"] {
		t.Errorf("unexpected keys: %+v", keys)
	}
}

func Test_Summarize(t *testing.T) {
	bills := []MonthlyBill{
		{StudentKey: "a", TotalFee: 1000, AllPaid: true},
		{StudentKey: "a", TotalFee: 500, AllPaid: false},
		{StudentKey: "b", TotalFee: 800, AllPaid: false},
	}
	sum := Summarize(bills)
	if sum.TotalCollected != 1000 {
		t.Errorf("TotalCollected = %d, want 1000", sum.TotalCollected)
	}
	if sum.TotalOutstanding != 1300 {
		t.Errorf("TotalOutstanding = %d, want 1300", sum.TotalOutstanding)
	}
	if sum.StudentCount != 2 {
		t.Errorf("StudentCount = %d, want 2", sum.StudentCount)
	}
}

func Test_CurrentMonthStatus(t *testing.T) {
	now := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		lessons []Lesson
		want    MonthStatus
	}{
		{
			name: "no lessons at all",
			want: MonthStatus{Month: "2025-10"},
		},
		{
			name: "no lessons this month",
			lessons: []Lesson{
				mkLesson("st-1", "", "Asha", "2025-09-10", 500, false),
			},
			want: MonthStatus{Month: "2025-10"},
		},
		{
			name: "all paid",
			lessons: []Lesson{
				mkLesson("st-1", "", "Asha", "2025-10-01", 500, true),
				mkLesson("st-1", "", "Asha", "2025-10-08", 500, true),
			},
			want: MonthStatus{Month: "2025-10", LessonCount: 2, TotalFee: 1000, Paid: true, HasLessons: true},
		},
		{
			name: "one unpaid taints the month",
			lessons: []Lesson{
				mkLesson("st-1", "", "Asha", "2025-10-01", 500, true),
				mkLesson("st-1", "", "Asha", "2025-10-08", 500, false),
			},
			want: MonthStatus{Month: "2025-10", LessonCount: 2, TotalFee: 1000, Paid: false, HasLessons: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentMonthStatus(tt.lessons, now); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CurrentMonthStatus() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func Test_UpcomingCount(t *testing.T) {
	now := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	lessons := []Lesson{
		mkLesson("st-1", "", "Asha", "2025-10-19", 500, false),
		mkLesson("st-1", "", "Asha", "2025-10-20", 500, false),
		mkLesson("st-1", "", "Asha", "2025-10-27", 500, false),
		mkLesson("st-1", "", "Asha", "bad-date", 500, false),
	}
	if n := UpcomingCount(lessons, now); n != 2 {
		t.Errorf("UpcomingCount() = %d, want 2", n)
	}
}
