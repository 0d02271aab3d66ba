package lesson

import (
	"sort"
	"time"
)

type (
	// MonthlyBill is a derived, never-persisted aggregate of all of one
	// student's lessons in one calendar month. AllPaid is true only when
	// every lesson in the group is paid; a month with no lessons produces
	// no bill at all, which is not the same thing as an unpaid month.
	MonthlyBill struct {
		StudentKey  string `json:"student_key"`
		StudentName string `json:"student_name"`
		Month       string `json:"month"` // YYYY-MM
		LessonCount int    `json:"lesson_count"`
		TotalFee    int    `json:"total_fee"`
		AllPaid     bool   `json:"all_paid"`
	}

	// BillingSummary totals bills across all students and months.
	BillingSummary struct {
		TotalCollected   int `json:"total_collected"`   // sum of fully-paid bills
		TotalOutstanding int `json:"total_outstanding"` // sum of not-fully-paid bills
		StudentCount     int `json:"student_count"`
	}

	// MonthStatus is one student's payment state for a single month.
	// HasLessons distinguishes "nothing scheduled this month" from "unpaid".
	MonthStatus struct {
		Month       string `json:"month"`
		LessonCount int    `json:"lesson_count"`
		TotalFee    int    `json:"total_fee"`
		Paid        bool   `json:"paid"`
		HasLessons  bool   `json:"has_lessons"`
		Upcoming    int    `json:"upcoming"` // lessons dated today or later, any month
	}
)

// AggregateByStudentMonth groups lessons by (student, month) and computes one
// MonthlyBill per group. The month is always derived from the lesson date,
// never from the stored MonthYear tag. Lessons whose date does not parse are
// skipped and counted rather than failing the whole aggregation; the second
// return value reports how many were skipped.
//
// Bills are ordered by month descending then student name ascending, and the
// result is a pure function of the input: re-running it on the same lessons,
// in any order, yields the same bills.
func AggregateByStudentMonth(lessons []Lesson) ([]MonthlyBill, int) {
	type group struct {
		key     string
		name    string
		month   string
		count   int
		total   int
		allPaid bool
	}

	var skipped int
	groups := make(map[string]*group)
	keys := make([]string, 0, len(lessons))
	for _, l := range lessons {
		month, ok := l.monthKey()
		if !ok {
			skipped++
			continue
		}
		sk := l.studentKey()
		key := sk + "_" + month
		g, ok := groups[key]
		if !ok {
			g = &group{key: sk, name: l.StudentName, month: month, allPaid: true}
			groups[key] = g
			keys = append(keys, key)
		}
		g.count++
		g.total += l.FeePerClass
		g.allPaid = g.allPaid && l.Paid
	}

	bills := make([]MonthlyBill, 0, len(groups))
	for _, key := range keys {
		g := groups[key]
		bills = append(bills, MonthlyBill{
			StudentKey:  g.key,
			StudentName: g.name,
			Month:       g.month,
			LessonCount: g.count,
			TotalFee:    g.total,
			AllPaid:     g.allPaid,
		})
	}
	sort.Slice(bills, func(i, j int) bool {
		if bills[i].Month != bills[j].Month {
			return bills[i].Month > bills[j].Month
		}
		return bills[i].StudentName < bills[j].StudentName
	})
	return bills, skipped
}

// Summarize computes the dashboard totals over a set of bills.
func Summarize(bills []MonthlyBill) BillingSummary {
	var sum BillingSummary
	students := make(map[string]struct{})
	for _, b := range bills {
		if b.AllPaid {
			sum.TotalCollected += b.TotalFee
		} else {
			sum.TotalOutstanding += b.TotalFee
		}
		students[b.StudentKey] = struct{}{}
	}
	sum.StudentCount = len(students)
	return sum
}

// CurrentMonthStatus reports one student's payment state for now's calendar
// month. now is explicit so callers (and tests) control the clock.
func CurrentMonthStatus(lessons []Lesson, now time.Time) MonthStatus {
	status := MonthStatus{Month: now.Format(monthLayout)}
	for _, l := range lessons {
		month, ok := l.monthKey()
		if !ok || month != status.Month {
			continue
		}
		if !status.HasLessons {
			status.HasLessons = true
			status.Paid = true
		}
		status.LessonCount++
		status.TotalFee += l.FeePerClass
		status.Paid = status.Paid && l.Paid
	}
	return status
}

// UpcomingCount counts lessons dated today or later.
func UpcomingCount(lessons []Lesson, now time.Time) int {
	today := now.Format(DateLayout)
	var n int
	for _, l := range lessons {
		if _, ok := l.monthKey(); !ok {
			continue
		}
		if l.Date >= today {
			n++
		}
	}
	return n
}
