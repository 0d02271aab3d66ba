package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riyazhq/riyaz/core/lesson"
	"github.com/riyazhq/riyaz/core/student"
)

func seedLesson(t *testing.T, env *testEnv, teacherID string, nl lesson.NewLesson) lesson.Lesson {
	t.Helper()
	l, err := env.lessonSvc.Create(context.Background(), teacherID, nl)
	if err != nil {
		t.Fatalf("seedLesson(): %v", err)
	}
	return l
}

func Test_lessonApi_schedule(t *testing.T) {
	env := setup(t)
	st := seedStudent(t, env, "t-001", student.NewStudent{
		Name: "Asha", Email: "asha@test.cd", Instrument: "Violin", FeePerClass: 500, MonthlyPackage: 8,
	})
	token := teacherToken(t, "t-001")

	body := []byte(`{
		"student_id": "` + st.ID + `",
		"start_date": "2025-10-01",
		"time": "16:00",
		"weekdays": [1, 3],
		"count": 8
	}`)
	req, rec := newAuthRequest(http.MethodPost, "/v1/lessons/schedule", token, body)
	env.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var created []lesson.Lesson
	unmarchal(t, rec.Body.Bytes(), &created)
	assert.Len(t, created, 8)
	assert.Equal(t, "2025-10-01", created[0].Date)
	assert.Equal(t, "2025-10-27", created[7].Date)
	for _, l := range created {
		assert.Equal(t, 500, l.FeePerClass)
		assert.Equal(t, "asha@test.cd", l.StudentEmail)
	}
}

func Test_lessonApi_schedule_invalid(t *testing.T) {
	env := setup(t)
	token := teacherToken(t, "t-001")

	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty weekdays", body: []byte(`{"student_id": "x", "start_date": "2025-10-01", "time": "16:00", "weekdays": []}`)},
		{name: "bad weekday", body: []byte(`{"student_id": "x", "start_date": "2025-10-01", "time": "16:00", "weekdays": [9]}`)},
		{name: "bad date", body: []byte(`{"student_id": "x", "start_date": "oops", "time": "16:00", "weekdays": [1]}`)},
		{name: "unknown student", body: []byte(`{"student_id": "nope", "start_date": "2025-10-01", "time": "16:00", "weekdays": [1]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/lessons/schedule", token, tt.body)
			env.app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func Test_lessonApi_query(t *testing.T) {
	env := setup(t)
	seedLesson(t, env, "t-001", lesson.NewLesson{
		StudentEmail: "asha@test.cd", StudentName: "Asha", Date: "2025-10-01", Time: "16:00", FeePerClass: 500,
	})
	seedLesson(t, env, "t-001", lesson.NewLesson{
		StudentID: "st-2", StudentName: "Bilal", Date: "2025-10-02", Time: "10:00", FeePerClass: 400,
	})
	seedLesson(t, env, "t-999", lesson.NewLesson{
		StudentID: "st-3", StudentName: "Chen", Date: "2025-10-03", Time: "11:00", FeePerClass: 300,
	})

	// teacher sees every lesson they scheduled, newest first
	req, rec := newAuthRequest(http.MethodGet, "/v1/lessons", teacherToken(t, "t-001"))
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var lessons []lesson.Lesson
	unmarchal(t, rec.Body.Bytes(), &lessons)
	assert.Len(t, lessons, 2)
	assert.Equal(t, "2025-10-02", lessons[0].Date)

	// a student signed in by email sees only their own
	req, rec = newAuthRequest(http.MethodGet, "/v1/lessons", studentToken(t, "auth-uid-1", "asha@test.cd"))
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	unmarchal(t, rec.Body.Bytes(), &lessons)
	assert.Len(t, lessons, 1)
	assert.Equal(t, "Asha", lessons[0].StudentName)
}

func Test_lessonApi_update(t *testing.T) {
	env := setup(t)
	l := seedLesson(t, env, "t-001", lesson.NewLesson{
		StudentID: "st-1", StudentName: "Asha", Date: "2025-10-01", Time: "16:00", FeePerClass: 500,
	})

	body := []byte(`{"paid": true, "completed": true}`)
	req, rec := newAuthRequest(http.MethodPut, "/v1/lessons/"+l.ID, teacherToken(t, "t-001"), body)
	env.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var updated lesson.Lesson
	unmarchal(t, rec.Body.Bytes(), &updated)
	assert.True(t, updated.Paid)
	assert.True(t, updated.Completed)

	// other teachers cannot see it, let alone update it
	req, rec = newAuthRequest(http.MethodPut, "/v1/lessons/"+l.ID, teacherToken(t, "t-999"), body)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_lessonApi_monthlyBills(t *testing.T) {
	env := setup(t)
	l1 := seedLesson(t, env, "t-001", lesson.NewLesson{
		StudentEmail: "asha@test.cd", StudentName: "Asha", Date: "2025-10-01", Time: "16:00", FeePerClass: 500,
	})
	seedLesson(t, env, "t-001", lesson.NewLesson{
		StudentEmail: "asha@test.cd", StudentName: "Asha", Date: "2025-10-08", Time: "16:00", FeePerClass: 500,
	})
	if _, err := env.lessonSvc.Update(context.Background(), l1.ID, lesson.UpdateLesson{Paid: boolPtr(true)}); err != nil {
		t.Fatalf("marking lesson paid: %v", err)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/billing/months", teacherToken(t, "t-001"))
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var report lesson.BillingReport
	unmarchal(t, rec.Body.Bytes(), &report)
	assert.Len(t, report.Bills, 1)
	assert.Equal(t, 2, report.Bills[0].LessonCount)
	assert.Equal(t, 1000, report.Bills[0].TotalFee)
	assert.False(t, report.Bills[0].AllPaid)
	assert.Equal(t, 1000, report.Summary.TotalOutstanding)
	assert.Equal(t, 0, report.Summary.TotalCollected)
}

func Test_lessonApi_setMonthPaid(t *testing.T) {
	env := setup(t)
	seedLesson(t, env, "t-001", lesson.NewLesson{
		StudentEmail: "asha@test.cd", StudentName: "Asha", Date: "2025-10-01", Time: "16:00", FeePerClass: 500,
	})
	seedLesson(t, env, "t-001", lesson.NewLesson{
		StudentEmail: "asha@test.cd", StudentName: "Asha", Date: "2025-10-08", Time: "16:00", FeePerClass: 500,
	})
	token := teacherToken(t, "t-001")

	body := []byte(`{"student_key": "asha@test.cd", "month": "2025-10", "paid": true}`)
	req, rec := newAuthRequest(http.MethodPut, "/v1/billing/months/paid", token, body)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/billing/months", token)
	env.app.ServeHTTP(rec, req)
	var report lesson.BillingReport
	unmarchal(t, rec.Body.Bytes(), &report)
	assert.Len(t, report.Bills, 1)
	assert.True(t, report.Bills[0].AllPaid)
	assert.Equal(t, 1000, report.Summary.TotalCollected)

	// malformed month
	body = []byte(`{"student_key": "asha@test.cd", "month": "October", "paid": true}`)
	req, rec = newAuthRequest(http.MethodPut, "/v1/billing/months/paid", token, body)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func boolPtr(b bool) *bool { return &b }
