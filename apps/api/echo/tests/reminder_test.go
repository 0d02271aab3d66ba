package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/riyazhq/riyaz/core/lesson"
	"github.com/riyazhq/riyaz/core/reminder"
)

func Test_reminderApi_crud(t *testing.T) {
	env := setup(t)
	token := teacherToken(t, "t-001")

	body := []byte(`{"kind": "alert", "title": "Recital", "message": "Book the hall", "due_date": "2025-12-01"}`)
	req, rec := newAuthRequest(http.MethodPost, "/v1/reminders", token, body)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var r reminder.Reminder
	unmarchal(t, rec.Body.Bytes(), &r)
	assert.Equal(t, "t-001", r.UserID)
	assert.False(t, r.Read)

	req, rec = newAuthRequest(http.MethodPut, "/v1/reminders/"+r.ID+"/read", token)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	unmarchal(t, rec.Body.Bytes(), &r)
	assert.True(t, r.Read)

	// other users cannot touch it
	req, rec = newAuthRequest(http.MethodPut, "/v1/reminders/"+r.ID+"/read", teacherToken(t, "t-999"))
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/reminders/"+r.ID, token)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func Test_reminderApi_create_invalid(t *testing.T) {
	env := setup(t)

	body := []byte(`{"kind": "party", "title": "Nope", "message": "x", "due_date": "2025-12-01"}`)
	req, rec := newAuthRequest(http.MethodPost, "/v1/reminders", teacherToken(t, "t-001"), body)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "kind")
}

func Test_reminderApi_generate(t *testing.T) {
	env := setup(t)

	// an unpaid lesson in today's month yields exactly one payment reminder
	month := time.Now().Format("2006-01")
	seedLesson(t, env, "t-001", lesson.NewLesson{
		StudentEmail: "asha@test.cd", StudentName: "Asha", Date: month + "-10", Time: "16:00", FeePerClass: 500,
	})
	token := teacherToken(t, "t-001")

	req, rec := newAuthRequest(http.MethodPost, "/v1/reminders/generate", token)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created []reminder.Reminder
	unmarchal(t, rec.Body.Bytes(), &created)
	assert.Len(t, created, 1)
	assert.Equal(t, reminder.KindPayment, created[0].Kind)

	// generating twice is harmless
	req, rec = newAuthRequest(http.MethodPost, "/v1/reminders/generate", token)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	created = nil
	unmarchal(t, rec.Body.Bytes(), &created)
	assert.Len(t, created, 0)

	// teacher only
	req, rec = newAuthRequest(http.MethodPost, "/v1/reminders/generate", studentToken(t, "st-1", "asha@test.cd"))
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
