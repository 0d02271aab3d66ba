package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	. "github.com/riyazhq/riyaz/apps/api/echo"
	"github.com/riyazhq/riyaz/core/lesson"
	"github.com/riyazhq/riyaz/core/reminder"
	"github.com/riyazhq/riyaz/core/student"
	"github.com/riyazhq/riyaz/services/email"
	"github.com/riyazhq/riyaz/services/logger"
	"github.com/riyazhq/riyaz/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app Server

	studentSvc  student.Service
	lessonSvc   lesson.Service
	reminderSvc reminder.Service
}

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock()
	studentSvc := student.NewService(dummydb.NewStudentRepository(db))
	lessonSvc := lesson.NewService(dummydb.NewLessonRepository(db), dummydb.NewStudentRepository(db))
	reminderSvc := reminder.NewService(dummydb.NewReminderRepository(db), mailSvc)

	app := NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
			StudentSvc:     studentSvc,
			LessonSvc:      lessonSvc,
			ReminderSvc:    reminderSvc,
		},
	)
	return &testEnv{
		app:         app,
		studentSvc:  studentSvc,
		lessonSvc:   lessonSvc,
		reminderSvc: reminderSvc,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func teacherToken(t *testing.T, id string) string {
	return getToken(t, id, "Teacher", "teacher@test.cd", true, false)
}

func studentToken(t *testing.T, id, email string) string {
	return getToken(t, id, "Student", email, false, true)
}

func getToken(t *testing.T, id, name, email string, isTeacher, isStudent bool) string {
	token, err := GenerateToken(GetClaims(id, name, email, isTeacher, isStudent))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarchal(t *testing.T, data []byte, into interface{}) {
	if err := json.Unmarshal(data, into); err != nil {
		t.Fatalf("unmarchal(): %v; data: %s", err, data)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
