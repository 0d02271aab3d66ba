package dummydb

import (
	"sync"

	"github.com/riyazhq/riyaz/core/lesson"
	"github.com/riyazhq/riyaz/core/reminder"
	"github.com/riyazhq/riyaz/core/student"
)

// DB is an in-memory document store standing in for the real backing store
// in DEV mode and in tests.
type (
	DB struct {
		student  *studentTable
		lesson   *lessonTable
		reminder *reminderTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	lessonTable struct {
		sync.RWMutex
		table map[string]*lesson.Lesson
	}

	reminderTable struct {
		sync.RWMutex
		table map[string]*reminder.Reminder
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:  &studentTable{table: make(map[string]*student.Student)},
		lesson:   &lessonTable{table: make(map[string]*lesson.Lesson)},
		reminder: &reminderTable{table: make(map[string]*reminder.Reminder)},
	}
	return db, nil
}
