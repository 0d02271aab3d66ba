package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/riyazhq/riyaz/core/lesson"
)

type lessonRepository struct {
	db *lessonTable
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(db *DB) lesson.Repository {
	return &lessonRepository{db: db.lesson}
}

func (repo *lessonRepository) query() []lesson.Lesson {
	lessons := make([]lesson.Lesson, 0, len(repo.db.table))
	for _, l := range repo.db.table {
		lessons = append(lessons, *l)
	}
	return lessons
}

func (repo *lessonRepository) CreateLesson(_ context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	l.ID = uuid.New().String()
	repo.db.table[l.ID] = &l
	return l, nil
}

func (repo *lessonRepository) GetLessonByID(_ context.Context, id string) (lesson.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.db.table[id]; ok {
		return *l, nil
	}
	return lesson.Lesson{}, lesson.ErrNotFound
}

func (repo *lessonRepository) QueryLessonsByTeacher(_ context.Context, teacherID string) ([]lesson.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var lessons []lesson.Lesson
	for _, l := range repo.query() {
		if l.TeacherID == teacherID {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

func (repo *lessonRepository) QueryLessonsByStudent(_ context.Context, studentID string) ([]lesson.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var lessons []lesson.Lesson
	for _, l := range repo.query() {
		if l.StudentID == studentID {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

func (repo *lessonRepository) QueryLessonsByStudentEmail(_ context.Context, email string) ([]lesson.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var lessons []lesson.Lesson
	for _, l := range repo.query() {
		if l.StudentEmail == email {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

func (repo *lessonRepository) UpdateLesson(_ context.Context, id string, ul lesson.UpdateLesson) (lesson.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	l, ok := repo.db.table[id]
	if !ok {
		return lesson.Lesson{}, lesson.ErrNotFound
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

func (repo *lessonRepository) DeleteLesson(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return lesson.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
