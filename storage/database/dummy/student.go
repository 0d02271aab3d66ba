package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/riyazhq/riyaz/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, st := range repo.db.table {
		students = append(students, *st)
	}
	return students
}

func (repo *studentRepository) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st.ID = uuid.New().String()
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) QueryStudentsByTeacher(_ context.Context, teacherID string) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var students []student.Student
	for _, st := range repo.query() {
		if st.TeacherID == teacherID {
			students = append(students, st)
		}
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, st := range repo.query() {
		if st.Email == email {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, id string, us student.UpdateStudent) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st, ok := repo.db.table[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if us.Name != "" {
		st.Name = us.Name
	}
	if us.Email != "" {
		st.Email = us.Email
	}
	if us.Phone != "" {
		st.Phone = us.Phone
	}
	if us.Instrument != "" {
		st.Instrument = us.Instrument
	}
	if us.FeePerClass != nil {
		st.FeePerClass = *us.FeePerClass
	}
	if us.MonthlyPackage != nil {
		st.MonthlyPackage = *us.MonthlyPackage
	}
	return *st, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
