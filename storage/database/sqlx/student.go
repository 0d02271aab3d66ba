package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/riyazhq/riyaz/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	st.ID = uuid.New().String()
	const q = `
		INSERT INTO students (id, teacher_id, name, email, phone, instrument, fee_per_class, monthly_package, created_at)
		VALUES (:id, :teacher_id, :name, :email, :phone, :instrument, :fee_per_class, :monthly_package, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, st); err != nil {
		return student.Student{}, err
	}
	return st, nil
}

func (repo *studentRepository) QueryStudentsByTeacher(ctx context.Context, teacherID string) ([]student.Student, error) {
	var students []student.Student
	const q = `SELECT * FROM students WHERE teacher_id = $1 ORDER BY name`
	if err := repo.db.SelectContext(ctx, &students, q, teacherID); err != nil {
		return nil, err
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var st student.Student
	const q = `SELECT * FROM students WHERE id = $1`
	if err := repo.db.GetContext(ctx, &st, q, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return st, nil
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	var st student.Student
	const q = `SELECT * FROM students WHERE email = $1`
	if err := repo.db.GetContext(ctx, &st, q, email); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return st, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, id string, us student.UpdateStudent) (student.Student, error) {
	st, err := repo.GetStudentByID(ctx, id)
	if err != nil {
		return student.Student{}, err
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

	const q = `
		UPDATE students
		SET name = :name, email = :email, phone = :phone, instrument = :instrument,
			fee_per_class = :fee_per_class, monthly_package = :monthly_package
		WHERE id = :id`
	if _, err := repo.db.NamedExecContext(ctx, q, st); err != nil {
		return student.Student{}, err
	}
	return st, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}
