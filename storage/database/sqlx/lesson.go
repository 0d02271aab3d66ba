package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/riyazhq/riyaz/core/lesson"
)

type lessonRepository struct {
	db *sqlx.DB
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(db *sqlx.DB) lesson.Repository {
	return &lessonRepository{db: db}
}

func (repo *lessonRepository) CreateLesson(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	l.ID = uuid.New().String()
	const q = `
		INSERT INTO lessons (id, teacher_id, student_id, student_name, student_email, date, time,
			instrument, fee_per_class, paid, completed, month_year, monthly_package, created_at)
		VALUES (:id, :teacher_id, :student_id, :student_name, :student_email, :date, :time,
			:instrument, :fee_per_class, :paid, :completed, :month_year, :monthly_package, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, l); err != nil {
		return lesson.Lesson{}, err
	}
	return l, nil
}

func (repo *lessonRepository) GetLessonByID(ctx context.Context, id string) (lesson.Lesson, error) {
	var l lesson.Lesson
	const q = `SELECT * FROM lessons WHERE id = $1`
	if err := repo.db.GetContext(ctx, &l, q, id); err != nil {
		if err == sql.ErrNoRows {
			return lesson.Lesson{}, lesson.ErrNotFound
		}
		return lesson.Lesson{}, err
	}
	return l, nil
}

func (repo *lessonRepository) QueryLessonsByTeacher(ctx context.Context, teacherID string) ([]lesson.Lesson, error) {
	var lessons []lesson.Lesson
	const q = `SELECT * FROM lessons WHERE teacher_id = $1`
	if err := repo.db.SelectContext(ctx, &lessons, q, teacherID); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (repo *lessonRepository) QueryLessonsByStudent(ctx context.Context, studentID string) ([]lesson.Lesson, error) {
	var lessons []lesson.Lesson
	const q = `SELECT * FROM lessons WHERE student_id = $1`
	if err := repo.db.SelectContext(ctx, &lessons, q, studentID); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (repo *lessonRepository) QueryLessonsByStudentEmail(ctx context.Context, email string) ([]lesson.Lesson, error) {
	var lessons []lesson.Lesson
	const q = `SELECT * FROM lessons WHERE student_email = $1`
	if err := repo.db.SelectContext(ctx, &lessons, q, email); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (repo *lessonRepository) UpdateLesson(ctx context.Context, id string, ul lesson.UpdateLesson) (lesson.Lesson, error) {
	l, err := repo.GetLessonByID(ctx, id)
	if err != nil {
		return lesson.Lesson{}, err
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

	const q = `
		UPDATE lessons
		SET paid = :paid, completed = :completed, fee_per_class = :fee_per_class
		WHERE id = :id`
	if _, err := repo.db.NamedExecContext(ctx, q, l); err != nil {
		return lesson.Lesson{}, err
	}
	return l, nil
}

func (repo *lessonRepository) DeleteLesson(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return lesson.ErrNotFound
	}
	return nil
}
