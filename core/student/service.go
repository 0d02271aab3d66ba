package student

import (
	"context"
	"errors"
	"time"

	"github.com/riyazhq/riyaz/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		QueryStudentsByTeacher(ctx context.Context, teacherID string) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		UpdateStudent(ctx context.Context, id string, us UpdateStudent) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	Service interface {
		Create(ctx context.Context, teacherID string, ns NewStudent) (Student, error)
		QueryByTeacher(ctx context.Context, teacherID string) ([]Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		GetByEmail(ctx context.Context, email string) (Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, teacherID string, ns NewStudent) (Student, error) {
	st := Student{
		TeacherID:      teacherID,
		Name:           ns.Name,
		Email:          ns.Email,
		Phone:          ns.Phone,
		Instrument:     ns.Instrument,
		FeePerClass:    ns.FeePerClass,
		MonthlyPackage: ns.MonthlyPackage,
		CreatedAt:      time.Now().UTC(),
	}
	return svc.repo.CreateStudent(ctx, st)
}

func (svc *service) QueryByTeacher(ctx context.Context, teacherID string) ([]Student, error) {
	return svc.repo.QueryStudentsByTeacher(ctx, teacherID)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	return svc.repo.UpdateStudent(ctx, id, us)
}

// Delete removes the roster entry only; the student's lessons are kept so
// past billing months remain reportable.
func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
