package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/riyazhq/riyaz/core/student"
)

type studentApi struct {
	svc student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc student.Service) {
	api := studentApi{svc: svc}

	// the roster belongs to the teacher; all endpoints are teacher-only
	sg := g.Group("/students", jwt, teacherMiddleware())
	sg.POST("", api.create)
	sg.GET("", api.query)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	st, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	students, err := api.svc.QueryByTeacher(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

// getOwnStudent loads the student and hides other teachers' roster entries.
func (api *studentApi) getOwnStudent(ctx echo.Context) (student.Student, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting context claims")
	}

	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, errHttpNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	if st.TeacherID != claims.Subject {
		return student.Student{}, errHttpNotFound
	}
	return st, nil
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.getOwnStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) update(ctx echo.Context) error {
	st, err := api.getOwnStudent(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(st); err != nil {
		return err
	}

	st, err = api.svc.Update(ctx.Request().Context(), st.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	st, err := api.getOwnStudent(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), st.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
