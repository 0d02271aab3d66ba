package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/riyazhq/riyaz/core"
	"github.com/riyazhq/riyaz/core/lesson"
)

type lessonApi struct {
	svc lesson.Service
}

func registerLessonAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc lesson.Service) {
	api := lessonApi{svc: svc}

	lg := g.Group("/lessons", jwt)
	lg.POST("", api.create, teacherMiddleware())
	lg.POST("/schedule", api.schedule, teacherMiddleware())
	lg.GET("", api.query)

	dg := lg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, teacherMiddleware())
	dg.DELETE("", api.destroy, teacherMiddleware())

	bg := g.Group("/billing", jwt)
	bg.GET("/months", api.monthlyBills, teacherMiddleware())
	bg.PUT("/months/paid", api.setMonthPaid, teacherMiddleware())
	bg.GET("/current", api.currentMonthStatus)
}

// MonthPaidRequest asks for every lesson of one (student, month) group to be
// flipped paid or unpaid.
type MonthPaidRequest struct {
	StudentKey string `json:"student_key" validate:"required"`
	Month      string `json:"month" validate:"required,datetime=2006-01"`
	Paid       bool   `json:"paid"`
}

func (r *MonthPaidRequest) Validate() error { return core.Validate.Struct(r) }

// Handlers

func (api *lessonApi) create(ctx echo.Context) error {
	var data lesson.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	l, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *lessonApi) schedule(ctx echo.Context) error {
	var data lesson.ScheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	lessons, err := api.svc.BulkSchedule(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lessons)
}

// query returns the caller's lessons: a teacher sees every lesson they
// scheduled, a student sees their own by roster id or contact email.
func (api *lessonApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var lessons []lesson.Lesson
	if claims.IsTeacher {
		lessons, err = api.svc.QueryByTeacher(ctx.Request().Context(), claims.Subject)
	} else {
		lessons, err = api.svc.QueryByStudent(ctx.Request().Context(), claims.Subject, claims.Email)
	}
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

// getVisibleLesson loads the lesson and hides it from anyone but its teacher
// and its student.
func (api *lessonApi) getVisibleLesson(ctx echo.Context) (lesson.Lesson, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "getting context claims")
	}

	l, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == lesson.ErrNotFound {
			return lesson.Lesson{}, errHttpNotFound
		}
		return lesson.Lesson{}, errors.Wrap(err, "finding lesson by ID")
	}

	mine := l.TeacherID == claims.Subject ||
		l.StudentID == claims.Subject ||
		(claims.Email != "" && l.StudentEmail == claims.Email)
	if !mine {
		return lesson.Lesson{}, errHttpNotFound
	}
	return l, nil
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	l, err := api.getVisibleLesson(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *lessonApi) update(ctx echo.Context) error {
	l, err := api.getVisibleLesson(ctx)
	if err != nil {
		return err
	}

	var data lesson.UpdateLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	l, err = api.svc.Update(ctx.Request().Context(), l.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *lessonApi) destroy(ctx echo.Context) error {
	l, err := api.getVisibleLesson(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), l.ID); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *lessonApi) monthlyBills(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	report, err := api.svc.MonthlyBills(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "aggregating monthly bills")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *lessonApi) setMonthPaid(ctx echo.Context) error {
	var data MonthPaidRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MonthPaidRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.SetMonthPaid(ctx.Request().Context(), claims.Subject, data.StudentKey, data.Month, data.Paid); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *lessonApi) currentMonthStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	status, err := api.svc.StudentMonthStatus(ctx.Request().Context(), claims.Subject, claims.Email, time.Now())
	if err != nil {
		return errors.Wrap(err, "getting current month status")
	}
	return ctx.JSON(http.StatusOK, status)
}
