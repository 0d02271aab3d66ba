package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/riyazhq/riyaz/core/lesson"
	"github.com/riyazhq/riyaz/core/reminder"
)

type reminderApi struct {
	svc       reminder.Service
	lessonSvc lesson.Service
}

func registerReminderAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc reminder.Service, lessonSvc lesson.Service) {
	api := reminderApi{svc: svc, lessonSvc: lessonSvc}

	rg := g.Group("/reminders", jwt)
	rg.GET("", api.query)
	rg.POST("", api.create)
	rg.POST("/generate", api.generate, teacherMiddleware())

	dg := rg.Group("/:id")
	dg.PUT("/read", api.markRead)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *reminderApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reminders, err := api.svc.QueryByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying reminders")
	}
	return ctx.JSON(http.StatusOK, reminders)
}

func (api *reminderApi) create(ctx echo.Context) error {
	var data reminder.NewReminder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReminder")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	r, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating reminder")
	}
	return ctx.JSON(http.StatusCreated, r)
}

// generate derives payment reminders from the teacher's unpaid bills of the
// current month.
func (api *reminderApi) generate(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	report, err := api.lessonSvc.MonthlyBills(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "aggregating monthly bills")
	}

	reminders, err := api.svc.GeneratePaymentReminders(
		ctx.Request().Context(), claims.Subject, claims.Email, report.Bills, time.Now())
	if err != nil {
		return errors.Wrap(err, "generating payment reminders")
	}
	return ctx.JSON(http.StatusCreated, reminders)
}

// getOwnReminder loads the reminder and hides other users' reminders.
func (api *reminderApi) getOwnReminder(ctx echo.Context) (reminder.Reminder, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return reminder.Reminder{}, errors.Wrap(err, "getting context claims")
	}

	r, err := api.svc.QueryByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return reminder.Reminder{}, errors.Wrap(err, "querying reminders")
	}
	for _, rem := range r {
		if rem.ID == ctx.Param("id") {
			return rem, nil
		}
	}
	return reminder.Reminder{}, errHttpNotFound
}

func (api *reminderApi) markRead(ctx echo.Context) error {
	r, err := api.getOwnReminder(ctx)
	if err != nil {
		return err
	}

	r, err = api.svc.MarkRead(ctx.Request().Context(), r.ID)
	if err != nil {
		return errors.Wrap(err, "marking reminder read")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reminderApi) destroy(ctx echo.Context) error {
	r, err := api.getOwnReminder(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), r.ID); err != nil {
		return errors.Wrap(err, "deleting reminder")
	}
	return ctx.NoContent(http.StatusNoContent)
}
