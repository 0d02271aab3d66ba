package reminder

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/riyazhq/riyaz/core"
	"github.com/riyazhq/riyaz/core/lesson"
)

var (
	// errors
	ErrNotFound = errors.New("reminder not found")
)

type (
	Repository interface {
		CreateReminder(ctx context.Context, r Reminder) (Reminder, error)
		QueryRemindersByUser(ctx context.Context, userID string) ([]Reminder, error)
		GetReminderByID(ctx context.Context, id string) (Reminder, error)
		SetReminderRead(ctx context.Context, id string, read bool) (Reminder, error)
		DeleteReminder(ctx context.Context, id string) error
	}

	Service interface {
		Create(ctx context.Context, userID string, nr NewReminder) (Reminder, error)
		QueryByUser(ctx context.Context, userID string) ([]Reminder, error)
		MarkRead(ctx context.Context, id string) (Reminder, error)
		Delete(ctx context.Context, id string) error

		// GeneratePaymentReminders derives one payment reminder per
		// not-fully-paid bill of now's month, persists the new ones and
		// mails the user a single summary. Bills already covered by an
		// existing reminder are skipped, so re-running is harmless.
		GeneratePaymentReminders(ctx context.Context, userID, userEmail string, bills []lesson.MonthlyBill, now time.Time) ([]Reminder, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) Service {
	return &service{repo: repo, mailSvc: mailSvc}
}

func (svc *service) Create(ctx context.Context, userID string, nr NewReminder) (Reminder, error) {
	r := Reminder{
		UserID:    userID,
		Kind:      nr.Kind,
		Title:     nr.Title,
		Message:   nr.Message,
		DueDate:   nr.DueDate,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateReminder(ctx, r)
}

func (svc *service) QueryByUser(ctx context.Context, userID string) ([]Reminder, error) {
	return svc.repo.QueryRemindersByUser(ctx, userID)
}

func (svc *service) MarkRead(ctx context.Context, id string) (Reminder, error) {
	return svc.repo.SetReminderRead(ctx, id, true)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteReminder(ctx, id)
}

func (svc *service) GeneratePaymentReminders(ctx context.Context, userID, userEmail string, bills []lesson.MonthlyBill, now time.Time) ([]Reminder, error) {
	month := now.Format("2006-01")
	dueDate := month + "-01"

	existing, err := svc.repo.QueryRemindersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		if r.Kind == KindPayment {
			seen[r.Title+"|"+r.DueDate] = struct{}{}
		}
	}

	var created []Reminder
	for _, b := range bills {
		if b.AllPaid || b.Month != month {
			continue
		}
		title := fmt.Sprintf("Fees due: %s", b.StudentName)
		if _, ok := seen[title+"|"+dueDate]; ok {
			continue
		}
		r, err := svc.repo.CreateReminder(ctx, Reminder{
			UserID:    userID,
			Kind:      KindPayment,
			Title:     title,
			Message:   fmt.Sprintf("%d lessons this month, %d due", b.LessonCount, b.TotalFee),
			DueDate:   dueDate,
			CreatedAt: now.UTC(),
		})
		if err != nil {
			return created, err
		}
		created = append(created, r)
	}

	if len(created) > 0 && userEmail != "" {
		body := fmt.Sprintf("You have %d uncollected monthly fees for %s.", len(created), month)
		for _, r := range created {
			body += "\n- " + r.Title + ": " + r.Message
		}
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Address: userEmail}},
			Subject: "Monthly fee collection",
			BodyStr: body,
		})
	}
	return created, nil
}
