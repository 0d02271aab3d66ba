package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/riyazhq/riyaz/core/reminder"
)

type reminderRepository struct {
	db *sqlx.DB
}

var _ reminder.Repository = (*reminderRepository)(nil) // interface compliance check

func NewReminderRepository(db *sqlx.DB) reminder.Repository {
	return &reminderRepository{db: db}
}

func (repo *reminderRepository) CreateReminder(ctx context.Context, r reminder.Reminder) (reminder.Reminder, error) {
	r.ID = uuid.New().String()
	const q = `
		INSERT INTO reminders (id, user_id, kind, title, message, due_date, read, created_at)
		VALUES (:id, :user_id, :kind, :title, :message, :due_date, :read, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, r); err != nil {
		return reminder.Reminder{}, err
	}
	return r, nil
}

func (repo *reminderRepository) QueryRemindersByUser(ctx context.Context, userID string) ([]reminder.Reminder, error) {
	var reminders []reminder.Reminder
	const q = `SELECT * FROM reminders WHERE user_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &reminders, q, userID); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *reminderRepository) GetReminderByID(ctx context.Context, id string) (reminder.Reminder, error) {
	var r reminder.Reminder
	const q = `SELECT * FROM reminders WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		if err == sql.ErrNoRows {
			return reminder.Reminder{}, reminder.ErrNotFound
		}
		return reminder.Reminder{}, err
	}
	return r, nil
}

func (repo *reminderRepository) SetReminderRead(ctx context.Context, id string, read bool) (reminder.Reminder, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE reminders SET read = $1 WHERE id = $2`, read, id)
	if err != nil {
		return reminder.Reminder{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return reminder.Reminder{}, reminder.ErrNotFound
	}
	return repo.GetReminderByID(ctx, id)
}

func (repo *reminderRepository) DeleteReminder(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return reminder.ErrNotFound
	}
	return nil
}
