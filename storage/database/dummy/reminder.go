package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/riyazhq/riyaz/core/reminder"
)

type reminderRepository struct {
	db *reminderTable
}

var _ reminder.Repository = (*reminderRepository)(nil) // interface compliance check

func NewReminderRepository(db *DB) reminder.Repository {
	return &reminderRepository{db: db.reminder}
}

func (repo *reminderRepository) query() []reminder.Reminder {
	reminders := make([]reminder.Reminder, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		reminders = append(reminders, *r)
	}
	return reminders
}

func (repo *reminderRepository) CreateReminder(_ context.Context, r reminder.Reminder) (reminder.Reminder, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r.ID = uuid.New().String()
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reminderRepository) QueryRemindersByUser(_ context.Context, userID string) ([]reminder.Reminder, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var reminders []reminder.Reminder
	for _, r := range repo.query() {
		if r.UserID == userID {
			reminders = append(reminders, r)
		}
	}
	return reminders, nil
}

func (repo *reminderRepository) GetReminderByID(_ context.Context, id string) (reminder.Reminder, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return reminder.Reminder{}, reminder.ErrNotFound
}

func (repo *reminderRepository) SetReminderRead(_ context.Context, id string, read bool) (reminder.Reminder, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r, ok := repo.db.table[id]
	if !ok {
		return reminder.Reminder{}, reminder.ErrNotFound
	}
	r.Read = read
	return *r, nil
}

func (repo *reminderRepository) DeleteReminder(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return reminder.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
