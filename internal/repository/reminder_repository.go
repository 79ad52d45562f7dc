package repository

import "nezabudu/internal/domain"

type ReminderRepository interface {
	CreateReminder(r domain.Reminder) (domain.Reminder, error)
	// GetReminder scopes the lookup to the task: a reminder id under the
	// wrong task is not found.
	GetReminder(taskID, id int64) (domain.Reminder, error)
	// ListReminders orders by created_at descending.
	ListReminders(taskID int64) ([]domain.Reminder, error)
	UpdateReminder(r domain.Reminder) (domain.Reminder, error)
	DeleteReminder(taskID, id int64) error
}
