package usecase

import (
	"time"

	"nezabudu/internal/auth"
	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
	"nezabudu/internal/schedule"
)

const maxReminderMinutes = 10080 // one week

type ReminderService struct {
	reminders repository.ReminderRepository
	tasks     repository.TaskRepository
	now       func() time.Time
}

func NewReminderService(reminders repository.ReminderRepository, tasks repository.TaskRepository) *ReminderService {
	return &ReminderService{reminders: reminders, tasks: tasks, now: time.Now}
}

type ReminderUpdateInput struct {
	EveryMinutes *int
	StartAt      *time.Time
	EndAt        *time.Time
	IsEnabled    *bool
}

func (in ReminderUpdateInput) empty() bool {
	return in.EveryMinutes == nil && in.StartAt == nil && in.EndAt == nil && in.IsEnabled == nil
}

func validEveryMinutes(m int) error {
	if m < 1 || m > maxReminderMinutes {
		return domain.Invalid("every_minutes", "must be 1..10080")
	}
	return nil
}

func (s *ReminderService) ownedTask(actor domain.Actor, taskID int64) (domain.Task, error) {
	task, err := s.tasks.GetTask(taskID)
	if err != nil {
		return domain.Task{}, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, task.UserID); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *ReminderService) Create(actor domain.Actor, taskID int64, everyMinutes int, startAt, endAt *time.Time, isEnabled bool) (domain.Reminder, error) {
	task, err := s.ownedTask(actor, taskID)
	if err != nil {
		return domain.Reminder{}, err
	}
	if err := validEveryMinutes(everyMinutes); err != nil {
		return domain.Reminder{}, err
	}
	r, err := s.reminders.CreateReminder(domain.Reminder{
		TaskID:       taskID,
		UserID:       task.UserID,
		EveryMinutes: everyMinutes,
		StartAt:      startAt,
		EndAt:        endAt,
		IsEnabled:    isEnabled,
		NextRunAt:    schedule.NextRunAt(startAt, everyMinutes, s.now()),
	})
	if err != nil {
		return domain.Reminder{}, mapStoreErr(err)
	}
	return r, nil
}

func (s *ReminderService) List(actor domain.Actor, taskID int64) ([]domain.Reminder, error) {
	if _, err := s.ownedTask(actor, taskID); err != nil {
		return nil, err
	}
	out, err := s.reminders.ListReminders(taskID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return out, nil
}

// Update patches the supplied fields and recomputes the next-run snapshot on
// every non-empty update, even one that only flips is_enabled. New values win
// over stored ones in the recomputation.
func (s *ReminderService) Update(actor domain.Actor, taskID, id int64, in ReminderUpdateInput) (domain.Reminder, error) {
	if _, err := s.ownedTask(actor, taskID); err != nil {
		return domain.Reminder{}, err
	}
	r, err := s.reminders.GetReminder(taskID, id)
	if err != nil {
		return domain.Reminder{}, mapStoreErr(err)
	}
	if in.empty() {
		return r, nil
	}

	if in.EveryMinutes != nil {
		if err := validEveryMinutes(*in.EveryMinutes); err != nil {
			return domain.Reminder{}, err
		}
		r.EveryMinutes = *in.EveryMinutes
	}
	if in.StartAt != nil {
		r.StartAt = in.StartAt
	}
	if in.EndAt != nil {
		r.EndAt = in.EndAt
	}
	if in.IsEnabled != nil {
		r.IsEnabled = *in.IsEnabled
	}
	r.NextRunAt = schedule.NextRunAt(r.StartAt, r.EveryMinutes, s.now())

	r, err = s.reminders.UpdateReminder(r)
	if err != nil {
		return domain.Reminder{}, mapStoreErr(err)
	}
	return r, nil
}

func (s *ReminderService) Delete(actor domain.Actor, taskID, id int64) error {
	if _, err := s.ownedTask(actor, taskID); err != nil {
		return err
	}
	return mapStoreErr(s.reminders.DeleteReminder(taskID, id))
}
