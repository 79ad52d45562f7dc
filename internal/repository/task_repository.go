package repository

import (
	"time"

	"nezabudu/internal/domain"
)

// TaskFilter narrows ListTasks; all fields are optional and conjunctive.
// Limit and Offset are assumed already clamped by the caller.
type TaskFilter struct {
	UserID  int64
	Search  string
	Status  string
	DueFrom *time.Time
	DueTo   *time.Time
	Limit   int
	Offset  int
}

// TaskPatch updates only the fields that are non-nil.
type TaskPatch struct {
	Title                 *string
	Description           *string
	DueAt                 *time.Time
	Status                *string
	RepeatIntervalMinutes *int
}

// TaskRepository stores tasks and their tag associations. Throughout, a nil
// tagIDs slice means "leave associations unchanged" while a non-nil (possibly
// empty) slice fully replaces them.
type TaskRepository interface {
	// CreateTask inserts the task, its tag associations and the inline
	// subtasks in one transaction. Inline subtask user_id is taken from the
	// task owner, not from inline.
	CreateTask(t domain.Task, tagIDs []int64, inline []domain.SubTask) (domain.Task, error)
	GetTask(id int64) (domain.Task, error)
	// ListTasks orders by COALESCE(due_at, created_at) ascending.
	ListTasks(f TaskFilter) ([]domain.Task, error)
	UpdateTask(id int64, p TaskPatch, tagIDs []int64) (domain.Task, error)
	// DeleteTask cascades to subtask, reminder and attachment rows.
	DeleteTask(id int64) error
	// TaskTags orders by name ascending.
	TaskTags(taskID int64) ([]domain.Tag, error)
	TaskTagIDs(taskID int64) ([]int64, error)
	TaskCounters(taskID int64) (domain.TaskCounters, error)
	// TaskStoragePaths lists blob locators of the task's attachments,
	// collected before a cascading delete.
	TaskStoragePaths(taskID int64) ([]string, error)
	// ListCalendar returns dated tasks with due_at in [from, to], ordered by
	// due_at ascending.
	ListCalendar(userID int64, from, to time.Time) ([]domain.CalendarItem, error)
}
