package domain

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
	TaskStatusArchived   = "archived"
)

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived:
		return true
	}
	return false
}

type Task struct {
	ID                    int64      `json:"id" db:"id"`
	UserID                int64      `json:"user_id" db:"user_id"`
	Title                 string     `json:"title" db:"title"`
	Description           *string    `json:"description,omitempty" db:"description"`
	DueAt                 *time.Time `json:"due_at,omitempty" db:"due_at"`
	Status                string     `json:"status" db:"status"`
	RepeatIntervalMinutes *int       `json:"repeat_interval_minutes,omitempty" db:"repeat_interval_minutes"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// TaskView is the hydrated task shape returned by the API: the task row plus
// its tags (sorted by name) and child counters.
type TaskView struct {
	Task
	Tags           []Tag `json:"tags"`
	SubtasksCount  int   `json:"subtasks_count"`
	FilesCount     int   `json:"files_count"`
	RemindersCount int   `json:"reminders_count"`
}

// TaskCounters are the per-task child counts read from the ledger tables.
type TaskCounters struct {
	Subtasks  int
	Files     int
	Reminders int
}

// CalendarItem is the light projection of a dated task used by the calendar view.
type CalendarItem struct {
	TaskID int64     `json:"task_id" db:"task_id"`
	Title  string    `json:"title" db:"title"`
	DueAt  time.Time `json:"due_at" db:"due_at"`
	Status string    `json:"status" db:"status"`
	UserID int64     `json:"user_id" db:"user_id"`
}
