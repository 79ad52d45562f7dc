package domain

import "time"

// Reminder computes a next-run snapshot; nothing in this system dispatches it.
// NextRunAt is recalculated on every write, never on a timer.
type Reminder struct {
	ID           int64      `json:"id" db:"id"`
	TaskID       int64      `json:"task_id" db:"task_id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	EveryMinutes int        `json:"every_minutes" db:"every_minutes"`
	StartAt      *time.Time `json:"start_at,omitempty" db:"start_at"`
	EndAt        *time.Time `json:"end_at,omitempty" db:"end_at"`
	IsEnabled    bool       `json:"is_enabled" db:"is_enabled"`
	NextRunAt    time.Time  `json:"next_run_at" db:"next_run_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
