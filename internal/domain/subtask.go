package domain

import "time"

// SubTask carries a denormalized copy of the parent task's user_id so
// ownership checks do not need a join.
type SubTask struct {
	ID        int64     `json:"id" db:"id"`
	TaskID    int64     `json:"task_id" db:"task_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	IsDone    bool      `json:"is_done" db:"is_done"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
