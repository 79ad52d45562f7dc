package domain

import "time"

// Tag is a per-user label. (user_id, name) is unique; two users may own
// identically named tags.
type Tag struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
