package domain

import "time"

// MaxAttachmentBytes is the upload size cap (25 MiB).
const MaxAttachmentBytes = 25 * 1024 * 1024

// Attachment binds uploaded content to a task. StoragePath is an opaque
// locator into the byte store; the core never interprets the bytes.
type Attachment struct {
	ID          int64     `json:"id" db:"id"`
	TaskID      int64     `json:"task_id" db:"task_id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType *string   `json:"content_type,omitempty" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
