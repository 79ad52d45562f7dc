package repository

import "nezabudu/internal/domain"

type AttachmentRepository interface {
	CreateAttachment(a domain.Attachment) (domain.Attachment, error)
	GetAttachment(id int64) (domain.Attachment, error)
	// ListAttachments orders by created_at descending.
	ListAttachments(taskID int64) ([]domain.Attachment, error)
	DeleteAttachment(id int64) error
}
