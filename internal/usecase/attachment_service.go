package usecase

import (
	"errors"
	"io"
	"log/slog"

	"nezabudu/internal/auth"
	"nezabudu/internal/blob"
	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
)

type AttachmentService struct {
	attachments repository.AttachmentRepository
	tasks       repository.TaskRepository
	blobs       blob.Store
	log         *slog.Logger
}

func NewAttachmentService(
	attachments repository.AttachmentRepository,
	tasks repository.TaskRepository,
	blobs blob.Store,
	log *slog.Logger,
) *AttachmentService {
	return &AttachmentService{attachments: attachments, tasks: tasks, blobs: blobs, log: log}
}

// Upload validates the content size before anything is written, stores the
// bytes, then inserts the metadata row referencing the locator.
func (s *AttachmentService) Upload(actor domain.Actor, taskID int64, filename string, contentType *string, data []byte) (domain.Attachment, error) {
	task, err := s.tasks.GetTask(taskID)
	if err != nil {
		return domain.Attachment{}, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, task.UserID); err != nil {
		return domain.Attachment{}, err
	}
	if len(data) == 0 {
		return domain.Attachment{}, domain.ErrEmptyFile
	}
	if len(data) > domain.MaxAttachmentBytes {
		return domain.Attachment{}, domain.ErrFileTooLarge
	}
	if filename == "" {
		filename = "file"
	}

	locator, err := s.blobs.Put(filename, data)
	if err != nil {
		return domain.Attachment{}, err
	}
	a, err := s.attachments.CreateAttachment(domain.Attachment{
		TaskID:      taskID,
		UserID:      task.UserID,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		StoragePath: locator,
	})
	if err != nil {
		return domain.Attachment{}, mapStoreErr(err)
	}
	return a, nil
}

func (s *AttachmentService) List(actor domain.Actor, taskID int64) ([]domain.Attachment, error) {
	task, err := s.tasks.GetTask(taskID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, task.UserID); err != nil {
		return nil, err
	}
	out, err := s.attachments.ListAttachments(taskID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return out, nil
}

// Download resolves metadata and access; the returned reader streams the
// bytes from the byte store. The caller closes it.
func (s *AttachmentService) Download(actor domain.Actor, id int64) (domain.Attachment, io.ReadCloser, error) {
	a, err := s.attachments.GetAttachment(id)
	if err != nil {
		return domain.Attachment{}, nil, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, a.UserID); err != nil {
		return domain.Attachment{}, nil, err
	}
	rc, err := s.blobs.Open(a.StoragePath)
	if err != nil {
		if errors.Is(err, blob.ErrMissing) {
			return domain.Attachment{}, nil, domain.ErrMediaMissing
		}
		return domain.Attachment{}, nil, err
	}
	return a, rc, nil
}

// Delete removes the bytes best-effort, then the metadata row
// unconditionally.
func (s *AttachmentService) Delete(actor domain.Actor, id int64) error {
	a, err := s.attachments.GetAttachment(id)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, a.UserID); err != nil {
		return err
	}
	if err := s.blobs.Remove(a.StoragePath); err != nil {
		s.log.Warn("could not delete attachment blob", "path", a.StoragePath, "error", err)
	}
	return mapStoreErr(s.attachments.DeleteAttachment(id))
}
