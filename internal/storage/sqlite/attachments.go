package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"nezabudu/internal/domain"
	"nezabudu/internal/storage"
)

const fileColumns = `id, task_id, user_id, filename, content_type, size_bytes, storage_path, created_at`

func (s *Store) CreateAttachment(a domain.Attachment) (domain.Attachment, error) {
	a.CreatedAt = s.now()
	res, err := s.conn.Exec(`
		INSERT INTO files (task_id, user_id, filename, content_type, size_bytes, storage_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.TaskID, a.UserID, a.Filename, a.ContentType, a.SizeBytes, a.StoragePath, a.CreatedAt,
	)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("insert file: %w", err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return domain.Attachment{}, fmt.Errorf("insert file: %w", err)
	}
	return a, nil
}

func (s *Store) GetAttachment(id int64) (domain.Attachment, error) {
	var a domain.Attachment
	if err := s.conn.Get(&a, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Attachment{}, storage.ErrNotFound
		}
		return domain.Attachment{}, fmt.Errorf("get file: %w", err)
	}
	return a, nil
}

func (s *Store) ListAttachments(taskID int64) ([]domain.Attachment, error) {
	const q = `SELECT ` + fileColumns + ` FROM files WHERE task_id = ? ORDER BY created_at DESC, id DESC`

	out := []domain.Attachment{}
	if err := s.conn.Select(&out, q, taskID); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteAttachment(id int64) error {
	res, err := s.conn.Exec(`DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}
