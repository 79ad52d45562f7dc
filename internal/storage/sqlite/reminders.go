package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"nezabudu/internal/domain"
	"nezabudu/internal/storage"
)

const reminderColumns = `id, task_id, user_id, every_minutes, start_at, end_at, is_enabled, next_run_at, created_at`

func (s *Store) CreateReminder(r domain.Reminder) (domain.Reminder, error) {
	r.CreatedAt = s.now()
	res, err := s.conn.Exec(`
		INSERT INTO reminders (task_id, user_id, every_minutes, start_at, end_at, is_enabled, next_run_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TaskID, r.UserID, r.EveryMinutes, r.StartAt, r.EndAt, r.IsEnabled, r.NextRunAt, r.CreatedAt,
	)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return domain.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	return r, nil
}

func (s *Store) GetReminder(taskID, id int64) (domain.Reminder, error) {
	var r domain.Reminder
	err := s.conn.Get(&r, `SELECT `+reminderColumns+` FROM reminders WHERE id = ? AND task_id = ?`, id, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Reminder{}, storage.ErrNotFound
		}
		return domain.Reminder{}, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

func (s *Store) ListReminders(taskID int64) ([]domain.Reminder, error) {
	const q = `SELECT ` + reminderColumns + ` FROM reminders WHERE task_id = ? ORDER BY created_at DESC, id DESC`

	out := []domain.Reminder{}
	if err := s.conn.Select(&out, q, taskID); err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateReminder(r domain.Reminder) (domain.Reminder, error) {
	const q = `
		UPDATE reminders
		SET every_minutes = ?, start_at = ?, end_at = ?, is_enabled = ?, next_run_at = ?
		WHERE id = ? AND task_id = ?`

	res, err := s.conn.Exec(q, r.EveryMinutes, r.StartAt, r.EndAt, r.IsEnabled, r.NextRunAt, r.ID, r.TaskID)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("update reminder: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.Reminder{}, storage.ErrNotFound
	}
	return s.GetReminder(r.TaskID, r.ID)
}

func (s *Store) DeleteReminder(taskID, id int64) error {
	res, err := s.conn.Exec(`DELETE FROM reminders WHERE id = ? AND task_id = ?`, id, taskID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}
