package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
	"nezabudu/internal/storage"
)

const taskColumns = `id, user_id, title, description, due_at, status, repeat_interval_minutes, created_at, updated_at`

func (s *Store) CreateTask(t domain.Task, tagIDs []int64, inline []domain.SubTask) (domain.Task, error) {
	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now

	tx, err := s.conn.Beginx()
	if err != nil {
		return domain.Task{}, fmt.Errorf("begin create task: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO tasks (user_id, title, description, due_at, status, repeat_interval_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Title, t.Description, t.DueAt, t.Status, t.RepeatIntervalMinutes, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}

	if tagIDs != nil {
		if err := replaceTaskTags(tx, t.ID, tagIDs); err != nil {
			return domain.Task{}, err
		}
	}

	for _, st := range inline {
		_, err := tx.Exec(`
			INSERT INTO subtasks (task_id, user_id, title, is_done, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.UserID, st.Title, st.IsDone, now, now,
		)
		if err != nil {
			return domain.Task{}, fmt.Errorf("insert inline subtask: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("commit create task: %w", err)
	}
	return t, nil
}

func (s *Store) GetTask(id int64) (domain.Task, error) {
	var t domain.Task
	if err := s.conn.Get(&t, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, storage.ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) ListTasks(f repository.TaskFilter) ([]domain.Task, error) {
	var sb strings.Builder
	args := []any{f.UserID}

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`)

	if f.Search != "" {
		sb.WriteString(` AND (title LIKE ? OR description LIKE ?)`)
		pat := "%" + f.Search + "%"
		args = append(args, pat, pat)
	}
	if f.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, f.Status)
	}
	if f.DueFrom != nil {
		sb.WriteString(` AND due_at >= ?`)
		args = append(args, *f.DueFrom)
	}
	if f.DueTo != nil {
		sb.WriteString(` AND due_at <= ?`)
		args = append(args, *f.DueTo)
	}

	// Undated tasks sort by creation time, interleaved with dated ones.
	sb.WriteString(` ORDER BY COALESCE(due_at, created_at) ASC LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)

	out := []domain.Task{}
	if err := s.conn.Select(&out, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateTask(id int64, p repository.TaskPatch, tagIDs []int64) (domain.Task, error) {
	tx, err := s.conn.Beginx()
	if err != nil {
		return domain.Task{}, fmt.Errorf("begin update task: %w", err)
	}
	defer tx.Rollback()

	var sets []string
	var args []any
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.DueAt != nil {
		sets = append(sets, "due_at = ?")
		args = append(args, *p.DueAt)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if p.RepeatIntervalMinutes != nil {
		sets = append(sets, "repeat_interval_minutes = ?")
		args = append(args, *p.RepeatIntervalMinutes)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, s.now(), id)
		res, err := tx.Exec(`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return domain.Task{}, fmt.Errorf("update task: %w", err)
		}
		if aff, _ := res.RowsAffected(); aff == 0 {
			return domain.Task{}, storage.ErrNotFound
		}
	}

	if tagIDs != nil {
		if err := replaceTaskTags(tx, id, tagIDs); err != nil {
			return domain.Task{}, err
		}
	}

	var t domain.Task
	if err := tx.Get(&t, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, storage.ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("reload task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("commit update task: %w", err)
	}
	return t, nil
}

func (s *Store) DeleteTask(id int64) error {
	res, err := s.conn.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) TaskTags(taskID int64) ([]domain.Tag, error) {
	const q = `
		SELECT t.id, t.user_id, t.name, t.created_at
		FROM tags t
		JOIN task_tags tt ON tt.tag_id = t.id
		WHERE tt.task_id = ?
		ORDER BY t.name ASC`

	out := []domain.Tag{}
	if err := s.conn.Select(&out, q, taskID); err != nil {
		return nil, fmt.Errorf("task tags: %w", err)
	}
	return out, nil
}

func (s *Store) TaskTagIDs(taskID int64) ([]int64, error) {
	var ids []int64
	if err := s.conn.Select(&ids, `SELECT tag_id FROM task_tags WHERE task_id = ?`, taskID); err != nil {
		return nil, fmt.Errorf("task tag ids: %w", err)
	}
	return ids, nil
}

func (s *Store) TaskCounters(taskID int64) (domain.TaskCounters, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM subtasks WHERE task_id = ?) AS subtasks,
			(SELECT COUNT(*) FROM files WHERE task_id = ?) AS files,
			(SELECT COUNT(*) FROM reminders WHERE task_id = ?) AS reminders`

	var c domain.TaskCounters
	row := s.conn.QueryRow(q, taskID, taskID, taskID)
	if err := row.Scan(&c.Subtasks, &c.Files, &c.Reminders); err != nil {
		return domain.TaskCounters{}, fmt.Errorf("task counters: %w", err)
	}
	return c, nil
}

func (s *Store) TaskStoragePaths(taskID int64) ([]string, error) {
	var paths []string
	if err := s.conn.Select(&paths, `SELECT storage_path FROM files WHERE task_id = ?`, taskID); err != nil {
		return nil, fmt.Errorf("task storage paths: %w", err)
	}
	return paths, nil
}

func (s *Store) ListCalendar(userID int64, from, to time.Time) ([]domain.CalendarItem, error) {
	const q = `
		SELECT id AS task_id, title, due_at, status, user_id
		FROM tasks
		WHERE user_id = ? AND due_at IS NOT NULL AND due_at >= ? AND due_at <= ?
		ORDER BY due_at ASC`

	out := []domain.CalendarItem{}
	if err := s.conn.Select(&out, q, userID, from, to); err != nil {
		return nil, fmt.Errorf("list calendar: %w", err)
	}
	return out, nil
}

// replaceTaskTags fully replaces the association set: delete all, insert the
// new set. Not diffed.
func replaceTaskTags(tx *sqlx.Tx, taskID int64, tagIDs []int64) error {
	if _, err := tx.Exec(`DELETE FROM task_tags WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clear task tags: %w", err)
	}
	for _, tagID := range tagIDs {
		_, err := tx.Exec(`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`, taskID, tagID)
		if err != nil {
			return fmt.Errorf("insert task tag: %w", err)
		}
	}
	return nil
}
