package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nezabudu/internal/domain"
	"nezabudu/internal/storage"
)

const subtaskColumns = `id, task_id, user_id, title, is_done, created_at, updated_at`

func (s *Store) CreateSubTask(st domain.SubTask) (domain.SubTask, error) {
	now := s.now()
	st.CreatedAt = now
	st.UpdatedAt = now
	res, err := s.conn.Exec(`
		INSERT INTO subtasks (task_id, user_id, title, is_done, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		st.TaskID, st.UserID, st.Title, st.IsDone, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return domain.SubTask{}, fmt.Errorf("insert subtask: %w", err)
	}
	if st.ID, err = res.LastInsertId(); err != nil {
		return domain.SubTask{}, fmt.Errorf("insert subtask: %w", err)
	}
	return st, nil
}

func (s *Store) GetSubTask(id int64) (domain.SubTask, error) {
	var st domain.SubTask
	if err := s.conn.Get(&st, `SELECT `+subtaskColumns+` FROM subtasks WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SubTask{}, storage.ErrNotFound
		}
		return domain.SubTask{}, fmt.Errorf("get subtask: %w", err)
	}
	return st, nil
}

func (s *Store) ListSubTasks(taskID int64) ([]domain.SubTask, error) {
	const q = `SELECT ` + subtaskColumns + ` FROM subtasks WHERE task_id = ? ORDER BY created_at ASC, id ASC`

	out := []domain.SubTask{}
	if err := s.conn.Select(&out, q, taskID); err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateSubTask(id int64, title *string, isDone *bool) (domain.SubTask, error) {
	var sets []string
	var args []any
	if title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *title)
	}
	if isDone != nil {
		sets = append(sets, "is_done = ?")
		args = append(args, *isDone)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, s.now(), id)
		res, err := s.conn.Exec(`UPDATE subtasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return domain.SubTask{}, fmt.Errorf("update subtask: %w", err)
		}
		if aff, _ := res.RowsAffected(); aff == 0 {
			return domain.SubTask{}, storage.ErrNotFound
		}
	}
	return s.GetSubTask(id)
}

func (s *Store) DeleteSubTask(id int64) error {
	res, err := s.conn.Exec(`DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}
