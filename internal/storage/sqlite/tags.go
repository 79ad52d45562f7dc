package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nezabudu/internal/domain"
	"nezabudu/internal/storage"
)

func (s *Store) CreateTag(t domain.Tag) (domain.Tag, error) {
	t.CreatedAt = s.now()
	res, err := s.conn.Exec(`
		INSERT INTO tags (user_id, name, created_at)
		VALUES (?, ?, ?)`,
		t.UserID, t.Name, t.CreatedAt,
	)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("insert tag: %w", mapConstraint(err))
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	return t, nil
}

func (s *Store) GetTag(id int64) (domain.Tag, error) {
	const q = `SELECT id, user_id, name, created_at FROM tags WHERE id = ?`

	var t domain.Tag
	if err := s.conn.Get(&t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Tag{}, storage.ErrNotFound
		}
		return domain.Tag{}, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

func (s *Store) ListTags(userID int64) ([]domain.Tag, error) {
	const q = `SELECT id, user_id, name, created_at FROM tags WHERE user_id = ? ORDER BY name ASC`

	out := []domain.Tag{}
	if err := s.conn.Select(&out, q, userID); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateTagName(id int64, name string) (domain.Tag, error) {
	res, err := s.conn.Exec(`UPDATE tags SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("update tag: %w", mapConstraint(err))
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.Tag{}, storage.ErrNotFound
	}
	return s.GetTag(id)
}

func (s *Store) DeleteTag(id int64) error {
	res, err := s.conn.Exec(`DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ResolveOwnedTagIDs(userID int64, ids []int64) (map[int64]bool, error) {
	owned := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return owned, nil
	}
	query, args, err := sqlx.In(`SELECT id FROM tags WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	var found []int64
	if err := s.conn.Select(&found, s.conn.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	for _, id := range found {
		owned[id] = true
	}
	return owned, nil
}
