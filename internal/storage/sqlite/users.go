package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nezabudu/internal/domain"
	"nezabudu/internal/storage"
)

func (s *Store) CreateUser(u domain.User) (domain.User, error) {
	u.CreatedAt = s.now()
	res, err := s.conn.Exec(`
		INSERT INTO users (email, name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.Name, u.PasswordHash, u.Role, u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", mapConstraint(err))
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUser(id int64) (domain.User, error) {
	const q = `SELECT id, email, name, password_hash, role, created_at FROM users WHERE id = ?`

	var u domain.User
	if err := s.conn.Get(&u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, storage.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(email string) (domain.User, error) {
	const q = `SELECT id, email, name, password_hash, role, created_at FROM users WHERE email = ?`

	var u domain.User
	if err := s.conn.Get(&u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, storage.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *Store) ListUsers(search string, limit, offset int) ([]domain.User, error) {
	var sb strings.Builder
	var args []any

	sb.WriteString(`SELECT id, email, name, password_hash, role, created_at FROM users`)
	if search != "" {
		sb.WriteString(` WHERE email LIKE ? OR name LIKE ?`)
		pat := "%" + search + "%"
		args = append(args, pat, pat)
	}
	sb.WriteString(` ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	out := []domain.User{}
	if err := s.conn.Select(&out, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateUser(id int64, name, role *string) (domain.User, error) {
	var sets []string
	var args []any
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *role)
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := s.conn.Exec(`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return domain.User{}, fmt.Errorf("update user: %w", mapConstraint(err))
		}
		if aff, _ := res.RowsAffected(); aff == 0 {
			return domain.User{}, storage.ErrNotFound
		}
	}
	return s.GetUser(id)
}

func (s *Store) DeleteUser(id int64) error {
	res, err := s.conn.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CountAdmins() (int, error) {
	var n int
	if err := s.conn.Get(&n, `SELECT COUNT(*) FROM users WHERE role = ?`, domain.RoleAdmin); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (s *Store) UserStoragePaths(userID int64) ([]string, error) {
	var paths []string
	if err := s.conn.Select(&paths, `SELECT storage_path FROM files WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("user storage paths: %w", err)
	}
	return paths, nil
}
