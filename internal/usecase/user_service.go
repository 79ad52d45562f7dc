package usecase

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"nezabudu/internal/auth"
	"nezabudu/internal/blob"
	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
	"nezabudu/internal/storage"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type UserService struct {
	users repository.UserRepository
	blobs blob.Store
	log   *slog.Logger
}

func NewUserService(users repository.UserRepository, blobs blob.Store, log *slog.Logger) *UserService {
	return &UserService{users: users, blobs: blobs, log: log}
}

// NormalizeEmail lowercases and validates against the standard address
// grammar.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", domain.Invalid("email", "invalid email format")
	}
	return email, nil
}

func (s *UserService) Register(email, name, password, role string) (domain.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	name = strings.TrimSpace(name)
	if len(name) < 1 || len(name) > 120 {
		return domain.User{}, domain.Invalid("name", "must be 1..120 characters")
	}
	if len(password) < 6 || len(password) > 200 {
		return domain.User{}, domain.Invalid("password", "must be 6..200 characters")
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return domain.User{}, domain.Invalid("role", "must be user or admin")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.CreateUser(domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}

func (s *UserService) Authenticate(email, password string) (domain.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// unknown email reads the same as a wrong password
			return domain.User{}, domain.ErrBadCredential
		}
		return domain.User{}, mapStoreErr(err)
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return domain.User{}, domain.ErrBadCredential
	}
	return u, nil
}

func (s *UserService) Lookup(id int64) (domain.User, error) {
	u, err := s.users.GetUser(id)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}

func (s *UserService) List(search string, limit, offset int) ([]domain.User, error) {
	limit, offset = clampPage(limit, offset)
	out, err := s.users.ListUsers(search, limit, offset)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return out, nil
}

// Update is admin-only; the handler enforces the role before calling in.
func (s *UserService) Update(id int64, name, role *string) (domain.User, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if len(trimmed) < 1 || len(trimmed) > 120 {
			return domain.User{}, domain.Invalid("name", "must be 1..120 characters")
		}
		name = &trimmed
	}
	if role != nil && !domain.ValidRole(*role) {
		return domain.User{}, domain.Invalid("role", "must be user or admin")
	}
	u, err := s.users.UpdateUser(id, name, role)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}

// Delete removes the user and everything they own. Attachment blobs are
// reaped best-effort before the cascading row delete; a blob that will not
// die is logged and left behind.
func (s *UserService) Delete(id int64) error {
	if _, err := s.users.GetUser(id); err != nil {
		return mapStoreErr(err)
	}
	paths, err := s.users.UserStoragePaths(id)
	if err != nil {
		return mapStoreErr(err)
	}
	for _, p := range paths {
		if err := s.blobs.Remove(p); err != nil {
			s.log.Warn("could not delete attachment blob", "path", p, "error", err)
		}
	}
	return mapStoreErr(s.users.DeleteUser(id))
}

// EnsureAdmin seeds an admin account when none exists yet.
func (s *UserService) EnsureAdmin(email, name, password string) error {
	n, err := s.users.CountAdmins()
	if err != nil {
		return mapStoreErr(err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.Register(email, name, password, domain.RoleAdmin); err != nil {
		return err
	}
	s.log.Info("seeded admin account", "email", email)
	return nil
}
