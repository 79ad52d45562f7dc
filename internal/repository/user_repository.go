package repository

import "nezabudu/internal/domain"

type UserRepository interface {
	CreateUser(u domain.User) (domain.User, error)
	GetUser(id int64) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
	// ListUsers orders by created_at descending; search matches email or name.
	ListUsers(search string, limit, offset int) ([]domain.User, error)
	UpdateUser(id int64, name, role *string) (domain.User, error)
	// DeleteUser cascades to all owned tasks and their children.
	DeleteUser(id int64) error
	CountAdmins() (int, error)
	// UserStoragePaths lists blob locators of every attachment under the
	// user's tasks, collected before a cascading delete.
	UserStoragePaths(userID int64) ([]string, error)
}
