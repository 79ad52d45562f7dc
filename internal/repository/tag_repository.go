package repository

import "nezabudu/internal/domain"

type TagRepository interface {
	CreateTag(t domain.Tag) (domain.Tag, error)
	GetTag(id int64) (domain.Tag, error)
	// ListTags orders by name ascending.
	ListTags(userID int64) ([]domain.Tag, error)
	UpdateTagName(id int64, name string) (domain.Tag, error)
	DeleteTag(id int64) error
	// ResolveOwnedTagIDs reports which of the given ids belong to tags owned
	// by userID.
	ResolveOwnedTagIDs(userID int64, ids []int64) (map[int64]bool, error)
}
