package usecase

import (
	"strings"

	"nezabudu/internal/auth"
	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
)

type TagService struct {
	tags  repository.TagRepository
	users repository.UserRepository
}

func NewTagService(tags repository.TagRepository, users repository.UserRepository) *TagService {
	return &TagService{tags: tags, users: users}
}

func validTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < 1 || len(name) > 50 {
		return "", domain.Invalid("name", "must be 1..50 characters")
	}
	return name, nil
}

// Create makes a tag for the actor, or for onBehalfOf when an admin asks.
func (s *TagService) Create(actor domain.Actor, onBehalfOf *int64, name string) (domain.Tag, error) {
	ownerID, err := resolveTargetUser(s.users, actor, onBehalfOf)
	if err != nil {
		return domain.Tag{}, err
	}
	name, err = validTagName(name)
	if err != nil {
		return domain.Tag{}, err
	}
	t, err := s.tags.CreateTag(domain.Tag{UserID: ownerID, Name: name})
	if err != nil {
		return domain.Tag{}, mapStoreErr(err)
	}
	return t, nil
}

func (s *TagService) List(actor domain.Actor, onBehalfOf *int64) ([]domain.Tag, error) {
	ownerID, err := resolveTargetUser(s.users, actor, onBehalfOf)
	if err != nil {
		return nil, err
	}
	out, err := s.tags.ListTags(ownerID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return out, nil
}

func (s *TagService) Update(actor domain.Actor, id int64, name *string) (domain.Tag, error) {
	t, err := s.tags.GetTag(id)
	if err != nil {
		return domain.Tag{}, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, t.UserID); err != nil {
		return domain.Tag{}, err
	}
	if name == nil {
		return t, nil
	}
	trimmed, err := validTagName(*name)
	if err != nil {
		return domain.Tag{}, err
	}
	t, err = s.tags.UpdateTagName(id, trimmed)
	if err != nil {
		return domain.Tag{}, mapStoreErr(err)
	}
	return t, nil
}

// Delete removes the tag itself; association rows go with it, tasks stay.
func (s *TagService) Delete(actor domain.Actor, id int64) error {
	t, err := s.tags.GetTag(id)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, t.UserID); err != nil {
		return err
	}
	return mapStoreErr(s.tags.DeleteTag(id))
}
