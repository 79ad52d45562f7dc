// Package usecase holds the services behind the HTTP boundary: validation,
// the access-control layer and the orchestration that keeps derived state
// (tag associations, counters, next-run snapshots) consistent.
package usecase

import (
	"errors"

	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
	"nezabudu/internal/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// clampPage silently clamps out-of-range pagination inputs instead of
// rejecting them.
func clampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// mapStoreErr translates store sentinels into the domain taxonomy; anything
// else stays wrapped and is reported generically to callers.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, storage.ErrConflict):
		return domain.ErrConflict
	default:
		return err
	}
}

// resolveTargetUser applies the on-behalf-of rule: non-admin actors may only
// ever act as themselves; admins may act as any existing user.
func resolveTargetUser(users repository.UserRepository, actor domain.Actor, requested *int64) (int64, error) {
	if requested == nil {
		return actor.ID, nil
	}
	if !actor.IsAdmin() {
		return 0, domain.ErrAdminRequired
	}
	if _, err := users.GetUser(*requested); err != nil {
		return 0, mapStoreErr(err)
	}
	return *requested, nil
}
