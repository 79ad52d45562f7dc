package auth

import "nezabudu/internal/domain"

// CanAccess decides whether an actor may touch a resource: admins may touch
// anything, everyone else only their own rows.
func CanAccess(actor domain.Actor, ownerID int64) bool {
	return actor.IsAdmin() || actor.ID == ownerID
}

// EnsureAccess is CanAccess as an error: ErrAccessDenied on deny.
func EnsureAccess(actor domain.Actor, ownerID int64) error {
	if !CanAccess(actor, ownerID) {
		return domain.ErrAccessDenied
	}
	return nil
}
