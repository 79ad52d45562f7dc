// Package storage holds the sentinel errors shared by every store
// implementation. Services translate them into the domain taxonomy.
package storage

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("unique constraint violated")
)
