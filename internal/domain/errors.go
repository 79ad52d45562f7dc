package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAccessDenied  = errors.New("access denied")
	ErrAdminRequired = errors.New("admin access required")
	ErrConflict      = errors.New("already exists")
	ErrBadCredential = errors.New("invalid password")

	ErrEmptyFile     = errors.New("empty file")
	ErrFileTooLarge  = errors.New("file too large (max 25MB)")
	ErrMediaMissing  = errors.New("file missing on disk")
	ErrNotRepeating  = errors.New("task is not repeating")
	ErrTaskNoDueDate = errors.New("task has no due_at")
)

// ValidationError rejects malformed input before any write.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// UnknownTagIDsError lists tag ids that do not resolve to tags owned by the
// task's owner.
type UnknownTagIDsError struct {
	IDs []int64
}

func (e *UnknownTagIDsError) Error() string {
	ids := make([]int64, len(e.IDs))
	copy(ids, e.IDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "unknown tag_ids for this user: [" + strings.Join(parts, ", ") + "]"
}
