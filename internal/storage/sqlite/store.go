// Package sqlite implements the repositories over an embedded sqlite
// database. Foreign keys are switched on so child rows cascade with their
// parents; timestamps are written from Go so every column carries the same
// format.
package sqlite

import (
	_ "embed"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"nezabudu/internal/storage"
)

//go:embed schema.sql
var schema string

type Store struct {
	log  *slog.Logger
	conn *sqlx.DB
	now  func() time.Time
}

func New(log *slog.Logger, path string) (*Store, error) {
	conn, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		log.Error("sqlite open failed", "path", path, "error", err)
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, err
	}
	return &Store{log: log, conn: conn, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func isUniqueViolation(err error) bool {
	var sqlErr sqlite3.Error
	return errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func mapConstraint(err error) error {
	if isUniqueViolation(err) {
		return storage.ErrConflict
	}
	return err
}
