// Package blob is the byte-store collaborator. The core hands around opaque
// locators; only this package knows they are paths under the upload
// directory.
package blob

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var ErrMissing = errors.New("blob missing")

// Store is the contract the services depend on.
type Store interface {
	Put(filename string, data []byte) (string, error)
	Open(locator string) (io.ReadCloser, error)
	Remove(locator string) error
}

// FS stores blobs as files named <uuid>__<original name>.
type FS struct {
	dir string
}

func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FS{dir: dir}, nil
}

func (f *FS) Put(filename string, data []byte) (string, error) {
	if filename == "" {
		filename = "file"
	}
	// drop any path components a client smuggled into the name
	name := uuid.NewString() + "__" + filepath.Base(filename)
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *FS) Open(locator string) (io.ReadCloser, error) {
	rc, err := os.Open(locator)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrMissing
		}
		return nil, err
	}
	return rc, nil
}

func (f *FS) Remove(locator string) error {
	err := os.Remove(locator)
	if errors.Is(err, os.ErrNotExist) {
		return ErrMissing
	}
	return err
}
