package usecase

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"nezabudu/internal/blob"
	"nezabudu/internal/domain"
	"nezabudu/internal/storage/memory"
)

// fakeBlobs is an in-memory blob.Store that records removals.
type fakeBlobs struct {
	files   map[string][]byte
	removed []string
	seq     int
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{files: map[string][]byte{}}
}

func (f *fakeBlobs) Put(filename string, data []byte) (string, error) {
	f.seq++
	locator := fmt.Sprintf("blob-%d__%s", f.seq, filename)
	f.files[locator] = data
	return locator, nil
}

func (f *fakeBlobs) Open(locator string) (io.ReadCloser, error) {
	data, ok := f.files[locator]
	if !ok {
		return nil, blob.ErrMissing
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobs) Remove(locator string) error {
	f.removed = append(f.removed, locator)
	if _, ok := f.files[locator]; !ok {
		return blob.ErrMissing
	}
	delete(f.files, locator)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, repo *memory.Store, email, role string) domain.User {
	t.Helper()
	u, err := repo.CreateUser(domain.User{
		Email:        email,
		Name:         "Test",
		PasswordHash: "x",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func asActor(u domain.User) domain.Actor {
	return domain.Actor{ID: u.ID, Role: u.Role}
}
