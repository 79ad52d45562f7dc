package usecase

import (
	"errors"
	"testing"
	"time"

	"nezabudu/internal/domain"
	"nezabudu/internal/storage/memory"
)

func newReminderFixture(t *testing.T) (*memory.Store, *TaskService, *ReminderService) {
	t.Helper()
	repo := memory.New()
	tasks := NewTaskService(repo, repo, repo, newFakeBlobs(), discardLogger())
	svc := NewReminderService(repo, repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return repo, tasks, svc
}

func TestReminderServiceCreate(t *testing.T) {
	repo, tasks, svc := newReminderFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)
	view, err := tasks.Create(asActor(user), nil, TaskCreateInput{Title: "t"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// without a start bound, next run counts from now
	r, err := svc.Create(asActor(user), view.ID, 60, nil, nil, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	if !r.NextRunAt.Equal(want) {
		t.Fatalf("expected next run %v, got %v", want, r.NextRunAt)
	}
	if r.UserID != user.ID {
		t.Fatalf("expected owner %d, got %d", user.ID, r.UserID)
	}

	// an explicit start bound wins over now
	start := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	r, err = svc.Create(asActor(user), view.ID, 30, &start, nil, true)
	if err != nil {
		t.Fatalf("create with start: %v", err)
	}
	if want := start.Add(30 * time.Minute); !r.NextRunAt.Equal(want) {
		t.Fatalf("expected next run %v, got %v", want, r.NextRunAt)
	}

	var ve *domain.ValidationError
	if _, err := svc.Create(asActor(user), view.ID, 0, nil, nil, true); !errors.As(err, &ve) {
		t.Fatalf("expected validation error for interval 0, got %v", err)
	}
	if _, err := svc.Create(asActor(user), view.ID, 10081, nil, nil, true); !errors.As(err, &ve) {
		t.Fatalf("expected validation error above one week, got %v", err)
	}
}

func TestReminderServiceUpdate_RecomputesNextRun(t *testing.T) {
	repo, tasks, svc := newReminderFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)
	view, err := tasks.Create(asActor(user), nil, TaskCreateInput{Title: "t"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	start := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	r, err := svc.Create(asActor(user), view.ID, 60, &start, nil, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// empty patch is a no-op, snapshot included
	same, err := svc.Update(asActor(user), view.ID, r.ID, ReminderUpdateInput{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if !same.NextRunAt.Equal(r.NextRunAt) {
		t.Fatalf("empty update must not recompute, got %v", same.NextRunAt)
	}

	// even a bare enabled flip recomputes with the stored bounds
	off := false
	flipped, err := svc.Update(asActor(user), view.ID, r.ID, ReminderUpdateInput{IsEnabled: &off})
	if err != nil {
		t.Fatalf("flip update: %v", err)
	}
	if flipped.IsEnabled {
		t.Fatal("expected is_enabled false")
	}
	if want := start.Add(60 * time.Minute); !flipped.NextRunAt.Equal(want) {
		t.Fatalf("expected next run %v, got %v", want, flipped.NextRunAt)
	}

	// new interval wins in the recomputation
	every := 120
	changed, err := svc.Update(asActor(user), view.ID, r.ID, ReminderUpdateInput{EveryMinutes: &every})
	if err != nil {
		t.Fatalf("interval update: %v", err)
	}
	if want := start.Add(120 * time.Minute); !changed.NextRunAt.Equal(want) {
		t.Fatalf("expected next run %v, got %v", want, changed.NextRunAt)
	}

	bad := 0
	var ve *domain.ValidationError
	if _, err := svc.Update(asActor(user), view.ID, r.ID, ReminderUpdateInput{EveryMinutes: &bad}); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReminderServiceScopedToTask(t *testing.T) {
	repo, tasks, svc := newReminderFixture(t)
	alice := seedUser(t, repo, "alice@example.com", domain.RoleUser)
	bob := seedUser(t, repo, "bob@example.com", domain.RoleUser)

	taskA, err := tasks.Create(asActor(alice), nil, TaskCreateInput{Title: "a"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	taskB, err := tasks.Create(asActor(alice), nil, TaskCreateInput{Title: "b"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	r, err := svc.Create(asActor(alice), taskA.ID, 60, nil, nil, true)
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	// the reminder id only resolves under its own task
	if _, err := svc.Update(asActor(alice), taskB.ID, r.ID, ReminderUpdateInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound under wrong task, got %v", err)
	}
	if err := svc.Delete(asActor(alice), taskB.ID, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound under wrong task, got %v", err)
	}

	if _, err := svc.List(asActor(bob), taskA.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if err := svc.Delete(asActor(bob), taskA.ID, r.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	if err := svc.Delete(asActor(alice), taskA.ID, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := svc.List(asActor(alice), taskA.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no reminders, got %d", len(got))
	}
}
