package usecase

import (
	"errors"
	"testing"

	"nezabudu/internal/domain"
	"nezabudu/internal/storage/memory"
)

func TestTagServiceCreate(t *testing.T) {
	repo := memory.New()
	svc := NewTagService(repo, repo)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	tag, err := svc.Create(asActor(user), nil, "  work  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tag.Name != "work" {
		t.Fatalf("expected trimmed name, got %q", tag.Name)
	}
	if tag.UserID != user.ID {
		t.Fatalf("expected owner %d, got %d", user.ID, tag.UserID)
	}

	var ve *domain.ValidationError
	if _, err := svc.Create(asActor(user), nil, "   "); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := svc.Create(asActor(user), nil, "work"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}
}

func TestTagServicePerUserNamespaces(t *testing.T) {
	repo := memory.New()
	svc := NewTagService(repo, repo)
	alice := seedUser(t, repo, "alice@example.com", domain.RoleUser)
	bob := seedUser(t, repo, "bob@example.com", domain.RoleUser)

	if _, err := svc.Create(asActor(alice), nil, "work"); err != nil {
		t.Fatalf("alice create: %v", err)
	}
	// same name under a different owner is fine
	if _, err := svc.Create(asActor(bob), nil, "work"); err != nil {
		t.Fatalf("bob create: %v", err)
	}

	got, err := svc.List(asActor(alice), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].UserID != alice.ID {
		t.Fatalf("expected only alice's tag, got %v", got)
	}
}

func TestTagServiceUpdateDelete_CrossTenantDenied(t *testing.T) {
	repo := memory.New()
	svc := NewTagService(repo, repo)
	alice := seedUser(t, repo, "alice@example.com", domain.RoleUser)
	bob := seedUser(t, repo, "bob@example.com", domain.RoleUser)

	tag, err := svc.Create(asActor(alice), nil, "work")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "stolen"
	if _, err := svc.Update(asActor(bob), tag.ID, &name); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("update: expected ErrAccessDenied, got %v", err)
	}
	if err := svc.Delete(asActor(bob), tag.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("delete: expected ErrAccessDenied, got %v", err)
	}

	updated, err := svc.Update(asActor(alice), tag.ID, &name)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "stolen" {
		t.Fatalf("expected renamed tag, got %q", updated.Name)
	}
}

func TestTagServiceDelete_AssociationsGoTasksStay(t *testing.T) {
	repo := memory.New()
	svc := NewTagService(repo, repo)
	blobs := newFakeBlobs()
	tasks := NewTaskService(repo, repo, repo, blobs, discardLogger())
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	tag, err := svc.Create(asActor(user), nil, "work")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	view, err := tasks.Create(asActor(user), nil, TaskCreateInput{Title: "t", TagIDs: []int64{tag.ID}})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := svc.Delete(asActor(user), tag.ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}

	after, err := tasks.Get(asActor(user), view.ID)
	if err != nil {
		t.Fatalf("task must survive tag deletion: %v", err)
	}
	if len(after.Tags) != 0 {
		t.Fatalf("expected associations gone, got %v", after.Tags)
	}
}

func TestTagServiceOnBehalfOf(t *testing.T) {
	repo := memory.New()
	svc := NewTagService(repo, repo)
	bob := seedUser(t, repo, "bob@example.com", domain.RoleUser)
	admin := seedUser(t, repo, "admin@example.com", domain.RoleAdmin)

	tag, err := svc.Create(asActor(admin), &bob.ID, "assigned")
	if err != nil {
		t.Fatalf("create on behalf: %v", err)
	}
	if tag.UserID != bob.ID {
		t.Fatalf("expected owner %d, got %d", bob.ID, tag.UserID)
	}

	if _, err := svc.Create(asActor(bob), &admin.ID, "x"); !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
}
