package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"nezabudu/internal/domain"
	"nezabudu/internal/storage/memory"
)

func newTaskFixture(t *testing.T) (*memory.Store, *fakeBlobs, *TaskService) {
	t.Helper()
	repo := memory.New()
	blobs := newFakeBlobs()
	return repo, blobs, NewTaskService(repo, repo, repo, blobs, discardLogger())
}

func TestTaskServiceCreate_ValidatesTitle(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	var ve *domain.ValidationError
	_, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "   "})
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	view, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "  buy milk  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.Title != "buy milk" {
		t.Fatalf("expected trimmed title, got %q", view.Title)
	}
	if view.Status != domain.TaskStatusTodo {
		t.Fatalf("expected default status todo, got %q", view.Status)
	}
}

func TestTaskServiceCreate_RejectsForeignTags(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	alice := seedUser(t, repo, "alice@example.com", domain.RoleUser)
	bob := seedUser(t, repo, "bob@example.com", domain.RoleUser)

	bobTag, err := repo.CreateTag(domain.Tag{UserID: bob.ID, Name: "work"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	var ute *domain.UnknownTagIDsError
	_, err = svc.Create(asActor(alice), nil, TaskCreateInput{
		Title:  "t",
		TagIDs: []int64{bobTag.ID, 9999},
	})
	if !errors.As(err, &ute) {
		t.Fatalf("expected unknown-tag error, got %v", err)
	}
	if len(ute.IDs) != 2 {
		t.Fatalf("expected both offending ids reported, got %v", ute.IDs)
	}
}

func TestTaskServiceCreate_InlineSubtasksCappedAndFiltered(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	var inline []InlineSubTask
	for i := 0; i < 30; i++ {
		inline = append(inline,
			InlineSubTask{Title: "   "}, // dropped
			InlineSubTask{Title: fmt.Sprintf("step %02d", i)},
			InlineSubTask{Title: fmt.Sprintf("check %02d", i)},
		)
	}

	view, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "big", Subtasks: inline})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.SubtasksCount != 50 {
		t.Fatalf("expected 50 subtasks kept, got %d", view.SubtasksCount)
	}

	stored, err := repo.ListSubTasks(view.ID)
	if err != nil {
		t.Fatalf("list subtasks: %v", err)
	}
	if len(stored) != 50 {
		t.Fatalf("expected 50 stored subtasks, got %d", len(stored))
	}
	if stored[0].Title != "step 00" || stored[1].Title != "check 00" {
		t.Fatalf("expected original order preserved, got %q, %q", stored[0].Title, stored[1].Title)
	}
}

func TestTaskServiceList_ClampsPagination(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: fmt.Sprintf("t%d", i)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := svc.List(asActor(user), nil, TaskListInput{Limit: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected limit 0 clamped to 1, got %d items", len(got))
	}

	got, err = svc.List(asActor(user), nil, TaskListInput{Limit: 1000, Offset: -5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all 3 items, got %d", len(got))
	}
}

func TestTaskServiceList_OrdersByDueThenCreated(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	late := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "late", DueAt: &late}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "no due"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "early", DueAt: &early}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.List(asActor(user), nil, TaskListInput{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	// fake clock starts in January 2026, so "no due" sorts by its created_at
	// before both explicit due dates
	if got[0].Title != "no due" || got[1].Title != "early" || got[2].Title != "late" {
		t.Fatalf("unexpected order: %q, %q, %q", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestTaskServiceCrossTenantDenied(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	alice := seedUser(t, repo, "alice@example.com", domain.RoleUser)
	bob := seedUser(t, repo, "bob@example.com", domain.RoleUser)

	view, err := svc.Create(asActor(alice), nil, TaskCreateInput{Title: "private"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(asActor(bob), view.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("get: expected ErrAccessDenied, got %v", err)
	}
	title := "hijack"
	if _, err := svc.Update(asActor(bob), view.ID, TaskUpdateInput{Title: &title}); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("update: expected ErrAccessDenied, got %v", err)
	}
	if err := svc.Delete(asActor(bob), view.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("delete: expected ErrAccessDenied, got %v", err)
	}
	if _, err := svc.GenerateNext(asActor(bob), view.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("generate next: expected ErrAccessDenied, got %v", err)
	}

	admin := seedUser(t, repo, "admin@example.com", domain.RoleAdmin)
	if _, err := svc.Get(asActor(admin), view.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestTaskServiceOnBehalfOf(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	alice := seedUser(t, repo, "alice@example.com", domain.RoleUser)
	bob := seedUser(t, repo, "bob@example.com", domain.RoleUser)
	admin := seedUser(t, repo, "admin@example.com", domain.RoleAdmin)

	if _, err := svc.Create(asActor(alice), &bob.ID, TaskCreateInput{Title: "x"}); !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}

	missing := int64(9999)
	if _, err := svc.Create(asActor(admin), &missing, TaskCreateInput{Title: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing target, got %v", err)
	}

	view, err := svc.Create(asActor(admin), &bob.ID, TaskCreateInput{Title: "for bob"})
	if err != nil {
		t.Fatalf("create on behalf: %v", err)
	}
	if view.UserID != bob.ID {
		t.Fatalf("expected owner %d, got %d", bob.ID, view.UserID)
	}
	if _, err := svc.Get(asActor(bob), view.ID); err != nil {
		t.Fatalf("bob must see his task: %v", err)
	}
}

func TestTaskServiceUpdate_TagReplacement(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	work, _ := repo.CreateTag(domain.Tag{UserID: user.ID, Name: "work"})
	home, _ := repo.CreateTag(domain.Tag{UserID: user.ID, Name: "home"})

	view, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "t", TagIDs: []int64{work.ID}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// nil leaves associations alone
	desc := "updated"
	view, err = svc.Update(asActor(user), view.ID, TaskUpdateInput{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(view.Tags) != 1 || view.Tags[0].ID != work.ID {
		t.Fatalf("expected tags untouched, got %v", view.Tags)
	}

	// non-nil replaces the whole set, duplicates collapse
	view, err = svc.Update(asActor(user), view.ID, TaskUpdateInput{TagIDs: []int64{home.ID, home.ID}})
	if err != nil {
		t.Fatalf("update tags: %v", err)
	}
	if len(view.Tags) != 1 || view.Tags[0].ID != home.ID {
		t.Fatalf("expected only home tag, got %v", view.Tags)
	}

	// empty set clears
	view, err = svc.Update(asActor(user), view.ID, TaskUpdateInput{TagIDs: []int64{}})
	if err != nil {
		t.Fatalf("clear tags: %v", err)
	}
	if len(view.Tags) != 0 {
		t.Fatalf("expected no tags, got %v", view.Tags)
	}
}

func TestTaskServiceUpdate_ForeignTagsResolveAgainstOwner(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	bob := seedUser(t, repo, "bob@example.com", domain.RoleUser)
	admin := seedUser(t, repo, "admin@example.com", domain.RoleAdmin)

	adminTag, _ := repo.CreateTag(domain.Tag{UserID: admin.ID, Name: "flagged"})
	view, err := svc.Create(asActor(bob), nil, TaskCreateInput{Title: "bobs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var ute *domain.UnknownTagIDsError
	_, err = svc.Update(asActor(admin), view.ID, TaskUpdateInput{TagIDs: []int64{adminTag.ID}})
	if !errors.As(err, &ute) {
		t.Fatalf("expected admin's own tag rejected on bob's task, got %v", err)
	}
}

func TestTaskServiceGenerateNext(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)
	tag, _ := repo.CreateTag(domain.Tag{UserID: user.ID, Name: "chores"})

	due := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	interval := 1440
	done := domain.TaskStatusDone
	view, err := svc.Create(asActor(user), nil, TaskCreateInput{
		Title:                 "water plants",
		DueAt:                 &due,
		Status:                done,
		RepeatIntervalMinutes: &interval,
		TagIDs:                []int64{tag.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	next, err := svc.GenerateNext(asActor(user), view.ID)
	if err != nil {
		t.Fatalf("generate next: %v", err)
	}
	if next.ID == view.ID {
		t.Fatal("expected a new task")
	}
	wantDue := due.Add(24 * time.Hour)
	if next.DueAt == nil || !next.DueAt.Equal(wantDue) {
		t.Fatalf("expected due %v, got %v", wantDue, next.DueAt)
	}
	if next.Status != domain.TaskStatusTodo {
		t.Fatalf("expected status todo, got %q", next.Status)
	}
	if len(next.Tags) != 1 || next.Tags[0].ID != tag.ID {
		t.Fatalf("expected tag set copied, got %v", next.Tags)
	}

	// mutating the original's tags later must not touch the copy
	if _, err := svc.Update(asActor(user), view.ID, TaskUpdateInput{TagIDs: []int64{}}); err != nil {
		t.Fatalf("clear original tags: %v", err)
	}
	again, err := svc.Get(asActor(user), next.ID)
	if err != nil {
		t.Fatalf("get copy: %v", err)
	}
	if len(again.Tags) != 1 {
		t.Fatalf("expected copy's tags independent, got %v", again.Tags)
	}
}

func TestTaskServiceGenerateNext_Preconditions(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	plain, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "one-off"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GenerateNext(asActor(user), plain.ID); !errors.Is(err, domain.ErrNotRepeating) {
		t.Fatalf("expected ErrNotRepeating, got %v", err)
	}

	interval := 60
	noDue, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "repeating", RepeatIntervalMinutes: &interval})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GenerateNext(asActor(user), noDue.ID); !errors.Is(err, domain.ErrTaskNoDueDate) {
		t.Fatalf("expected ErrTaskNoDueDate, got %v", err)
	}
}

func TestTaskServiceDelete_CascadesAndRemovesBlobs(t *testing.T) {
	repo, blobs, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	view, err := svc.Create(asActor(user), nil, TaskCreateInput{
		Title:    "doomed",
		Subtasks: []InlineSubTask{{Title: "child"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	locator, err := blobs.Put("doc.txt", []byte("x"))
	if err != nil {
		t.Fatalf("put blob: %v", err)
	}
	if _, err := repo.CreateAttachment(domain.Attachment{
		TaskID: view.ID, UserID: user.ID, Filename: "doc.txt", SizeBytes: 1, StoragePath: locator,
	}); err != nil {
		t.Fatalf("create attachment: %v", err)
	}

	if err := svc.Delete(asActor(user), view.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(asActor(user), view.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected task gone, got %v", err)
	}
	if got, _ := repo.ListSubTasks(view.ID); len(got) != 0 {
		t.Fatalf("expected subtasks gone, got %d", len(got))
	}
	if got, _ := repo.ListAttachments(view.ID); len(got) != 0 {
		t.Fatalf("expected attachments gone, got %d", len(got))
	}
	if len(blobs.removed) != 1 || blobs.removed[0] != locator {
		t.Fatalf("expected blob removal attempted for %q, got %v", locator, blobs.removed)
	}
}

func TestTaskServiceCalendar(t *testing.T) {
	repo, _, svc := newTaskFixture(t)
	user := seedUser(t, repo, "a@example.com", domain.RoleUser)

	in := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	out := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	if _, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "inside", DueAt: &in}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "outside", DueAt: &out}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(asActor(user), nil, TaskCreateInput{Title: "dateless"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.Calendar(asActor(user), nil,
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(items) != 1 || items[0].Title != "inside" {
		t.Fatalf("expected only the in-window dated task, got %v", items)
	}
}
