package usecase

import (
	"log/slog"
	"strings"
	"time"

	"nezabudu/internal/auth"
	"nezabudu/internal/blob"
	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
)

// At most this many inline subtasks are taken per task create; the rest are
// silently dropped.
const maxInlineSubtasks = 50

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	maxRepeatMinutes  = 525600 // one year
)

type TaskService struct {
	tasks repository.TaskRepository
	tags  repository.TagRepository
	users repository.UserRepository
	blobs blob.Store
	log   *slog.Logger
}

func NewTaskService(
	tasks repository.TaskRepository,
	tags repository.TagRepository,
	users repository.UserRepository,
	blobs blob.Store,
	log *slog.Logger,
) *TaskService {
	return &TaskService{tasks: tasks, tags: tags, users: users, blobs: blobs, log: log}
}

type InlineSubTask struct {
	Title  string
	IsDone bool
}

type TaskCreateInput struct {
	Title                 string
	Description           *string
	DueAt                 *time.Time
	Status                string
	RepeatIntervalMinutes *int
	// TagIDs nil means no associations; non-nil sets exactly that set.
	TagIDs   []int64
	Subtasks []InlineSubTask
}

type TaskUpdateInput struct {
	Title                 *string
	Description           *string
	DueAt                 *time.Time
	Status                *string
	RepeatIntervalMinutes *int
	// TagIDs nil means leave associations unchanged; non-nil replaces them.
	TagIDs []int64
}

type TaskListInput struct {
	Search  string
	Status  string
	DueFrom *time.Time
	DueTo   *time.Time
	Limit   int
	Offset  int
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if len(title) < 1 || len(title) > maxTitleLen {
		return "", domain.Invalid("title", "must be 1..200 characters")
	}
	return title, nil
}

func validDescription(desc string) error {
	if len(desc) > maxDescriptionLen {
		return domain.Invalid("description", "must be at most 2000 characters")
	}
	return nil
}

func validRepeatInterval(m int) error {
	if m < 1 || m > maxRepeatMinutes {
		return domain.Invalid("repeat_interval_minutes", "must be 1..525600")
	}
	return nil
}

// checkOwnedTags fails with the full list of offending ids when any of the
// requested tags is not owned by ownerID.
func (s *TaskService) checkOwnedTags(ownerID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	owned, err := s.tags.ResolveOwnedTagIDs(ownerID, tagIDs)
	if err != nil {
		return mapStoreErr(err)
	}
	var bad []int64
	for _, id := range tagIDs {
		if !owned[id] {
			bad = append(bad, id)
		}
	}
	if len(bad) > 0 {
		return &domain.UnknownTagIDsError{IDs: bad}
	}
	return nil
}

// filterInline drops entries whose title is empty after trimming, then keeps
// the first maxInlineSubtasks in their original order.
func filterInline(in []InlineSubTask) []domain.SubTask {
	var out []domain.SubTask
	for _, st := range in {
		title := strings.TrimSpace(st.Title)
		if title == "" {
			continue
		}
		out = append(out, domain.SubTask{Title: title, IsDone: st.IsDone})
		if len(out) == maxInlineSubtasks {
			break
		}
	}
	return out
}

func (s *TaskService) Create(actor domain.Actor, onBehalfOf *int64, in TaskCreateInput) (domain.TaskView, error) {
	ownerID, err := resolveTargetUser(s.users, actor, onBehalfOf)
	if err != nil {
		return domain.TaskView{}, err
	}

	title, err := validTitle(in.Title)
	if err != nil {
		return domain.TaskView{}, err
	}
	if in.Description != nil {
		if err := validDescription(*in.Description); err != nil {
			return domain.TaskView{}, err
		}
	}
	status := in.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}
	if !domain.ValidTaskStatus(status) {
		return domain.TaskView{}, domain.Invalid("status", "unknown status")
	}
	if in.RepeatIntervalMinutes != nil {
		if err := validRepeatInterval(*in.RepeatIntervalMinutes); err != nil {
			return domain.TaskView{}, err
		}
	}
	if err := s.checkOwnedTags(ownerID, in.TagIDs); err != nil {
		return domain.TaskView{}, err
	}

	t, err := s.tasks.CreateTask(domain.Task{
		UserID:                ownerID,
		Title:                 title,
		Description:           in.Description,
		DueAt:                 in.DueAt,
		Status:                status,
		RepeatIntervalMinutes: in.RepeatIntervalMinutes,
	}, in.TagIDs, filterInline(in.Subtasks))
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	return s.view(t)
}

func (s *TaskService) List(actor domain.Actor, onBehalfOf *int64, in TaskListInput) ([]domain.TaskView, error) {
	ownerID, err := resolveTargetUser(s.users, actor, onBehalfOf)
	if err != nil {
		return nil, err
	}
	if in.Status != "" && !domain.ValidTaskStatus(in.Status) {
		return nil, domain.Invalid("status", "unknown status")
	}
	limit, offset := clampPage(in.Limit, in.Offset)

	items, err := s.tasks.ListTasks(repository.TaskFilter{
		UserID:  ownerID,
		Search:  in.Search,
		Status:  in.Status,
		DueFrom: in.DueFrom,
		DueTo:   in.DueTo,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	out := make([]domain.TaskView, 0, len(items))
	for _, t := range items {
		v, err := s.view(t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *TaskService) Get(actor domain.Actor, id int64) (domain.TaskView, error) {
	t, err := s.tasks.GetTask(id)
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, t.UserID); err != nil {
		return domain.TaskView{}, err
	}
	return s.view(t)
}

func (s *TaskService) Update(actor domain.Actor, id int64, in TaskUpdateInput) (domain.TaskView, error) {
	t, err := s.tasks.GetTask(id)
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, t.UserID); err != nil {
		return domain.TaskView{}, err
	}

	patch := repository.TaskPatch{
		Description:           in.Description,
		DueAt:                 in.DueAt,
		RepeatIntervalMinutes: in.RepeatIntervalMinutes,
	}
	if in.Title != nil {
		title, err := validTitle(*in.Title)
		if err != nil {
			return domain.TaskView{}, err
		}
		patch.Title = &title
	}
	if in.Description != nil {
		if err := validDescription(*in.Description); err != nil {
			return domain.TaskView{}, err
		}
	}
	if in.Status != nil {
		if !domain.ValidTaskStatus(*in.Status) {
			return domain.TaskView{}, domain.Invalid("status", "unknown status")
		}
		patch.Status = in.Status
	}
	if in.RepeatIntervalMinutes != nil {
		if err := validRepeatInterval(*in.RepeatIntervalMinutes); err != nil {
			return domain.TaskView{}, err
		}
	}

	// Tags resolve against the task's owner, never the caller: an admin
	// editing someone else's task cannot attach their own tags to it.
	if in.TagIDs != nil {
		if err := s.checkOwnedTags(t.UserID, in.TagIDs); err != nil {
			return domain.TaskView{}, err
		}
	}

	updated, err := s.tasks.UpdateTask(id, patch, in.TagIDs)
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	return s.view(updated)
}

// Delete removes the task and cascades to its children. Attachment blobs are
// removed best-effort: a failed unlink is logged and the deletion proceeds,
// accepting the orphaned blob.
func (s *TaskService) Delete(actor domain.Actor, id int64) error {
	t, err := s.tasks.GetTask(id)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, t.UserID); err != nil {
		return err
	}
	paths, err := s.tasks.TaskStoragePaths(id)
	if err != nil {
		return mapStoreErr(err)
	}
	for _, p := range paths {
		if err := s.blobs.Remove(p); err != nil {
			s.log.Warn("could not delete attachment blob", "path", p, "error", err)
		}
	}
	return mapStoreErr(s.tasks.DeleteTask(id))
}

// GenerateNext creates the next occurrence of a repeating task by hand:
// due_at advances by the interval, status resets to todo, and the tag set is
// copied by value. Nothing fires on a timer.
func (s *TaskService) GenerateNext(actor domain.Actor, id int64) (domain.TaskView, error) {
	t, err := s.tasks.GetTask(id)
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, t.UserID); err != nil {
		return domain.TaskView{}, err
	}
	if t.RepeatIntervalMinutes == nil {
		return domain.TaskView{}, domain.ErrNotRepeating
	}
	if t.DueAt == nil {
		return domain.TaskView{}, domain.ErrTaskNoDueDate
	}

	nextDue := t.DueAt.Add(time.Duration(*t.RepeatIntervalMinutes) * time.Minute)
	tagIDs, err := s.tasks.TaskTagIDs(id)
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	if tagIDs == nil {
		tagIDs = []int64{}
	}

	created, err := s.tasks.CreateTask(domain.Task{
		UserID:                t.UserID,
		Title:                 t.Title,
		Description:           t.Description,
		DueAt:                 &nextDue,
		Status:                domain.TaskStatusTodo,
		RepeatIntervalMinutes: t.RepeatIntervalMinutes,
	}, tagIDs, nil)
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	return s.view(created)
}

func (s *TaskService) Calendar(actor domain.Actor, onBehalfOf *int64, from, to time.Time) ([]domain.CalendarItem, error) {
	ownerID, err := resolveTargetUser(s.users, actor, onBehalfOf)
	if err != nil {
		return nil, err
	}
	items, err := s.tasks.ListCalendar(ownerID, from, to)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return items, nil
}

// view hydrates a task row into the API shape: tags sorted by name plus the
// child counters.
func (s *TaskService) view(t domain.Task) (domain.TaskView, error) {
	tags, err := s.tasks.TaskTags(t.ID)
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	counters, err := s.tasks.TaskCounters(t.ID)
	if err != nil {
		return domain.TaskView{}, mapStoreErr(err)
	}
	return domain.TaskView{
		Task:           t,
		Tags:           tags,
		SubtasksCount:  counters.Subtasks,
		FilesCount:     counters.Files,
		RemindersCount: counters.Reminders,
	}, nil
}
