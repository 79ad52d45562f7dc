// Package memory is an in-memory store implementing the same repository
// contracts as the sqlite store. It backs the usecase tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
	"nezabudu/internal/storage"
)

type Store struct {
	mu sync.Mutex

	users       map[int64]domain.User
	tags        map[int64]domain.Tag
	tasks       map[int64]domain.Task
	taskTags    map[int64]map[int64]bool
	subtasks    map[int64]domain.SubTask
	attachments map[int64]domain.Attachment
	reminders   map[int64]domain.Reminder

	nextID int64
	now    func() time.Time
}

func New() *Store {
	var seq int64
	return &Store{
		users:       make(map[int64]domain.User),
		tags:        make(map[int64]domain.Tag),
		tasks:       make(map[int64]domain.Task),
		taskTags:    make(map[int64]map[int64]bool),
		subtasks:    make(map[int64]domain.SubTask),
		attachments: make(map[int64]domain.Attachment),
		reminders:   make(map[int64]domain.Reminder),
		// monotonic fake clock keeps created_at orderings deterministic
		now: func() time.Time {
			seq++
			return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Second)
		},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Users

func (s *Store) CreateUser(u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.users {
		if ex.Email == u.Email {
			return domain.User{}, storage.ErrConflict
		}
	}
	u.ID = s.id()
	u.CreatedAt = s.now()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(id int64) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, storage.ErrNotFound
}

func (s *Store) ListUsers(search string, limit, offset int) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.User{}
	for _, u := range s.users {
		if search != "" && !contains(u.Email, search) && !contains(u.Name, search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, limit, offset), nil
}

func (s *Store) UpdateUser(id int64, name, role *string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, storage.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if role != nil {
		u.Role = *role
	}
	s.users[id] = u
	return u, nil
}

func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	for tid, t := range s.tasks {
		if t.UserID == id {
			s.dropTaskChildren(tid)
			delete(s.tasks, tid)
		}
	}
	for tid, t := range s.tags {
		if t.UserID == id {
			delete(s.tags, tid)
		}
	}
	return nil
}

func (s *Store) CountAdmins() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.users {
		if u.Role == domain.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (s *Store) UserStoragePaths(userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var paths []string
	for _, a := range s.attachments {
		if a.UserID == userID {
			paths = append(paths, a.StoragePath)
		}
	}
	return paths, nil
}

// Tags

func (s *Store) CreateTag(t domain.Tag) (domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.tags {
		if ex.UserID == t.UserID && ex.Name == t.Name {
			return domain.Tag{}, storage.ErrConflict
		}
	}
	t.ID = s.id()
	t.CreatedAt = s.now()
	s.tags[t.ID] = t
	return t, nil
}

func (s *Store) GetTag(id int64) (domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[id]
	if !ok {
		return domain.Tag{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListTags(userID int64) ([]domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Tag{}
	for _, t := range s.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateTagName(id int64, name string) (domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[id]
	if !ok {
		return domain.Tag{}, storage.ErrNotFound
	}
	for _, ex := range s.tags {
		if ex.ID != id && ex.UserID == t.UserID && ex.Name == name {
			return domain.Tag{}, storage.ErrConflict
		}
	}
	t.Name = name
	s.tags[id] = t
	return t, nil
}

func (s *Store) DeleteTag(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tags, id)
	for _, set := range s.taskTags {
		delete(set, id)
	}
	return nil
}

func (s *Store) ResolveOwnedTagIDs(userID int64, ids []int64) (map[int64]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if t, ok := s.tags[id]; ok && t.UserID == userID {
			owned[id] = true
		}
	}
	return owned, nil
}

// Tasks

func (s *Store) CreateTask(t domain.Task, tagIDs []int64, inline []domain.SubTask) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tasks[t.ID] = t
	if tagIDs != nil {
		s.replaceTags(t.ID, tagIDs)
	}
	for _, st := range inline {
		st.ID = s.id()
		st.TaskID = t.ID
		st.UserID = t.UserID
		st.CreatedAt = s.now()
		st.UpdatedAt = st.CreatedAt
		s.subtasks[st.ID] = st
	}
	return t, nil
}

func (s *Store) GetTask(id int64) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListTasks(f repository.TaskFilter) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Task{}
	for _, t := range s.tasks {
		if t.UserID != f.UserID {
			continue
		}
		if f.Search != "" {
			desc := ""
			if t.Description != nil {
				desc = *t.Description
			}
			if !contains(t.Title, f.Search) && !contains(desc, f.Search) {
				continue
			}
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.DueFrom != nil && (t.DueAt == nil || t.DueAt.Before(*f.DueFrom)) {
			continue
		}
		if f.DueTo != nil && (t.DueAt == nil || t.DueAt.After(*f.DueTo)) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := sortKey(out[i]), sortKey(out[j])
		if !ki.Equal(kj) {
			return ki.Before(kj)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func sortKey(t domain.Task) time.Time {
	if t.DueAt != nil {
		return *t.DueAt
	}
	return t.CreatedAt
}

func (s *Store) UpdateTask(id int64, p repository.TaskPatch, tagIDs []int64) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, storage.ErrNotFound
	}
	changed := false
	if p.Title != nil {
		t.Title = *p.Title
		changed = true
	}
	if p.Description != nil {
		t.Description = p.Description
		changed = true
	}
	if p.DueAt != nil {
		t.DueAt = p.DueAt
		changed = true
	}
	if p.Status != nil {
		t.Status = *p.Status
		changed = true
	}
	if p.RepeatIntervalMinutes != nil {
		t.RepeatIntervalMinutes = p.RepeatIntervalMinutes
		changed = true
	}
	if changed {
		t.UpdatedAt = s.now()
	}
	s.tasks[id] = t
	if tagIDs != nil {
		s.replaceTags(id, tagIDs)
	}
	return t, nil
}

func (s *Store) DeleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	s.dropTaskChildren(id)
	delete(s.tasks, id)
	return nil
}

func (s *Store) TaskTags(taskID int64) ([]domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Tag{}
	for tagID := range s.taskTags[taskID] {
		if t, ok := s.tags[tagID]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) TaskTagIDs(taskID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for tagID := range s.taskTags[taskID] {
		ids = append(ids, tagID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) TaskCounters(taskID int64) (domain.TaskCounters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c domain.TaskCounters
	for _, st := range s.subtasks {
		if st.TaskID == taskID {
			c.Subtasks++
		}
	}
	for _, a := range s.attachments {
		if a.TaskID == taskID {
			c.Files++
		}
	}
	for _, r := range s.reminders {
		if r.TaskID == taskID {
			c.Reminders++
		}
	}
	return c, nil
}

func (s *Store) TaskStoragePaths(taskID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var paths []string
	for _, a := range s.attachments {
		if a.TaskID == taskID {
			paths = append(paths, a.StoragePath)
		}
	}
	return paths, nil
}

func (s *Store) ListCalendar(userID int64, from, to time.Time) ([]domain.CalendarItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.CalendarItem{}
	for _, t := range s.tasks {
		if t.UserID != userID || t.DueAt == nil {
			continue
		}
		if t.DueAt.Before(from) || t.DueAt.After(to) {
			continue
		}
		out = append(out, domain.CalendarItem{
			TaskID: t.ID,
			Title:  t.Title,
			DueAt:  *t.DueAt,
			Status: t.Status,
			UserID: t.UserID,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].DueAt.Before(out[j].DueAt)
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out, nil
}

// SubTasks

func (s *Store) CreateSubTask(st domain.SubTask) (domain.SubTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = s.id()
	now := s.now()
	st.CreatedAt = now
	st.UpdatedAt = now
	s.subtasks[st.ID] = st
	return st, nil
}

func (s *Store) GetSubTask(id int64) (domain.SubTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.subtasks[id]
	if !ok {
		return domain.SubTask{}, storage.ErrNotFound
	}
	return st, nil
}

func (s *Store) ListSubTasks(taskID int64) ([]domain.SubTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.SubTask{}
	for _, st := range s.subtasks {
		if st.TaskID == taskID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateSubTask(id int64, title *string, isDone *bool) (domain.SubTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.subtasks[id]
	if !ok {
		return domain.SubTask{}, storage.ErrNotFound
	}
	if title != nil {
		st.Title = *title
	}
	if isDone != nil {
		st.IsDone = *isDone
	}
	if title != nil || isDone != nil {
		st.UpdatedAt = s.now()
	}
	s.subtasks[id] = st
	return st, nil
}

func (s *Store) DeleteSubTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subtasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.subtasks, id)
	return nil
}

// Attachments

func (s *Store) CreateAttachment(a domain.Attachment) (domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	a.CreatedAt = s.now()
	s.attachments[a.ID] = a
	return a, nil
}

func (s *Store) GetAttachment(id int64) (domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attachments[id]
	if !ok {
		return domain.Attachment{}, storage.ErrNotFound
	}
	return a, nil
}

func (s *Store) ListAttachments(taskID int64) ([]domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Attachment{}
	for _, a := range s.attachments {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteAttachment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attachments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.attachments, id)
	return nil
}

// Reminders

func (s *Store) CreateReminder(r domain.Reminder) (domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id()
	r.CreatedAt = s.now()
	s.reminders[r.ID] = r
	return r, nil
}

func (s *Store) GetReminder(taskID, id int64) (domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok || r.TaskID != taskID {
		return domain.Reminder{}, storage.ErrNotFound
	}
	return r, nil
}

func (s *Store) ListReminders(taskID int64) ([]domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Reminder{}
	for _, r := range s.reminders {
		if r.TaskID == taskID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateReminder(r domain.Reminder) (domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.reminders[r.ID]
	if !ok || ex.TaskID != r.TaskID {
		return domain.Reminder{}, storage.ErrNotFound
	}
	r.CreatedAt = ex.CreatedAt
	s.reminders[r.ID] = r
	return r, nil
}

func (s *Store) DeleteReminder(taskID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok || r.TaskID != taskID {
		return storage.ErrNotFound
	}
	delete(s.reminders, id)
	return nil
}

// helpers; callers hold the lock where it matters

func (s *Store) replaceTags(taskID int64, tagIDs []int64) {
	set := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		set[id] = true
	}
	s.taskTags[taskID] = set
}

func (s *Store) dropTaskChildren(taskID int64) {
	delete(s.taskTags, taskID)
	for id, st := range s.subtasks {
		if st.TaskID == taskID {
			delete(s.subtasks, id)
		}
	}
	for id, a := range s.attachments {
		if a.TaskID == taskID {
			delete(s.attachments, id)
		}
	}
	for id, r := range s.reminders {
		if r.TaskID == taskID {
			delete(s.reminders, id)
		}
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
