package usecase

import (
	"nezabudu/internal/auth"
	"nezabudu/internal/domain"
	"nezabudu/internal/repository"
)

type SubTaskService struct {
	subtasks repository.SubTaskRepository
	tasks    repository.TaskRepository
}

func NewSubTaskService(subtasks repository.SubTaskRepository, tasks repository.TaskRepository) *SubTaskService {
	return &SubTaskService{subtasks: subtasks, tasks: tasks}
}

func (s *SubTaskService) Create(actor domain.Actor, taskID int64, title string, isDone bool) (domain.SubTask, error) {
	task, err := s.tasks.GetTask(taskID)
	if err != nil {
		return domain.SubTask{}, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, task.UserID); err != nil {
		return domain.SubTask{}, err
	}
	title, err = validTitle(title)
	if err != nil {
		return domain.SubTask{}, err
	}
	// user_id is always the parent task's owner, never the caller
	st, err := s.subtasks.CreateSubTask(domain.SubTask{
		TaskID: taskID,
		UserID: task.UserID,
		Title:  title,
		IsDone: isDone,
	})
	if err != nil {
		return domain.SubTask{}, mapStoreErr(err)
	}
	return st, nil
}

func (s *SubTaskService) List(actor domain.Actor, taskID int64) ([]domain.SubTask, error) {
	task, err := s.tasks.GetTask(taskID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, task.UserID); err != nil {
		return nil, err
	}
	out, err := s.subtasks.ListSubTasks(taskID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return out, nil
}

func (s *SubTaskService) Update(actor domain.Actor, id int64, title *string, isDone *bool) (domain.SubTask, error) {
	st, err := s.subtasks.GetSubTask(id)
	if err != nil {
		return domain.SubTask{}, mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, st.UserID); err != nil {
		return domain.SubTask{}, err
	}
	if title != nil {
		trimmed, err := validTitle(*title)
		if err != nil {
			return domain.SubTask{}, err
		}
		title = &trimmed
	}
	st, err = s.subtasks.UpdateSubTask(id, title, isDone)
	if err != nil {
		return domain.SubTask{}, mapStoreErr(err)
	}
	return st, nil
}

func (s *SubTaskService) Delete(actor domain.Actor, id int64) error {
	st, err := s.subtasks.GetSubTask(id)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := auth.EnsureAccess(actor, st.UserID); err != nil {
		return err
	}
	return mapStoreErr(s.subtasks.DeleteSubTask(id))
}
