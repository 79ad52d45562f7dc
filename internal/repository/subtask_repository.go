package repository

import "nezabudu/internal/domain"

type SubTaskRepository interface {
	CreateSubTask(st domain.SubTask) (domain.SubTask, error)
	GetSubTask(id int64) (domain.SubTask, error)
	// ListSubTasks orders by created_at ascending.
	ListSubTasks(taskID int64) ([]domain.SubTask, error)
	UpdateSubTask(id int64, title *string, isDone *bool) (domain.SubTask, error)
	DeleteSubTask(id int64) error
}
