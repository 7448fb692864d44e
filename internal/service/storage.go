package service

import (
	"context"

	"taskboard/internal/models"
	"taskboard/internal/pagination"

	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID uuid.UUID, p pagination.Params) ([]*models.Project, int, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	CreateTaskWithLabels(ctx context.Context, task *models.Task, labelIDs []uuid.UUID) error
	GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, f models.TaskFilter, p pagination.Params) ([]*models.Task, int, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
	TaskLabels(ctx context.Context, taskID uuid.UUID) ([]*models.Label, error)
	LinkLabel(ctx context.Context, taskID, labelID uuid.UUID) (bool, error)
	UnlinkLabel(ctx context.Context, taskID, labelID uuid.UUID) (bool, error)
}

type LabelRepository interface {
	CreateLabel(ctx context.Context, label *models.Label) error
	GetLabelByID(ctx context.Context, id uuid.UUID) (*models.Label, error)
	GetLabelByName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Label, error)
	ListLabels(ctx context.Context, ownerID uuid.UUID, p pagination.Params) ([]*models.Label, int, error)
	UpdateLabel(ctx context.Context, label *models.Label) error
	DeleteLabel(ctx context.Context, id uuid.UUID) error
}

// Storage - полный контракт хранилища. Его реализуют postgres и inmemory.
type Storage interface {
	UserRepository
	ProjectRepository
	TaskRepository
	LabelRepository
	HealthCheck(ctx context.Context) error
	Close()
}
