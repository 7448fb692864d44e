package handlers

import (
	"context"

	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/service"

	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type ProjectService interface {
	CreateProject(ctx context.Context, principal *models.User, title string, color *string) (*models.Project, error)
	ListProjects(ctx context.Context, principal *models.User, p pagination.Params) (pagination.Page[*models.Project], error)
	GetProject(ctx context.Context, principal *models.User, id uuid.UUID) (*models.Project, error)
	ProjectTasks(ctx context.Context, principal *models.User, id uuid.UUID, p pagination.Params) (pagination.Page[*models.Task], error)
	UpdateProject(ctx context.Context, principal *models.User, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, principal *models.User, id uuid.UUID) error
}

type TaskService interface {
	CreateTask(ctx context.Context, principal *models.User, input service.CreateTaskInput) (*models.Task, error)
	ListTasks(ctx context.Context, principal *models.User, filter service.TaskListFilter, p pagination.Params) (pagination.Page[*models.Task], error)
	ListView(ctx context.Context, principal *models.User, view models.TaskView, priority *int, p pagination.Params) (pagination.Page[*models.Task], error)
	GetTask(ctx context.Context, principal *models.User, id uuid.UUID) (*service.TaskDetail, error)
	UpdateTask(ctx context.Context, principal *models.User, id uuid.UUID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, principal *models.User, id uuid.UUID) error
	DuplicateTask(ctx context.Context, principal *models.User, id uuid.UUID) (*service.TaskDetail, error)
	AssignLabel(ctx context.Context, principal *models.User, taskID, labelID uuid.UUID) (*service.TaskDetail, error)
	RemoveLabel(ctx context.Context, principal *models.User, taskID, labelID uuid.UUID) error
}

type LabelService interface {
	CreateLabel(ctx context.Context, principal *models.User, name string, color *string) (*models.Label, error)
	ListLabels(ctx context.Context, principal *models.User, p pagination.Params) (pagination.Page[*models.Label], error)
	LabelTasks(ctx context.Context, principal *models.User, id uuid.UUID, p pagination.Params) (pagination.Page[*models.Task], error)
	UpdateLabel(ctx context.Context, principal *models.User, id uuid.UUID, patch models.LabelPatch) (*models.Label, error)
	DeleteLabel(ctx context.Context, principal *models.User, id uuid.UUID) error
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
