package service

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectService struct {
	projects ProjectRepository
	tasks    TaskRepository
}

func NewProjectService(projects ProjectRepository, tasks TaskRepository) ProjectService {
	return ProjectService{
		projects: projects,
		tasks:    tasks,
	}
}

// getOwned: отсутствующий и чужой проект неотличимы - оба NOT_FOUND,
// чтобы не раскрывать существование чужих ресурсов.
func (s *ProjectService) getOwned(ctx context.Context, id uuid.UUID, principal *models.User) (*models.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Проект", id.String())
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}
	if project.OwnerID != principal.ID {
		logger.Info("Service: Попытка доступа к чужому проекту",
			zap.String("project_id", id.String()),
			zap.String("principal_id", principal.ID.String()))
		return nil, NewNotFound("Проект", id.String())
	}
	return project, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, principal *models.User, title string, color *string) (*models.Project, error) {
	if bErr := validateTitle(title); bErr != nil {
		return nil, bErr
	}
	normalized, bErr := normalizeColorPtr(color)
	if bErr != nil {
		return nil, bErr
	}

	project := &models.Project{
		ID:      uuid.New(),
		Title:   title,
		Color:   normalized,
		OwnerID: principal.ID,
	}

	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("создание проекта: %w", err)
	}
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, principal *models.User, p pagination.Params) (pagination.Page[*models.Project], error) {
	projects, total, err := s.projects.ListProjects(ctx, principal.ID, p)
	if err != nil {
		return pagination.Page[*models.Project]{}, fmt.Errorf("получение проектов: %w", err)
	}
	return pagination.NewPage(p, total, projects), nil
}

func (s *ProjectService) GetProject(ctx context.Context, principal *models.User, id uuid.UUID) (*models.Project, error) {
	return s.getOwned(ctx, id, principal)
}

// ProjectTasks - задачи одного проекта владельца.
func (s *ProjectService) ProjectTasks(ctx context.Context, principal *models.User, id uuid.UUID, p pagination.Params) (pagination.Page[*models.Task], error) {
	if _, err := s.getOwned(ctx, id, principal); err != nil {
		return pagination.Page[*models.Task]{}, err
	}

	filter := models.TaskFilter{ProjectID: &id}
	tasks, total, err := s.tasks.ListTasks(ctx, principal.ID, filter, p)
	if err != nil {
		return pagination.Page[*models.Task]{}, fmt.Errorf("получение задач проекта: %w", err)
	}
	return pagination.NewPage(p, total, tasks), nil
}

// UpdateProject применяет только явно переданные поля.
func (s *ProjectService) UpdateProject(ctx context.Context, principal *models.User, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	project, err := s.getOwned(ctx, id, principal)
	if err != nil {
		return nil, err
	}

	if patch.Title.Set {
		if bErr := validateTitle(patch.Title.Value); bErr != nil {
			return nil, bErr
		}
		project.Title = patch.Title.Value
	}
	if patch.Color.Set {
		normalized, bErr := normalizeColorPtr(patch.Color.Value)
		if bErr != nil {
			return nil, bErr
		}
		project.Color = normalized
	}

	if err := s.projects.UpdateProject(ctx, project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Проект", id.String())
		}
		return nil, fmt.Errorf("обновление проекта: %w", err)
	}
	return project, nil
}

// DeleteProject удаляет проект каскадно вместе с его задачами.
func (s *ProjectService) DeleteProject(ctx context.Context, principal *models.User, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, id, principal); err != nil {
		return err
	}

	if err := s.projects.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("Проект", id.String())
		}
		return fmt.Errorf("удаление проекта: %w", err)
	}

	logger.Info("Service: Проект удалён", zap.String("project_id", id.String()))
	return nil
}
