package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	tasks    TaskRepository
	projects ProjectRepository
	labels   LabelRepository
}

func NewTaskService(tasks TaskRepository, projects ProjectRepository, labels LabelRepository) TaskService {
	return TaskService{
		tasks:    tasks,
		projects: projects,
		labels:   labels,
	}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    *int
	Completed   bool
	DueDate     *time.Time
	ProjectID   *uuid.UUID
}

// TaskListFilter - фильтры списочного запроса, конъюнктивные.
type TaskListFilter struct {
	Completed *bool
	Priority  *int
}

// TaskDetail - задача с проектом и метками для детальных ответов.
type TaskDetail struct {
	Task    *models.Task
	Project *models.Project
	Labels  []*models.Label
}

// getOwned: отсутствующая и чужая задача неотличимы - обе NOT_FOUND.
func (s *TaskService) getOwned(ctx context.Context, id uuid.UUID, principal *models.User) (*models.Task, error) {
	task, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	if task.OwnerID != principal.ID {
		logger.Info("Service: Попытка доступа к чужой задаче",
			zap.String("task_id", id.String()),
			zap.String("principal_id", principal.ID.String()))
		return nil, NewNotFound("Задача", id.String())
	}
	return task, nil
}

// checkProjectOwned: проект в payload задачи должен принадлежать тому же
// владельцу, иначе BAD_REQUEST (межсущностный инвариант, не NOT_FOUND).
func (s *TaskService) checkProjectOwned(ctx context.Context, projectID uuid.UUID, principal *models.User) error {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewBadRequest("Проект не найден")
		}
		return fmt.Errorf("получение проекта: %w", err)
	}
	if project.OwnerID != principal.ID {
		return NewBadRequest("Проект не найден")
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, principal *models.User, input CreateTaskInput) (*models.Task, error) {
	now := time.Now().UTC()

	if bErr := validateTitle(input.Title); bErr != nil {
		return nil, bErr
	}
	if bErr := validateDescription(input.Description); bErr != nil {
		return nil, bErr
	}
	if bErr := validateDueDate(input.DueDate, now); bErr != nil {
		return nil, bErr
	}

	priority := 1
	if input.Priority != nil {
		if bErr := validatePriority(*input.Priority); bErr != nil {
			return nil, bErr
		}
		priority = *input.Priority
	}

	if input.ProjectID != nil {
		if err := s.checkProjectOwned(ctx, *input.ProjectID, principal); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		Completed:   input.Completed,
		DueDate:     input.DueDate,
		OwnerID:     principal.ID,
		ProjectID:   input.ProjectID,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", task.ID.String()))
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, principal *models.User, filter TaskListFilter, p pagination.Params) (pagination.Page[*models.Task], error) {
	if filter.Priority != nil {
		if bErr := validatePriority(*filter.Priority); bErr != nil {
			return pagination.Page[*models.Task]{}, bErr
		}
	}

	f := models.TaskFilter{
		Completed: filter.Completed,
		Priority:  filter.Priority,
	}
	tasks, total, err := s.tasks.ListTasks(ctx, principal.ID, f, p)
	if err != nil {
		return pagination.Page[*models.Task]{}, fmt.Errorf("получение задач: %w", err)
	}
	return pagination.NewPage(p, total, tasks), nil
}

// ListView - именованные выборки upcoming/today/overdue. "now" фиксируется
// здесь один раз и используется всеми предикатами запроса.
func (s *TaskService) ListView(ctx context.Context, principal *models.User, view models.TaskView, priority *int, p pagination.Params) (pagination.Page[*models.Task], error) {
	if priority != nil {
		if bErr := validatePriority(*priority); bErr != nil {
			return pagination.Page[*models.Task]{}, bErr
		}
	}

	f := models.TaskFilter{
		Priority: priority,
		View:     view,
		Now:      time.Now().UTC(),
	}
	tasks, total, err := s.tasks.ListTasks(ctx, principal.ID, f, p)
	if err != nil {
		return pagination.Page[*models.Task]{}, fmt.Errorf("получение задач: %w", err)
	}
	return pagination.NewPage(p, total, tasks), nil
}

// GetTask возвращает задачу вместе с проектом и метками.
func (s *TaskService) GetTask(ctx context.Context, principal *models.User, id uuid.UUID) (*TaskDetail, error) {
	task, err := s.getOwned(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, task)
}

func (s *TaskService) loadDetail(ctx context.Context, task *models.Task) (*TaskDetail, error) {
	detail := &TaskDetail{Task: task}

	if task.ProjectID != nil {
		project, err := s.projects.GetProjectByID(ctx, *task.ProjectID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("получение проекта задачи: %w", err)
		}
		detail.Project = project
	}

	labels, err := s.tasks.TaskLabels(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("получение меток задачи: %w", err)
	}
	detail.Labels = labels
	return detail, nil
}

// UpdateTask применяет только явно переданные поля патча.
// Переданный null обнуляет description, due_date и project_id.
func (s *TaskService) UpdateTask(ctx context.Context, principal *models.User, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	now := time.Now().UTC()

	task, err := s.getOwned(ctx, id, principal)
	if err != nil {
		return nil, err
	}

	if patch.Title.Set {
		if bErr := validateTitle(patch.Title.Value); bErr != nil {
			return nil, bErr
		}
		task.Title = patch.Title.Value
	}
	if patch.Description.Set {
		if bErr := validateDescription(patch.Description.Value); bErr != nil {
			return nil, bErr
		}
		task.Description = patch.Description.Value
	}
	if patch.Priority.Set {
		if bErr := validatePriority(patch.Priority.Value); bErr != nil {
			return nil, bErr
		}
		task.Priority = patch.Priority.Value
	}
	if patch.Completed.Set {
		task.Completed = patch.Completed.Value
	}
	if patch.DueDate.Set {
		if bErr := validateDueDate(patch.DueDate.Value, now); bErr != nil {
			return nil, bErr
		}
		task.DueDate = patch.DueDate.Value
	}
	if patch.ProjectID.Set {
		if patch.ProjectID.Value != nil {
			if err := s.checkProjectOwned(ctx, *patch.ProjectID.Value, principal); err != nil {
				return nil, err
			}
		}
		task.ProjectID = patch.ProjectID.Value
	}

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Задача", id.String())
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, principal *models.User, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, id, principal); err != nil {
		return err
	}

	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("Задача", id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}

// DuplicateTask клонирует задачу вместе со связями с метками.
// Завершённую задачу дублировать нельзя.
func (s *TaskService) DuplicateTask(ctx context.Context, principal *models.User, id uuid.UUID) (*TaskDetail, error) {
	task, err := s.getOwned(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return nil, NewBadRequest("Задача уже завершена")
	}

	labels, err := s.tasks.TaskLabels(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("получение меток задачи: %w", err)
	}
	labelIDs := make([]uuid.UUID, len(labels))
	for i, label := range labels {
		labelIDs[i] = label.ID
	}

	copyTask := &models.Task{
		ID:          uuid.New(),
		Title:       task.Title + " (Copy)",
		Description: task.Description,
		Priority:    task.Priority,
		Completed:   task.Completed,
		DueDate:     task.DueDate,
		OwnerID:     task.OwnerID,
		ProjectID:   task.ProjectID,
	}

	if err := s.tasks.CreateTaskWithLabels(ctx, copyTask, labelIDs); err != nil {
		return nil, fmt.Errorf("дублирование задачи: %w", err)
	}

	logger.Info("Service: Задача продублирована",
		zap.String("source_id", id.String()),
		zap.String("copy_id", copyTask.ID.String()))
	return s.loadDetail(ctx, copyTask)
}

// getOwnedLabel - метка для операций связывания; чужая неотличима от
// отсутствующей.
func (s *TaskService) getOwnedLabel(ctx context.Context, id uuid.UUID, principal *models.User) (*models.Label, error) {
	label, err := s.labels.GetLabelByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Метка", id.String())
		}
		return nil, fmt.Errorf("получение метки: %w", err)
	}
	if label.OwnerID != principal.ID {
		return nil, NewNotFound("Метка", id.String())
	}
	return label, nil
}

// AssignLabel связывает задачу и метку. Повторное назначение - no-op,
// наружу уходит NOT_MODIFIED.
func (s *TaskService) AssignLabel(ctx context.Context, principal *models.User, taskID, labelID uuid.UUID) (*TaskDetail, error) {
	task, err := s.getOwned(ctx, taskID, principal)
	if err != nil {
		return nil, err
	}
	if _, err := s.getOwnedLabel(ctx, labelID, principal); err != nil {
		return nil, err
	}

	inserted, err := s.tasks.LinkLabel(ctx, taskID, labelID)
	if err != nil {
		return nil, fmt.Errorf("назначение метки: %w", err)
	}
	if !inserted {
		return nil, NewNotModified("Метка уже назначена задаче")
	}

	return s.loadDetail(ctx, task)
}

// RemoveLabel снимает метку с задачи. Отсутствующая связь - no-op.
func (s *TaskService) RemoveLabel(ctx context.Context, principal *models.User, taskID, labelID uuid.UUID) error {
	if _, err := s.getOwned(ctx, taskID, principal); err != nil {
		return err
	}
	if _, err := s.getOwnedLabel(ctx, labelID, principal); err != nil {
		return err
	}

	deleted, err := s.tasks.UnlinkLabel(ctx, taskID, labelID)
	if err != nil {
		return fmt.Errorf("снятие метки: %w", err)
	}
	if !deleted {
		return NewNotModified("Метка не назначена задаче")
	}
	return nil
}
