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

type LabelService struct {
	labels LabelRepository
	tasks  TaskRepository
}

func NewLabelService(labels LabelRepository, tasks TaskRepository) LabelService {
	return LabelService{
		labels: labels,
		tasks:  tasks,
	}
}

func (s *LabelService) getOwned(ctx context.Context, id uuid.UUID, principal *models.User) (*models.Label, error) {
	label, err := s.labels.GetLabelByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Метка", id.String())
		}
		return nil, fmt.Errorf("получение метки: %w", err)
	}
	if label.OwnerID != principal.ID {
		logger.Info("Service: Попытка доступа к чужой метке",
			zap.String("label_id", id.String()),
			zap.String("principal_id", principal.ID.String()))
		return nil, NewNotFound("Метка", id.String())
	}
	return label, nil
}

// CreateLabel создаёт метку. Имя уникально в пределах владельца,
// у разных владельцев одинаковые имена допустимы.
func (s *LabelService) CreateLabel(ctx context.Context, principal *models.User, name string, color *string) (*models.Label, error) {
	if bErr := validateLabelName(name); bErr != nil {
		return nil, bErr
	}
	normalized, bErr := normalizeColorPtr(color)
	if bErr != nil {
		return nil, bErr
	}

	if _, err := s.labels.GetLabelByName(ctx, principal.ID, name); err == nil {
		return nil, NewConflict("Метка с таким именем уже существует")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("проверка имени метки: %w", err)
	}

	label := &models.Label{
		ID:      uuid.New(),
		Name:    name,
		Color:   normalized,
		OwnerID: principal.ID,
	}

	if err := s.labels.CreateLabel(ctx, label); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, NewConflict("Метка с таким именем уже существует")
		}
		return nil, fmt.Errorf("создание метки: %w", err)
	}
	return label, nil
}

func (s *LabelService) ListLabels(ctx context.Context, principal *models.User, p pagination.Params) (pagination.Page[*models.Label], error) {
	labels, total, err := s.labels.ListLabels(ctx, principal.ID, p)
	if err != nil {
		return pagination.Page[*models.Label]{}, fmt.Errorf("получение меток: %w", err)
	}
	return pagination.NewPage(p, total, labels), nil
}

// LabelTasks - задачи владельца с данной меткой.
func (s *LabelService) LabelTasks(ctx context.Context, principal *models.User, id uuid.UUID, p pagination.Params) (pagination.Page[*models.Task], error) {
	if _, err := s.getOwned(ctx, id, principal); err != nil {
		return pagination.Page[*models.Task]{}, err
	}

	filter := models.TaskFilter{LabelID: &id}
	tasks, total, err := s.tasks.ListTasks(ctx, principal.ID, filter, p)
	if err != nil {
		return pagination.Page[*models.Task]{}, fmt.Errorf("получение задач метки: %w", err)
	}
	return pagination.NewPage(p, total, tasks), nil
}

func (s *LabelService) UpdateLabel(ctx context.Context, principal *models.User, id uuid.UUID, patch models.LabelPatch) (*models.Label, error) {
	label, err := s.getOwned(ctx, id, principal)
	if err != nil {
		return nil, err
	}

	if patch.Name.Set {
		if bErr := validateLabelName(patch.Name.Value); bErr != nil {
			return nil, bErr
		}
		if existing, err := s.labels.GetLabelByName(ctx, principal.ID, patch.Name.Value); err == nil {
			if existing.ID != id {
				return nil, NewConflict("Метка с таким именем уже существует")
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("проверка имени метки: %w", err)
		}
		label.Name = patch.Name.Value
	}
	if patch.Color.Set {
		normalized, bErr := normalizeColorPtr(patch.Color.Value)
		if bErr != nil {
			return nil, bErr
		}
		label.Color = normalized
	}

	if err := s.labels.UpdateLabel(ctx, label); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, NewConflict("Метка с таким именем уже существует")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Метка", id.String())
		}
		return nil, fmt.Errorf("обновление метки: %w", err)
	}
	return label, nil
}

// DeleteLabel удаляет метку вместе с её связями с задачами.
func (s *LabelService) DeleteLabel(ctx context.Context, principal *models.User, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, id, principal); err != nil {
		return err
	}

	if err := s.labels.DeleteLabel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("Метка", id.String())
		}
		return fmt.Errorf("удаление метки: %w", err)
	}

	logger.Info("Service: Метка удалена", zap.String("label_id", id.String()))
	return nil
}
