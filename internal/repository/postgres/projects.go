package postgres

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
	"github.com/jackc/pgx/v5"
)

func (s *Storage) CreateProject(ctx context.Context, project *models.Project) error {
	start := time.Now()

	query := `INSERT INTO projects (id, title, color, owner_id)
				VALUES ($1, $2, $3, $4)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		project.ID,
		project.Title,
		project.Color,
		project.OwnerID,
	).Scan(&project.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось создать проект", err)
		return fmt.Errorf("создание проекта: %w", mapError(err))
	}

	warnIfSlow("create_project", start)
	return nil
}

func (s *Storage) GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	start := time.Now()

	query := `SELECT id, title, color, created_at, owner_id
				FROM projects
				WHERE id = $1`

	project := &models.Project{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Color,
		&project.CreatedAt,
		&project.OwnerID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить проект", err)
		return nil, fmt.Errorf("получение проекта: %w", err)
	}

	warnIfSlow("get_project", start)
	return project, nil
}

// ListProjects возвращает страницу проектов владельца и полное количество строк.
func (s *Storage) ListProjects(ctx context.Context, ownerID uuid.UUID, p pagination.Params) ([]*models.Project, int, error) {
	start := time.Now()

	var total int
	countQuery := `SELECT COUNT(*) FROM projects WHERE owner_id = $1`
	if err := s.pool.QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать проекты", err)
		return nil, 0, fmt.Errorf("подсчёт проектов: %w", err)
	}

	query := `SELECT id, title, color, created_at, owner_id
				FROM projects
				WHERE owner_id = $1
				ORDER BY created_at, id
				LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, ownerID, p.Limit(), p.Offset())
	if err != nil {
		logger.Error("Repository: Не удалось получить проекты", err)
		return nil, 0, fmt.Errorf("получение проектов: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Color,
			&project.CreatedAt,
			&project.OwnerID,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("сканирование проекта: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, 0, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow("list_projects", start)
	return projects, total, nil
}

func (s *Storage) UpdateProject(ctx context.Context, project *models.Project) error {
	start := time.Now()

	query := `UPDATE projects
				SET title = $1, color = $2
				WHERE id = $3`

	tag, err := s.pool.Exec(ctx, query, project.Title, project.Color, project.ID)
	if err != nil {
		logger.Error("Repository: Не удалось обновить проект", err)
		return fmt.Errorf("обновление проекта: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	warnIfSlow("update_project", start)
	return nil
}

// DeleteProject удаляет проект вместе с его задачами и их связями с метками.
// Каскад выполняется явно в одной транзакции, чтобы inmemory-хранилище
// могло повторить ту же семантику.
func (s *Storage) DeleteProject(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM task_labels
				WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить связи задач проекта", err)
		return fmt.Errorf("удаление связей задач проекта: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачи проекта", err)
		return fmt.Errorf("удаление задач проекта: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить проект", err)
		return fmt.Errorf("удаление проекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	warnIfSlow("delete_project", start)
	return nil
}
