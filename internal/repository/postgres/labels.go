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

func (s *Storage) CreateLabel(ctx context.Context, label *models.Label) error {
	start := time.Now()

	query := `INSERT INTO labels (id, name, color, owner_id)
				VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, query,
		label.ID,
		label.Name,
		label.Color,
		label.OwnerID,
	)

	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrConflict) {
			return mapped
		}
		logger.Error("Repository: Не удалось создать метку", err)
		return fmt.Errorf("создание метки: %w", err)
	}

	warnIfSlow("create_label", start)
	return nil
}

func (s *Storage) GetLabelByID(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	start := time.Now()

	query := `SELECT id, name, color, owner_id FROM labels WHERE id = $1`

	label := &models.Label{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&label.ID,
		&label.Name,
		&label.Color,
		&label.OwnerID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить метку", err)
		return nil, fmt.Errorf("получение метки: %w", err)
	}

	warnIfSlow("get_label", start)
	return label, nil
}

// GetLabelByName ищет метку владельца по имени без учёта регистра.
// Используется проактивной проверкой уникальности.
func (s *Storage) GetLabelByName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Label, error) {
	start := time.Now()

	query := `SELECT id, name, color, owner_id
				FROM labels
				WHERE owner_id = $1 AND LOWER(name) = LOWER($2)`

	label := &models.Label{}
	err := s.pool.QueryRow(ctx, query, ownerID, name).Scan(
		&label.ID,
		&label.Name,
		&label.Color,
		&label.OwnerID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить метку", err)
		return nil, fmt.Errorf("получение метки: %w", err)
	}

	warnIfSlow("get_label_by_name", start)
	return label, nil
}

func (s *Storage) ListLabels(ctx context.Context, ownerID uuid.UUID, p pagination.Params) ([]*models.Label, int, error) {
	start := time.Now()

	var total int
	countQuery := `SELECT COUNT(*) FROM labels WHERE owner_id = $1`
	if err := s.pool.QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать метки", err)
		return nil, 0, fmt.Errorf("подсчёт меток: %w", err)
	}

	query := `SELECT id, name, color, owner_id
				FROM labels
				WHERE owner_id = $1
				ORDER BY name, id
				LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, ownerID, p.Limit(), p.Offset())
	if err != nil {
		logger.Error("Repository: Не удалось получить метки", err)
		return nil, 0, fmt.Errorf("получение меток: %w", err)
	}
	defer rows.Close()

	labels := []*models.Label{}
	for rows.Next() {
		label := &models.Label{}
		if err := rows.Scan(&label.ID, &label.Name, &label.Color, &label.OwnerID); err != nil {
			return nil, 0, fmt.Errorf("сканирование метки: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, 0, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow("list_labels", start)
	return labels, total, nil
}

func (s *Storage) UpdateLabel(ctx context.Context, label *models.Label) error {
	start := time.Now()

	query := `UPDATE labels
				SET name = $1, color = $2
				WHERE id = $3`

	tag, err := s.pool.Exec(ctx, query, label.Name, label.Color, label.ID)
	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrConflict) {
			return mapped
		}
		logger.Error("Repository: Не удалось обновить метку", err)
		return fmt.Errorf("обновление метки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	warnIfSlow("update_label", start)
	return nil
}

// DeleteLabel удаляет метку и её связи с задачами одной транзакцией.
func (s *Storage) DeleteLabel(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_labels WHERE label_id = $1`, id); err != nil {
		logger.Error("Repository: Не удалось удалить связи метки", err)
		return fmt.Errorf("удаление связей метки: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить метку", err)
		return fmt.Errorf("удаление метки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	warnIfSlow("delete_label", start)
	return nil
}
