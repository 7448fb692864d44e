package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, title, description, priority, completed, due_date, created_at, updated_at, owner_id, project_id`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Completed,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.OwnerID,
		&task.ProjectID,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// taskWhere собирает WHERE-условие под фильтр. Базовый предикат всегда
// owner_id, остальные условия конъюнктивны. Именованные выборки используют
// f.Now, зафиксированный сервисом один раз на запрос.
func taskWhere(ownerID uuid.UUID, f models.TaskFilter) (string, []any) {
	clauses := []string{"owner_id = $1"}
	args := []any{ownerID}

	add := func(expr string, vals ...any) {
		for _, v := range vals {
			expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", len(args)+1), 1)
			args = append(args, v)
		}
		clauses = append(clauses, expr)
	}

	if f.Completed != nil {
		add("completed = ?", *f.Completed)
	}
	if f.Priority != nil {
		add("priority = ?", *f.Priority)
	}
	if f.ProjectID != nil {
		add("project_id = ?", *f.ProjectID)
	}
	if f.LabelID != nil {
		add("id IN (SELECT task_id FROM task_labels WHERE label_id = ?)", *f.LabelID)
	}

	switch f.View {
	case models.ViewUpcoming:
		add("due_date > ?", f.Now)
		clauses = append(clauses, "completed = FALSE")
	case models.ViewToday:
		dayStart := f.Now.UTC().Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
		add("due_date >= ?", dayStart)
		add("due_date <= ?", dayEnd)
		clauses = append(clauses, "completed = FALSE")
	case models.ViewOverdue:
		add("due_date < ?", f.Now)
		clauses = append(clauses, "completed = FALSE")
	}

	return strings.Join(clauses, " AND "), args
}

func taskOrder(view models.TaskView) string {
	if view == models.ViewUpcoming {
		return "due_date ASC NULLS LAST, id"
	}
	return "created_at, id"
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	return s.CreateTaskWithLabels(ctx, task, nil)
}

// CreateTaskWithLabels пишет задачу и её связи с метками одной транзакцией.
// Используется дублированием задач.
func (s *Storage) CreateTaskWithLabels(ctx context.Context, task *models.Task, labelIDs []uuid.UUID) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO tasks
				(id, title, description, priority, completed, due_date, owner_id, project_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING created_at`

	err = tx.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Priority,
		task.Completed,
		task.DueDate,
		task.OwnerID,
		task.ProjectID,
	).Scan(&task.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось создать задачу", err)
		return fmt.Errorf("создание задачи: %w", mapError(err))
	}

	for _, labelID := range labelIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO task_labels (task_id, label_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			task.ID, labelID)
		if err != nil {
			logger.Error("Repository: Не удалось скопировать связь с меткой", err)
			return fmt.Errorf("создание связи с меткой: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	warnIfSlow("create_task", start)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow("get_task", start)
	return task, nil
}

// ListTasks возвращает страницу задач под фильтром и полное количество строк
// под тем же предикатом.
func (s *Storage) ListTasks(ctx context.Context, ownerID uuid.UUID, f models.TaskFilter, p pagination.Params) ([]*models.Task, int, error) {
	start := time.Now()

	where, args := taskWhere(ownerID, f)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks WHERE ` + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return nil, 0, fmt.Errorf("подсчёт задач: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM tasks WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, taskOrder(f.View), len(args)+1, len(args)+2,
	)
	args = append(args, p.Limit(), p.Offset())

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, 0, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, 0, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow("list_tasks", start)
	return tasks, total, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	start := time.Now()

	query := `UPDATE tasks
				SET title = $1,
					description = $2,
					priority = $3,
					completed = $4,
					due_date = $5,
					project_id = $6,
					updated_at = NOW()
				WHERE id = $7
				RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Priority,
		task.Completed,
		task.DueDate,
		task.ProjectID,
		task.ID,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", mapError(err))
	}

	warnIfSlow("update_task", start)
	return nil
}

// DeleteTask удаляет задачу и её связи с метками одной транзакцией.
func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_labels WHERE task_id = $1`, id); err != nil {
		logger.Error("Repository: Не удалось удалить связи задачи", err)
		return fmt.Errorf("удаление связей задачи: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	warnIfSlow("delete_task", start)
	return nil
}

// TaskLabels возвращает метки задачи в порядке имени.
func (s *Storage) TaskLabels(ctx context.Context, taskID uuid.UUID) ([]*models.Label, error) {
	start := time.Now()

	query := `SELECT l.id, l.name, l.color, l.owner_id
				FROM labels l
				JOIN task_labels tl ON tl.label_id = l.id
				WHERE tl.task_id = $1
				ORDER BY l.name`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить метки задачи", err)
		return nil, fmt.Errorf("получение меток задачи: %w", err)
	}
	defer rows.Close()

	labels := []*models.Label{}
	for rows.Next() {
		label := &models.Label{}
		if err := rows.Scan(&label.ID, &label.Name, &label.Color, &label.OwnerID); err != nil {
			return nil, fmt.Errorf("сканирование метки: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow("task_labels", start)
	return labels, nil
}

// LinkLabel вставляет строку связи. Возвращает false без ошибки,
// если связь уже существовала - идемпотентный no-op.
func (s *Storage) LinkLabel(ctx context.Context, taskID, labelID uuid.UUID) (bool, error) {
	start := time.Now()

	query := `INSERT INTO task_labels (task_id, label_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`

	tag, err := s.pool.Exec(ctx, query, taskID, labelID)
	if err != nil {
		logger.Error("Repository: Не удалось создать связь с меткой", err)
		return false, fmt.Errorf("создание связи с меткой: %w", err)
	}

	warnIfSlow("link_label", start)
	return tag.RowsAffected() > 0, nil
}

// UnlinkLabel удаляет строку связи. Возвращает false без ошибки,
// если связи не было.
func (s *Storage) UnlinkLabel(ctx context.Context, taskID, labelID uuid.UUID) (bool, error) {
	start := time.Now()

	query := `DELETE FROM task_labels WHERE task_id = $1 AND label_id = $2`

	tag, err := s.pool.Exec(ctx, query, taskID, labelID)
	if err != nil {
		logger.Error("Repository: Не удалось удалить связь с меткой", err)
		return false, fmt.Errorf("удаление связи с меткой: %w", err)
	}

	warnIfSlow("unlink_label", start)
	return tag.RowsAffected() > 0, nil
}
