package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Priority    int        `json:"priority" db:"priority"`
	Completed   bool       `json:"completed" db:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	OwnerID     uuid.UUID  `json:"owner_id" db:"owner_id"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty" db:"project_id"`
}

type TaskPatch struct {
	Title       Optional[string]
	Description Optional[*string]
	Priority    Optional[int]
	Completed   Optional[bool]
	DueDate     Optional[*time.Time]
	ProjectID   Optional[*uuid.UUID]
}

// TaskView - именованная выборка задач по дедлайну.
// Все три исключают завершённые задачи.
type TaskView string

const (
	ViewUpcoming TaskView = "upcoming" // due_date > now, сортировка по дедлайну
	ViewToday    TaskView = "today"    // due_date внутри календарного дня (UTC)
	ViewOverdue  TaskView = "overdue"  // due_date < now
)

// TaskFilter - конъюнкция условий поверх owner_id == principal.id.
// Now фиксируется один раз на запрос и используется всеми предикатами.
type TaskFilter struct {
	Completed *bool
	Priority  *int
	ProjectID *uuid.UUID
	LabelID   *uuid.UUID
	View      TaskView
	Now       time.Time
}
