package dto

import (
	"time"

	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/service"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type CreateProjectRequest struct {
	Title string  `json:"title"`
	Color *string `json:"color,omitempty"`
}

type UpdateProjectRequest struct {
	Title models.Optional[string]  `json:"title"`
	Color models.Optional[*string] `json:"color"`
}

func (r UpdateProjectRequest) ToPatch() models.ProjectPatch {
	return models.ProjectPatch{
		Title: r.Title,
		Color: r.Color,
	}
}

type ProjectResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromProject(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Title:     p.Title,
		Color:     p.Color,
		CreatedAt: p.CreatedAt,
	}
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
}

func (r CreateTaskRequest) ToInput() service.CreateTaskInput {
	return service.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		ProjectID:   r.ProjectID,
	}
}

// UpdateTaskRequest - частичное обновление: меняются только переданные поля,
// переданный null обнуляет description, due_date и project_id.
type UpdateTaskRequest struct {
	Title       models.Optional[string]      `json:"title"`
	Description models.Optional[*string]     `json:"description"`
	Priority    models.Optional[int]         `json:"priority"`
	Completed   models.Optional[bool]        `json:"completed"`
	DueDate     models.Optional[*time.Time]  `json:"due_date"`
	ProjectID   models.Optional[*uuid.UUID]  `json:"project_id"`
}

func (r UpdateTaskRequest) ToPatch() models.TaskPatch {
	return models.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		ProjectID:   r.ProjectID,
	}
}

type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    int        `json:"priority"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	IsOverdue   bool       `json:"is_overdue"`
}

func FromTask(t *models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		ProjectID:   t.ProjectID,
		IsOverdue:   !t.Completed && t.DueDate != nil && t.DueDate.Before(time.Now()),
	}
}

type TaskDetailResponse struct {
	TaskResponse
	Project *ProjectResponse `json:"project,omitempty"`
	Labels  []LabelResponse  `json:"labels"`
}

func FromTaskDetail(d *service.TaskDetail) TaskDetailResponse {
	response := TaskDetailResponse{
		TaskResponse: FromTask(d.Task),
		Labels:       make([]LabelResponse, 0, len(d.Labels)),
	}
	if d.Project != nil {
		project := FromProject(d.Project)
		response.Project = &project
	}
	for _, label := range d.Labels {
		response.Labels = append(response.Labels, FromLabel(label))
	}
	return response
}

type CreateLabelRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

type UpdateLabelRequest struct {
	Name  models.Optional[string]  `json:"name"`
	Color models.Optional[*string] `json:"color"`
}

func (r UpdateLabelRequest) ToPatch() models.LabelPatch {
	return models.LabelPatch{
		Name:  r.Name,
		Color: r.Color,
	}
}

type LabelResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color *string   `json:"color,omitempty"`
}

func FromLabel(l *models.Label) LabelResponse {
	return LabelResponse{
		ID:    l.ID,
		Name:  l.Name,
		Color: l.Color,
	}
}

// MapPage переводит страницу моделей в страницу DTO, сохраняя конверт.
func MapPage[I any, O any](page pagination.Page[I], convert func(I) O) pagination.Page[O] {
	results := make([]O, len(page.Results))
	for i, item := range page.Results {
		results[i] = convert(item)
	}
	return pagination.Page[O]{
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   page.Total,
		Results: results,
	}
}
