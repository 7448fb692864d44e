// Package inmemory - хранилище на картах под RWMutex. Повторяет семантику
// postgres-хранилища один в один: те же сигнальные ошибки, тот же порядок
// сортировки, тот же каскад удаления. Используется в тестах и для локальной
// разработки без БД.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/repository"

	"github.com/google/uuid"
)

type link struct {
	taskID  uuid.UUID
	labelID uuid.UUID
}

type Storage struct {
	mtx      sync.RWMutex
	users    map[uuid.UUID]*models.User
	projects map[uuid.UUID]*models.Project
	tasks    map[uuid.UUID]*models.Task
	labels   map[uuid.UUID]*models.Label
	links    map[link]struct{}
}

func New() *Storage {
	return &Storage{
		users:    make(map[uuid.UUID]*models.User),
		projects: make(map[uuid.UUID]*models.Project),
		tasks:    make(map[uuid.UUID]*models.Task),
		labels:   make(map[uuid.UUID]*models.Label),
		links:    make(map[link]struct{}),
	}
}

func (s *Storage) Close() {}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return nil
}

// наружу всегда отдаются копии, чтобы вызывающий код не мутировал
// хранимое состояние в обход Update
func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyProject(p *models.Project) *models.Project {
	c := *p
	return &c
}

func copyTask(t *models.Task) *models.Task {
	c := *t
	return &c
}

func copyLabel(l *models.Label) *models.Label {
	c := *l
	return &c
}

func paginate[T any](items []T, p pagination.Params) []T {
	offset := p.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// --- пользователи ---

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) ||
			strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrConflict
		}
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(user), nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Username, username) {
			return copyUser(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return copyUser(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- проекты ---

func (s *Storage) CreateProject(ctx context.Context, project *models.Project) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	s.projects[project.ID] = copyProject(project)
	return nil
}

func (s *Storage) GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProject(project), nil
}

func (s *Storage) ListProjects(ctx context.Context, ownerID uuid.UUID, p pagination.Params) ([]*models.Project, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	projects := []*models.Project{}
	for _, project := range s.projects {
		if project.OwnerID == ownerID {
			projects = append(projects, copyProject(project))
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.Before(projects[j].CreatedAt)
		}
		return projects[i].ID.String() < projects[j].ID.String()
	})

	return paginate(projects, p), len(projects), nil
}

func (s *Storage) UpdateProject(ctx context.Context, project *models.Project) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.projects[project.ID]
	if !ok {
		return repository.ErrNotFound
	}
	project.CreatedAt = stored.CreatedAt
	s.projects[project.ID] = copyProject(project)
	return nil
}

func (s *Storage) DeleteProject(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.projects[id]; !ok {
		return repository.ErrNotFound
	}

	// каскад: задачи проекта и их связи с метками
	for taskID, task := range s.tasks {
		if task.ProjectID != nil && *task.ProjectID == id {
			for l := range s.links {
				if l.taskID == taskID {
					delete(s.links, l)
				}
			}
			delete(s.tasks, taskID)
		}
	}
	delete(s.projects, id)
	return nil
}

// --- задачи ---

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	return s.CreateTaskWithLabels(ctx, task, nil)
}

func (s *Storage) CreateTaskWithLabels(ctx context.Context, task *models.Task, labelIDs []uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	s.tasks[task.ID] = copyTask(task)
	for _, labelID := range labelIDs {
		s.links[link{taskID: task.ID, labelID: labelID}] = struct{}{}
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTask(task), nil
}

func matchesFilter(task *models.Task, f models.TaskFilter) bool {
	if f.Completed != nil && task.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}
	if f.ProjectID != nil && (task.ProjectID == nil || *task.ProjectID != *f.ProjectID) {
		return false
	}

	switch f.View {
	case models.ViewUpcoming:
		if task.Completed || task.DueDate == nil || !task.DueDate.After(f.Now) {
			return false
		}
	case models.ViewToday:
		if task.Completed || task.DueDate == nil {
			return false
		}
		dayStart := f.Now.UTC().Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
		if task.DueDate.Before(dayStart) || task.DueDate.After(dayEnd) {
			return false
		}
	case models.ViewOverdue:
		if task.Completed || task.DueDate == nil || !task.DueDate.Before(f.Now) {
			return false
		}
	}
	return true
}

func (s *Storage) ListTasks(ctx context.Context, ownerID uuid.UUID, f models.TaskFilter, p pagination.Params) ([]*models.Task, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []*models.Task{}
	for _, task := range s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if f.LabelID != nil {
			if _, ok := s.links[link{taskID: task.ID, labelID: *f.LabelID}]; !ok {
				continue
			}
		}
		if matchesFilter(task, f) {
			tasks = append(tasks, copyTask(task))
		}
	}

	if f.View == models.ViewUpcoming {
		// по дедлайну, задачи без дедлайна в конце
		sort.Slice(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == nil && b == nil:
				return tasks[i].ID.String() < tasks[j].ID.String()
			case a == nil:
				return false
			case b == nil:
				return true
			case !a.Equal(*b):
				return a.Before(*b)
			default:
				return tasks[i].ID.String() < tasks[j].ID.String()
			}
		})
	} else {
		sort.Slice(tasks, func(i, j int) bool {
			if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
				return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
			}
			return tasks[i].ID.String() < tasks[j].ID.String()
		})
	}

	return paginate(tasks, p), len(tasks), nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.tasks[task.ID]
	if !ok {
		return repository.ErrNotFound
	}

	now := time.Now().UTC()
	task.CreatedAt = stored.CreatedAt
	task.UpdatedAt = &now
	s.tasks[task.ID] = copyTask(task)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repository.ErrNotFound
	}

	for l := range s.links {
		if l.taskID == id {
			delete(s.links, l)
		}
	}
	delete(s.tasks, id)
	return nil
}

func (s *Storage) TaskLabels(ctx context.Context, taskID uuid.UUID) ([]*models.Label, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	labels := []*models.Label{}
	for l := range s.links {
		if l.taskID != taskID {
			continue
		}
		if label, ok := s.labels[l.labelID]; ok {
			labels = append(labels, copyLabel(label))
		}
	}

	sort.Slice(labels, func(i, j int) bool {
		return labels[i].Name < labels[j].Name
	})
	return labels, nil
}

func (s *Storage) LinkLabel(ctx context.Context, taskID, labelID uuid.UUID) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := link{taskID: taskID, labelID: labelID}
	if _, ok := s.links[key]; ok {
		return false, nil
	}
	s.links[key] = struct{}{}
	return true, nil
}

func (s *Storage) UnlinkLabel(ctx context.Context, taskID, labelID uuid.UUID) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := link{taskID: taskID, labelID: labelID}
	if _, ok := s.links[key]; !ok {
		return false, nil
	}
	delete(s.links, key)
	return true, nil
}

// --- метки ---

func (s *Storage) CreateLabel(ctx context.Context, label *models.Label) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.labels {
		if existing.OwnerID == label.OwnerID && strings.EqualFold(existing.Name, label.Name) {
			return repository.ErrConflict
		}
	}
	s.labels[label.ID] = copyLabel(label)
	return nil
}

func (s *Storage) GetLabelByID(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	label, ok := s.labels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyLabel(label), nil
}

func (s *Storage) GetLabelByName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Label, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, label := range s.labels {
		if label.OwnerID == ownerID && strings.EqualFold(label.Name, name) {
			return copyLabel(label), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Storage) ListLabels(ctx context.Context, ownerID uuid.UUID, p pagination.Params) ([]*models.Label, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	labels := []*models.Label{}
	for _, label := range s.labels {
		if label.OwnerID == ownerID {
			labels = append(labels, copyLabel(label))
		}
	}

	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Name != labels[j].Name {
			return labels[i].Name < labels[j].Name
		}
		return labels[i].ID.String() < labels[j].ID.String()
	})

	return paginate(labels, p), len(labels), nil
}

func (s *Storage) UpdateLabel(ctx context.Context, label *models.Label) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.labels[label.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range s.labels {
		if existing.ID != label.ID && existing.OwnerID == label.OwnerID &&
			strings.EqualFold(existing.Name, label.Name) {
			return repository.ErrConflict
		}
	}
	s.labels[label.ID] = copyLabel(label)
	return nil
}

func (s *Storage) DeleteLabel(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.labels[id]; !ok {
		return repository.ErrNotFound
	}

	for l := range s.links {
		if l.labelID == id {
			delete(s.links, l)
		}
	}
	delete(s.labels, id)
	return nil
}
