package handlers_test

import (
	"context"
	"net/http"
	"os"
	"testing"

	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	if err := logger.Init(true); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testPrincipal = &models.User{
	ID:       uuid.New(),
	Username: "alice",
	Email:    "alice@example.com",
}

// withPrincipal кладёт принципала в контекст, как это делает auth-middleware.
func withPrincipal(principal *models.User, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.PrincipalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	args := m.Called(ctx, username, email, password)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

type MockHealth struct {
	mock.Mock
}

func (m *MockHealth) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) CreateProject(ctx context.Context, principal *models.User, title string, color *string) (*models.Project, error) {
	args := m.Called(ctx, principal, title, color)
	if project := args.Get(0); project != nil {
		return project.(*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) ListProjects(ctx context.Context, principal *models.User, p pagination.Params) (pagination.Page[*models.Project], error) {
	args := m.Called(ctx, principal, p)
	return args.Get(0).(pagination.Page[*models.Project]), args.Error(1)
}

func (m *MockProjectService) GetProject(ctx context.Context, principal *models.User, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, principal, id)
	if project := args.Get(0); project != nil {
		return project.(*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) ProjectTasks(ctx context.Context, principal *models.User, id uuid.UUID, p pagination.Params) (pagination.Page[*models.Task], error) {
	args := m.Called(ctx, principal, id, p)
	return args.Get(0).(pagination.Page[*models.Task]), args.Error(1)
}

func (m *MockProjectService) UpdateProject(ctx context.Context, principal *models.User, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, principal, id, patch)
	if project := args.Get(0); project != nil {
		return project.(*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) DeleteProject(ctx context.Context, principal *models.User, id uuid.UUID) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, principal *models.User, input service.CreateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, principal, input)
	if task := args.Get(0); task != nil {
		return task.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, principal *models.User, filter service.TaskListFilter, p pagination.Params) (pagination.Page[*models.Task], error) {
	args := m.Called(ctx, principal, filter, p)
	return args.Get(0).(pagination.Page[*models.Task]), args.Error(1)
}

func (m *MockTaskService) ListView(ctx context.Context, principal *models.User, view models.TaskView, priority *int, p pagination.Params) (pagination.Page[*models.Task], error) {
	args := m.Called(ctx, principal, view, priority, p)
	return args.Get(0).(pagination.Page[*models.Task]), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, principal *models.User, id uuid.UUID) (*service.TaskDetail, error) {
	args := m.Called(ctx, principal, id)
	if detail := args.Get(0); detail != nil {
		return detail.(*service.TaskDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, principal *models.User, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	args := m.Called(ctx, principal, id, patch)
	if task := args.Get(0); task != nil {
		return task.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, principal *models.User, id uuid.UUID) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

func (m *MockTaskService) DuplicateTask(ctx context.Context, principal *models.User, id uuid.UUID) (*service.TaskDetail, error) {
	args := m.Called(ctx, principal, id)
	if detail := args.Get(0); detail != nil {
		return detail.(*service.TaskDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) AssignLabel(ctx context.Context, principal *models.User, taskID, labelID uuid.UUID) (*service.TaskDetail, error) {
	args := m.Called(ctx, principal, taskID, labelID)
	if detail := args.Get(0); detail != nil {
		return detail.(*service.TaskDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) RemoveLabel(ctx context.Context, principal *models.User, taskID, labelID uuid.UUID) error {
	args := m.Called(ctx, principal, taskID, labelID)
	return args.Error(0)
}

type MockLabelService struct {
	mock.Mock
}

func (m *MockLabelService) CreateLabel(ctx context.Context, principal *models.User, name string, color *string) (*models.Label, error) {
	args := m.Called(ctx, principal, name, color)
	if label := args.Get(0); label != nil {
		return label.(*models.Label), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLabelService) ListLabels(ctx context.Context, principal *models.User, p pagination.Params) (pagination.Page[*models.Label], error) {
	args := m.Called(ctx, principal, p)
	return args.Get(0).(pagination.Page[*models.Label]), args.Error(1)
}

func (m *MockLabelService) LabelTasks(ctx context.Context, principal *models.User, id uuid.UUID, p pagination.Params) (pagination.Page[*models.Task], error) {
	args := m.Called(ctx, principal, id, p)
	return args.Get(0).(pagination.Page[*models.Task]), args.Error(1)
}

func (m *MockLabelService) UpdateLabel(ctx context.Context, principal *models.User, id uuid.UUID, patch models.LabelPatch) (*models.Label, error) {
	args := m.Called(ctx, principal, id, patch)
	if label := args.Get(0); label != nil {
		return label.(*models.Label), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLabelService) DeleteLabel(ctx context.Context, principal *models.User, id uuid.UUID) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}
