package service_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/repository/inmemory"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(store *inmemory.Storage) service.TaskService {
	return service.NewTaskService(store, store, store)
}

func TestCreateTaskDefaults(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Купить хлеб"})
	require.NoError(t, err)

	assert.Equal(t, "Купить хлеб", task.Title)
	assert.Equal(t, 1, task.Priority)
	assert.False(t, task.Completed)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.ProjectID)
	assert.Equal(t, alice.ID, task.OwnerID)
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	past := time.Now().UTC().Add(-time.Hour)

	cases := []struct {
		name  string
		input service.CreateTaskInput
	}{
		{"пустой title", service.CreateTaskInput{Title: ""}},
		{"priority вне диапазона", service.CreateTaskInput{Title: "x", Priority: intPtr(6)}},
		{"priority ноль", service.CreateTaskInput{Title: "x", Priority: intPtr(0)}},
		{"дедлайн в прошлом", service.CreateTaskInput{Title: "x", DueDate: &past}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTask(ctx, alice, tc.input)
			var bErr *service.BusinessError
			require.ErrorAs(t, err, &bErr)
			assert.Equal(t, service.CodeValidation, bErr.Code)
		})
	}
}

func TestCreateTaskForeignProject(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	projects := service.NewProjectService(store, store)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	project, err := projects.CreateProject(ctx, bob, "Чужой", nil)
	require.NoError(t, err)

	// чужой проект в payload - BAD_REQUEST, а не NOT_FOUND
	_, err = svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "x", ProjectID: &project.ID})
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeBadRequest, bErr.Code)

	missing := uuid.New()
	_, err = svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "x", ProjectID: &missing})
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeBadRequest, bErr.Code)
}

func TestGetTaskForeignOwnerHidden(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Секрет"})
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, bob, task.ID)
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeNotFound, bErr.Code)
}

func TestListTasksFilters(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	_, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Срочная", Priority: intPtr(5)})
	require.NoError(t, err)
	done, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Сделанная", Priority: intPtr(5)})
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, alice, done.ID, models.TaskPatch{Completed: models.Some(true)})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Обычная"})
	require.NoError(t, err)

	page, err := svc.ListTasks(ctx, alice, service.TaskListFilter{}, pagination.Normalize(1, 100))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	completed := false
	page, err = svc.ListTasks(ctx, alice, service.TaskListFilter{Completed: &completed}, pagination.Normalize(1, 100))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	// фильтры конъюнктивны
	page, err = svc.ListTasks(ctx, alice, service.TaskListFilter{Completed: &completed, Priority: intPtr(5)}, pagination.Normalize(1, 100))
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Срочная", page.Results[0].Title)
}

func TestListTasksPagination(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	for i := 0; i < 5; i++ {
		_, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Задача"})
		require.NoError(t, err)
	}

	seen := 0
	for page := 1; page <= 3; page++ {
		result, err := svc.ListTasks(ctx, alice, service.TaskListFilter{}, pagination.Normalize(page, 2))
		require.NoError(t, err)
		// total - полное количество под предикатом, не размер страницы
		assert.Equal(t, 5, result.Total)
		seen += len(result.Results)
	}
	assert.Equal(t, 5, seen)
}

func TestUpdateTaskPatchNulls(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	due := time.Now().UTC().Add(24 * time.Hour)
	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{
		Title:       "Задача",
		Description: strPtr("описание"),
		DueDate:     &due,
	})
	require.NoError(t, err)

	// непереданные поля не трогаются
	updated, err := svc.UpdateTask(ctx, alice, task.ID, models.TaskPatch{Title: models.Some("Новое имя")})
	require.NoError(t, err)
	assert.Equal(t, "Новое имя", updated.Title)
	require.NotNil(t, updated.Description)
	require.NotNil(t, updated.DueDate)

	// явный null обнуляет description и due_date
	updated, err = svc.UpdateTask(ctx, alice, task.ID, models.TaskPatch{
		Description: models.Some[*string](nil),
		DueDate:     models.Some[*time.Time](nil),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.DueDate)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestUpdateTaskPastDueDate(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Задача"})
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Minute)
	_, err = svc.UpdateTask(ctx, alice, task.ID, models.TaskPatch{
		DueDate: models.Some(&past),
	})
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeValidation, bErr.Code)
}

func TestDuplicateTask(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	labels := service.NewLabelService(store, store)
	alice := createUser(t, store, "alice")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{
		Title:       "Оригинал",
		Description: strPtr("описание"),
		Priority:    intPtr(4),
	})
	require.NoError(t, err)

	label, err := labels.CreateLabel(ctx, alice, "важное", nil)
	require.NoError(t, err)
	_, err = svc.AssignLabel(ctx, alice, task.ID, label.ID)
	require.NoError(t, err)

	detail, err := svc.DuplicateTask(ctx, alice, task.ID)
	require.NoError(t, err)

	copyTask := detail.Task
	assert.NotEqual(t, task.ID, copyTask.ID)
	assert.Equal(t, "Оригинал (Copy)", copyTask.Title)
	assert.Equal(t, 4, copyTask.Priority)
	require.NotNil(t, copyTask.Description)
	assert.Equal(t, "описание", *copyTask.Description)

	// связи с метками копируются
	require.Len(t, detail.Labels, 1)
	assert.Equal(t, label.ID, detail.Labels[0].ID)
}

func TestDuplicateCompletedTask(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Сделано", Completed: true})
	require.NoError(t, err)

	_, err = svc.DuplicateTask(ctx, alice, task.ID)
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeBadRequest, bErr.Code)
}

func TestAssignLabelIdempotent(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	labels := service.NewLabelService(store, store)
	alice := createUser(t, store, "alice")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Задача"})
	require.NoError(t, err)
	label, err := labels.CreateLabel(ctx, alice, "важное", nil)
	require.NoError(t, err)

	detail, err := svc.AssignLabel(ctx, alice, task.ID, label.ID)
	require.NoError(t, err)
	require.Len(t, detail.Labels, 1)

	// повторное назначение - no-op
	_, err = svc.AssignLabel(ctx, alice, task.ID, label.ID)
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeNotModified, bErr.Code)

	got, err := store.TaskLabels(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRemoveLabelIdempotent(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	labels := service.NewLabelService(store, store)
	alice := createUser(t, store, "alice")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Задача"})
	require.NoError(t, err)
	label, err := labels.CreateLabel(ctx, alice, "важное", nil)
	require.NoError(t, err)

	_, err = svc.AssignLabel(ctx, alice, task.ID, label.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLabel(ctx, alice, task.ID, label.ID))

	// повторное снятие - no-op
	err = svc.RemoveLabel(ctx, alice, task.ID, label.ID)
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeNotModified, bErr.Code)
}

func TestAssignForeignLabel(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	labels := service.NewLabelService(store, store)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Задача"})
	require.NoError(t, err)
	label, err := labels.CreateLabel(ctx, bob, "чужая", nil)
	require.NoError(t, err)

	_, err = svc.AssignLabel(ctx, alice, task.ID, label.ID)
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeNotFound, bErr.Code)
}

func TestListViewUpcomingAndOverdue(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	upcoming, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Будущая", DueDate: &tomorrow})
	require.NoError(t, err)

	// просроченные и завершённые задачи создаются напрямую в хранилище:
	// сервис не принимает дедлайн в прошлом
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	overdue := &models.Task{ID: uuid.New(), Title: "Просроченная", Priority: 1, DueDate: &yesterday, OwnerID: alice.ID}
	require.NoError(t, store.CreateTask(ctx, overdue))
	overdueDone := &models.Task{ID: uuid.New(), Title: "Просроченная сделанная", Priority: 1, Completed: true, DueDate: &yesterday, OwnerID: alice.ID}
	require.NoError(t, store.CreateTask(ctx, overdueDone))

	_, err = svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Без дедлайна"})
	require.NoError(t, err)

	page, err := svc.ListView(ctx, alice, models.ViewUpcoming, nil, pagination.Normalize(1, 100))
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, upcoming.ID, page.Results[0].ID)

	page, err = svc.ListView(ctx, alice, models.ViewOverdue, nil, pagination.Normalize(1, 100))
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, overdue.ID, page.Results[0].ID)
}

func TestCompletedTaskLeavesUpcoming(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")

	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Будущая", DueDate: &tomorrow})
	require.NoError(t, err)

	page, err := svc.ListView(ctx, alice, models.ViewUpcoming, nil, pagination.Normalize(1, 100))
	require.NoError(t, err)
	require.Len(t, page.Results, 1)

	_, err = svc.UpdateTask(ctx, alice, task.ID, models.TaskPatch{Completed: models.Some(true)})
	require.NoError(t, err)

	page, err = svc.ListView(ctx, alice, models.ViewUpcoming, nil, pagination.Normalize(1, 100))
	require.NoError(t, err)
	assert.Empty(t, page.Results)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := newTaskService(store)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	task, err := svc.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Задача"})
	require.NoError(t, err)

	// чужую задачу удалить нельзя
	err = svc.DeleteTask(ctx, bob, task.ID)
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeNotFound, bErr.Code)

	require.NoError(t, svc.DeleteTask(ctx, alice, task.ID))

	_, err = svc.GetTask(ctx, alice, task.ID)
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeNotFound, bErr.Code)
}
