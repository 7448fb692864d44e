package service_test

import (
	"context"
	"testing"

	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/repository/inmemory"
	"taskboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLabelDuplicateName(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := service.NewLabelService(store, store)
	alice := createUser(t, store, "alice")

	_, err := svc.CreateLabel(ctx, alice, "важное", nil)
	require.NoError(t, err)

	// дубликат без учёта регистра
	_, err = svc.CreateLabel(ctx, alice, "ВАЖНОЕ", nil)
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeConflict, bErr.Code)
}

func TestCreateLabelSameNameDifferentOwners(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := service.NewLabelService(store, store)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	_, err := svc.CreateLabel(ctx, alice, "важное", nil)
	require.NoError(t, err)

	// уникальность имени действует в пределах владельца
	_, err = svc.CreateLabel(ctx, bob, "важное", nil)
	require.NoError(t, err)
}

func TestUpdateLabel(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := service.NewLabelService(store, store)
	alice := createUser(t, store, "alice")

	label, err := svc.CreateLabel(ctx, alice, "важное", strPtr("#ff0000"))
	require.NoError(t, err)
	_, err = svc.CreateLabel(ctx, alice, "срочное", nil)
	require.NoError(t, err)

	// переименование в занятое имя - конфликт
	_, err = svc.UpdateLabel(ctx, alice, label.ID, models.LabelPatch{Name: models.Some("срочное")})
	var bErr *service.BusinessError
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, service.CodeConflict, bErr.Code)

	// "переименование" в собственное имя проходит
	updated, err := svc.UpdateLabel(ctx, alice, label.ID, models.LabelPatch{Name: models.Some("важное")})
	require.NoError(t, err)
	assert.Equal(t, "важное", updated.Name)

	updated, err = svc.UpdateLabel(ctx, alice, label.ID, models.LabelPatch{
		Name:  models.Some("дом"),
		Color: models.Some(strPtr("#0F0")),
	})
	require.NoError(t, err)
	assert.Equal(t, "дом", updated.Name)
	require.NotNil(t, updated.Color)
	assert.Equal(t, "#00ff00", *updated.Color)
}

func TestDeleteLabelRemovesLinks(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	labels := service.NewLabelService(store, store)
	tasks := service.NewTaskService(store, store, store)
	alice := createUser(t, store, "alice")

	task, err := tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Задача"})
	require.NoError(t, err)
	label, err := labels.CreateLabel(ctx, alice, "важное", nil)
	require.NoError(t, err)
	_, err = tasks.AssignLabel(ctx, alice, task.ID, label.ID)
	require.NoError(t, err)

	require.NoError(t, labels.DeleteLabel(ctx, alice, label.ID))

	// задача остаётся, связь исчезает
	detail, err := tasks.GetTask(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Labels)
}

func TestLabelTasks(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	labels := service.NewLabelService(store, store)
	tasks := service.NewTaskService(store, store, store)
	alice := createUser(t, store, "alice")

	tagged, err := tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "С меткой"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Без метки"})
	require.NoError(t, err)

	label, err := labels.CreateLabel(ctx, alice, "важное", nil)
	require.NoError(t, err)
	_, err = tasks.AssignLabel(ctx, alice, tagged.ID, label.ID)
	require.NoError(t, err)

	page, err := labels.LabelTasks(ctx, alice, label.ID, pagination.Normalize(1, 100))
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, tagged.ID, page.Results[0].ID)
}

func TestListLabelsSortedByName(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	svc := service.NewLabelService(store, store)
	alice := createUser(t, store, "alice")

	for _, name := range []string{"срочное", "важное", "дом"} {
		_, err := svc.CreateLabel(ctx, alice, name, nil)
		require.NoError(t, err)
	}

	page, err := svc.ListLabels(ctx, alice, pagination.Normalize(1, 100))
	require.NoError(t, err)
	require.Len(t, page.Results, 3)
	assert.Equal(t, "важное", page.Results[0].Name)
	assert.Equal(t, "дом", page.Results[1].Name)
	assert.Equal(t, "срочное", page.Results[2].Name)
}
