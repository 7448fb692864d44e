package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/service"

	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	task, err := h.TaskService.CreateTask(r.Context(), principal, request.ToInput())
	if err != nil {
		handleServiceError(w, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTask(task))
}

// GET /tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	paging, ok := parsePaging(w, r)
	if !ok {
		return
	}
	completed, ok := parseOptionalBool(w, r, "completed")
	if !ok {
		return
	}
	priority, ok := parseOptionalInt(w, r, "priority")
	if !ok {
		return
	}

	filter := service.TaskListFilter{
		Completed: completed,
		Priority:  priority,
	}
	page, err := h.TaskService.ListTasks(r.Context(), principal, filter, paging)
	if err != nil {
		handleServiceError(w, err, "list_tasks")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MapPage(page, dto.FromTask))
}

// GET /tasks/upcoming|today|overdue
func (h *TaskHandler) listView(w http.ResponseWriter, r *http.Request, view models.TaskView) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	paging, ok := parsePaging(w, r)
	if !ok {
		return
	}
	priority, ok := parseOptionalInt(w, r, "priority")
	if !ok {
		return
	}

	page, err := h.TaskService.ListView(r.Context(), principal, view, priority, paging)
	if err != nil {
		handleServiceError(w, err, "list_"+string(view))
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MapPage(page, dto.FromTask))
}

func (h *TaskHandler) UpcomingTasks(w http.ResponseWriter, r *http.Request) {
	h.listView(w, r, models.ViewUpcoming)
}

func (h *TaskHandler) TodayTasks(w http.ResponseWriter, r *http.Request) {
	h.listView(w, r, models.ViewToday)
}

func (h *TaskHandler) OverdueTasks(w http.ResponseWriter, r *http.Request) {
	h.listView(w, r, models.ViewOverdue)
}

// GET /tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.TaskService.GetTask(r.Context(), principal, id)
	if err != nil {
		handleServiceError(w, err, "get_task")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromTaskDetail(detail))
}

// PATCH /tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	task, err := h.TaskService.UpdateTask(r.Context(), principal, id, request.ToPatch())
	if err != nil {
		handleServiceError(w, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(task))
}

// DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), principal, id); err != nil {
		handleServiceError(w, err, "delete_task")
		return
	}

	responseNoContent(w)
}

// POST /tasks/{id}/duplicate
func (h *TaskHandler) DuplicateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.TaskService.DuplicateTask(r.Context(), principal, id)
	if err != nil {
		handleServiceError(w, err, "duplicate_task")
		return
	}

	logger.Info("HTTP_OUT: Задача продублирована",
		zap.String("source_id", id.String()),
		zap.String("copy_id", detail.Task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTaskDetail(detail))
}

// POST /tasks/{id}/labels/{label_id}
func (h *TaskHandler) AssignLabel(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	labelID, ok := parseID(w, r, "label_id")
	if !ok {
		return
	}

	detail, err := h.TaskService.AssignLabel(r.Context(), principal, taskID, labelID)
	if err != nil {
		handleServiceError(w, err, "assign_label")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromTaskDetail(detail))
}

// DELETE /tasks/{id}/labels/{label_id}
func (h *TaskHandler) RemoveLabel(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	labelID, ok := parseID(w, r, "label_id")
	if !ok {
		return
	}

	if err := h.TaskService.RemoveLabel(r.Context(), principal, taskID, labelID); err != nil {
		handleServiceError(w, err, "remove_label")
		return
	}

	responseNoContent(w)
}
