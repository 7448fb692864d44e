package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/models"

	"go.uber.org/zap"
)

type ProjectHandler struct {
	ProjectService ProjectService
}

func NewProjectHandler(projectService ProjectService) ProjectHandler {
	return ProjectHandler{
		ProjectService: projectService,
	}
}

// requirePrincipal достаёт принципала, положенного auth-middleware.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return nil, false
	}
	return principal, true
}

// POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var request dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	project, err := h.ProjectService.CreateProject(r.Context(), principal, request.Title, request.Color)
	if err != nil {
		handleServiceError(w, err, "create_project")
		return
	}

	logger.Info("HTTP_OUT: Проект создан",
		zap.String("project_id", project.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromProject(project))
}

// GET /projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	paging, ok := parsePaging(w, r)
	if !ok {
		return
	}

	page, err := h.ProjectService.ListProjects(r.Context(), principal, paging)
	if err != nil {
		handleServiceError(w, err, "list_projects")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MapPage(page, dto.FromProject))
}

// GET /projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProject(r.Context(), principal, id)
	if err != nil {
		handleServiceError(w, err, "get_project")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromProject(project))
}

// GET /projects/{id}/tasks
func (h *ProjectHandler) ProjectTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	paging, ok := parsePaging(w, r)
	if !ok {
		return
	}

	page, err := h.ProjectService.ProjectTasks(r.Context(), principal, id, paging)
	if err != nil {
		handleServiceError(w, err, "project_tasks")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MapPage(page, dto.FromTask))
}

// PATCH /projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateProjectRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	project, err := h.ProjectService.UpdateProject(r.Context(), principal, id, request.ToPatch())
	if err != nil {
		handleServiceError(w, err, "update_project")
		return
	}

	logger.Info("HTTP_OUT: Проект обновлён",
		zap.String("project_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromProject(project))
}

// DELETE /projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ProjectService.DeleteProject(r.Context(), principal, id); err != nil {
		handleServiceError(w, err, "delete_project")
		return
	}

	responseNoContent(w)
}
