package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"

	"go.uber.org/zap"
)

type LabelHandler struct {
	LabelService LabelService
}

func NewLabelHandler(labelService LabelService) LabelHandler {
	return LabelHandler{
		LabelService: labelService,
	}
}

// POST /labels
func (h *LabelHandler) CreateLabel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var request dto.CreateLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	label, err := h.LabelService.CreateLabel(r.Context(), principal, request.Name, request.Color)
	if err != nil {
		handleServiceError(w, err, "create_label")
		return
	}

	logger.Info("HTTP_OUT: Метка создана",
		zap.String("label_id", label.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromLabel(label))
}

// GET /labels
func (h *LabelHandler) ListLabels(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	paging, ok := parsePaging(w, r)
	if !ok {
		return
	}

	page, err := h.LabelService.ListLabels(r.Context(), principal, paging)
	if err != nil {
		handleServiceError(w, err, "list_labels")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MapPage(page, dto.FromLabel))
}

// GET /labels/{id}/tasks
func (h *LabelHandler) LabelTasks(w http.ResponseWriter, r *http.Request) {
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

	page, err := h.LabelService.LabelTasks(r.Context(), principal, id, paging)
	if err != nil {
		handleServiceError(w, err, "label_tasks")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MapPage(page, dto.FromTask))
}

// PATCH /labels/{id}
func (h *LabelHandler) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateLabelRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	label, err := h.LabelService.UpdateLabel(r.Context(), principal, id, request.ToPatch())
	if err != nil {
		handleServiceError(w, err, "update_label")
		return
	}

	logger.Info("HTTP_OUT: Метка обновлена",
		zap.String("label_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromLabel(label))
}

// DELETE /labels/{id}
func (h *LabelHandler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.LabelService.DeleteLabel(r.Context(), principal, id); err != nil {
		handleServiceError(w, err, "delete_label")
		return
	}

	responseNoContent(w)
}
