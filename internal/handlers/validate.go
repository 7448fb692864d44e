package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"taskboard/internal/logger"
	"taskboard/internal/pagination"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == target
}

// parseID читает uuid из path-параметра; при ошибке сам отвечает 400.
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, param)
	id, err := uuid.Parse(idParam)
	if err != nil || id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("param", param),
			zap.String("value", idParam),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить "+param)
		return uuid.Nil, false
	}
	return id, true
}

// parsePaging читает page/per_page; при ошибке сам отвечает 422.
func parsePaging(w http.ResponseWriter, r *http.Request) (pagination.Params, bool) {
	params, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		logger.Warn("HTTP: Неверные параметры пагинации",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnprocessableEntity, err.Error())
		return pagination.Params{}, false
	}
	return params, true
}

// parseOptionalBool: отсутствующий параметр - nil.
func parseOptionalBool(w http.ResponseWriter, r *http.Request, name string) (*bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", name),
			zap.String("value", raw),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnprocessableEntity, "неверное значение "+name)
		return nil, false
	}
	return &value, true
}

func parseOptionalInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", name),
			zap.String("value", raw),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnprocessableEntity, "неверное значение "+name)
		return nil, false
	}
	return &value, true
}
