package handlers

import (
	"errors"
	"net/http"

	"taskboard/internal/logger"
	"taskboard/internal/service"

	"go.uber.org/zap"
)

// handleServiceError переводит бизнес-ошибки в HTTP-ответы.
// Всё, что не является BusinessError - внутренняя ошибка, 500.
func handleServiceError(w http.ResponseWriter, err error, operation string) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		if businessErr.Code == service.CodeUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		// у 304 не бывает тела
		if statusCode == http.StatusNotModified {
			w.WriteHeader(statusCode)
			return
		}

		responseWithJSON(w, statusCode, map[string]any{
			"error":   businessErr.Code,
			"message": businessErr.Message,
			"details": businessErr.Details,
		})
		return
	}

	logger.Error("HTTP: Ошибка Service", err, zap.String("operation", operation))
	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusUnprocessableEntity
	case service.CodeConflict:
		return http.StatusConflict
	case service.CodeNotModified:
		return http.StatusNotModified
	case service.CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
