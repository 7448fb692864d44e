package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"taskboard/internal/logger"
	"taskboard/internal/models"

	"go.uber.org/zap"
)

const PrincipalKey contextKey = "principal"

// PrincipalResolver - проверка токена и поиск пользователя.
// Реализуется service.AuthService.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*models.User, error)
}

// Auth требует заголовок Authorization: Bearer <token> и кладёт
// разрешённого принципала в контекст запроса. Проверка владения
// выполняется заново на каждом запросе, состояние не кешируется.
func Auth(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				unauthorized(w, r, "отсутствует bearer-токен")
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), token)
			if err != nil {
				logger.Warn("HTTP: Отказ аутентификации",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("client_ip", r.RemoteAddr))
				unauthorized(w, r, "невалидный или просроченный токен")
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error":      message,
		"request_id": GetRequestID(r.Context()),
	})
}

func PrincipalFromContext(ctx context.Context) *models.User {
	if principal, ok := ctx.Value(PrincipalKey).(*models.User); ok {
		return principal
	}
	return nil
}
