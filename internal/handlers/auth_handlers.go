package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"

	"go.uber.org/zap"
)

type AuthHandler struct {
	AuthService AuthService
	Health      HealthChecker
}

func NewAuthHandler(authService AuthService, health HealthChecker) AuthHandler {
	return AuthHandler{
		AuthService: authService,
		Health:      health,
	}
}

// POST /users
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	user, err := h.AuthService.Register(r.Context(), request.Username, request.Email, request.Password)
	if err != nil {
		handleServiceError(w, err, "register")
		return
	}

	logger.Info("HTTP_OUT: Пользователь создан",
		zap.String("user_id", user.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromUser(user))
}

// POST /token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	token, err := h.AuthService.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		handleServiceError(w, err, "login")
		return
	}

	logger.Info("HTTP_OUT: Вход выполнен",
		zap.String("username", request.Username),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// GET /users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromUser(principal))
}

// GET /health
func (h *AuthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Health.HealthCheck(ctx); err != nil {
		responseWithJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	responseWithJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
