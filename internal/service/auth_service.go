package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/auth"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService - регистрация, вход и разрешение принципала по токену.
type AuthService struct {
	users  UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users UserRepository, tokens *auth.TokenManager) AuthService {
	return AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Register создаёт пользователя. Дубликаты username и email проверяются
// без учёта регистра, email хранится в нижнем регистре.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if bErr := validateUsername(username); bErr != nil {
		return nil, bErr
	}
	if bErr := validateEmail(email); bErr != nil {
		return nil, bErr
	}
	if bErr := validatePassword(password); bErr != nil {
		return nil, bErr
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, NewConflict("Имя пользователя уже занято")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("проверка имени пользователя: %w", err)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, NewConflict("Email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("проверка email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("хеширование пароля: %w", err)
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          strings.ToLower(email),
		HashedPassword: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// гонка двух регистраций может проскочить мимо проактивной
		// проверки, тогда уникальность ловит ограничение БД
		if errors.Is(err, repository.ErrConflict) {
			return nil, NewConflict("Имя пользователя или email уже заняты")
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	logger.Info("Service: Пользователь зарегистрирован", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login проверяет пароль и выпускает токен. Несуществующий пользователь и
// неверный пароль дают один и тот же ответ.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", NewUnauthorized("Неверное имя пользователя или пароль")
		}
		return "", fmt.Errorf("получение пользователя: %w", err)
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		logger.Warn("Service: Неудачная попытка входа", zap.String("username", username))
		return "", NewUnauthorized("Неверное имя пользователя или пароль")
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("выпуск токена: %w", err)
	}
	return token, nil
}

// ResolvePrincipal проверяет токен и находит пользователя по subject
// (без учёта регистра). Любой сбой - UNAUTHORIZED.
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, NewUnauthorized("Невалидный или просроченный токен")
	}

	user, err := s.users.GetUserByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewUnauthorized("Невалидный или просроченный токен")
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return user, nil
}
