package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	start := time.Now()

	query := `INSERT INTO users (id, username, email, hashed_password)
				VALUES ($1, $2, $3, $4)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
	).Scan(&user.CreatedAt)

	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrConflict) {
			return mapped
		}
		logger.Error("Repository: Не удалось создать пользователя", err)
		return fmt.Errorf("создание пользователя: %w", err)
	}

	warnIfSlow("create_user", start)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	start := time.Now()

	query := `SELECT id, username, email, hashed_password, created_at
				FROM users
				WHERE id = $1`

	user := &models.User{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	warnIfSlow("get_user", start)
	return user, nil
}

// GetUserByUsername ищет без учёта регистра.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	start := time.Now()

	query := `SELECT id, username, email, hashed_password, created_at
				FROM users
				WHERE LOWER(username) = LOWER($1)`

	user := &models.User{}
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	warnIfSlow("get_user_by_username", start)
	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()

	query := `SELECT id, username, email, hashed_password, created_at
				FROM users
				WHERE LOWER(email) = LOWER($1)`

	user := &models.User{}
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	warnIfSlow("get_user_by_email", start)
	return user, nil
}
