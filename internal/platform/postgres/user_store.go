package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/platform/logger"
	"github.com/topspin/topspin-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface using PostgreSQL.
type PostgresUserStore struct {
	db store.DBTX
}

// Compile-time check that PostgresUserStore satisfies store.UserStore.
var _ store.UserStore = (*PostgresUserStore)(nil)

// NewPostgresUserStore creates a new PostgresUserStore.
func NewPostgresUserStore(db store.DBTX) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Create saves a new user to the database.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (id, openid, unionid, nickname, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.OpenID,
		nullString(user.UnionID),
		user.Nickname,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			return fmt.Errorf("%w: %v", store.ErrOpenIDExists, err)
		}
		log.Error("failed to create user",
			"user_id", user.ID,
			"error", err)
		return fmt.Errorf("failed to create user: %w", mapped)
	}

	return nil
}

// GetByID retrieves a user by their unique ID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, openid, unionid, nickname, avatar_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetByOpenID retrieves a user by their WeChat openid.
func (s *PostgresUserStore) GetByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	query := `
		SELECT id, openid, unionid, nickname, avatar_url, created_at, updated_at
		FROM users
		WHERE openid = $1
	`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, openID))
}

// Update modifies an existing user's profile details.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE users
		SET unionid = $1, nickname = $2, avatar_url = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(ctx, query,
		nullString(user.UnionID),
		user.Nickname,
		user.AvatarURL,
		time.Now().UTC(),
		user.ID,
	)
	if err != nil {
		log.Error("failed to update user",
			"user_id", user.ID,
			"error", err)
		return fmt.Errorf("failed to update user: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// scanUser reads a single user row.
func (s *PostgresUserStore) scanUser(ctx context.Context, row *sql.Row) (*domain.User, error) {
	var user domain.User
	var unionID sql.NullString

	err := row.Scan(
		&user.ID,
		&user.OpenID,
		&unionID,
		&user.Nickname,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContext(ctx).Error("failed to scan user row", "error", err)
		return nil, fmt.Errorf("failed to scan user: %w", MapError(err))
	}

	user.UnionID = unionID.String
	return &user, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
