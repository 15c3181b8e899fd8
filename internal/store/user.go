package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrOpenIDExists if the openid is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByOpenID retrieves a user by their WeChat openid.
	// Returns ErrUserNotFound if the user does not exist.
	GetByOpenID(ctx context.Context, openID string) (*domain.User, error)

	// Update modifies an existing user's profile details (nickname, avatar,
	// unionid). Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error
}
