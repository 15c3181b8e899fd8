package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrUserIDEmpty     = errors.New("user ID cannot be empty")
	ErrUserOpenIDEmpty = errors.New("user openid cannot be empty")
)

// User represents a player authenticated through the WeChat mini-program.
// OpenID is the mini-program scoped identity returned by the jscode2session
// exchange; UnionID is only present when the app is bound to an open platform
// account.
type User struct {
	ID        uuid.UUID `json:"id"`
	OpenID    string    `json:"openid"`
	UnionID   string    `json:"unionid,omitempty"`
	Nickname  string    `json:"nickname,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User for the given WeChat openid.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewUser(openID string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		OpenID:    openID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if u.OpenID == "" {
		return ErrUserOpenIDEmpty
	}

	return nil
}
