package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/platform/logger"
	"github.com/topspin/topspin-api/internal/platform/wechat"
	"github.com/topspin/topspin-api/internal/service/auth"
	"github.com/topspin/topspin-api/internal/store"
)

// TokenPair is the credential set issued after a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult bundles the authenticated user with their tokens.
type LoginResult struct {
	User   *domain.User
	Tokens TokenPair
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Nickname  *string
	AvatarURL *string
}

// AccountService handles WeChat code login, token refresh and profile access.
type AccountService struct {
	sessions   wechat.SessionExchanger
	userStore  store.UserStore
	jwtService auth.JWTService
}

// NewAccountService creates an AccountService with the given dependencies.
func NewAccountService(
	sessions wechat.SessionExchanger,
	userStore store.UserStore,
	jwtService auth.JWTService,
) (*AccountService, error) {
	if sessions == nil {
		return nil, errors.New("session exchanger cannot be nil")
	}
	if userStore == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if jwtService == nil {
		return nil, errors.New("jwt service cannot be nil")
	}

	return &AccountService{
		sessions:   sessions,
		userStore:  userStore,
		jwtService: jwtService,
	}, nil
}

// Login exchanges a mini-program login code for a session, creates the user
// account on first login, and issues an access/refresh token pair.
func (s *AccountService) Login(ctx context.Context, code string) (*LoginResult, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.CodeToSession(ctx, code)
	if err != nil {
		log.Warn("wechat code exchange failed", "error", err)
		return nil, fmt.Errorf("%w: %v", auth.ErrLoginFailed, err)
	}

	user, err := s.findOrCreateUser(ctx, session)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info("user logged in", "user_id", user.ID)
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// RefreshTokens validates a refresh token and issues a fresh token pair.
func (s *AccountService) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &tokens, nil
}

// GetProfile returns the user's account record.
func (s *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of the update to the user's record.
func (s *AccountService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update ProfileUpdate,
) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for update: %w", err)
	}

	if update.Nickname != nil {
		user.Nickname = *update.Nickname
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	return user, nil
}

// findOrCreateUser looks up the account by openid, creating it on first login.
func (s *AccountService) findOrCreateUser(ctx context.Context, session *wechat.Session) (*domain.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userStore.GetByOpenID(ctx, session.OpenID)
	if err == nil {
		return user, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up user by openid: %w", err)
	}

	user, err = domain.NewUser(session.OpenID)
	if err != nil {
		return nil, fmt.Errorf("failed to construct user: %w", err)
	}
	user.UnionID = session.UnionID

	if err := s.userStore.Create(ctx, user); err != nil {
		// A concurrent first login may have won the insert; fall back to the
		// existing row.
		if store.IsDuplicateError(err) {
			return s.userStore.GetByOpenID(ctx, session.OpenID)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("created user account", "user_id", user.ID)
	return user, nil
}

func (s *AccountService) issueTokens(ctx context.Context, user *domain.User) (TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(ctx, user.ID, user.OpenID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, user.ID, user.OpenID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
