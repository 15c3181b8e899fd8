package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topspin/topspin-api/internal/config"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/platform/wechat"
	"github.com/topspin/topspin-api/internal/service/auth"
	"github.com/topspin/topspin-api/internal/store"
)

// fakeSessionExchanger returns a canned session or error.
type fakeSessionExchanger struct {
	session *wechat.Session
	err     error
}

func (f *fakeSessionExchanger) CodeToSession(ctx context.Context, code string) (*wechat.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	byID     map[uuid.UUID]*domain.User
	byOpenID map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:     make(map[uuid.UUID]*domain.User),
		byOpenID: make(map[string]*domain.User),
	}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if _, ok := s.byOpenID[user.OpenID]; ok {
		return store.ErrOpenIDExists
	}
	copied := *user
	s.byID[user.ID] = &copied
	s.byOpenID[user.OpenID] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	user, ok := s.byOpenID[openID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	existing, ok := s.byID[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	*existing = *user
	return nil
}

func newTestAccountService(t *testing.T, sessions wechat.SessionExchanger, users store.UserStore) *AccountService {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-key-that-is-32-chars!",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)

	service, err := NewAccountService(sessions, users, jwtService)
	require.NoError(t, err)
	return service
}

func TestLoginCreatesAccountOnFirstLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newFakeUserStore()
	sessions := &fakeSessionExchanger{session: &wechat.Session{OpenID: "openid-1", UnionID: "union-1"}}
	service := newTestAccountService(t, sessions, users)

	result, err := service.Login(ctx, "code-abc")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, "openid-1", result.User.OpenID)
	assert.Equal(t, "union-1", result.User.UnionID)

	stored, err := users.GetByOpenID(ctx, "openid-1")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, stored.ID)
}

func TestLoginReusesExistingAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newFakeUserStore()
	sessions := &fakeSessionExchanger{session: &wechat.Session{OpenID: "openid-1"}}
	service := newTestAccountService(t, sessions, users)

	first, err := service.Login(ctx, "code-1")
	require.NoError(t, err)

	second, err := service.Login(ctx, "code-2")
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID, "second login must not create a new account")
	assert.Len(t, users.byID, 1)
}

func TestLoginRejectedByWeChat(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessionExchanger{err: errors.New("errcode 40029: invalid code")}
	service := newTestAccountService(t, sessions, newFakeUserStore())

	_, err := service.Login(context.Background(), "bad-code")
	assert.ErrorIs(t, err, auth.ErrLoginFailed)
}

func TestRefreshTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newFakeUserStore()
	sessions := &fakeSessionExchanger{session: &wechat.Session{OpenID: "openid-1"}}
	service := newTestAccountService(t, sessions, users)

	login, err := service.Login(ctx, "code")
	require.NoError(t, err)

	tokens, err := service.RefreshTokens(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// An access token is not accepted as a refresh token.
	_, err = service.RefreshTokens(ctx, login.Tokens.AccessToken)
	assert.ErrorIs(t, err, auth.ErrWrongTokenType)
}

func TestRefreshTokensForDeletedUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newFakeUserStore()
	sessions := &fakeSessionExchanger{session: &wechat.Session{OpenID: "openid-1"}}
	service := newTestAccountService(t, sessions, users)

	login, err := service.Login(ctx, "code")
	require.NoError(t, err)

	delete(users.byID, login.User.ID)
	delete(users.byOpenID, login.User.OpenID)

	_, err = service.RefreshTokens(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newFakeUserStore()
	sessions := &fakeSessionExchanger{session: &wechat.Session{OpenID: "openid-1"}}
	service := newTestAccountService(t, sessions, users)

	login, err := service.Login(ctx, "code")
	require.NoError(t, err)

	nickname := "Rally King"
	updated, err := service.UpdateProfile(ctx, login.User.ID, ProfileUpdate{Nickname: &nickname})
	require.NoError(t, err)
	assert.Equal(t, "Rally King", updated.Nickname)
	assert.Equal(t, login.User.AvatarURL, updated.AvatarURL, "omitted fields stay unchanged")

	stored, err := users.GetByID(ctx, login.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rally King", stored.Nickname)
}
