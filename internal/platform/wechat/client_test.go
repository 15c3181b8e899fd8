package wechat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topspin/topspin-api/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.WeChatConfig{AppID: "wx-app", AppSecret: "secret"})
	require.NoError(t, err)
	client.baseURL = server.URL
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.WeChatConfig{AppID: "", AppSecret: "secret"})
	assert.Error(t, err)

	_, err = NewClient(config.WeChatConfig{AppID: "wx-app", AppSecret: ""})
	assert.Error(t, err)
}

func TestCodeToSessionSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sns/jscode2session", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "wx-app", query.Get("appid"))
		assert.Equal(t, "secret", query.Get("secret"))
		assert.Equal(t, "code-123", query.Get("js_code"))
		assert.Equal(t, "authorization_code", query.Get("grant_type"))

		_ = json.NewEncoder(w).Encode(Session{
			OpenID:     "openid-1",
			SessionKey: "session-key",
			UnionID:    "union-1",
		})
	})

	session, err := client.CodeToSession(context.Background(), "code-123")
	require.NoError(t, err)
	assert.Equal(t, "openid-1", session.OpenID)
	assert.Equal(t, "union-1", session.UnionID)
}

func TestCodeToSessionWeChatError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// WeChat reports failures inside a 200 response.
		_ = json.NewEncoder(w).Encode(Session{ErrCode: 40029, ErrMsg: "invalid code"})
	})

	_, err := client.CodeToSession(context.Background(), "bad-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40029")
}

func TestCodeToSessionEmptyCode(t *testing.T) {
	t.Parallel()

	client, err := NewClient(config.WeChatConfig{AppID: "wx-app", AppSecret: "secret"})
	require.NoError(t, err)

	_, err = client.CodeToSession(context.Background(), "")
	assert.Error(t, err)
}

func TestCodeToSessionHTTPError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CodeToSession(context.Background(), "code-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
