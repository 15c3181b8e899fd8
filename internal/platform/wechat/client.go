// Package wechat wraps the WeChat mini-program server API. Only the
// jscode2session login exchange is needed by this service.
package wechat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/topspin/topspin-api/internal/config"
)

// defaultBaseURL is the WeChat API endpoint.
const defaultBaseURL = "https://api.weixin.qq.com"

// Session is the result of a jscode2session exchange. ErrCode/ErrMsg are
// populated by WeChat on failure (zero ErrCode means success).
type Session struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid,omitempty"`
	ErrCode    int    `json:"errcode,omitempty"`
	ErrMsg     string `json:"errmsg,omitempty"`
}

// SessionExchanger exchanges a mini-program login code for a session.
// Declared here so the auth service can depend on an interface and tests can
// substitute a fake.
type SessionExchanger interface {
	CodeToSession(ctx context.Context, code string) (*Session, error)
}

// Client calls the WeChat server API over HTTPS.
type Client struct {
	httpClient *http.Client
	appID      string
	appSecret  string
	baseURL    string
}

// Compile-time check that Client satisfies SessionExchanger.
var _ SessionExchanger = (*Client)(nil)

// NewClient creates a WeChat API client from the mini-program credentials.
func NewClient(cfg config.WeChatConfig) (*Client, error) {
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, fmt.Errorf("wechat app_id and app_secret are required")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		appID:      cfg.AppID,
		appSecret:  cfg.AppSecret,
		baseURL:    defaultBaseURL,
	}, nil
}

// CodeToSession exchanges the login code handed to the mini-program client
// for the user's openid and session key.
func (c *Client) CodeToSession(ctx context.Context, code string) (*Session, error) {
	if code == "" {
		return nil, fmt.Errorf("login code cannot be empty")
	}

	query := url.Values{
		"appid":      {c.appID},
		"secret":     {c.appSecret},
		"js_code":    {code},
		"grant_type": {"authorization_code"},
	}

	endpoint := c.baseURL + "/sns/jscode2session?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jscode2session request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jscode2session request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jscode2session returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode jscode2session response: %w", err)
	}

	if session.ErrCode != 0 {
		return nil, fmt.Errorf("wechat login rejected: %d %s", session.ErrCode, session.ErrMsg)
	}

	return &session, nil
}
