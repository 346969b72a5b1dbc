// internal/common/auth/token.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"estate-admin/internal/common/config"
	"estate-admin/internal/common/errors"
)

// TokenSource yields the bearer credential attached to every remote call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a pre-issued admin token.
type StaticToken string

func (s StaticToken) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", errors.NewAuthenticationError("no admin token configured")
	}
	return string(s), nil
}

// TokenResponse holds the response from an OAuth2 token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// ClientCredentials fetches tokens with the client credentials flow and
// caches them until shortly before expiry.
type ClientCredentials struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
	now         func() time.Time
}

// expiryMargin renews tokens before the server starts rejecting them.
const expiryMargin = 30 * time.Second

func NewClientCredentials(tokenURL, clientID, clientSecret, scope string) *ClientCredentials {
	return &ClientCredentials{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		now:          time.Now,
	}
}

// Token returns the cached token or fetches a new one.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.tokenExpiry.After(c.now()) {
		return c.accessToken, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)
	if c.scope != "" {
		data.Set("scope", c.scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewTransportFailureError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.NewAuthenticationError(
			fmt.Sprintf("token request failed with status %d: %s", resp.StatusCode, string(body)))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", errors.NewDecodeError("token endpoint", err)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.NewAuthenticationError("token endpoint returned an empty access_token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - expiryMargin)

	return c.accessToken, nil
}

// NewTokenSource builds the source selected by cfg.Mode.
func NewTokenSource(cfg config.AuthConfig) (TokenSource, error) {
	switch cfg.Mode {
	case "", "static":
		return StaticToken(cfg.Token), nil
	case "client_credentials":
		return NewClientCredentials(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, cfg.Scope), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
