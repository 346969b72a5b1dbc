package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"estate-admin/internal/common/config"
	"estate-admin/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticToken(t *testing.T) {
	tok, err := StaticToken("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = StaticToken("").Token(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuthentication))
}

func TestClientCredentials_CachesUntilExpiry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "console", r.PostForm.Get("client_id"))
		assert.Equal(t, "s3cret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok-1", ExpiresIn: 300, TokenType: "Bearer"})
	}))
	defer server.Close()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	cc := NewClientCredentials(server.URL, "console", "s3cret", "")
	cc.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		tok, err := cc.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", tok)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(5 * time.Minute)
	_, err := cc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientCredentials_RejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	_, err := NewClientCredentials(server.URL, "console", "wrong", "").Token(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuthentication))
}

func TestNewTokenSource(t *testing.T) {
	src, err := NewTokenSource(config.AuthConfig{Mode: "static", Token: "x"})
	require.NoError(t, err)
	assert.IsType(t, StaticToken(""), src)

	src, err = NewTokenSource(config.AuthConfig{Mode: "client_credentials", TokenURL: "http://idp", ClientID: "c"})
	require.NoError(t, err)
	assert.IsType(t, &ClientCredentials{}, src)

	_, err = NewTokenSource(config.AuthConfig{Mode: "saml"})
	assert.Error(t, err)
}
