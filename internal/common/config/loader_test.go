package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://admin.example.com/
auth:
  token: secret-token
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30000, cfg.API.Timeout)
	assert.Equal(t, "static", cfg.Auth.Mode)
	assert.Equal(t, "admin", cfg.Chat.Role)
	assert.Equal(t, 10, cfg.Listing.PageSize)
	assert.Equal(t, "createdAt", cfg.Listing.SortBy)
	assert.Equal(t, "DESC", cfg.Listing.Direction)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, int64(1<<20), cfg.Cache.Districts.MaxCost)
	assert.Equal(t, "estate-admin", cfg.Metrics.ServiceName)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_ADMIN_TOKEN", "from-env")
	path := writeConfig(t, `
api:
  base_url: https://admin.example.com
auth:
  token: ${TEST_ADMIN_TOKEN}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Token)
}

func TestLoadFromFile_EnvOverridesFile(t *testing.T) {
	t.Setenv("ADMIN_API_BASE_URL", "https://override.example.com")
	path := writeConfig(t, `
api:
  base_url: https://admin.example.com
auth:
  token: t
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", cfg.API.BaseURL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing base url",
			body:    "auth:\n  token: t\n",
			wantErr: "api.base_url is required",
		},
		{
			name:    "static without token",
			body:    "api:\n  base_url: http://x\n",
			wantErr: "auth.token is required",
		},
		{
			name:    "client credentials without token url",
			body:    "api:\n  base_url: http://x\nauth:\n  mode: client_credentials\n",
			wantErr: "auth.token_url and auth.client_id are required",
		},
		{
			name:    "unknown auth mode",
			body:    "api:\n  base_url: http://x\nauth:\n  mode: magic\n",
			wantErr: "auth.mode must be static or client_credentials",
		},
		{
			name:    "redis enabled without address",
			body:    "api:\n  base_url: http://x\nauth:\n  token: t\ncache:\n  redis:\n    enabled: true\n",
			wantErr: "cache.redis.address is required",
		},
		{
			name:    "bad direction",
			body:    "api:\n  base_url: http://x\nauth:\n  token: t\nlisting:\n  direction: sideways\n",
			wantErr: "listing.direction must be ASC or DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, 2*time.Second, GetSeconds(2))
}
