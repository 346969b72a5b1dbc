// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// ADMIN_API_BASE_URL overrides api.base_url
	v.SetEnvPrefix("ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about; bind the ones
// that usually come from the environment alone.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"api.base_url",
		"api.timeout",
		"auth.mode",
		"auth.token",
		"auth.token_url",
		"auth.client_id",
		"auth.client_secret",
		"chat.url",
		"chat.role",
		"cache.redis.enabled",
		"cache.redis.address",
		"cache.redis.password",
		"logging.level",
		"logging.format",
		"metrics.address",
	} {
		_ = v.BindEnv(key)
	}
}

// Load .env from the working directory or the project root
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Auth.Token == "" {
		if val := os.Getenv("ADMIN_TOKEN"); val != "" {
			cfg.Auth.Token = val
		}
	}
	if cfg.Auth.ClientSecret == "" {
		if val := os.Getenv("ADMIN_CLIENT_SECRET"); val != "" {
			cfg.Auth.ClientSecret = val
		}
	}
	if cfg.Cache.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "estate-admin"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	cfg.API.BaseURL = strings.TrimSuffix(cfg.API.BaseURL, "/")
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30000
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = cfg.App.Name
	}

	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = "static"
	}

	if cfg.Chat.Role == "" {
		cfg.Chat.Role = "admin"
	}
	if cfg.Chat.EventBuffer == 0 {
		cfg.Chat.EventBuffer = 64
	}
	if cfg.Chat.HandshakeTimeout == 0 {
		cfg.Chat.HandshakeTimeout = 10000
	}

	if cfg.Cache.Redis.KeyPrefix == "" {
		cfg.Cache.Redis.KeyPrefix = "estate-admin"
	}
	if cfg.Cache.Redis.TTL == 0 {
		cfg.Cache.Redis.TTL = 86400
	}
	if cfg.Cache.Districts.MaxCost == 0 {
		cfg.Cache.Districts.MaxCost = 1 << 20
	}
	if cfg.Cache.Districts.TTL == 0 {
		cfg.Cache.Districts.TTL = 600
	}

	if cfg.Listing.PageSize == 0 {
		cfg.Listing.PageSize = 10
	}
	if cfg.Listing.SortBy == "" {
		cfg.Listing.SortBy = "createdAt"
	}
	if cfg.Listing.Direction == "" {
		cfg.Listing.Direction = "DESC"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = cfg.App.Name
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	switch cfg.Auth.Mode {
	case "static":
		if cfg.Auth.Token == "" {
			return fmt.Errorf("auth.token is required when auth.mode is static")
		}
	case "client_credentials":
		if cfg.Auth.TokenURL == "" || cfg.Auth.ClientID == "" {
			return fmt.Errorf("auth.token_url and auth.client_id are required when auth.mode is client_credentials")
		}
	default:
		return fmt.Errorf("auth.mode must be static or client_credentials, got %q", cfg.Auth.Mode)
	}

	if cfg.Cache.Redis.Enabled && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when cache.redis.enabled is true")
	}

	dir := strings.ToUpper(cfg.Listing.Direction)
	if dir != "ASC" && dir != "DESC" {
		return fmt.Errorf("listing.direction must be ASC or DESC, got %q", cfg.Listing.Direction)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetSeconds converts seconds from config to time.Duration
func GetSeconds(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
