// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Listing ListingConfig `mapstructure:"listing"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig points the data-access layer at the remote authority.
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	UserAgent string `mapstructure:"user_agent"`
}

// AuthConfig selects where the bearer credential comes from.
// Mode "static" sends Token as-is; "client_credentials" fetches one from TokenURL.
type AuthConfig struct {
	Mode         string `mapstructure:"mode"`
	Token        string `mapstructure:"token"`
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Scope        string `mapstructure:"scope"`
}

type ChatConfig struct {
	URL              string `mapstructure:"url"`
	Role             string `mapstructure:"role"`
	EventBuffer      int    `mapstructure:"event_buffer"`
	HandshakeTimeout int    `mapstructure:"handshake_timeout"` // milliseconds
}

type CacheConfig struct {
	Redis     RedisConfig    `mapstructure:"redis"`
	Districts DistrictConfig `mapstructure:"districts"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TTL       int    `mapstructure:"ttl"` // seconds
}

// GetAddr returns the redis address, e.g. for log fields
func (r RedisConfig) GetAddr() string {
	return fmt.Sprintf("redis://%s/%d", r.Address, r.DB)
}

type DistrictConfig struct {
	MaxCost int64 `mapstructure:"max_cost"`
	TTL     int   `mapstructure:"ttl"` // seconds
}

// ListingConfig holds the defaults every list view starts from.
type ListingConfig struct {
	PageSize  int    `mapstructure:"page_size"`
	SortBy    string `mapstructure:"sort_by"`
	Direction string `mapstructure:"direction"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Address     string `mapstructure:"address"`
	ServiceName string `mapstructure:"service_name"`
}
