// internal/views/active-franchisees/config.go
package activefranchisees

import (
	"strings"

	"estate-admin/internal/common/config"
)

type Config struct {
	PageSize  int
	SortBy    string
	Direction string
}

func LoadConfig(listing config.ListingConfig) *Config {
	cfg := &Config{
		PageSize:  listing.PageSize,
		SortBy:    listing.SortBy,
		Direction: strings.ToUpper(listing.Direction),
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.SortBy == "" {
		cfg.SortBy = "createdAt"
	}
	if cfg.Direction == "" {
		cfg.Direction = "DESC"
	}
	return cfg
}
