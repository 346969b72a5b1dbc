// internal/views/franchisee-dashboard/config.go
package franchiseedashboard

import "time"

type Config struct {
	FilenamePrefix string
	Now            func() time.Time
}

func LoadConfig() *Config {
	return &Config{
		FilenamePrefix: "franchisee-report",
		Now:            time.Now,
	}
}
