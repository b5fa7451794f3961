package config

import (
	redisclient "github.com/buildlog/estimator/internal/infra/redis"
	"github.com/buildlog/estimator/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Delete   DeleteConfig       `yaml:"delete"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DeleteConfig holds settings for the delete subsystem. The two
// feature toggles are pointers so that "absent" defaults to enabled.
type DeleteConfig struct {
	OptimisticUpdates *bool    `yaml:"optimistic_updates"`
	Retries           *bool    `yaml:"retries"`
	MaxRetries        int      `yaml:"max_retries"`
	BaseDelay         Duration `yaml:"base_delay"`
	MaxDelay          Duration `yaml:"max_delay"`
	LeakCheckInterval Duration `yaml:"leak_check_interval"` // 0 = disabled
	TrashTTL          Duration `yaml:"trash_ttl"`           // 0 = keep forever
}

// OptimisticEnabled reports whether optimistic updates are on.
func (c DeleteConfig) OptimisticEnabled() bool {
	return c.OptimisticUpdates == nil || *c.OptimisticUpdates
}

// RetriesEnabled reports whether retries are on.
func (c DeleteConfig) RetriesEnabled() bool {
	return c.Retries == nil || *c.Retries
}
