package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Delete.MaxRetries == 0 {
		cfg.Delete.MaxRetries = 3
	}
	if cfg.Delete.BaseDelay == 0 {
		cfg.Delete.BaseDelay = Duration(1 * time.Second)
	}
	if cfg.Delete.MaxDelay == 0 {
		cfg.Delete.MaxDelay = Duration(30 * time.Second)
	}
	if cfg.Delete.TrashTTL == 0 {
		cfg.Delete.TrashTTL = Duration(30 * 24 * time.Hour)
	}
}
