package app

import (
	"errors"
	"fmt"
)

// Config holds everything an App needs to start.
type Config struct {
	CatalogPath string // .hcl / .toml files
	LogFormat   string
	LogLevel    string
}

// NewConfig validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CatalogPath == "" {
		return nil, errors.New("CatalogPath is a required configuration field and cannot be empty")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
