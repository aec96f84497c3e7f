package analyzer

import (
	"errors"
	"fmt"
)

// Config names the columns the engine gives meaning to and its loop limit.
type Config struct {
	ActionColumn    string
	DurationColumn  string
	CommentColumn   string
	IterationColumn string
	MaxLoopDepth    int
}

// DefaultConfig returns the column keys used by the bundled catalogs.
func DefaultConfig() Config {
	return Config{
		ActionColumn:    "action",
		DurationColumn:  "step_duration",
		CommentColumn:   "comment",
		IterationColumn: "iterations",
		MaxLoopDepth:    3,
	}
}

// NewConfig validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ActionColumn == "" || cfg.DurationColumn == "" || cfg.IterationColumn == "" {
		return nil, errors.New("action, duration and iteration column keys are required")
	}
	if cfg.MaxLoopDepth < 1 || cfg.MaxLoopDepth > 3 {
		return nil, fmt.Errorf("max loop depth must be between 1 and 3, got %d", cfg.MaxLoopDepth)
	}
	return &cfg, nil
}
