package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScriptPath string // read commands from this file instead of stdin
	ConfigPath string // connection file for an argument-less connect

	LogFormat string // auto, text or json
	LogLevel  string
	Quiet     bool
	Timeout   time.Duration // per-request HTTP timeout, 0 is none
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogFormat {
	case "auto", "text", "json":
	case "":
		cfg.LogFormat = "auto"
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'auto', 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		cfg.LogLevel = "warn"
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.Timeout < 0 {
		return nil, errors.New("timeout cannot be negative")
	}

	return &cfg, nil
}
