package logger

import "os"

// Config holds logger settings sourced from the environment.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// DefaultConfig reads LOG_LEVEL and LOG_FORMAT with sensible fallbacks.
func DefaultConfig() *Config {
	cfg := &Config{
		Level:  "info",
		Format: "json",
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	return cfg
}
