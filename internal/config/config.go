// Package config loads linewatch configuration from environment
// variables, falling back to defaults for anything unset.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all runtime configuration.
type Config struct {
	// APIBase is the scheduler backend base URL.
	APIBase string

	// DBPath is the local SQLite database holding the stream cursor and
	// conflict lifecycle state. Empty means ~/.linewatch/linewatch.db.
	DBPath string

	RequestTimeoutMs int

	// Event stream reconnect backoff bounds, milliseconds.
	BackoffInitialMs int
	BackoffMaxMs     int

	// PollIntervalMs is the scan-job polling cadence.
	PollIntervalMs int
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		APIBase:          "http://localhost:8000",
		RequestTimeoutMs: 15000,
		BackoffInitialMs: 1000,
		BackoffMaxMs:     30000,
		PollIntervalMs:   2000,
	}
}

// Load reads configuration from LINEWATCH_* environment variables.
func Load() Config {
	cfg := Default()

	if v := os.Getenv("LINEWATCH_API"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("LINEWATCH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LINEWATCH_REQUEST_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeoutMs = n
		}
	}
	if v := os.Getenv("LINEWATCH_BACKOFF_INITIAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BackoffInitialMs = n
		}
	}
	if v := os.Getenv("LINEWATCH_BACKOFF_MAX_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BackoffMaxMs = n
		}
	}
	if v := os.Getenv("LINEWATCH_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollIntervalMs = n
		}
	}
	return cfg
}

// ResolveDBPath returns the configured DB path, defaulting to
// ~/.linewatch/linewatch.db.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".linewatch", "linewatch.db"), nil
}
