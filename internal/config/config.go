package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Config is the effective winstate configuration.
type Config struct {
	// AutoShow makes the tracker show and focus a window after its
	// state is restored or first snapshotted.
	AutoShow bool

	// Blacklist lists window labels excluded from all tracking.
	Blacklist []string

	// StateDir overrides the state file directory. Empty means the
	// default data directory.
	StateDir string

	// SaveInterval enables periodic flushing of the store while the
	// daemon runs. Zero means exit-only flushing.
	SaveInterval time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Display and Xauthority override the X server connection, for
	// tracking windows on a display other than the current session's.
	Display    string
	Xauthority string
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		AutoShow: true,
		LogLevel: "info",
	}
}

// Validate checks field values that cannot be expressed by the type.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.SaveInterval < 0 {
		return fmt.Errorf("save_interval must not be negative, got %s", c.SaveInterval)
	}
	if c.SaveInterval > 0 && c.SaveInterval < time.Second {
		return fmt.Errorf("save_interval below 1s would thrash the state file, got %s", c.SaveInterval)
	}
	for _, label := range c.Blacklist {
		if label == "" {
			return fmt.Errorf("blacklist entries must not be empty")
		}
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q (expected debug, info, warn or error)", c.LogLevel)
	}
}
