package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Serve != nil && (c.Serve.Port < 0 || c.Serve.Port > 65535) {
		return fmt.Errorf("serve.port: %d is out of range", c.Serve.Port)
	}
	return c.Project().Validate()
}

// ParseLogLevel maps debug, info, warn and error onto slog levels.
// An empty string selects warn.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level: invalid level %q (valid: debug, info, warn, error)", s)
	}
}
