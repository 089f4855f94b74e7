package common

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel maps debug, info, warn or error to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %q", level)
}

// ConfigureLogger installs a text handler on stderr as the default slog logger.
func ConfigureLogger(level string) error {
	lvl, err := ParseLogLevel(level)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return err
}
