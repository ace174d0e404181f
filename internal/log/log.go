// Package log configures the process-wide slog logger. The TUI owns the
// terminal, so all logging goes to a file; components receive the logger by
// injection and fall back to slog.Default when handed nil.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/config"
)

// envLogLevel overrides the configured level without editing the config
// file, handy when chasing a feed bug in a running session.
const envLogLevel = "CHATMIX_LOG_LEVEL"

// SetupLogger opens the configured log file and returns a JSON logger
// writing to it. The level comes from the config, overridable via
// CHATMIX_LOG_LEVEL.
func SetupLogger(cfg *config.LoggingConfig) (*slog.Logger, error) {
	logPath, err := expandPath(cfg.File)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level, _ := parseLogLevel(cfg.Level)
	if env, ok := parseLogLevel(os.Getenv(envLogLevel)); ok {
		level = env
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler), nil
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// parseLogLevel converts a level name to slog.Level. Unrecognized names
// report false and fall back to info.
func parseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
