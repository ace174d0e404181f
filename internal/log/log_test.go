package log

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{" error ", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := parseLogLevel(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseLogLevel(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSetupLoggerCreatesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "chatmix.log")
	logger, err := SetupLogger(&config.LoggingConfig{File: logPath, Level: "INFO"})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	logger.Info("hello")
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output written to file")
	}
}

func TestLevelEnvOverride(t *testing.T) {
	t.Setenv(envLogLevel, "error")

	logPath := filepath.Join(t.TempDir(), "chatmix.log")
	logger, err := SetupLogger(&config.LoggingConfig{File: logPath, Level: "DEBUG"})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("expected env override to raise the level to error")
	}
	if !logger.Enabled(ctx, slog.LevelError) {
		t.Fatal("expected error level enabled")
	}
}
