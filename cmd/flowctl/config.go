package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/andrewcho-dev/opsconductor-flow/internal/logging"
)

// Config holds all flowctl configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	DBPath      string `json:"db_path"`
	ManifestDir string `json:"manifest_dir"`
	LogLevel    string `json:"log_level"`
}

func defaultConfig() Config {
	return Config{
		DBPath:   filepath.Join(flowDir(), "workflows.db"),
		LogLevel: "info",
	}
}

func flowDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flowctl"
	}
	return filepath.Join(home, ".flowctl")
}

func settingsPath() string {
	return filepath.Join(flowDir(), "settings.json")
}

func loadConfig() Config {
	cfg := defaultConfig()

	// Layer 2: settings.json (ignore if missing).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	// Layer 3: env vars override.
	if v := os.Getenv("FLOW_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FLOW_MANIFEST_DIR"); v != "" {
		cfg.ManifestDir = v
	}
	if v := os.Getenv("FLOW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}

// newLogger builds the process logger with correlation ID injection.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(logging.NewCorrelationHandler(inner))
}
