package config

import (
	"log/slog"
	"os"
	"strings"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds the process logger. With GO_ENV=production it emits JSON
// for log collectors; anywhere else it stays human-readable text. LOG_LEVEL
// picks the threshold (debug, info, warn, error), defaulting to info.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel()}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func logLevel() slog.Level {
	if lvl, ok := logLevels[strings.ToLower(os.Getenv("LOG_LEVEL"))]; ok {
		return lvl
	}
	return slog.LevelInfo
}
