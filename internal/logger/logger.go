// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a configured level name to a slog level. Unknown names
// resolve to info and report ok=false.
func ParseLevel(name string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New builds a JSON logger writing to w at the given level.
func New(w io.Writer, levelName string) *slog.Logger {
	level, _ := ParseLevel(levelName)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup creates the stdout JSON logger and installs it as the slog default, so
// packages can log through slog.Default() without carrying a logger around.
func Setup(levelName string) *slog.Logger {
	logger := New(os.Stdout, levelName)
	if _, ok := ParseLevel(levelName); !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", levelName,
			"default_level", "info")
	}
	slog.SetDefault(logger)
	return logger
}
