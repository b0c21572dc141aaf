package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a slog.Logger for the provided level. Development environments
// get human-readable text output; everything else logs JSON.
func New(level, environment string) *slog.Logger {
	var programLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		programLevel = slog.LevelDebug
	case "warn", "warning":
		programLevel = slog.LevelWarn
	case "error":
		programLevel = slog.LevelError
	default:
		programLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: programLevel}

	var handler slog.Handler
	if strings.EqualFold(environment, "development") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
