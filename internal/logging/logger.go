package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a JSON logger on stdout tagged with the service name and
// installs it as the slog default.
func New(service string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level(os.Getenv("LOG_LEVEL")),
	})
	logger := slog.New(h).With("service", service)
	slog.SetDefault(logger)
	return logger
}

func level(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
