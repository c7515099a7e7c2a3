package logger

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Builder-Lawyers/publisher/pkg/env"
	"github.com/lmittmann/tint"
)

// Setup installs the process-wide slog handler: colored console output by
// default, JSON when LOG_FORMAT=json.
func Setup(service string) *slog.Logger {
	level := parseLevel(env.GetEnv("LOG_LEVEL", "info"))

	var handler slog.Handler
	switch env.GetEnv("LOG_FORMAT", "console") {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}

	l := slog.New(handler).With("service", service)
	slog.SetDefault(l)
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
