// Package telemetry provides the orchestrator's structured logging and
// Prometheus instrumentation.
package telemetry

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a textual level, any case, to a slog.Level.
// Unknown values mean INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger installs the process-wide logger at the given level.
//
// The output format follows LOG_FORMAT:
//   - "json" (default) for production
//   - "text" for development
func SetupLogger(level string) *slog.Logger {
	parsed := ParseLevel(level)

	opts := &slog.HandlerOptions{
		Level:     parsed,
		AddSource: parsed == slog.LevelDebug,
	}

	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
