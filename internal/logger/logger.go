package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/aeroclub-flight-ledger/internal/config"
)

// NewLogger creates the application-wide slog.Logger: JSON output on
// stdout, level taken from configuration, source locations attached when
// running at debug level. Every record carries the application name.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts)).
		With("app", cfg.Application.Name)

	logger.Info("logger initialized", "level", level)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
