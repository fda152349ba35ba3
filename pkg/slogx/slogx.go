package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls the root logger. Level is one of debug/info/warn/error,
// Format is json or text. Empty identity fields are omitted from records.
type Config struct {
	Service string
	Version string
	Env     string
	Level   string
	Format  string
}

// New builds the root logger on stdout and installs it as the slog default.
func New(cfg Config) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg)
}

// NewWithWriter is New writing to w. Tests use it to capture log output.
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.Env == "dev",
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	attrs := make([]any, 0, 6)
	for _, kv := range [][2]string{
		{"service", cfg.Service},
		{"version", cfg.Version},
		{"env", cfg.Env},
	} {
		if kv[1] != "" {
			attrs = append(attrs, kv[0], kv[1])
		}
	}

	logger := slog.New(handler).With(attrs...)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a config string onto a slog.Level, defaulting to info.
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
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
