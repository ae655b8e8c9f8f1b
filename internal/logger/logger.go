package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config holds the logger configuration.
type Config struct {
	Level  string
	Format string
}

// New initializes a slog logger from the provided configuration. A nil
// output defaults to stderr. Unrecognized levels fall back to info.
func New(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := new(slog.Level)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		*level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
