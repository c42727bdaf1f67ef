package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
)

// New builds the application logger and installs it as the slog default.
func New(cfg *config.Config) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, cfg))

	slog.SetDefault(logger)

	return logger
}

// NewWithWriter builds a logger writing to w without touching the default.
func NewWithWriter(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(newHandler(w, cfg))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func newHandler(w io.Writer, cfg *config.Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if strings.ToLower(cfg.AppEnv) == "production" {
		// JSON format
		return slog.NewJSONHandler(w, opts)
	}
	// Human-readable format
	return slog.NewTextHandler(w, opts)
}
