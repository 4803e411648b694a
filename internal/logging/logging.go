package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the process logger: readable text in development, JSON elsewhere.
// The returned logger is also installed as slog's default.
func New(env string) *slog.Logger {
	return newWithWriter(env, os.Stdout)
}

func newWithWriter(env string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if isDevelopment(env) {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		opts.AddSource = true
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func isDevelopment(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "dev", "development", "local", "test":
		return true
	}
	return false
}
