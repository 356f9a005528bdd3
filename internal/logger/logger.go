// Package logger sets up the process-wide slog logger from the environment.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	defaultLogger *slog.Logger
	mu            sync.Mutex
)

// Setup builds the default logger. LOG_LEVEL picks debug, info, warn or
// error (info otherwise); LOG_FORMAT=json switches from text to JSON. Output
// always goes to stderr, so stdout stays free for data.
func Setup() *slog.Logger {
	return SetupWriter(os.Stderr)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(os.Getenv("LOG_LEVEL"))}
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = slog.New(h)
	return defaultLogger
}

func Level(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// L returns the default logger, setting it up on first use.
func L() *slog.Logger {
	mu.Lock()
	l := defaultLogger
	mu.Unlock()
	if l == nil {
		return Setup()
	}
	return l
}
