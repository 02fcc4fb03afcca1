// Package logger provides verbose logging for acqscope.
// When verbose mode is enabled via the --verbose flag, records are written
// to stderr in slog text format to trace fetches, merges and pagination.
// Nothing is written otherwise, so the TUI screen stays clean.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	log     = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop timestamps.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects verbose logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w)
}

// Logger returns the underlying slog logger, or one that discards
// everything when verbose mode is off.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}

func emit(level slog.Level, msg string, attrs ...slog.Attr) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	log.LogAttrs(context.Background(), level, msg, attrs...)
}

// Debug logs a formatted debug message.
func Debug(format string, args ...any) {
	emit(slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs a formatted informational message.
func Info(format string, args ...any) {
	emit(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs a formatted warning.
func Warn(format string, args ...any) {
	emit(slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Section marks the start of a traced phase such as a new search.
func Section(name string) {
	emit(slog.LevelInfo, "section", slog.String("name", name))
}

// Elapsed logs how long label took since start, rounded to the millisecond.
func Elapsed(label string, start time.Time) {
	emit(slog.LevelDebug, label, slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
}
