package mandelbrot

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can race with logging from render workers.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for this package and all its sub-packages.
// By default nothing is logged.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels:
//   - [slog.LevelDebug]: per-frame details (settings block, frame time)
//   - [slog.LevelInfo]: lifecycle (render target recreated, GPU adapter selected)
//   - [slog.LevelWarn]: non-fatal issues (CPU fallback, degenerate resize)
//
// Example:
//
//	mandelbrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	if a := RegisteredAccelerator(); a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the current logger. Sub-packages (surface, render, viewer,
// internal/gpu) log through it so a single SetLogger call configures all of them.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by accelerators that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(a Accelerator, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
