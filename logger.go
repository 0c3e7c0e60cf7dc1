package gdisp

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by gdisp and the drivers shipped
// with it. By default nothing is logged. Pass nil to restore that.
//
// Log levels used:
//   - [slog.LevelDebug]: resolved capabilities, emulation fallbacks
//   - [slog.LevelInfo]: display lifecycle (init, power changes, close)
//   - [slog.LevelWarn]: degraded operations, dropped queue messages
//   - [slog.LevelError]: initialisation failures, hardware write errors
//
// Example:
//
//	gdisp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Driver packages call it to share the
// configuration without an import cycle. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
