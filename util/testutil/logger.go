// Package testutil provides helpers for tests.
package testutil

import (
	stdslog "log/slog"

	"goyave.dev/negotiator/slog"
)

// LogWriter implementation of `io.Writer` redirecting the logs to `testing.T.Log()`
type LogWriter struct {
	t interface {
		Log(args ...any)
	}
}

// NewLogWriter create a new `LogWriter` redirecting to the given `testing.T`.
func NewLogWriter(t interface{ Log(args ...any) }) *LogWriter {
	return &LogWriter{t: t}
}

func (w LogWriter) Write(b []byte) (int, error) {
	w.t.Log(string(b))
	return len(b), nil
}

// NewTestLogger create a new dev-mode logger at debug level redirecting
// its output to `testing.T.Log()`.
func NewTestLogger(t interface{ Log(args ...any) }) *slog.Logger {
	return slog.New(slog.NewDevModeHandler(NewLogWriter(t), &slog.DevModeHandlerOptions{Level: stdslog.LevelDebug}))
}
