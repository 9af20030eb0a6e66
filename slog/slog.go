// Package slog extends the standard `log/slog` logger so errors created with
// `goyave.dev/negotiator/util/errors` are logged with their stack trace.
package slog

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"goyave.dev/negotiator/util/errors"
)

type unwrapper interface {
	Unwrap() []error
}

// Logger an extension of the standard `*slog.Logger` overriding the `Error()`
// function so it takes an error as parameter.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger with the given non-nil Handler.
func New(h slog.Handler) *Logger {
	return &Logger{slog.New(h)}
}

// With returns a new Logger that includes the given attributes in each output.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Error logs the given error at error level.
//
// If the error is an `*errors.Error`, its stack trace is added to the record
// as the "trace" attribute. Errors wrapping many reasons produce one record
// per reason.
func (l *Logger) Error(err error, args ...any) {
	l.logError(context.Background(), err, args...)
}

// ErrorCtx is like `Error` with a context.
func (l *Logger) ErrorCtx(ctx context.Context, err error, args ...any) {
	l.logError(ctx, err, args...)
}

func (l *Logger) logError(ctx context.Context, err error, args ...any) {
	if !l.Enabled(ctx, slog.LevelError) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(4, pcs[:]) // Skip [Callers, logError, Error|ErrorCtx]
	r := slog.NewRecord(time.Now(), slog.LevelError, err.Error(), pcs[0])
	r.Add(args...)

	switch e := err.(type) {
	case *errors.Error:
		l.handleError(ctx, e, r)
	case unwrapper:
		for _, reason := range e.Unwrap() {
			l.handleReason(ctx, reason, r)
		}
	default:
		_ = l.Handler().Handle(ctx, r)
	}
}

func (l *Logger) handleError(ctx context.Context, err *errors.Error, record slog.Record) {
	record = record.Clone()
	record.AddAttrs(slog.String("trace", err.StackFrames().String()))
	if err.Len() == 0 {
		_ = l.Handler().Handle(ctx, record)
		return
	}

	for _, r := range err.Unwrap() {
		l.handleReason(ctx, r, record)
	}
}

func (l *Logger) handleReason(ctx context.Context, reason error, record slog.Record) {
	clone := record.Clone()
	clone.Message = reason.Error()
	switch e := reason.(type) {
	case *errors.Error:
		l.handleError(ctx, e, clone)
	case errors.Reason:
		if _, isDevMode := l.Handler().(*DevModeHandler); !isDevMode {
			clone.AddAttrs(slog.Any("reason", e.Value()))
		}
		_ = l.Handler().Handle(ctx, clone)
	default:
		_ = l.Handler().Handle(ctx, clone)
	}
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a `slog.Level`.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, errors.New(err)
	}
	return level, nil
}
