package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger attaches logger to ctx. A nil logger is ignored.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, else fallback, else a
// no-op logger.
func FromContext(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok {
			return logger
		}
	}
	if fallback != nil {
		return fallback
	}
	return NewNopLogger()
}

// WithRunID records the sequence number of a generation. The watch loop
// uses it to tell successive regenerations apart in the log.
func WithRunID(ctx context.Context, runID int) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID returns the run ID stored in ctx, or 0.
func RunID(ctx context.Context) int {
	if id, ok := ctx.Value(runIDKey).(int); ok {
		return id
	}
	return 0
}
