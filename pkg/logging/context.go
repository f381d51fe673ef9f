package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// WithLogger stores a logger in the context. A nil logger stores the
// default, so callers can pass through unconditionally.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// Ctx is shorthand for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// withStr returns a context whose logger carries one more string field.
func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithCard tags the context logger with a card name.
func WithCard(ctx context.Context, name string) context.Context {
	return withStr(ctx, "card", name)
}

// WithSet tags the context logger with a set code.
func WithSet(ctx context.Context, setCode string) context.Context {
	return withStr(ctx, "set", setCode)
}

// WithGeneration tags the context logger with a snapshot generation token.
func WithGeneration(ctx context.Context, generation string) context.Context {
	return withStr(ctx, "generation", generation)
}

// WithOperation tags the context logger with an operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, "operation", operation)
}
