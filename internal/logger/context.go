package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// With returns a context whose logger carries fields on every entry.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With(fields...))
}

// ForEntity returns the context logger tagged with the entity name.
// Lines already tagged, e.g. by the HTTP layer, are not tagged twice.
func ForEntity(ctx context.Context, entity string) *zap.Logger {
	if tagged, _ := ctx.Value(entityKey{}).(string); tagged == entity {
		return FromContext(ctx)
	}
	return FromContext(ctx).With(zap.String("entity", entity))
}

type entityKey struct{}

// WithEntity tags the context logger with the entity name once, so
// ForEntity calls further down reuse it.
func WithEntity(ctx context.Context, entity string) context.Context {
	ctx = With(ctx, zap.String("entity", entity))
	return context.WithValue(ctx, entityKey{}, entity)
}
