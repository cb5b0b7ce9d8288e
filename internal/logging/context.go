package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the context logger, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx).With().Str("component", component).Logger()
	return WithContext(ctx, logger)
}

func WithSession(ctx context.Context, sessionID string) context.Context {
	logger := FromContext(ctx).With().Str("session_id", sessionID).Logger()
	return WithContext(ctx, logger)
}
