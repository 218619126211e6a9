package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey     contextKey = "logger"
	lineNumberKey contextKey = "line_number"
	periodKey     contextKey = "period"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithLineNumber tags the context and its logger with a phone number
func WithLineNumber(ctx context.Context, logger *zap.Logger, number string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, lineNumberKey, number)
	enriched := logger.With(zap.String("line_number", number))
	return WithContext(ctx, enriched), enriched
}

// WithPeriod tags the context and its logger with a billing period
func WithPeriod(ctx context.Context, logger *zap.Logger, period string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, periodKey, period)
	enriched := logger.With(zap.String("period", period))
	return WithContext(ctx, enriched), enriched
}

// GetLineNumber retrieves the phone number from context
func GetLineNumber(ctx context.Context) string {
	number, _ := ctx.Value(lineNumberKey).(string)
	return number
}

// GetPeriod retrieves the billing period from context
func GetPeriod(ctx context.Context) string {
	period, _ := ctx.Value(periodKey).(string)
	return period
}
