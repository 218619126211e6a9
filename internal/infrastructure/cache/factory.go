package cache

import (
	"context"
	"fmt"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the call dedupe store the configuration asks for.
// It returns nil when dedupe is disabled.
func NewIdempotencyStore(ctx context.Context, dedupe config.DedupeConfig, redisCfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if !dedupe.Enabled {
		return nil, nil
	}

	switch dedupe.Backend {
	case config.DedupeMemory:
		return NewInMemoryIdempotencyStore(dedupe.TTL), nil

	case config.DedupeRedis:
		store, err := NewRedisIdempotencyStore(ctx, redisCfg)
		if err == nil {
			logger.Info("using Redis call dedupe store",
				zap.String("host", redisCfg.Host),
				zap.Int("port", redisCfg.Port),
			)
			return store, nil
		}
		if !dedupe.FallbackToMemory {
			return nil, fmt.Errorf("redis required for call dedupe but unavailable: %w", err)
		}
		logger.Warn("Redis unavailable, falling back to in-memory call dedupe", zap.Error(err))
		return NewInMemoryIdempotencyStore(dedupe.TTL), nil

	default:
		return nil, fmt.Errorf("%w: unknown dedupe backend %q", shared.ErrInvalidInput, dedupe.Backend)
	}
}
