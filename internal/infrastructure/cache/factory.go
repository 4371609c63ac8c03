package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/microloan/backend/internal/domain/shared"
	"github.com/microloan/backend/internal/infrastructure/config"
)

// NewIdempotencyStore creates an idempotency store from the Redis
// configuration. When Redis is disabled or unreachable it falls back to the
// in-memory store, which is fine for single-instance deployments but does not
// share state across processes.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(cfg.Addr(), cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore(), nil
	}

	logger.Info("using Redis idempotency store", zap.String("addr", cfg.Addr()))
	return store, nil
}

// NewRequiredRedisStore creates a Redis store and fails when Redis is
// unreachable. Used when fallback would risk duplicate payment processing.
func NewRequiredRedisStore(cfg config.RedisConfig) (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(cfg.Addr(), cfg.Password, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}
	return store, nil
}
