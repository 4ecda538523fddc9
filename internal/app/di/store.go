package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"fxsignal_backend/internal/platform/cache"
	"fxsignal_backend/internal/platform/config"
	infraredis "fxsignal_backend/internal/platform/redis"
)

// NewRedis connects when REDIS_HOST is set. A failed connection is logged and yields nil,
// so the service keeps running on the in-memory cache.
func NewRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	addr := cfg.RedisAddr()
	if addr == "" {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, addr, cfg.RedisPassword)
	if err != nil {
		slog.Warn("Redis unavailable, running with in-memory cache", "error", err)
		return nil
	}
	return rdb
}

// NewStore returns a Redis backed store, or a process-local one when rdb is nil.
func NewStore(rdb *redis.Client) cache.Store {
	if rdb == nil {
		return cache.NewMemoryStore(nil)
	}
	return cache.NewRedisStore(rdb)
}
