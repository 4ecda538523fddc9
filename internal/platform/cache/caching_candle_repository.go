package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/candles/usecase"
)

// CachingCandleRepository decorates the stored candle history with a cache.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Writes invalidate the affected keys.
type CachingCandleRepository struct {
	inner     usecase.CandleRepository
	store     Store
	ttl       time.Duration
	namespace string
}

var _ usecase.CandleRepository = (*CachingCandleRepository)(nil)

// NewCachingCandleRepository decorates a CandleRepository.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "candles".
// A nil store disables caching.
func NewCachingCandleRepository(store Store, ttl time.Duration, inner usecase.CandleRepository, namespace string) *CachingCandleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "candles"
	}
	return &CachingCandleRepository{
		inner:     inner,
		store:     store,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch inserts or updates candles and invalidates related cache entries.
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if c.store == nil || len(candles) == 0 {
		return nil
	}

	// Invalidate affected cache entries (keys per instrument+granularity)
	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := cacheKeyPrefix(c.namespace, cd.Instrument, cd.Granularity)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = c.store.DeletePrefix(ctx, prefix) // Best effort: don't fail if cache deletion fails
	}
	return nil
}

// Find retrieves candles, checking cache first then falling back to the database.
func (c *CachingCandleRepository) Find(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	if c.store == nil {
		return c.inner.Find(ctx, instrument, g, count)
	}

	key := cacheKey(c.namespace, instrument, g, count)
	if out, ok := load(ctx, c.store, key); ok {
		return out, nil
	}

	out, err := c.inner.Find(ctx, instrument, g, count)
	if err != nil {
		return nil, err
	}
	save(ctx, c.store, key, out, c.ttl)
	return out, nil
}

// load decodes a cached series. Corrupted entries are deleted and reported as a miss.
func load(ctx context.Context, store Store, key string) ([]entity.Candle, bool) {
	b, ok := store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var out []entity.Candle
	if err := json.Unmarshal(b, &out); err != nil {
		_ = store.Delete(ctx, key)
		return nil, false
	}
	return out, true
}

// save stores a series (best effort).
func save(ctx context.Context, store Store, key string, cs []entity.Candle, ttl time.Duration) {
	if b, err := json.Marshal(cs); err == nil {
		_ = store.Set(ctx, key, b, ttl)
	}
}

// cacheKey generates a cache key for a specific query.
func cacheKey(namespace, instrument string, g entity.Granularity, count int) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix(namespace, instrument, g), count)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func cacheKeyPrefix(namespace, instrument string, g entity.Granularity) string {
	return fmt.Sprintf("%s:%s:%s:",
		namespace,
		safe(instrument),
		safe(string(g)),
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
