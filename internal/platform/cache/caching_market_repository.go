package cache

import (
	"context"
	"time"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/candles/usecase"
)

// CachingMarketRepository decorates a live market data provider.
// Entries expire when the newest bar of the requested granularity closes, or after maxTTL,
// whichever comes first. Provider errors are never cached.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	store     Store
	clock     Clock
	maxTTL    time.Duration
	namespace string
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository.
// If maxTTL is 0, it defaults to 20 seconds. If namespace is empty, it uses "market".
func NewCachingMarketRepository(store Store, clock Clock, maxTTL time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if maxTTL <= 0 {
		maxTTL = 20 * time.Second
	}
	if namespace == "" {
		namespace = "market"
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &CachingMarketRepository{
		inner:     inner,
		store:     store,
		clock:     clock,
		maxTTL:    maxTTL,
		namespace: namespace,
	}
}

func (c *CachingMarketRepository) GetCandles(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	if c.store == nil {
		return c.inner.GetCandles(ctx, instrument, g, count)
	}

	key := cacheKey(c.namespace, instrument, g, count)
	if out, ok := load(ctx, c.store, key); ok {
		return out, nil
	}

	out, err := c.inner.GetCandles(ctx, instrument, g, count)
	if err != nil {
		return nil, err
	}
	save(ctx, c.store, key, out, BarAlignedTTL(c.clock, g, c.maxTTL))
	return out, nil
}
