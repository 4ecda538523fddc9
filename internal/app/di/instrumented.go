package di

import (
	"context"
	"time"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	candleusecase "fxsignal_backend/internal/feature/candles/usecase"
	signalsentity "fxsignal_backend/internal/feature/signals/domain/entity"
	signalsusecase "fxsignal_backend/internal/feature/signals/usecase"
	"fxsignal_backend/internal/platform/metrics"
	"fxsignal_backend/internal/shared/ratelimiter"
)

// instrumentedMarket rate limits provider calls and records their latency.
type instrumentedMarket struct {
	inner    candleusecase.MarketRepository
	provider string
	limiter  ratelimiter.RateLimiterInterface
	metrics  *metrics.Metrics
}

var _ candleusecase.MarketRepository = (*instrumentedMarket)(nil)

// NewInstrumentedMarket wraps inner. limiter and m may be nil.
func NewInstrumentedMarket(inner candleusecase.MarketRepository, provider string, limiter ratelimiter.RateLimiterInterface, m *metrics.Metrics) *instrumentedMarket {
	return &instrumentedMarket{inner: inner, provider: provider, limiter: limiter, metrics: m}
}

func (im *instrumentedMarket) GetCandles(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	if im.limiter != nil {
		if err := im.limiter.WaitIfNeeded(ctx); err != nil {
			return nil, err
		}
	}
	started := time.Now()
	cs, err := im.inner.GetCandles(ctx, instrument, g, count)
	if im.metrics != nil {
		im.metrics.ObserveProvider(im.provider, started, err)
	}
	return cs, err
}

// observedJournal counts journal writes.
type observedJournal struct {
	signalsusecase.JournalRepository
	metrics *metrics.Metrics
}

func (o observedJournal) Record(ctx context.Context, entries []signalsentity.JournalEntry) error {
	err := o.JournalRepository.Record(ctx, entries)
	o.metrics.ObserveJournal(err)
	return err
}

// observedCandles counts candles written per granularity.
type observedCandles struct {
	candleusecase.CandleRepository
	metrics *metrics.Metrics
}

func (o observedCandles) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := o.CandleRepository.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	counts := make(map[entity.Granularity]int)
	for _, c := range candles {
		counts[c.Granularity]++
	}
	for g, n := range counts {
		o.metrics.ObserveIngested(g.String(), n)
	}
	return nil
}
