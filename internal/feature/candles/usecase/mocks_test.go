package usecase

import (
	"context"
	"errors"
	"sync"

	"fxsignal_backend/internal/feature/candles/domain/entity"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// ErrMarketAPI は外部APIの失敗を表すセンチネルエラーです。
var ErrMarketAPI = errors.New("market API error")

// mockCandleRepository はCandleRepositoryインターフェースのモック実装です。
type mockCandleRepository struct {
	mu              sync.Mutex
	FindFunc        func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error)
	UpsertBatchFunc func(ctx context.Context, candles []entity.Candle) error
	FindCalls       int
	UpsertCalls     int
}

func (m *mockCandleRepository) Find(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	m.mu.Lock()
	m.FindCalls++
	m.mu.Unlock()
	if m.FindFunc != nil {
		return m.FindFunc(ctx, instrument, g, count)
	}
	return nil, errors.New("FindFunc is not implemented")
}

func (m *mockCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	m.mu.Lock()
	m.UpsertCalls++
	m.mu.Unlock()
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, candles)
	}
	return errors.New("UpsertBatchFunc is not implemented")
}

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	mu             sync.Mutex
	GetCandlesFunc func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error)
	Calls          int
}

func (m *mockMarketRepository) GetCandles(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.GetCandlesFunc != nil {
		return m.GetCandlesFunc(ctx, instrument, g, count)
	}
	return nil, errors.New("GetCandlesFunc is not implemented")
}

// mockRateLimiter はテスト用に待機しないRateLimiterです。
type mockRateLimiter struct {
	mu    sync.Mutex
	Calls int
	Err   error
}

func (m *mockRateLimiter) WaitIfNeeded(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Err
}
