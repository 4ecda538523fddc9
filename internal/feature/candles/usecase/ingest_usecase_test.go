package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxsignal_backend/internal/feature/candles/domain/entity"
)

func validBars() []entity.Candle {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []entity.Candle{
		{Time: t0, Open: 100, High: 110, Low: 90, Close: 105},
		{Time: t0.Add(time.Minute), Open: 105, High: 108, Low: 101, Close: 102},
	}
}

func TestIngestUsecase_ingestOne(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		market      func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error)
		upsertErr   error
		expectedErr error
		wantUpsert  int
	}{
		{
			name: "success: data fetch and save succeed",
			market: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				assert.Equal(t, "EUR_USD", instrument)
				assert.Equal(t, entity.M5, g)
				assert.Equal(t, 300, count)
				return validBars(), nil
			},
			wantUpsert: 1,
		},
		{
			name: "error: MarketRepository returns error",
			market: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				return nil, ErrMarketAPI
			},
			expectedErr: ErrMarketAPI,
		},
		{
			name: "error: CandleRepository returns error",
			market: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				return validBars(), nil
			},
			upsertErr:   ErrDB,
			expectedErr: ErrDB,
			wantUpsert:  1,
		},
		{
			name: "error: malformed series is not saved",
			market: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				bars := validBars()
				bars[1].Time = bars[0].Time
				return bars, nil
			},
			expectedErr: entity.ErrMalformedSeries,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var captured []entity.Candle
			mockMarket := &mockMarketRepository{GetCandlesFunc: tc.market}
			mockCandle := &mockCandleRepository{
				UpsertBatchFunc: func(ctx context.Context, candles []entity.Candle) error {
					captured = candles
					return tc.upsertErr
				},
			}

			uc := NewIngestUsecase(mockMarket, mockCandle, &mockRateLimiter{})
			err := uc.ingestOne(ctx, "EUR_USD", entity.M5, 300)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantUpsert, mockCandle.UpsertCalls)
			for _, c := range captured {
				assert.Equal(t, "EUR_USD", c.Instrument, "instrument should be stamped")
				assert.Equal(t, entity.M5, c.Granularity, "granularity should be stamped")
			}
		})
	}
}

func TestIngestUsecase_IngestAll(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		instruments   []string
		market        func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error)
		upsertErr     func(candles []entity.Candle) error
		wantCalls     int
		wantSucceeded int
		wantFailed    int
	}{
		{
			name:        "success: fetch all instruments and granularities",
			instruments: []string{"XAU_USD", "EUR_USD"},
			market: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				return validBars(), nil
			},
			// 2 instruments × 4 granularities
			wantCalls:     8,
			wantSucceeded: 8,
		},
		{
			name:        "success: empty instrument list",
			instruments: []string{},
			market: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				t.Error("GetCandles should not be called")
				return nil, ErrMarketAPI
			},
		},
		{
			name:        "success: continues when some instruments fail",
			instruments: []string{"XAU_USD", "INVALID", "EUR_USD"},
			market: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				if instrument == "INVALID" {
					return nil, ErrMarketAPI
				}
				return validBars(), nil
			},
			wantCalls:     12,
			wantSucceeded: 8,
			wantFailed:    4,
		},
		{
			name:        "success: continues when UpsertBatch fails",
			instruments: []string{"XAU_USD", "EUR_USD"},
			market: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
				return validBars(), nil
			},
			upsertErr: func(candles []entity.Candle) error {
				if candles[0].Instrument == "XAU_USD" {
					return ErrDB
				}
				return nil
			},
			wantCalls:     8,
			wantSucceeded: 4,
			wantFailed:    4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockMarket := &mockMarketRepository{GetCandlesFunc: tc.market}
			mockCandle := &mockCandleRepository{
				UpsertBatchFunc: func(ctx context.Context, candles []entity.Candle) error {
					if tc.upsertErr != nil {
						return tc.upsertErr(candles)
					}
					return nil
				},
			}
			rl := &mockRateLimiter{}

			uc := NewIngestUsecase(mockMarket, mockCandle, rl)
			res, err := uc.IngestAll(ctx, tc.instruments)

			require.NoError(t, err)
			assert.Equal(t, tc.wantCalls, mockMarket.Calls)
			assert.Equal(t, tc.wantCalls, rl.Calls, "every request should pass the rate limiter")
			assert.Equal(t, tc.wantSucceeded, res.Succeeded)
			assert.Equal(t, tc.wantFailed, res.Failed)
		})
	}
}

func TestIngestUsecase_IngestAll_GranularityOrder(t *testing.T) {
	var mu sync.Mutex
	var called []entity.Granularity

	mockMarket := &mockMarketRepository{
		GetCandlesFunc: func(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
			mu.Lock()
			called = append(called, g)
			mu.Unlock()
			return validBars(), nil
		},
	}
	mockCandle := &mockCandleRepository{
		UpsertBatchFunc: func(ctx context.Context, candles []entity.Candle) error { return nil },
	}

	uc := NewIngestUsecase(mockMarket, mockCandle, &mockRateLimiter{})
	_, err := uc.IngestAll(context.Background(), []string{"XAU_USD"})

	require.NoError(t, err)
	assert.Equal(t, []entity.Granularity{entity.H1, entity.M15, entity.M5, entity.M1}, called)
}

func TestIngestUsecase_IngestAll_RateLimiterCanceled(t *testing.T) {
	mockMarket := &mockMarketRepository{}
	rl := &mockRateLimiter{Err: context.Canceled}

	uc := NewIngestUsecase(mockMarket, &mockCandleRepository{}, rl)
	_, err := uc.IngestAll(context.Background(), []string{"XAU_USD"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mockMarket.Calls)
}
