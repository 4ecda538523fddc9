package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxsignal_backend/internal/feature/candles/domain/entity"
)

type fixedClock time.Time

func (f fixedClock) Now() time.Time { return time.Time(f) }

func TestGenerator_GetCandles(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 5, 10, 7, 30, 0, time.UTC)
	g := NewGenerator(fixedClock(now))

	candles, err := g.GetCandles(context.Background(), "XAU_USD", entity.M15, 500)
	require.NoError(t, err)
	require.Len(t, candles, 500)

	assert.NoError(t, entity.ValidateSeries(candles))
	// 最終足は直近の確定済みバー
	assert.Equal(t, time.Date(2024, 3, 5, 9, 45, 0, 0, time.UTC), candles[len(candles)-1].Time)
	for i := 1; i < len(candles); i++ {
		assert.Equal(t, candles[i-1].Close, candles[i].Open)
	}
	for _, c := range candles {
		assert.InDelta(t, basePrice, c.Close, 100)
		assert.True(t, c.Complete)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	t.Parallel()

	clock := fixedClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	a, err := NewGenerator(clock).GetCandles(context.Background(), "EUR_USD", entity.M1, 50)
	require.NoError(t, err)
	b, err := NewGenerator(clock).GetCandles(context.Background(), "EUR_USD", entity.M1, 50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := NewGenerator(clock).GetCandles(context.Background(), "GBP_USD", entity.M1, 50)
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestGenerator_EdgeCases(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil)

	empty, err := g.GetCandles(context.Background(), "EUR_USD", entity.M1, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	one, err := g.GetCandles(context.Background(), "EUR_USD", entity.M1, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, one[0].Open, one[0].Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.GetCandles(ctx, "EUR_USD", entity.M1, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
