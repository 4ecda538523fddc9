package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
)

// evaluate runs the same sequence through every stage the way the analyze usecase composes them.
func evaluate(t *testing.T, cs []candle.Candle, p Params) Outcome {
	t.Helper()

	dir := Direction(cs, p)
	atr, hasATR := ATR(cs, p.ATRPeriod, p.ATRSmoothing)
	out, err := BuildCandidate(CandidateInput{
		Confirming: []entity.Direction{dir, dir},
		Finest:     dir,
		Entry:      cs[len(cs)-1].Close,
		ATR:        atr,
		HasATR:     hasATR,
		Swings:     Swings(cs, p.SwingRadius, p.SwingLimit),
	}, p)
	require.NoError(t, err)
	return out
}

func TestScenario_FlatMarket(t *testing.T) {
	t.Parallel()

	p := paramsWithFloor(5)
	cs := flatCandles(60, 100)

	assert.Equal(t, entity.Neutral, Direction(cs, p))
	atr, ok := ATR(cs, p.ATRPeriod, p.ATRSmoothing)
	require.True(t, ok)
	assert.Zero(t, atr)

	out := evaluate(t, cs, p)
	assert.Nil(t, out.Candidate)
	assert.Equal(t, entity.ReasonDisagreement, out.Reason)
}

func TestScenario_SteadyUptrend(t *testing.T) {
	t.Parallel()

	for _, p := range []Params{paramsWithFloor(5), FastParams().WithMinDistance(5)} {
		cs := risingCandles(30, 100, 1)

		assert.Equal(t, entity.Buy, Direction(cs, p))
		atr, ok := ATR(cs, p.ATRPeriod, p.ATRSmoothing)
		require.True(t, ok)
		assert.InDelta(t, 1.0, atr, 1e-9)
		assert.Empty(t, Swings(cs, p.SwingRadius, p.SwingLimit))

		out := evaluate(t, cs, p)
		require.NotNil(t, out.Candidate)
		assert.Equal(t, entity.Buy, out.Candidate.Side)
		assert.Equal(t, 129.0, out.Candidate.Entry)
		assert.InDelta(t, 135.0, out.Candidate.TakeProfit, 1e-9)
		assert.InDelta(t, 128.0, out.Candidate.StopLoss, 1e-9)
		assert.True(t, out.Candidate.Confirmed)
	}
}

func TestScenario_SteadyDowntrend(t *testing.T) {
	t.Parallel()

	p := paramsWithFloor(5)
	cs := fallingCandles(30, 200, 2)

	out := evaluate(t, cs, p)
	require.NotNil(t, out.Candidate)
	assert.Equal(t, entity.Sell, out.Candidate.Side)
	assert.InDelta(t, 142.0-7.0, out.Candidate.TakeProfit, 1e-9)
	assert.InDelta(t, 144.0, out.Candidate.StopLoss, 1e-9)
}
