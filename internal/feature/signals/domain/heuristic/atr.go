package heuristic

import (
	"math"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
)

// TrueRange of bar i against the close of bar i-1. i must be at least 1.
func TrueRange(cs []candle.Candle, i int) float64 {
	prev := cs[i-1].Close
	return math.Max(cs[i].High-cs[i].Low, math.Max(math.Abs(cs[i].High-prev), math.Abs(cs[i].Low-prev)))
}

// ATR estimates volatility over the last period bars. ok is false when fewer than period+1 bars
// (or fewer than two bars) are available; the result is never negative.
//
// SmoothingSimple is the arithmetic mean of the last period true ranges.
// SmoothingWilder seeds with the mean of the first period true ranges and then applies
// (prev*(period-1)+tr)/period to every later bar, so it depends on the whole sequence.
func ATR(cs []candle.Candle, period int, smoothing Smoothing) (float64, bool) {
	if period < 1 || len(cs) < 2 || len(cs) < period+1 {
		return 0, false
	}

	trs := make([]float64, 0, len(cs)-1)
	for i := 1; i < len(cs); i++ {
		trs = append(trs, TrueRange(cs, i))
	}

	if smoothing == SmoothingWilder {
		var sum float64
		for _, tr := range trs[:period] {
			sum += tr
		}
		atr := sum / float64(period)
		for _, tr := range trs[period:] {
			atr = (atr*float64(period-1) + tr) / float64(period)
		}
		return atr, true
	}

	atr, _ := SMA(trs, period)
	return atr, true
}
