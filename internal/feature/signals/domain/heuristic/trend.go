package heuristic

import (
	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
)

// SMA returns the mean of the last window values. ok is false when fewer values exist.
func SMA(values []float64, window int) (float64, bool) {
	if window < 1 || len(values) < window {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), true
}

// EMA iterates an exponential average with alpha 2/(window+1) over all values and returns the last one.
func EMA(values []float64, window int, seed EMASeed) (float64, bool) {
	if window < 1 || len(values) == 0 {
		return 0, false
	}
	alpha := 2.0 / float64(window+1)

	start := 1
	current := values[0]
	if seed == SeedSMA {
		n := min(window, len(values))
		var sum float64
		for _, v := range values[:n] {
			sum += v
		}
		current = sum / float64(n)
		start = n
	}
	for _, v := range values[start:] {
		// incremental form keeps a flat series exactly flat
		current += alpha * (v - current)
	}
	return current, true
}

// Direction labels a candle sequence by comparing its short and long averages.
// It returns Unknown when fewer than LongWindow+1 bars exist.
func Direction(cs []candle.Candle, p Params) entity.Direction {
	if len(cs) < p.LongWindow+1 {
		return entity.Unknown
	}
	return Compare(candle.Closes(cs), p)
}

// Compare is Direction over raw closing prices.
func Compare(closes []float64, p Params) entity.Direction {
	if len(closes) < p.LongWindow+1 || p.ShortWindow < 1 || p.LongWindow <= p.ShortWindow {
		return entity.Unknown
	}

	var short, long float64
	switch p.Method {
	case MethodSMA:
		short, _ = SMA(closes, p.ShortWindow)
		long, _ = SMA(closes, p.LongWindow)
	default:
		short, _ = EMA(closes, p.ShortWindow, p.EMASeed)
		long, _ = EMA(closes, p.LongWindow, p.EMASeed)
	}

	switch {
	case short > long:
		return entity.Buy
	case short < long:
		return entity.Sell
	default:
		return entity.Neutral
	}
}
