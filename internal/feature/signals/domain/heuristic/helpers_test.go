package heuristic

import (
	"time"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
)

var baseTime = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

// flatCandles returns n bars with open=high=low=close=price.
func flatCandles(n int, price float64) []candle.Candle {
	cs := make([]candle.Candle, n)
	for i := range cs {
		cs[i] = candle.Candle{Granularity: candle.M15, Time: baseTime.Add(time.Duration(i) * 15 * time.Minute),
			Open: price, High: price, Low: price, Close: price, Complete: true}
	}
	return cs
}

// risingCandles returns closes start, start+step, ... where every bar opens at the previous close,
// so each true range is exactly step.
func risingCandles(n int, start, step float64) []candle.Candle {
	cs := make([]candle.Candle, n)
	for i := range cs {
		c := start + float64(i)*step
		cs[i] = candle.Candle{Granularity: candle.M15, Time: baseTime.Add(time.Duration(i) * 15 * time.Minute),
			Open: c - step, High: c, Low: c - step, Close: c, Complete: true}
	}
	return cs
}

// fallingCandles mirrors risingCandles downwards.
func fallingCandles(n int, start, step float64) []candle.Candle {
	cs := make([]candle.Candle, n)
	for i := range cs {
		c := start - float64(i)*step
		cs[i] = candle.Candle{Granularity: candle.M15, Time: baseTime.Add(time.Duration(i) * 15 * time.Minute),
			Open: c + step, High: c + step, Low: c, Close: c, Complete: true}
	}
	return cs
}

// closeCandles builds doji bars from closing prices.
func closeCandles(closes ...float64) []candle.Candle {
	cs := make([]candle.Candle, len(closes))
	for i, c := range closes {
		cs[i] = candle.Candle{Granularity: candle.M1, Time: baseTime.Add(time.Duration(i) * time.Minute),
			Open: c, High: c, Low: c, Close: c, Complete: true}
	}
	return cs
}

// lowCandles builds bars whose high is always low+1.
func lowCandles(lows ...float64) []candle.Candle {
	cs := make([]candle.Candle, len(lows))
	for i, l := range lows {
		cs[i] = candle.Candle{Granularity: candle.M15, Time: baseTime.Add(time.Duration(i) * 15 * time.Minute),
			Open: l, High: l + 1, Low: l, Close: l + 1, Complete: true}
	}
	return cs
}
