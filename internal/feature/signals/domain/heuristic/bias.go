package heuristic

import (
	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
)

const (
	biasMinBars   = 60
	biasFastEMA   = 20
	biasSlowEMA   = 50
	trendMAWindow = 50
	trendBandPct  = 0.5
)

// PrimaryTrend compares the last close with its 50-bar mean: Buy above +0.5%, Sell below -0.5%,
// Neutral in between and Unknown with fewer than 60 bars.
func PrimaryTrend(cs []candle.Candle) entity.Direction {
	if len(cs) < biasMinBars {
		return entity.Unknown
	}
	closes := candle.Closes(cs)
	ma, _ := SMA(closes, trendMAWindow)
	if ma == 0 {
		return entity.Unknown
	}
	diffPct := (closes[len(closes)-1] - ma) / ma * 100
	switch {
	case diffPct > trendBandPct:
		return entity.Buy
	case diffPct < -trendBandPct:
		return entity.Sell
	default:
		return entity.Neutral
	}
}

// Bias combines EMA20/EMA50 on the reference sequence with PrimaryTrend on the higher one.
// A side missing history defers to the other; a disagreement is sideways.
func Bias(reference, higher []candle.Candle) entity.Bias {
	var ref, hi entity.Bias

	if len(reference) >= biasMinBars {
		closes := candle.Closes(reference)
		fast, _ := EMA(closes, biasFastEMA, SeedFirstClose)
		slow, _ := EMA(closes, biasSlowEMA, SeedFirstClose)
		ref = entity.BiasShort
		if fast > slow {
			ref = entity.BiasLong
		}
	}

	switch PrimaryTrend(higher) {
	case entity.Buy:
		hi = entity.BiasLong
	case entity.Sell:
		hi = entity.BiasShort
	case entity.Neutral:
		hi = entity.BiasSideways
	}

	switch {
	case ref == "" && hi == "":
		return entity.BiasSideways
	case ref == "":
		return hi
	case hi == "":
		return ref
	case ref == hi:
		return ref
	default:
		return entity.BiasSideways
	}
}
