package heuristic

import (
	"math"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
)

const (
	instantMinBars    = 25
	instantEMAWindow  = 20
	instantRiskReward = 2.0
)

// Instant checks whether the last bar engulfs the previous one on the side of the EMA(20).
// The stop sits at the two-bar extreme and the target at twice the risk.
func Instant(cs []candle.Candle) entity.InstantSignal {
	out := entity.InstantSignal{Side: entity.Unknown}
	if len(cs) == 0 {
		return out
	}
	last := cs[len(cs)-1]
	out.Price, out.HasPrice = last.Close, true
	if len(cs) < instantMinBars {
		return out
	}
	out.Side = entity.Neutral

	prev := cs[len(cs)-2]
	ema, _ := EMA(candle.Closes(cs), instantEMAWindow, SeedFirstClose)

	var sl float64
	switch {
	case last.Close > last.Open && last.Open <= prev.Close && last.Close >= prev.Open && last.Close > ema:
		out.Side, sl = entity.Buy, math.Min(last.Low, prev.Low)
	case last.Close < last.Open && last.Open >= prev.Close && last.Close <= prev.Open && last.Close < ema:
		out.Side, sl = entity.Sell, math.Max(last.High, prev.High)
	default:
		return out
	}

	sign := out.Side.Sign()
	risk := sign * (out.Price - sl)
	if risk <= 0 {
		out.Side = entity.Neutral
		return out
	}
	out.StopLoss = sl
	out.TakeProfit = out.Price + sign*instantRiskReward*risk
	out.RiskReward = math.Round(sign*(out.TakeProfit-out.Price)/risk*100) / 100
	return out
}
