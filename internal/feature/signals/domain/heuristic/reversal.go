package heuristic

import (
	"math"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
)

const (
	// reversalSwingWindow is roughly one day of 15-minute bars.
	reversalSwingWindow = 96
	reversalMinBars     = 6
	reversalTolPct      = 0.0015
)

// ReversalInput feeds the bias-aligned reversal setup.
type ReversalInput struct {
	Entry     float64
	Bias      entity.Bias
	Reference []candle.Candle // swing and ATR source, e.g. 15-minute bars
	Finest    []candle.Candle // e.g. 1-minute bars
	Medium    entity.Direction
	FinestDir entity.Direction
}

// Reversal looks for an entry near the swing extreme on the bias side and grades it 0-5:
// +2 entry within tolerance of the swing, +1 ATR at least the tolerance, +1 medium direction agrees,
// +1 three rising (falling) finest closes. 4-5 is High, 3 Medium, otherwise Low.
func Reversal(in ReversalInput, p Params) entity.ReversalResult {
	out := entity.ReversalResult{Reason: entity.ReasonInsufficientHistory, Confidence: entity.ConfidenceLow}
	if in.Entry <= 0 || len(in.Reference) == 0 || len(in.Finest) == 0 || p.MinDistance <= 0 {
		return out
	}
	if len(in.Reference) < reversalMinBars {
		out.Reason = entity.ReasonNoSwings
		return out
	}
	swingHigh, swingLow, _ := Extremes(in.Reference, reversalSwingWindow)

	atr, ok := ATR(in.Reference, p.ATRPeriod, p.ATRSmoothing)
	if !ok {
		atr = 0
	}
	floor := p.MinDistance
	tol := math.Max(floor, math.Max(atr, math.Abs(in.Entry)*reversalTolPct))
	distLow := in.Entry - swingLow
	distHigh := swingHigh - in.Entry

	twoUp, twoDown := streak(in.Finest, 2)
	threeUp, threeDown := streak(in.Finest, 3)

	score := 0
	if (in.Bias == entity.BiasLong && distLow <= tol) || (in.Bias == entity.BiasShort && distHigh <= tol) {
		score += 2
	}
	if atr >= tol {
		score++
	}
	if (in.Bias == entity.BiasLong && in.Medium == entity.Buy) || (in.Bias == entity.BiasShort && in.Medium == entity.Sell) {
		score++
	}
	if (in.Bias == entity.BiasLong && threeUp) || (in.Bias == entity.BiasShort && threeDown) {
		score++
	}

	out.ConfidenceScore = score
	switch {
	case score >= 4:
		out.Confidence = entity.ConfidenceHigh
	case score == 3:
		out.Confidence = entity.ConfidenceMedium
	default:
		out.Confidence = entity.ConfidenceLow
	}
	high := out.Confidence == entity.ConfidenceHigh

	slTol := tol
	if high {
		slTol = tol * 0.75
	}
	slDist := math.Max(atr, slTol*0.5)
	buffer := Buffer(in.Entry, p)

	switch in.Bias {
	case entity.BiasLong:
		out.Reason = entity.ReasonNoLongSetup
		if distLow <= tol && twoUp && (high || in.Medium == entity.Buy) && in.FinestDir == entity.Buy {
			target := swingHigh - buffer
			tp := in.Entry + math.Max(floor, (target-in.Entry)*0.5)
			if tp-in.Entry >= floor {
				out.Reason = entity.ReasonOK
				out.Candidate = &entity.TradeCandidate{
					Side: entity.Buy, Entry: in.Entry, TakeProfit: tp, StopLoss: in.Entry - slDist,
					Confidence: out.Confidence, Confirmed: true,
				}
			}
		}
	case entity.BiasShort:
		out.Reason = entity.ReasonNoShortSetup
		if distHigh <= tol && twoDown && (high || in.Medium == entity.Sell) && in.FinestDir == entity.Sell {
			target := swingLow + buffer
			tp := in.Entry - math.Max(floor, (in.Entry-target)*0.5)
			if in.Entry-tp >= floor {
				out.Reason = entity.ReasonOK
				out.Candidate = &entity.TradeCandidate{
					Side: entity.Sell, Entry: in.Entry, TakeProfit: tp, StopLoss: in.Entry + slDist,
					Confidence: out.Confidence, Confirmed: true,
				}
			}
		}
	default:
		out.Reason = entity.ReasonBiasSideways
	}
	return out
}

// streak reports whether the last n closes each rose (fell) from the one before.
func streak(cs []candle.Candle, n int) (up, down bool) {
	if len(cs) < n+1 {
		return false, false
	}
	tail := cs[len(cs)-n-1:]
	up, down = true, true
	for i := 1; i < len(tail); i++ {
		if tail[i].Close <= tail[i-1].Close {
			up = false
		}
		if tail[i].Close >= tail[i-1].Close {
			down = false
		}
	}
	return up, down
}
