package heuristic

import (
	"sort"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
)

// Swings finds local supports (low equals the window minimum) and resistances (high equals the
// window maximum) using a symmetric window of radius bars on each side. Ties all count.
// The result is ordered most recent first and keeps at most limit levels of each kind.
func Swings(cs []candle.Candle, radius, limit int) []entity.SwingLevel {
	if radius < 1 || limit < 1 || len(cs) < 2*radius+1 {
		return nil
	}

	var supports, resistances []entity.SwingLevel
	for i := len(cs) - 1 - radius; i >= radius; i-- {
		lo, hi := cs[i].Low, cs[i].High
		isSupport, isResistance := true, true
		for j := i - radius; j <= i+radius; j++ {
			if cs[j].Low < lo {
				isSupport = false
			}
			if cs[j].High > hi {
				isResistance = false
			}
		}
		if isResistance && len(resistances) < limit {
			resistances = append(resistances, entity.SwingLevel{Kind: entity.Resistance, Index: i, Time: cs[i].Time, Price: hi})
		}
		if isSupport && len(supports) < limit {
			supports = append(supports, entity.SwingLevel{Kind: entity.Support, Index: i, Time: cs[i].Time, Price: lo})
		}
	}

	out := append(resistances, supports...)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Index != out[b].Index {
			return out[a].Index > out[b].Index
		}
		// resistance before support on the same bar
		return out[a].Kind == entity.Resistance && out[b].Kind == entity.Support
	})
	return out
}

// Levels filters swings by kind, keeping their order.
func Levels(swings []entity.SwingLevel, kind entity.SwingKind) []entity.SwingLevel {
	var out []entity.SwingLevel
	for _, s := range swings {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Extremes returns the highest high and lowest low of the last window bars.
func Extremes(cs []candle.Candle, window int) (high, low float64, ok bool) {
	if len(cs) == 0 || window < 1 {
		return 0, 0, false
	}
	tail := cs[max(0, len(cs)-window):]
	high, low = tail[0].High, tail[0].Low
	for _, c := range tail[1:] {
		high = max(high, c.High)
		low = min(low, c.Low)
	}
	return high, low, true
}
