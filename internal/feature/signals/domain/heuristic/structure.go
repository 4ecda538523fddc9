package heuristic

import (
	"time"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
)

// RecentRange is the high-low span of the last n bars.
func RecentRange(cs []candle.Candle, n int) (float64, bool) {
	high, low, ok := Extremes(cs, n)
	if !ok {
		return 0, false
	}
	return high - low, true
}

// MomentumOf compares the last close with the one before it.
func MomentumOf(cs []candle.Candle) entity.Momentum {
	if len(cs) < 2 {
		return entity.MomentumNone
	}
	last, prev := cs[len(cs)-1].Close, cs[len(cs)-2].Close
	switch {
	case last > prev:
		return entity.MomentumUp
	case last < prev:
		return entity.MomentumDown
	default:
		return entity.MomentumFlat
	}
}

// FairValueGaps finds three-bar gaps: bullish when bar i's low is above bar i-2's high,
// bearish when bar i's high is below bar i-2's low. Only the last keep gaps are returned.
func FairValueGaps(cs []candle.Candle, keep int) []entity.FairValueGap {
	var gaps []entity.FairValueGap
	for i := 2; i < len(cs); i++ {
		a, c := cs[i-2], cs[i]
		switch {
		case c.Low > a.High:
			gaps = append(gaps, entity.FairValueGap{Kind: entity.GapBullish, Start: a.Time, End: c.Time, Low: a.High, High: c.Low})
		case c.High < a.Low:
			gaps = append(gaps, entity.FairValueGap{Kind: entity.GapBearish, Start: a.Time, End: c.Time, Low: c.High, High: a.Low})
		}
	}
	if keep > 0 && len(gaps) > keep {
		gaps = gaps[len(gaps)-keep:]
	}
	return gaps
}

// SessionHigh returns the highest high between fromHour (inclusive) and toHour (exclusive) local
// time on the day of the last bar, falling back to the previous day when that session has no bars.
func SessionHigh(cs []candle.Candle, loc *time.Location, fromHour, toHour int) (float64, bool) {
	if len(cs) == 0 || loc == nil {
		return 0, false
	}
	last := cs[len(cs)-1].Time.In(loc)
	day := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc)

	for _, d := range []time.Time{day, day.AddDate(0, 0, -1)} {
		high, found := 0.0, false
		for _, c := range cs {
			t := c.Time.In(loc)
			if t.Year() != d.Year() || t.YearDay() != d.YearDay() || t.Hour() < fromHour || t.Hour() >= toHour {
				continue
			}
			if !found || c.High > high {
				high, found = c.High, true
			}
		}
		if found {
			return high, true
		}
	}
	return 0, false
}
