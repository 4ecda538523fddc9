package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
)

// ErrInvalidRange is returned for an unrecognised chart range.
var ErrInvalidRange = errors.New("invalid chart range")

// ChartRange limits the charted series to a trailing window. RangeAll keeps everything.
type ChartRange string

const (
	RangeAll   ChartRange = ""
	RangeDay   ChartRange = "1D"
	RangeWeek  ChartRange = "1W"
	RangeMonth ChartRange = "1M"
)

// ParseChartRange accepts 1D, 1W and 1M in any case. An empty string is RangeAll.
func ParseChartRange(s string) (ChartRange, error) {
	r := ChartRange(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RangeAll, RangeDay, RangeWeek, RangeMonth:
		return r, nil
	}
	return RangeAll, fmt.Errorf("%w: %q (want 1D, 1W or 1M)", ErrInvalidRange, s)
}

// Window is the trailing duration covered by r, 0 for RangeAll.
func (r ChartRange) Window() time.Duration {
	switch r {
	case RangeDay:
		return 24 * time.Hour
	case RangeWeek:
		return 7 * 24 * time.Hour
	case RangeMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Slice returns the tail of cs (oldest to newest) that starts no earlier than Window before
// the last bar. Anchoring on the last bar keeps closed markets charted.
func (r ChartRange) Slice(cs []candle.Candle) []candle.Candle {
	w := r.Window()
	if w == 0 || len(cs) == 0 {
		return cs
	}
	since := cs[len(cs)-1].Time.Add(-w)
	i := sort.Search(len(cs), func(i int) bool { return !cs[i].Time.Before(since) })
	return cs[i:]
}
