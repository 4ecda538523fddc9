package entity

import (
	"fmt"
	"strings"
	"time"
)

// Granularity identifies the bar width of a candle sequence.
// Values follow the OANDA naming used across the dashboards.
type Granularity string

const (
	M1  Granularity = "M1"
	M5  Granularity = "M5"
	M15 Granularity = "M15"
	H1  Granularity = "H1"
	H4  Granularity = "H4"
	D   Granularity = "D"
)

var granularityDurations = map[Granularity]time.Duration{
	M1:  time.Minute,
	M5:  5 * time.Minute,
	M15: 15 * time.Minute,
	H1:  time.Hour,
	H4:  4 * time.Hour,
	D:   24 * time.Hour,
}

// aliases accepts the short dashboard spellings ("1m", "15m", "1h") as well.
var granularityAliases = map[string]Granularity{
	"1m":  M1,
	"5m":  M5,
	"15m": M15,
	"1h":  H1,
	"4h":  H4,
	"1d":  D,
}

// Duration returns the bar width, or 0 for an unknown granularity.
func (g Granularity) Duration() time.Duration {
	return granularityDurations[g]
}

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	_, ok := granularityDurations[g]
	return ok
}

func (g Granularity) String() string { return string(g) }

// ParseGranularity accepts "M15" style codes and "15m" style aliases.
func ParseGranularity(s string) (Granularity, error) {
	s = strings.TrimSpace(s)
	if g := Granularity(strings.ToUpper(s)); g.Valid() {
		return g, nil
	}
	if g, ok := granularityAliases[strings.ToLower(s)]; ok {
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}
