// Package entity defines the domain models for the candles feature.
package entity

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMalformedSeries is returned when a candle sequence violates its ordering or OHLC invariants.
var ErrMalformedSeries = errors.New("malformed candle series")

// ErrProviderFailure wraps every failure of an external market data provider.
var ErrProviderFailure = errors.New("market data provider failure")

// Candle represents one OHLC bar for an instrument at a given granularity.
type Candle struct {
	Instrument  string      // Provider instrument code (e.g., "XAU_USD", "EUR_USD")
	Granularity Granularity // Bar width
	Time        time.Time   // Timestamp for the start of this candle period
	Open        float64     // Opening price
	High        float64     // Highest price during this period
	Low         float64     // Lowest price during this period
	Close       float64     // Closing price
	Volume      int64       // Tick volume, 0 when the provider does not report it
	Complete    bool        // False while the bar is still forming
}

// Validate checks low <= min(open, close) <= max(open, close) <= high and that all prices are finite.
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite price at %s", ErrMalformedSeries, c.Time.Format(time.RFC3339))
		}
	}
	lo := math.Min(c.Open, c.Close)
	hi := math.Max(c.Open, c.Close)
	if c.Low > lo || hi > c.High {
		return fmt.Errorf("%w: ohlc out of range at %s (o=%g h=%g l=%g c=%g)",
			ErrMalformedSeries, c.Time.Format(time.RFC3339), c.Open, c.High, c.Low, c.Close)
	}
	return nil
}

// ValidateSeries rejects empty sequences, timestamps that are not strictly increasing
// and bars that break the OHLC invariant. It never repairs data.
func ValidateSeries(cs []Candle) error {
	if len(cs) == 0 {
		return fmt.Errorf("%w: empty sequence", ErrMalformedSeries)
	}
	for i := range cs {
		if err := cs[i].Validate(); err != nil {
			return err
		}
		if i > 0 && !cs[i].Time.After(cs[i-1].Time) {
			return fmt.Errorf("%w: timestamps not increasing at index %d (%s after %s)",
				ErrMalformedSeries, i, cs[i].Time.Format(time.RFC3339), cs[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Closes returns the closing prices of cs in order.
func Closes(cs []Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}
