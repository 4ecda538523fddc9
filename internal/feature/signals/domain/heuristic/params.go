// Package heuristic implements the multi-timeframe agreement and ATR/swing target sizing used by the
// signal dashboards. Every function is pure: no I/O, no clocks, no shared state.
package heuristic

import (
	"errors"
	"fmt"
)

// Method selects how a directional signal averages closing prices.
type Method string

const (
	MethodSMA Method = "sma"
	MethodEMA Method = "ema"
)

// EMASeed selects the starting value of an exponential average.
type EMASeed string

const (
	// SeedFirstClose starts from the first close and iterates forward (adjust=false style).
	SeedFirstClose EMASeed = "first_close"
	// SeedSMA starts from the plain mean of the first window closes.
	SeedSMA EMASeed = "sma"
)

// Smoothing selects how true ranges are averaged.
type Smoothing string

const (
	SmoothingSimple Smoothing = "simple"
	SmoothingWilder Smoothing = "wilder"
)

// Params enumerates every tunable of the heuristic. Each dashboard variant is one Params value.
type Params struct {
	Method       Method    `yaml:"method"`
	ShortWindow  int       `yaml:"short_window"`
	LongWindow   int       `yaml:"long_window"`
	EMASeed      EMASeed   `yaml:"ema_seed"`
	ATRPeriod    int       `yaml:"atr_period"`
	ATRSmoothing Smoothing `yaml:"atr_smoothing"`
	SwingRadius  int       `yaml:"swing_radius"`
	SwingLimit   int       `yaml:"swing_limit"`
	// MinDistance is the take-profit floor in instrument price units. It has no sensible
	// global default and is filled from the instrument catalog.
	MinDistance float64 `yaml:"min_distance"`
	BufferPct   float64 `yaml:"buffer_pct"`
	MinBuffer   float64 `yaml:"min_buffer"`
	// RequireFinestConfirmation turns a finest-granularity mismatch into a veto.
	// When false the candidate is returned with Confirmed=false.
	RequireFinestConfirmation bool `yaml:"require_finest_confirmation"`
	// RangeBars is the finest-granularity lookback for the volatility pre-filter; 0 disables it.
	RangeBars int `yaml:"range_bars"`
}

// DefaultParams returns the EMA 9/21 variant: EMA seeded from the first close, simple ATR(14),
// swing radius 3 keeping 10 levels per side, 0.2% buffer and a hard finest-granularity veto.
func DefaultParams() Params {
	return Params{
		Method:                    MethodEMA,
		ShortWindow:               9,
		LongWindow:                21,
		EMASeed:                   SeedFirstClose,
		ATRPeriod:                 14,
		ATRSmoothing:              SmoothingSimple,
		SwingRadius:               3,
		SwingLimit:                10,
		BufferPct:                 0.002,
		RequireFinestConfirmation: true,
		RangeBars:                 30,
	}
}

// FastParams returns the SMA 3/8 variant with a soft finest-granularity annotation.
func FastParams() Params {
	p := DefaultParams()
	p.Method = MethodSMA
	p.ShortWindow = 3
	p.LongWindow = 8
	p.SwingRadius = 2
	p.RequireFinestConfirmation = false
	return p
}

// WithMinDistance returns a copy of p using floor as the take-profit floor.
func (p Params) WithMinDistance(floor float64) Params {
	p.MinDistance = floor
	return p
}

var errInvalidParams = errors.New("invalid heuristic params")

// Validate reports the first inconsistent field.
func (p Params) Validate() error {
	switch {
	case p.Method != MethodSMA && p.Method != MethodEMA:
		return fmt.Errorf("%w: method %q", errInvalidParams, p.Method)
	case p.ShortWindow < 1:
		return fmt.Errorf("%w: short_window %d", errInvalidParams, p.ShortWindow)
	case p.LongWindow <= p.ShortWindow:
		return fmt.Errorf("%w: long_window %d must exceed short_window %d", errInvalidParams, p.LongWindow, p.ShortWindow)
	case p.Method == MethodEMA && p.EMASeed != SeedFirstClose && p.EMASeed != SeedSMA:
		return fmt.Errorf("%w: ema_seed %q", errInvalidParams, p.EMASeed)
	case p.ATRPeriod < 1:
		return fmt.Errorf("%w: atr_period %d", errInvalidParams, p.ATRPeriod)
	case p.ATRSmoothing != SmoothingSimple && p.ATRSmoothing != SmoothingWilder:
		return fmt.Errorf("%w: atr_smoothing %q", errInvalidParams, p.ATRSmoothing)
	case p.SwingRadius < 1:
		return fmt.Errorf("%w: swing_radius %d", errInvalidParams, p.SwingRadius)
	case p.SwingLimit < 1:
		return fmt.Errorf("%w: swing_limit %d", errInvalidParams, p.SwingLimit)
	case p.BufferPct < 0 || p.MinBuffer < 0:
		return fmt.Errorf("%w: negative buffer", errInvalidParams)
	case p.RangeBars < 0:
		return fmt.Errorf("%w: range_bars %d", errInvalidParams, p.RangeBars)
	}
	return nil
}

// Rule scales the instrument floor. The dashboards evaluate a full-floor and a half-floor rule side by side.
type Rule struct {
	Name   string  `yaml:"name"`
	Factor float64 `yaml:"factor"`
}

// DefaultRules returns the full (x1) and half (x0.5) floor rules.
func DefaultRules() []Rule {
	return []Rule{{Name: "full", Factor: 1}, {Name: "half", Factor: 0.5}}
}
