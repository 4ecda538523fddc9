// Package entity defines the value objects produced by the signals feature.
package entity

import "time"

// Direction is the trend label derived for one granularity.
type Direction string

const (
	Buy     Direction = "BUY"
	Sell    Direction = "SELL"
	Neutral Direction = "NEUTRAL" // computed tie
	Unknown Direction = "UNKNOWN" // insufficient history
)

// Tradable reports whether d names a side a candidate can be built for.
func (d Direction) Tradable() bool {
	return d == Buy || d == Sell
}

// Sign is +1 for Buy, -1 for Sell and 0 otherwise.
func (d Direction) Sign() float64 {
	switch d {
	case Buy:
		return 1
	case Sell:
		return -1
	}
	return 0
}

// Confidence grades a candidate.
type Confidence string

const (
	ConfidenceNone   Confidence = ""
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// SwingKind tells whether a swing level is a local minimum or maximum.
type SwingKind string

const (
	Support    SwingKind = "support"
	Resistance SwingKind = "resistance"
)

// SwingLevel is a local price extremum found within a bounded window.
type SwingLevel struct {
	Kind  SwingKind
	Index int // position in the source sequence
	Time  time.Time
	Price float64
}

// TradeCandidate is a proposed trade. It is never shared; the builder hands it to its caller.
type TradeCandidate struct {
	Side       Direction
	Entry      float64
	TakeProfit float64
	StopLoss   float64
	Confidence Confidence
	Confirmed  bool // finest granularity agreed with Side
}

// TargetDistance is the absolute distance between entry and take-profit.
func (c TradeCandidate) TargetDistance() float64 {
	if c.TakeProfit > c.Entry {
		return c.TakeProfit - c.Entry
	}
	return c.Entry - c.TakeProfit
}

// Reason tags the outcome of a candidate computation.
type Reason string

const (
	ReasonOK                  Reason = "ok"
	ReasonDisagreement        Reason = "disagreement"
	ReasonTargetTooSmall      Reason = "target_too_small"
	ReasonUnconfirmed         Reason = "unconfirmed"
	ReasonInsufficientHistory Reason = "insufficient_history"
	ReasonLowVolatility       Reason = "low_volatility"
	ReasonNoSwings            Reason = "no_swings"
	ReasonBiasSideways        Reason = "bias_sideways"
	ReasonNoLongSetup         Reason = "no_long_conditions"
	ReasonNoShortSetup        Reason = "no_short_conditions"
)
