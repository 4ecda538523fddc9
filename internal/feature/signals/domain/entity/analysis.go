package entity

import (
	"time"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
)

// Bias is the higher-timeframe market lean.
type Bias string

const (
	BiasLong     Bias = "LONG"
	BiasShort    Bias = "SHORT"
	BiasSideways Bias = "SIDEWAYS"
)

// Momentum compares the last two closes of a sequence.
type Momentum string

const (
	MomentumUp   Momentum = "Up"
	MomentumDown Momentum = "Down"
	MomentumFlat Momentum = "Flat"
	MomentumNone Momentum = ""
)

// GapKind is the side of a fair value gap.
type GapKind string

const (
	GapBullish GapKind = "bullish"
	GapBearish GapKind = "bearish"
)

// FairValueGap is the price void left between bar i-2 and bar i.
type FairValueGap struct {
	Kind  GapKind
	Start time.Time
	End   time.Time
	Low   float64
	High  float64
}

// RuleResult is the outcome of one floor rule.
type RuleResult struct {
	Rule        string
	MinDistance float64
	Candidate   *TradeCandidate
	Reason      Reason
}

// ReversalResult is the outcome of the bias-aligned reversal setup.
type ReversalResult struct {
	Candidate       *TradeCandidate
	Reason          Reason
	ConfidenceScore int
	Confidence      Confidence
}

// Analysis is everything computed for one instrument in one pass.
type Analysis struct {
	Instrument   string
	Name         string
	Entry        float64
	HasEntry     bool
	Directions   map[candle.Granularity]Direction
	Momentum     Momentum
	PrimaryTrend Direction
	ATR          float64
	HasATR       bool
	Swings       []SwingLevel
	Rules        []RuleResult
	Bias         Bias
	Reversal     ReversalResult
	Instant      InstantSignal
	Gaps         []FairValueGap
	SessionHigh  float64
	HasSession   bool
	Series       []candle.Candle // reference granularity, for charting
	UpdatedAt    time.Time
}

// TradeAvailable reports whether any floor rule produced a candidate.
func (a Analysis) TradeAvailable() bool {
	for _, r := range a.Rules {
		if r.Candidate != nil {
			return true
		}
	}
	return false
}
