package heuristic

import (
	"errors"
	"fmt"
	"math"

	"fxsignal_backend/internal/feature/signals/domain/entity"
)

// ErrInvalidInput is returned for inputs the builder refuses to interpret.
var ErrInvalidInput = errors.New("invalid candidate input")

// CandidateInput carries everything the builder needs; it does no fetching of its own.
type CandidateInput struct {
	// Confirming holds the signals that must agree, e.g. the 15-minute and 5-minute directions.
	Confirming []entity.Direction
	// Finest is the finest-granularity signal, Unknown when unavailable.
	Finest entity.Direction
	Entry  float64
	ATR    float64
	HasATR bool
	Swings []entity.SwingLevel
}

// Outcome is the builder result. Candidate is nil unless Reason is ReasonOK.
type Outcome struct {
	Candidate *entity.TradeCandidate
	Reason    entity.Reason
}

// Agreement returns the common side of all confirming signals, or Unknown when they disagree,
// when fewer than two are given, or when any of them is Neutral or Unknown.
func Agreement(signals []entity.Direction) entity.Direction {
	if len(signals) < 2 {
		return entity.Unknown
	}
	side := signals[0]
	if !side.Tradable() {
		return entity.Unknown
	}
	for _, s := range signals[1:] {
		if s != side {
			return entity.Unknown
		}
	}
	return side
}

// Buffer is the distance kept between a swing level and a take-profit placed on it.
func Buffer(entry float64, p Params) float64 {
	return math.Max(math.Abs(entry)*p.BufferPct, p.MinBuffer)
}

// BuildCandidate sizes a take-profit/stop-loss pair for the agreed side.
//
//  1. all confirming signals must be the same tradable side, else ReasonDisagreement;
//  2. base distance = max(floor, floor+ATR);
//  3. the nearest swing level that still lies beyond the base distance after the buffer offset
//     becomes the take-profit, otherwise entry ± base distance;
//  4. stop-loss distance = ATR when positive, else half the base distance;
//  5. a take-profit closer than the floor yields ReasonTargetTooSmall;
//  6. a finest signal that differs from the side yields ReasonUnconfirmed when
//     p.RequireFinestConfirmation is set, otherwise the candidate is marked unconfirmed.
//
// Errors are reserved for malformed input; every "no trade" result is an Outcome.
func BuildCandidate(in CandidateInput, p Params) (Outcome, error) {
	if math.IsNaN(in.Entry) || math.IsInf(in.Entry, 0) || in.Entry <= 0 {
		return Outcome{}, fmt.Errorf("%w: entry %g", ErrInvalidInput, in.Entry)
	}
	if math.IsNaN(p.MinDistance) || p.MinDistance <= 0 {
		return Outcome{}, fmt.Errorf("%w: min distance %g", ErrInvalidInput, p.MinDistance)
	}

	side := Agreement(in.Confirming)
	if side == entity.Unknown {
		return Outcome{Reason: entity.ReasonDisagreement}, nil
	}

	atr := 0.0
	if in.HasATR && in.ATR > 0 && !math.IsInf(in.ATR, 0) {
		atr = in.ATR
	}
	floor := p.MinDistance
	base := math.Max(floor, floor+atr)
	buffer := Buffer(in.Entry, p)
	sign := side.Sign()

	tp := in.Entry + sign*base
	usedSwing := false
	best := math.Inf(1)
	for _, s := range in.Swings {
		var target float64
		switch {
		case side == entity.Buy && s.Kind == entity.Resistance:
			target = s.Price - buffer
		case side == entity.Sell && s.Kind == entity.Support:
			target = s.Price + buffer
		default:
			continue
		}
		dist := sign * (target - in.Entry)
		if dist >= base && dist < best {
			best = dist
			tp = target
			usedSwing = true
		}
	}

	slDist := base / 2
	if atr > 0 {
		slDist = atr
	}
	sl := in.Entry - sign*slDist

	if sign*(tp-in.Entry) < floor {
		return Outcome{Reason: entity.ReasonTargetTooSmall}, nil
	}

	confirmed := in.Finest == side
	if !confirmed && p.RequireFinestConfirmation {
		return Outcome{Reason: entity.ReasonUnconfirmed}, nil
	}

	return Outcome{
		Candidate: &entity.TradeCandidate{
			Side:       side,
			Entry:      in.Entry,
			TakeProfit: tp,
			StopLoss:   sl,
			Confidence: gradeCandidate(confirmed, usedSwing),
			Confirmed:  confirmed,
		},
		Reason: entity.ReasonOK,
	}, nil
}

// gradeCandidate rates a candidate by how much independent structure backs it.
func gradeCandidate(confirmed, swingTarget bool) entity.Confidence {
	switch {
	case confirmed && swingTarget:
		return entity.ConfidenceHigh
	case confirmed:
		return entity.ConfidenceMedium
	default:
		return entity.ConfidenceLow
	}
}
