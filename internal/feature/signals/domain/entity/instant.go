package entity

// InstantSignal is the single-bar engulfing setup on the finest granularity.
// Side is Buy or Sell when the pattern fired, Neutral when it did not and Unknown
// when the series is too short. Levels are zero unless the pattern fired.
type InstantSignal struct {
	Side       Direction
	Price      float64
	HasPrice   bool
	TakeProfit float64
	StopLoss   float64
	RiskReward float64
}

// Triggered reports whether the signal carries levels.
func (s InstantSignal) Triggered() bool {
	return s.Side.Tradable()
}
