package entity

import "time"

// JournalEntry is one produced trade candidate as it was recorded.
// BarTime is the finest bar the entry price was taken from, so repeated polling
// within the same bar records a rule at most once.
type JournalEntry struct {
	Instrument string
	Rule       string
	BarTime    time.Time
	Side       Direction
	Entry      float64
	TakeProfit float64
	StopLoss   float64
	Confidence Confidence
	Confirmed  bool
	CreatedAt  time.Time
}
