package entity

// MenuItem is the per-instrument availability shown on the dashboard menu.
type MenuItem struct {
	Instrument     string
	Name           string
	TradeAvailable bool
}
