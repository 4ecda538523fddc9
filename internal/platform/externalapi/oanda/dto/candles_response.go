// Package dto defines data transfer objects for the OANDA API responses.
package dto

// CandlesResponse represents the JSON response of GET /v3/instruments/{instrument}/candles.
type CandlesResponse struct {
	Instrument  string   `json:"instrument"`
	Granularity string   `json:"granularity"`
	Candles     []Candle `json:"candles"`
}

// Candle is one bar with midpoint prices. Prices are decimal strings.
type Candle struct {
	Complete bool   `json:"complete"`
	Volume   int64  `json:"volume"`
	Time     string `json:"time"`
	Mid      *OHLC  `json:"mid,omitempty"`
}

type OHLC struct {
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
}

// ErrorResponse is the body OANDA returns with non-2xx statuses.
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}
