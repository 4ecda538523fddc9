// Package dto defines data transfer objects for the Alpha Vantage API responses.
package dto

import (
	"encoding/json"
	"strings"
)

// Bar is one entry of an FX time series. Prices are decimal strings.
type Bar struct {
	Open  string `json:"1. open"`
	High  string `json:"2. high"`
	Low   string `json:"3. low"`
	Close string `json:"4. close"`
}

// TimeSeriesResponse holds a decoded FX_INTRADAY or FX_DAILY payload.
// The series key varies by function and interval ("Time Series FX (15min)", "Time Series FX (Daily)"),
// so it is located by prefix after decoding.
type TimeSeriesResponse struct {
	Note         string
	Information  string
	ErrorMessage string
	Series       map[string]Bar
}

func (r *TimeSeriesResponse) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		var err error
		switch {
		case k == "Note":
			err = json.Unmarshal(v, &r.Note)
		case k == "Information":
			err = json.Unmarshal(v, &r.Information)
		case k == "Error Message":
			err = json.Unmarshal(v, &r.ErrorMessage)
		case strings.Contains(k, "Time Series"):
			err = json.Unmarshal(v, &r.Series)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Problem returns the first provider-side message explaining a missing series.
func (r *TimeSeriesResponse) Problem() string {
	for _, s := range []string{r.ErrorMessage, r.Note, r.Information} {
		if s != "" {
			return s
		}
	}
	return ""
}
