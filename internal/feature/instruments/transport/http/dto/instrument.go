// Package dto defines data transfer objects for the instruments HTTP API.
package dto

import "fxsignal_backend/internal/feature/instruments/domain/entity"

// InstrumentItem represents an instrument in the API response.
type InstrumentItem struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Class       string  `json:"class"`
	MinDistance float64 `json:"min_distance"`
	Profile     string  `json:"profile"`
}

// FromInstruments converts entities to response items, never returning nil.
func FromInstruments(instruments []entity.Instrument) []InstrumentItem {
	out := make([]InstrumentItem, 0, len(instruments))
	for _, ins := range instruments {
		out = append(out, InstrumentItem{
			Code:        ins.Code,
			Name:        ins.Name,
			Class:       ins.Class,
			MinDistance: ins.MinDistance,
			Profile:     ins.Profile,
		})
	}
	return out
}
