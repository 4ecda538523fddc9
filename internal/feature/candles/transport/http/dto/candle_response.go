// Package dto defines data transfer objects for the candles HTTP API.
package dto

import (
	"time"

	"fxsignal_backend/internal/feature/candles/domain/entity"
)

// CandleResponse はロウソク足データのレスポンスDTOです。
type CandleResponse struct {
	Time     string  `json:"time"`   // RFC3339 (UTC)
	Open     float64 `json:"open"`   // 始値
	High     float64 `json:"high"`   // 高値
	Low      float64 `json:"low"`    // 安値
	Close    float64 `json:"close"`  // 終値
	Volume   int64   `json:"volume"` // 出来高
	Complete bool    `json:"complete"`
}

// CandlesResponse は1銘柄・1時間足のロウソク足一覧です。
type CandlesResponse struct {
	Instrument  string           `json:"instrument"`
	Granularity string           `json:"granularity"`
	Candles     []CandleResponse `json:"candles"`
}

// FromCandles はドメインのローソク足をレスポンスDTOに変換します。
func FromCandles(instrument string, g entity.Granularity, cs []entity.Candle) CandlesResponse {
	out := CandlesResponse{Instrument: instrument, Granularity: g.String(), Candles: make([]CandleResponse, 0, len(cs))}
	for _, x := range cs {
		out.Candles = append(out.Candles, CandleResponse{
			Time:     x.Time.UTC().Format(time.RFC3339),
			Open:     x.Open,
			High:     x.High,
			Low:      x.Low,
			Close:    x.Close,
			Volume:   x.Volume,
			Complete: x.Complete,
		})
	}
	return out
}
