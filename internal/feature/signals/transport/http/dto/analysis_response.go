// Package dto defines data transfer objects for the signals HTTP API.
package dto

import (
	"time"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
)

// CandidateResponse はトレード候補です。
type CandidateResponse struct {
	Side       string  `json:"side"`
	Entry      float64 `json:"entry"`
	TakeProfit float64 `json:"take_profit"`
	StopLoss   float64 `json:"stop_loss"`
	Confidence string  `json:"confidence"`
	Confirmed  bool    `json:"confirmed"`
}

// RuleResponse は1つの距離ルールの結果です。candidateはreasonが"ok"の時だけ入ります。
type RuleResponse struct {
	Rule        string             `json:"rule"`
	MinDistance float64            `json:"min_distance"`
	Reason      string             `json:"reason"`
	Candidate   *CandidateResponse `json:"candidate"`
}

type ReversalResponse struct {
	Reason     string             `json:"reason"`
	Score      int                `json:"score"`
	Confidence string             `json:"confidence"`
	Candidate  *CandidateResponse `json:"candidate"`
}

// InstantResponse は包み足シグナルです。directionは"None"の時に価格以外がnullになります。
type InstantResponse struct {
	Direction  string   `json:"direction"`
	Price      *float64 `json:"price"`
	TakeProfit *float64 `json:"take_profit"`
	StopLoss   *float64 `json:"stop_loss"`
	RiskReward *float64 `json:"risk_reward"`
}

type SwingResponse struct {
	Kind  string  `json:"kind"`
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

type GapResponse struct {
	Kind  string  `json:"kind"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
}

// ChartPoint はチャート表示用の終値です。
type ChartPoint struct {
	Time  string  `json:"time"`
	Close float64 `json:"close"`
}

// AnalysisResponse は1銘柄の分析結果です。値がない項目はnullになります。
type AnalysisResponse struct {
	Instrument     string            `json:"instrument"`
	Name           string            `json:"name"`
	Entry          *float64          `json:"entry"`
	Directions     map[string]string `json:"directions"`
	Momentum       string            `json:"momentum"`
	PrimaryTrend   string            `json:"primary_trend"`
	ATR            *float64          `json:"atr"`
	Rules          []RuleResponse    `json:"rules"`
	TradeAvailable bool              `json:"trade_available"`
	Bias           string            `json:"bias"`
	Reversal       ReversalResponse  `json:"reversal"`
	Instant        InstantResponse   `json:"instant"`
	Swings         []SwingResponse   `json:"swings"`
	Gaps           []GapResponse     `json:"gaps"`
	SessionHigh    *float64          `json:"session_high"`
	Range          string            `json:"range,omitempty"`
	Chart          []ChartPoint      `json:"chart"`
	Updated        string            `json:"updated"`
}

func ptr(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FromInstant は発生していないシグナルを"None"として返します。
func FromInstant(s entity.InstantSignal) InstantResponse {
	out := InstantResponse{Direction: "None", Price: ptr(s.Price, s.HasPrice)}
	if s.Triggered() {
		out.Direction = string(s.Side)
		out.TakeProfit = ptr(s.TakeProfit, true)
		out.StopLoss = ptr(s.StopLoss, true)
		out.RiskReward = ptr(s.RiskReward, true)
	}
	return out
}

// FromCandidate はnilをnilのまま返します。
func FromCandidate(c *entity.TradeCandidate) *CandidateResponse {
	if c == nil {
		return nil
	}
	return &CandidateResponse{
		Side:       string(c.Side),
		Entry:      c.Entry,
		TakeProfit: c.TakeProfit,
		StopLoss:   c.StopLoss,
		Confidence: string(c.Confidence),
		Confirmed:  c.Confirmed,
	}
}

// ToCandidate はFromCandidateの逆変換です。
func (c *CandidateResponse) ToCandidate() *entity.TradeCandidate {
	if c == nil {
		return nil
	}
	return &entity.TradeCandidate{
		Side:       entity.Direction(c.Side),
		Entry:      c.Entry,
		TakeProfit: c.TakeProfit,
		StopLoss:   c.StopLoss,
		Confidence: entity.Confidence(c.Confidence),
		Confirmed:  c.Confirmed,
	}
}

// FromAnalysis はドメインの分析結果をレスポンスDTOに変換します。スライスは空でもnullになりません。
func FromAnalysis(a *entity.Analysis) AnalysisResponse {
	out := AnalysisResponse{
		Instrument:     a.Instrument,
		Name:           a.Name,
		Entry:          ptr(a.Entry, a.HasEntry),
		Directions:     make(map[string]string, len(a.Directions)),
		Momentum:       string(a.Momentum),
		PrimaryTrend:   string(a.PrimaryTrend),
		ATR:            ptr(a.ATR, a.HasATR),
		Rules:          make([]RuleResponse, 0, len(a.Rules)),
		TradeAvailable: a.TradeAvailable(),
		Bias:           string(a.Bias),
		Reversal: ReversalResponse{
			Reason:     string(a.Reversal.Reason),
			Score:      a.Reversal.ConfidenceScore,
			Confidence: string(a.Reversal.Confidence),
			Candidate:  FromCandidate(a.Reversal.Candidate),
		},
		Instant:     FromInstant(a.Instant),
		Swings:      make([]SwingResponse, 0, len(a.Swings)),
		Gaps:        make([]GapResponse, 0, len(a.Gaps)),
		SessionHigh: ptr(a.SessionHigh, a.HasSession),
		Chart:       FromSeries(a.Series),
		Updated:     formatTime(a.UpdatedAt),
	}
	for g, d := range a.Directions {
		out.Directions[g.String()] = string(d)
	}
	for _, r := range a.Rules {
		out.Rules = append(out.Rules, RuleResponse{
			Rule:        r.Rule,
			MinDistance: r.MinDistance,
			Reason:      string(r.Reason),
			Candidate:   FromCandidate(r.Candidate),
		})
	}
	for _, s := range a.Swings {
		out.Swings = append(out.Swings, SwingResponse{Kind: string(s.Kind), Time: formatTime(s.Time), Price: s.Price})
	}
	for _, g := range a.Gaps {
		out.Gaps = append(out.Gaps, GapResponse{
			Kind: string(g.Kind), Start: formatTime(g.Start), End: formatTime(g.End), Low: g.Low, High: g.High,
		})
	}
	return out
}

// WithRange はチャート系列を最終足から遡った期間に絞ります。
func (r AnalysisResponse) WithRange(a *entity.Analysis, rng entity.ChartRange) AnalysisResponse {
	r.Range = string(rng)
	r.Chart = FromSeries(rng.Slice(a.Series))
	return r
}

// FromSeries は終値だけのチャート系列を作ります。
func FromSeries(cs []candle.Candle) []ChartPoint {
	out := make([]ChartPoint, 0, len(cs))
	for _, c := range cs {
		out = append(out, ChartPoint{Time: formatTime(c.Time), Close: c.Close})
	}
	return out
}
