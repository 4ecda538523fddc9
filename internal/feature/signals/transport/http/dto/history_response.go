package dto

import (
	"time"

	"fxsignal_backend/internal/feature/signals/domain/entity"
)

// JournalEntryResponse は記録済みのトレード候補です。
type JournalEntryResponse struct {
	Rule      string            `json:"rule"`
	BarTime   string            `json:"bar_time"`
	CreatedAt string            `json:"created_at"`
	Candidate CandidateResponse `json:"candidate"`
}

type HistoryResponse struct {
	Instrument string                 `json:"instrument"`
	Entries    []JournalEntryResponse `json:"entries"`
}

func FromJournal(instrument string, entries []entity.JournalEntry) HistoryResponse {
	out := HistoryResponse{Instrument: instrument, Entries: make([]JournalEntryResponse, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, JournalEntryResponse{
			Rule:      e.Rule,
			BarTime:   formatTime(e.BarTime),
			CreatedAt: formatTime(e.CreatedAt),
			Candidate: CandidateResponse{
				Side:       string(e.Side),
				Entry:      e.Entry,
				TakeProfit: e.TakeProfit,
				StopLoss:   e.StopLoss,
				Confidence: string(e.Confidence),
				Confirmed:  e.Confirmed,
			},
		})
	}
	return out
}

// ToJournal はFromJournalの逆変換です。時刻はRFC3339の秒精度で戻ります。
func (h HistoryResponse) ToJournal() ([]entity.JournalEntry, error) {
	out := make([]entity.JournalEntry, 0, len(h.Entries))
	for _, r := range h.Entries {
		bar, err := time.Parse(time.RFC3339, r.BarTime)
		if err != nil {
			return nil, err
		}
		created, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return nil, err
		}
		c := r.Candidate.ToCandidate()
		out = append(out, entity.JournalEntry{
			Instrument: h.Instrument,
			Rule:       r.Rule,
			BarTime:    bar.UTC(),
			Side:       c.Side,
			Entry:      c.Entry,
			TakeProfit: c.TakeProfit,
			StopLoss:   c.StopLoss,
			Confidence: c.Confidence,
			Confirmed:  c.Confirmed,
			CreatedAt:  created.UTC(),
		})
	}
	return out, nil
}
