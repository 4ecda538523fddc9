package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	insentity "fxsignal_backend/internal/feature/instruments/domain/entity"
	insusecase "fxsignal_backend/internal/feature/instruments/usecase"
	"fxsignal_backend/internal/feature/signals/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/heuristic"
)

var errMarket = errors.New("market API error")

var baseTime = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

type mockMarket struct {
	mu             sync.Mutex
	GetCandlesFunc func(ctx context.Context, instrument string, g candle.Granularity, count int) ([]candle.Candle, error)
	Requested      []candle.Granularity
}

func (m *mockMarket) GetCandles(ctx context.Context, instrument string, g candle.Granularity, count int) ([]candle.Candle, error) {
	m.mu.Lock()
	m.Requested = append(m.Requested, g)
	m.mu.Unlock()
	if m.GetCandlesFunc != nil {
		return m.GetCandlesFunc(ctx, instrument, g, count)
	}
	return nil, errors.New("GetCandlesFunc is not implemented")
}

type mockResolver struct {
	ResolveFunc    func(ctx context.Context, key string) (*insentity.Instrument, error)
	ListActiveFunc func(ctx context.Context) ([]insentity.Instrument, error)
	ListCodesFunc  func(ctx context.Context) ([]string, error)
}

func (m *mockResolver) Resolve(ctx context.Context, key string) (*insentity.Instrument, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, key)
	}
	return nil, insusecase.ErrInstrumentNotFound
}

func (m *mockResolver) ListActiveInstruments(ctx context.Context) ([]insentity.Instrument, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockResolver) ListActiveCodes(ctx context.Context) ([]string, error) {
	if m.ListCodesFunc != nil {
		return m.ListCodesFunc(ctx)
	}
	return nil, nil
}

// catalogOf resolves codes from a fixed list.
func catalogOf(list ...insentity.Instrument) *mockResolver {
	return &mockResolver{
		ResolveFunc: func(_ context.Context, key string) (*insentity.Instrument, error) {
			for i := range list {
				if list[i].Code == key {
					ins := list[i]
					return &ins, nil
				}
			}
			return nil, insusecase.ErrInstrumentNotFound
		},
		ListActiveFunc: func(context.Context) ([]insentity.Instrument, error) { return list, nil },
	}
}

type staticProfiles struct {
	params heuristic.Params
	err    error
}

func (s staticProfiles) ParamsFor(ins insentity.Instrument) (heuristic.Params, error) {
	if s.err != nil {
		return heuristic.Params{}, s.err
	}
	return s.params.WithMinDistance(ins.MinDistance), nil
}

type mockJournal struct {
	mu             sync.Mutex
	RecordFunc     func(ctx context.Context, entries []entity.JournalEntry) error
	ListRecentFunc func(ctx context.Context, instrument string, limit int) ([]entity.JournalEntry, error)
	Recorded       []entity.JournalEntry
}

func (m *mockJournal) Record(ctx context.Context, entries []entity.JournalEntry) error {
	m.mu.Lock()
	m.Recorded = append(m.Recorded, entries...)
	m.mu.Unlock()
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, entries)
	}
	return nil
}

func (m *mockJournal) ListRecent(ctx context.Context, instrument string, limit int) ([]entity.JournalEntry, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, instrument, limit)
	}
	return nil, nil
}

type recordingObserver struct {
	mu       sync.Mutex
	analyses map[string]error
	rules    []string
}

func (o *recordingObserver) ObserveAnalysis(instrument string, _ time.Time, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.analyses == nil {
		o.analyses = map[string]error{}
	}
	o.analyses[instrument] = err
}

func (o *recordingObserver) ObserveRule(instrument, rule, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rules = append(o.rules, instrument+"/"+rule+"/"+reason)
}

// trending returns n bars on g where every bar opens at the previous close and moves by step,
// so each true range is exactly |step|.
func trending(g candle.Granularity, n int, start, step float64) []candle.Candle {
	cs := make([]candle.Candle, n)
	for i := range cs {
		c := start + float64(i)*step
		o := c - step
		cs[i] = candle.Candle{Granularity: g, Time: baseTime.Add(time.Duration(i) * g.Duration()),
			Open: o, High: max(o, c), Low: min(o, c), Close: c, Complete: true}
	}
	return cs
}

// marketOf serves the same shape on every granularity.
func marketOf(n int, start, step float64) *mockMarket {
	return &mockMarket{GetCandlesFunc: func(_ context.Context, _ string, g candle.Granularity, _ int) ([]candle.Candle, error) {
		return trending(g, n, start, step), nil
	}}
}
