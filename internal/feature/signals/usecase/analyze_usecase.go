// Package usecase composes market data, the instrument catalog and the heuristic into analyses.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	insentity "fxsignal_backend/internal/feature/instruments/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/entity"
	"fxsignal_backend/internal/feature/signals/domain/heuristic"
)

const (
	sessionFromHour = 8
	sessionToHour   = 11
	gapsKept        = 12
	menuConcurrency = 4
)

// MarketRepository supplies candles oldest to newest.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetCandles(ctx context.Context, instrument string, g candle.Granularity, count int) ([]candle.Candle, error)
}

// InstrumentResolver looks instruments up in the catalog.
type InstrumentResolver interface {
	Resolve(ctx context.Context, key string) (*insentity.Instrument, error)
	ListActiveInstruments(ctx context.Context) ([]insentity.Instrument, error)
}

// ProfileSource returns the heuristic parameters of an instrument with its floor applied.
type ProfileSource interface {
	ParamsFor(ins insentity.Instrument) (heuristic.Params, error)
}

// JournalRepository persists produced candidates.
type JournalRepository interface {
	Record(ctx context.Context, entries []entity.JournalEntry) error
	ListRecent(ctx context.Context, instrument string, limit int) ([]entity.JournalEntry, error)
}

// Observer receives analysis metrics. nil disables them.
type Observer interface {
	ObserveAnalysis(instrument string, started time.Time, err error)
	ObserveRule(instrument, rule, reason string)
}

// Timeframes names the granularity playing each role in an analysis.
type Timeframes struct {
	Higher    candle.Granularity // primary trend and bias
	Reference candle.Granularity // ATR, swings, gaps, session high
	Confirm   candle.Granularity // must agree with Reference
	Finest    candle.Granularity // entry price and confirmation
	Count     int
}

// DefaultTimeframes is H1 / M15 / M5 / M1 with 200 bars each.
func DefaultTimeframes() Timeframes {
	return Timeframes{Higher: candle.H1, Reference: candle.M15, Confirm: candle.M5, Finest: candle.M1, Count: 200}
}

func (tf Timeframes) all() []candle.Granularity {
	return []candle.Granularity{tf.Higher, tf.Reference, tf.Confirm, tf.Finest}
}

// analyzeUsecase runs the multi-timeframe analysis for catalog instruments.
type analyzeUsecase struct {
	market      MarketRepository
	instruments InstrumentResolver
	profiles    ProfileSource
	rules       []heuristic.Rule
	journal     JournalRepository
	observer    Observer
	timeframes  Timeframes
	now         func() time.Time
	newYork     *time.Location
}

// NewAnalyzeUsecase creates the analysis usecase. journal and observer may be nil.
func NewAnalyzeUsecase(
	market MarketRepository,
	instruments InstrumentResolver,
	profiles ProfileSource,
	rules []heuristic.Rule,
	journal JournalRepository,
	observer Observer,
) *analyzeUsecase {
	if len(rules) == 0 {
		rules = heuristic.DefaultRules()
	}
	return &analyzeUsecase{
		market:      market,
		instruments: instruments,
		profiles:    profiles,
		rules:       rules,
		journal:     journal,
		observer:    observer,
		timeframes:  DefaultTimeframes(),
		now:         time.Now,
		newYork:     newYorkLocation(),
	}
}

var newYorkLocation = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		slog.Warn("tz database unavailable, using fixed EST offset", "error", err)
		return time.FixedZone("EST", -5*3600)
	}
	return loc
})

// Analyze resolves key (code or display name) and evaluates every floor rule plus the
// bias/reversal view for it.
func (u *analyzeUsecase) Analyze(ctx context.Context, key string) (a *entity.Analysis, err error) {
	started := time.Now()
	ins, err := u.instruments.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if u.observer != nil {
		defer func() { u.observer.ObserveAnalysis(ins.Code, started, err) }()
	}

	params, err := u.profiles.ParamsFor(*ins)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ins.Code, err)
	}

	series, err := u.fetch(ctx, ins.Code)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ins.Code, err)
	}

	a, err = u.evaluate(*ins, params, series)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ins.Code, err)
	}
	u.record(ctx, a, series[u.timeframes.Finest])
	return a, nil
}

// fetch loads every timeframe in parallel. Non-empty series must be well formed.
func (u *analyzeUsecase) fetch(ctx context.Context, code string) (map[candle.Granularity][]candle.Candle, error) {
	tfs := u.timeframes.all()
	results := make([][]candle.Candle, len(tfs))

	eg, ctx := errgroup.WithContext(ctx)
	for i, g := range tfs {
		eg.Go(func() error {
			cs, err := u.market.GetCandles(ctx, code, g, u.timeframes.Count)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", g, err)
			}
			if len(cs) > 0 {
				if err := candle.ValidateSeries(cs); err != nil {
					return fmt.Errorf("%s series: %w", g, err)
				}
			}
			results[i] = cs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[candle.Granularity][]candle.Candle, len(tfs))
	for i, g := range tfs {
		out[g] = results[i]
	}
	return out, nil
}

func (u *analyzeUsecase) evaluate(ins insentity.Instrument, p heuristic.Params, series map[candle.Granularity][]candle.Candle) (*entity.Analysis, error) {
	tf := u.timeframes
	ref, finest, higher := series[tf.Reference], series[tf.Finest], series[tf.Higher]

	a := &entity.Analysis{
		Instrument: ins.Code,
		Name:       ins.Name,
		Directions: make(map[candle.Granularity]entity.Direction, 4),
		Series:     ref,
		UpdatedAt:  u.now().UTC(),
	}
	for _, g := range tf.all() {
		a.Directions[g] = heuristic.Direction(series[g], p)
	}
	if len(finest) > 0 {
		a.Entry, a.HasEntry = finest[len(finest)-1].Close, true
	}
	a.Momentum = heuristic.MomentumOf(finest)
	a.PrimaryTrend = heuristic.PrimaryTrend(higher)
	a.ATR, a.HasATR = heuristic.ATR(ref, p.ATRPeriod, p.ATRSmoothing)
	a.Swings = heuristic.Swings(ref, p.SwingRadius, p.SwingLimit)

	for _, rule := range u.rules {
		res, err := u.evaluateRule(a, rule, p.WithMinDistance(ins.MinDistance*rule.Factor), finest)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		a.Rules = append(a.Rules, res)
		if u.observer != nil {
			u.observer.ObserveRule(ins.Code, rule.Name, string(res.Reason))
		}
	}

	a.Bias = heuristic.Bias(ref, higher)
	a.Reversal = heuristic.Reversal(heuristic.ReversalInput{
		Entry:     a.Entry,
		Bias:      a.Bias,
		Reference: ref,
		Finest:    finest,
		Medium:    a.Directions[tf.Confirm],
		FinestDir: a.Directions[tf.Finest],
	}, p)
	a.Instant = heuristic.Instant(finest)
	a.Gaps = heuristic.FairValueGaps(ref, gapsKept)
	a.SessionHigh, a.HasSession = heuristic.SessionHigh(ref, u.newYork, sessionFromHour, sessionToHour)
	return a, nil
}

func (u *analyzeUsecase) evaluateRule(a *entity.Analysis, rule heuristic.Rule, p heuristic.Params, finest []candle.Candle) (entity.RuleResult, error) {
	res := entity.RuleResult{Rule: rule.Name, MinDistance: p.MinDistance}
	if !a.HasEntry {
		res.Reason = entity.ReasonInsufficientHistory
		return res, nil
	}

	if p.RangeBars > 0 && len(finest) < p.RangeBars {
		res.Reason = entity.ReasonInsufficientHistory
		return res, nil
	}

	// agreement and the finest veto outrank the volatility filter
	tf := u.timeframes
	confirming := []entity.Direction{a.Directions[tf.Reference], a.Directions[tf.Confirm]}
	side := heuristic.Agreement(confirming)
	if side == entity.Unknown {
		res.Reason = entity.ReasonDisagreement
		return res, nil
	}
	if p.RequireFinestConfirmation && a.Directions[tf.Finest] != side {
		res.Reason = entity.ReasonUnconfirmed
		return res, nil
	}

	if p.RangeBars > 0 {
		span, ok := heuristic.RecentRange(finest, p.RangeBars)
		if !ok {
			res.Reason = entity.ReasonInsufficientHistory
			return res, nil
		}
		if span < p.MinDistance {
			res.Reason = entity.ReasonLowVolatility
			return res, nil
		}
	}

	out, err := heuristic.BuildCandidate(heuristic.CandidateInput{
		Confirming: confirming,
		Finest:     a.Directions[tf.Finest],
		Entry:      a.Entry,
		ATR:        a.ATR,
		HasATR:     a.HasATR,
		Swings:     a.Swings,
	}, p)
	if err != nil {
		return res, err
	}
	res.Candidate, res.Reason = out.Candidate, out.Reason
	return res, nil
}

// record journals produced candidates. Journal failures never fail the analysis.
func (u *analyzeUsecase) record(ctx context.Context, a *entity.Analysis, finest []candle.Candle) {
	if u.journal == nil || len(finest) == 0 {
		return
	}
	bar := finest[len(finest)-1].Time
	var entries []entity.JournalEntry
	for _, r := range a.Rules {
		if r.Candidate == nil {
			continue
		}
		c := r.Candidate
		entries = append(entries, entity.JournalEntry{
			Instrument: a.Instrument,
			Rule:       r.Rule,
			BarTime:    bar,
			Side:       c.Side,
			Entry:      c.Entry,
			TakeProfit: c.TakeProfit,
			StopLoss:   c.StopLoss,
			Confidence: c.Confidence,
			Confirmed:  c.Confirmed,
			CreatedAt:  a.UpdatedAt,
		})
	}
	if len(entries) == 0 {
		return
	}
	if err := u.journal.Record(ctx, entries); err != nil {
		slog.Error("failed to record signals", "instrument", a.Instrument, "error", err)
	}
}

// MenuStatus reports trade availability for every active instrument, keyed by code.
// A failing instrument is logged and reported as unavailable.
func (u *analyzeUsecase) MenuStatus(ctx context.Context) ([]entity.MenuItem, error) {
	instruments, err := u.instruments.ListActiveInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("menu status: %w", err)
	}

	items := make([]entity.MenuItem, len(instruments))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(menuConcurrency)
	for i, ins := range instruments {
		items[i] = entity.MenuItem{Instrument: ins.Code, Name: ins.Name}
		eg.Go(func() error {
			a, err := u.Analyze(egCtx, ins.Code)
			if err != nil {
				slog.Warn("menu status analysis failed", "instrument", ins.Code, "error", err)
				return nil
			}
			items[i].TradeAvailable = a.TradeAvailable()
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
