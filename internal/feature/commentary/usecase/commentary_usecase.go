// Package usecase はcommentaryフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/commentary/domain/entity"
	sentity "fxsignal_backend/internal/feature/signals/domain/entity"
)

// ErrCommentaryUnavailable はAI解説が無効化されている場合に返されます。
var ErrCommentaryUnavailable = errors.New("commentary unavailable")

// DefaultCacheTTL は同じ足に対する解説を再利用する期間です。
const DefaultCacheTTL = 5 * time.Minute

// AnalysisSource は銘柄の分析結果を提供します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type AnalysisSource interface {
	Analyze(ctx context.Context, key string) (*sentity.Analysis, error)
}

// Analyzer はプロンプトから文章を生成します。
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// SummaryCache は生成済みの解説を保持します。
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type commentaryUsecase struct {
	analyses AnalysisSource
	analyzer Analyzer
	cache    SummaryCache
	ttl      time.Duration
}

// NewCommentaryUsecase はcommentaryUsecaseを生成します。analyzerがnilの場合は常にErrCommentaryUnavailableを返し、
// cacheがnilの場合は毎回生成します。
func NewCommentaryUsecase(analyses AnalysisSource, analyzer Analyzer, cache SummaryCache, ttl time.Duration) *commentaryUsecase {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &commentaryUsecase{analyses: analyses, analyzer: analyzer, cache: cache, ttl: ttl}
}

// Explain は銘柄の最新分析を取得し、その要約を生成します。
func (u *commentaryUsecase) Explain(ctx context.Context, key string) (*entity.Commentary, error) {
	if u.analyzer == nil {
		return nil, ErrCommentaryUnavailable
	}
	a, err := u.analyses.Analyze(ctx, key)
	if err != nil {
		return nil, err
	}

	out := &entity.Commentary{Instrument: a.Instrument, Name: a.Name, AsOf: a.UpdatedAt}
	cacheKey := summaryKey(a)
	if u.cache != nil {
		if b, ok := u.cache.Get(ctx, cacheKey); ok {
			out.Summary = string(b)
			return out, nil
		}
	}

	summary, err := u.analyzer.Analyze(ctx, BuildPrompt(a))
	if err != nil {
		return nil, fmt.Errorf("commentary for %s: %w", a.Instrument, err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, fmt.Errorf("commentary for %s: empty response", a.Instrument)
	}
	if u.cache != nil {
		if err := u.cache.Set(ctx, cacheKey, []byte(summary), u.ttl); err != nil {
			slog.Warn("failed to cache commentary", "instrument", a.Instrument, "error", err)
		}
	}
	out.Summary = summary
	return out, nil
}

// summaryKey は最新足が変わるまで同じキーになります。
func summaryKey(a *sentity.Analysis) string {
	bar := "none"
	if n := len(a.Series); n > 0 {
		bar = a.Series[n-1].Time.UTC().Format(time.RFC3339)
	}
	return "commentary:" + a.Instrument + ":" + bar
}

// BuildPrompt は分析結果を要約依頼のプロンプトに変換します。数値の判断はすでに済んでいるため、
// モデルには説明だけを求めます。
func BuildPrompt(a *sentity.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize this market read for %s (%s) in at most four short sentences for a retail trader. ", a.Name, a.Instrument)
	b.WriteString("Do not give financial advice and do not invent numbers.\n")
	if a.HasEntry {
		fmt.Fprintf(&b, "Last price: %g\n", a.Entry)
	}

	gs := make([]candle.Granularity, 0, len(a.Directions))
	for g := range a.Directions {
		gs = append(gs, g)
	}
	// 長い時間足から並べる
	slices.SortFunc(gs, func(x, y candle.Granularity) int { return int(y.Duration() - x.Duration()) })
	for _, g := range gs {
		fmt.Fprintf(&b, "Trend %s: %s\n", g, a.Directions[g])
	}

	fmt.Fprintf(&b, "Bias: %s\n", a.Bias)
	if a.HasATR {
		fmt.Fprintf(&b, "ATR: %g\n", a.ATR)
	}
	for _, r := range a.Rules {
		if c := r.Candidate; c != nil {
			fmt.Fprintf(&b, "Rule %s (min distance %g): %s entry %g take-profit %g stop-loss %g confidence %s\n",
				r.Rule, r.MinDistance, c.Side, c.Entry, c.TakeProfit, c.StopLoss, c.Confidence)
			continue
		}
		fmt.Fprintf(&b, "Rule %s (min distance %g): no trade (%s)\n", r.Rule, r.MinDistance, r.Reason)
	}
	if c := a.Reversal.Candidate; c != nil {
		fmt.Fprintf(&b, "Reversal setup: %s take-profit %g stop-loss %g confidence %s\n", c.Side, c.TakeProfit, c.StopLoss, a.Reversal.Confidence)
	}
	if a.HasSession {
		fmt.Fprintf(&b, "New York morning session high: %g\n", a.SessionHigh)
	}
	return b.String()
}
