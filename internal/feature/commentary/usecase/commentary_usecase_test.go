package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/commentary/usecase"
	insusecase "fxsignal_backend/internal/feature/instruments/usecase"
	sentity "fxsignal_backend/internal/feature/signals/domain/entity"
)

// ErrAPI はモックと期待値の間で共有されるセンチネルエラーです。
var ErrAPI = errors.New("api error")

type mockAnalysisSource struct {
	AnalyzeFunc func(ctx context.Context, key string) (*sentity.Analysis, error)
}

func (m *mockAnalysisSource) Analyze(ctx context.Context, key string) (*sentity.Analysis, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, key)
	}
	return nil, errors.New("AnalyzeFunc is not implemented")
}

// mockAnalyzer はAnalyzerインターフェースのモック実装です。
type mockAnalyzer struct {
	AnalyzeFunc  func(ctx context.Context, prompt string) (string, error)
	AnalyzeCalls int
	LastPrompt   string
}

func (m *mockAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	m.AnalyzeCalls++
	m.LastPrompt = prompt
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, prompt)
	}
	return "", errors.New("AnalyzeFunc is not implemented")
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return b, ok
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

var asOf = time.Date(2025, 1, 2, 14, 0, 0, 0, time.UTC)

func goldAnalysis() *sentity.Analysis {
	return &sentity.Analysis{
		Instrument: "XAU_USD",
		Name:       "Gold (XAU/USD)",
		Entry:      2000,
		HasEntry:   true,
		Directions: map[candle.Granularity]sentity.Direction{
			candle.M1: sentity.Buy, candle.H1: sentity.Sell, candle.M15: sentity.Buy,
		},
		ATR:    2.5,
		HasATR: true,
		Rules: []sentity.RuleResult{
			{Rule: "full", MinDistance: 10, Reason: sentity.ReasonTargetTooSmall},
			{Rule: "half", MinDistance: 5, Reason: sentity.ReasonOK, Candidate: &sentity.TradeCandidate{
				Side: sentity.Buy, Entry: 2000, TakeProfit: 2007.5, StopLoss: 1997.5, Confidence: sentity.ConfidenceMedium}},
		},
		Bias:      sentity.BiasSideways,
		Series:    []candle.Candle{{Time: asOf.Add(-time.Minute), Close: 2000}},
		UpdatedAt: asOf,
	}
}

func TestBuildPrompt(t *testing.T) {
	p := usecase.BuildPrompt(goldAnalysis())

	assert.Contains(t, p, "Gold (XAU/USD) (XAU_USD)")
	assert.Contains(t, p, "Last price: 2000")
	assert.Contains(t, p, "Rule full (min distance 10): no trade (target_too_small)")
	assert.Contains(t, p, "Rule half (min distance 5): BUY entry 2000 take-profit 2007.5 stop-loss 1997.5 confidence Medium")
	assert.Contains(t, p, "ATR: 2.5")

	h1 := strings.Index(p, "Trend H1")
	m15 := strings.Index(p, "Trend M15")
	m1 := strings.Index(p, "Trend M1:")
	require.True(t, h1 >= 0 && m15 >= 0 && m1 >= 0)
	assert.Less(t, h1, m15)
	assert.Less(t, m15, m1)
}

func TestCommentaryUsecase_Explain(t *testing.T) {
	ctx := context.Background()

	t.Run("analyzer disabled", func(t *testing.T) {
		src := &mockAnalysisSource{}
		u := usecase.NewCommentaryUsecase(src, nil, nil, 0)

		_, err := u.Explain(ctx, "XAU_USD")
		assert.ErrorIs(t, err, usecase.ErrCommentaryUnavailable)
	})

	t.Run("analysis error passes through", func(t *testing.T) {
		src := &mockAnalysisSource{AnalyzeFunc: func(context.Context, string) (*sentity.Analysis, error) {
			return nil, insusecase.ErrInstrumentNotFound
		}}
		ai := &mockAnalyzer{}
		u := usecase.NewCommentaryUsecase(src, ai, nil, 0)

		_, err := u.Explain(ctx, "DOGE")
		assert.ErrorIs(t, err, insusecase.ErrInstrumentNotFound)
		assert.Zero(t, ai.AnalyzeCalls)
	})

	t.Run("generates and caches per bar", func(t *testing.T) {
		src := &mockAnalysisSource{AnalyzeFunc: func(context.Context, string) (*sentity.Analysis, error) {
			return goldAnalysis(), nil
		}}
		ai := &mockAnalyzer{AnalyzeFunc: func(context.Context, string) (string, error) {
			return "  Gold leans higher on the short timeframes.\n", nil
		}}
		cache := newMapCache()
		u := usecase.NewCommentaryUsecase(src, ai, cache, 0)

		got, err := u.Explain(ctx, "XAU_USD")
		require.NoError(t, err)
		assert.Equal(t, "XAU_USD", got.Instrument)
		assert.Equal(t, "Gold (XAU/USD)", got.Name)
		assert.Equal(t, "Gold leans higher on the short timeframes.", got.Summary)
		assert.Equal(t, asOf, got.AsOf)

		again, err := u.Explain(ctx, "XAU_USD")
		require.NoError(t, err)
		assert.Equal(t, got.Summary, again.Summary)
		assert.Equal(t, 1, ai.AnalyzeCalls)
		assert.Equal(t, usecase.DefaultCacheTTL, cache.ttls["commentary:XAU_USD:2025-01-02T13:59:00Z"])
	})

	t.Run("analyzer failure", func(t *testing.T) {
		src := &mockAnalysisSource{AnalyzeFunc: func(context.Context, string) (*sentity.Analysis, error) {
			return goldAnalysis(), nil
		}}
		ai := &mockAnalyzer{AnalyzeFunc: func(context.Context, string) (string, error) { return "", ErrAPI }}
		cache := newMapCache()
		u := usecase.NewCommentaryUsecase(src, ai, cache, time.Minute)

		_, err := u.Explain(ctx, "XAU_USD")
		assert.ErrorIs(t, err, ErrAPI)
		assert.Empty(t, cache.data)
	})

	t.Run("blank response is an error", func(t *testing.T) {
		src := &mockAnalysisSource{AnalyzeFunc: func(context.Context, string) (*sentity.Analysis, error) {
			return goldAnalysis(), nil
		}}
		ai := &mockAnalyzer{AnalyzeFunc: func(context.Context, string) (string, error) { return " \n", nil }}
		u := usecase.NewCommentaryUsecase(src, ai, nil, 0)

		_, err := u.Explain(ctx, "XAU_USD")
		assert.Error(t, err)
	})
}
