package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	candleadapters "fxsignal_backend/internal/feature/candles/adapters"
	candleusecase "fxsignal_backend/internal/feature/candles/usecase"
	insusecase "fxsignal_backend/internal/feature/instruments/usecase"
	"fxsignal_backend/internal/platform/cache"
	"fxsignal_backend/internal/platform/config"
	"fxsignal_backend/internal/platform/metrics"
	"fxsignal_backend/internal/shared/ratelimiter"
)

// Ingestor は履歴取り込みのワンショット処理です。
type Ingestor struct {
	DB          *gorm.DB
	Usecase     *candleusecase.IngestUsecase
	Instruments *insusecase.InstrumentUsecase
	Provider    string
	// Registry は取り込み件数などの集計を保持します。ワンショット処理なので終了時にログへ出します。
	Registry *prometheus.Registry
}

// NewIngestor はingestコマンド用の依存を組み立てます。書き込みは共有キャッシュ（Redis）の履歴を無効化します。
func NewIngestor(ctx context.Context, cfg *config.Config) (*Ingestor, error) {
	gdb, err := OpenDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	_, insUC, err := LoadCatalog(ctx, cfg, gdb)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	market, err := NewMarket(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := NewStore(NewRedis(ctx, cfg))
	repo := cache.NewCachingCandleRepository(store, candleCacheTTL,
		observedCandles{CandleRepository: candleadapters.NewCandleRepository(gdb), metrics: m}, "candles")
	live := NewInstrumentedMarket(market.Repo, market.Info.Name, nil, m)
	limiter := ratelimiter.NewRateLimiter(market.Info.Name, cfg.ProviderRatePerMin, time.Minute)

	return &Ingestor{
		DB:          gdb,
		Usecase:     candleusecase.NewIngestUsecase(live, repo, limiter),
		Instruments: insUC,
		Provider:    market.Info.Name,
		Registry:    reg,
	}, nil
}

// Run は全アクティブ銘柄を取り込みます。
func (i *Ingestor) Run(ctx context.Context) (candleusecase.IngestResult, error) {
	codes, err := i.Instruments.ListActiveCodes(ctx)
	if err != nil {
		return candleusecase.IngestResult{}, fmt.Errorf("list instruments: %w", err)
	}
	return i.Usecase.IngestAll(ctx, codes)
}

// IngestedCounts は時間足ごとの書き込み本数を返します。
func (i *Ingestor) IngestedCounts() map[string]float64 {
	out := map[string]float64{}
	families, err := i.Registry.Gather()
	if err != nil {
		return out
	}
	for _, f := range families {
		if f.GetName() != "fxsignal_ingested_candles_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "granularity" {
					out[l.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	return out
}
