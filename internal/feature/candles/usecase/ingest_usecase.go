package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/shared/ratelimiter"
)

const (
	ingestCount       = 500 // 1回のリクエストで取得する本数
	ingestConcurrency = 2   // 同時に処理する銘柄数
)

// ingestGranularities はデータ取得の対象となる時間足のリストです。
var ingestGranularities = []entity.Granularity{entity.H1, entity.M15, entity.M5, entity.M1}

// MarketRepository は価格データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。返すシーケンスは古い順です。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetCandles(ctx context.Context, instrument string, granularity entity.Granularity, count int) ([]entity.Candle, error)
}

// IngestResult は1回のIngestAllの集計です。
type IngestResult struct {
	Succeeded int
	Failed    int
}

// IngestUsecase は外部APIからデータを取得し、データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	market      MarketRepository
	candle      CandleRepository
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, candle CandleRepository, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{market: market, candle: candle, rateLimiter: rateLimiter}
}

// ingestOne は指定された銘柄と時間足のローソク足を取得・検証し、一括で保存します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, instrument string, granularity entity.Granularity, count int) error {
	cs, err := iu.market.GetCandles(ctx, instrument, granularity, count)
	if err != nil {
		return err
	}

	// 取得したデータに銘柄コードと時間足を設定
	for i := range cs {
		cs[i].Instrument = instrument
		cs[i].Granularity = granularity
	}
	if err := entity.ValidateSeries(cs); err != nil {
		return fmt.Errorf("%s/%s: %w", instrument, granularity, err)
	}
	return iu.candle.UpsertBatch(ctx, cs)
}

// IngestAll は全銘柄の各時間足を取得して保存します。
// 銘柄単位で並行処理し、1件の失敗はログに出して処理を続けます。
// エラーを返すのは ctx がキャンセルされた場合のみです。
func (iu *IngestUsecase) IngestAll(ctx context.Context, instruments []string) (IngestResult, error) {
	var ok, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)
	for _, ins := range instruments {
		g.Go(func() error {
			for _, gran := range ingestGranularities {
				if err := iu.rateLimiter.WaitIfNeeded(gctx); err != nil {
					return err
				}
				if err := iu.ingestOne(gctx, ins, gran, ingestCount); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					slog.Error("failed to ingest data", "instrument", ins, "granularity", gran, "error", err)
					failed.Add(1)
					continue
				}
				ok.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	res := IngestResult{Succeeded: int(ok.Load()), Failed: int(failed.Load())}
	if err != nil {
		return res, fmt.Errorf("ingest aborted: %w", err)
	}
	return res, nil
}
