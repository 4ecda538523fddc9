// Package usecase はローソク足データ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"fxsignal_backend/internal/feature/candles/domain/entity"
)

const (
	// DefaultGranularity はローソク足クエリのデフォルト時間足です。
	DefaultGranularity = entity.M15
	// DefaultCount はデフォルトのローソク足返却件数です。
	DefaultCount = 200
	// MaxCount はローソク足の最大返却件数です。
	MaxCount = 5000
)

// ErrInvalidGranularity はサポートしていない時間足が指定された場合に返されます。
var ErrInvalidGranularity = errors.New("invalid granularity")

// CandleRepository はローソク足データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	// Find は最新count本を古い順で返します。
	Find(ctx context.Context, instrument string, granularity entity.Granularity, count int) ([]entity.Candle, error)
	// UpsertBatch はローソク足を一括で保存します。
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// candlesUsecase はローソク足データ操作のユースケースを定義します。
type candlesUsecase struct {
	candle CandleRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(candle CandleRepository) *candlesUsecase {
	return &candlesUsecase{candle: candle}
}

// GetCandles は保存済みのローソク足履歴を取得します。
func (cu *candlesUsecase) GetCandles(ctx context.Context, instrument string, granularity entity.Granularity, count int) ([]entity.Candle, error) {
	if granularity == "" {
		granularity = DefaultGranularity
	}
	if !granularity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, granularity)
	}
	if count <= 0 || count > MaxCount {
		count = DefaultCount
	}

	cs, err := cu.candle.Find(ctx, instrument, granularity, count)
	if err != nil {
		return nil, fmt.Errorf("find candles %s/%s: %w", instrument, granularity, err)
	}
	return cs, nil
}
