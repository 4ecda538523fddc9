// Package adapters はcandlesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/candles/usecase"
)

type candleGorm struct {
	db *gorm.DB
}

var _ usecase.CandleRepository = (*candleGorm)(nil)

// NewCandleRepository はgormを使ったCandleRepositoryを生成します。PostgreSQLとSQLiteの両方で動作します。
func NewCandleRepository(db *gorm.DB) *candleGorm {
	return &candleGorm{db: db}
}

// CandleModel はcandlesテーブルの行です。(instrument, granularity, ts) で一意になります。
type CandleModel struct {
	ID          uint      `gorm:"primaryKey"`
	Instrument  string    `gorm:"size:32;not null;uniqueIndex:candle_ins_gran_ts,priority:1"`
	Granularity string    `gorm:"size:8;not null;uniqueIndex:candle_ins_gran_ts,priority:2"`
	Ts          time.Time `gorm:"column:ts;not null;uniqueIndex:candle_ins_gran_ts,priority:3"`

	Open     float64 `gorm:"not null"`
	High     float64 `gorm:"not null"`
	Low      float64 `gorm:"not null"`
	Close    float64 `gorm:"not null"`
	Volume   int64   `gorm:"not null;default:0"`
	Complete bool    `gorm:"not null;default:true"`
}

func (CandleModel) TableName() string {
	return "candles"
}

func toModel(e entity.Candle) CandleModel {
	return CandleModel{
		Instrument:  e.Instrument,
		Granularity: string(e.Granularity),
		Ts:          e.Time.UTC(),
		Open:        e.Open,
		High:        e.High,
		Low:         e.Low,
		Close:       e.Close,
		Volume:      e.Volume,
		Complete:    e.Complete,
	}
}

func toEntity(m CandleModel) entity.Candle {
	return entity.Candle{
		Instrument:  m.Instrument,
		Granularity: entity.Granularity(m.Granularity),
		Time:        m.Ts.UTC(),
		Open:        m.Open,
		High:        m.High,
		Low:         m.Low,
		Close:       m.Close,
		Volume:      m.Volume,
		Complete:    m.Complete,
	}
}

// UpsertBatch はローソク足を一括で挿入し、既存の足は価格と出来高を更新します。
func (r *candleGorm) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	ms := make([]CandleModel, 0, len(candles))
	for _, e := range candles {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instrument"}, {Name: "granularity"}, {Name: "ts"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume", "complete"}),
	}).Create(&ms).Error
}

// Find は最新のcount本を取得し、古い順に並べて返します。
func (r *candleGorm) Find(ctx context.Context, instrument string, granularity entity.Granularity, count int) ([]entity.Candle, error) {
	var rows []CandleModel
	q := r.db.WithContext(ctx).
		Where("instrument = ? AND granularity = ?", instrument, string(granularity)).
		Order("ts DESC")
	if count > 0 {
		q = q.Limit(count)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	slices.Reverse(rows)

	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
