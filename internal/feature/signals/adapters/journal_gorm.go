// Package adapters はsignalsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fxsignal_backend/internal/feature/signals/domain/entity"
	"fxsignal_backend/internal/feature/signals/usecase"
)

type journalGorm struct {
	db *gorm.DB
}

var _ usecase.JournalRepository = (*journalGorm)(nil)

// NewJournalRepository はgormを使ったJournalRepositoryを生成します。
func NewJournalRepository(db *gorm.DB) *journalGorm {
	return &journalGorm{db: db}
}

// SignalModel はsignal_journalテーブルの行です。(instrument, rule, bar_time) で一意になります。
type SignalModel struct {
	ID         uint      `gorm:"primaryKey"`
	Instrument string    `gorm:"size:32;not null;uniqueIndex:signal_ins_rule_bar,priority:1;index:signal_ins_created,priority:1"`
	Rule       string    `gorm:"size:32;not null;uniqueIndex:signal_ins_rule_bar,priority:2"`
	BarTime    time.Time `gorm:"not null;uniqueIndex:signal_ins_rule_bar,priority:3"`

	Side       string  `gorm:"size:8;not null"`
	Entry      float64 `gorm:"not null"`
	TakeProfit float64 `gorm:"not null"`
	StopLoss   float64 `gorm:"not null"`
	Confidence string  `gorm:"size:8;not null"`
	Confirmed  bool    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;index:signal_ins_created,priority:2"`
}

func (SignalModel) TableName() string {
	return "signal_journal"
}

func toModel(e entity.JournalEntry) SignalModel {
	return SignalModel{
		Instrument: e.Instrument,
		Rule:       e.Rule,
		BarTime:    e.BarTime.UTC(),
		Side:       string(e.Side),
		Entry:      e.Entry,
		TakeProfit: e.TakeProfit,
		StopLoss:   e.StopLoss,
		Confidence: string(e.Confidence),
		Confirmed:  e.Confirmed,
		CreatedAt:  e.CreatedAt.UTC(),
	}
}

func toEntity(m SignalModel) entity.JournalEntry {
	return entity.JournalEntry{
		Instrument: m.Instrument,
		Rule:       m.Rule,
		BarTime:    m.BarTime.UTC(),
		Side:       entity.Direction(m.Side),
		Entry:      m.Entry,
		TakeProfit: m.TakeProfit,
		StopLoss:   m.StopLoss,
		Confidence: entity.Confidence(m.Confidence),
		Confirmed:  m.Confirmed,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// Record は候補を保存します。同じ足・同じルールの再記録は無視され、最初の記録が残ります。
func (r *journalGorm) Record(ctx context.Context, entries []entity.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ms := make([]SignalModel, 0, len(entries))
	for _, e := range entries {
		ms = append(ms, toModel(e))
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instrument"}, {Name: "rule"}, {Name: "bar_time"}},
		DoNothing: true,
	}).Create(&ms).Error
}

// ListRecent は新しい順に最大limit件を返します。
func (r *journalGorm) ListRecent(ctx context.Context, instrument string, limit int) ([]entity.JournalEntry, error) {
	var rows []SignalModel
	q := r.db.WithContext(ctx).
		Where("instrument = ?", instrument).
		Order("bar_time DESC").Order("rule ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.JournalEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
