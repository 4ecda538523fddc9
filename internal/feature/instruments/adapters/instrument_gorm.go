// Package adapters はinstrumentsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fxsignal_backend/internal/feature/instruments/domain/entity"
	"fxsignal_backend/internal/feature/instruments/usecase"
)

// instrumentGorm はInstrumentRepositoryインターフェースのgorm実装です。
type instrumentGorm struct {
	db *gorm.DB
}

var _ usecase.InstrumentRepository = (*instrumentGorm)(nil)

// NewInstrumentRepository は指定されたDB接続でinstrumentGormの新しいインスタンスを生成します。
func NewInstrumentRepository(db *gorm.DB) *instrumentGorm {
	return &instrumentGorm{db: db}
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *instrumentGorm) ListActive(ctx context.Context) ([]entity.Instrument, error) {
	var out []entity.Instrument
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *instrumentGorm) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Instrument{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// FindByCode はコードが一致する銘柄を返します。
func (r *instrumentGorm) FindByCode(ctx context.Context, code string) (*entity.Instrument, error) {
	return r.findOne(ctx, "code = ?", code)
}

// FindByName は表示名が一致する銘柄を返します。
func (r *instrumentGorm) FindByName(ctx context.Context, name string) (*entity.Instrument, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *instrumentGorm) findOne(ctx context.Context, cond string, arg string) (*entity.Instrument, error) {
	var ins entity.Instrument
	err := r.db.WithContext(ctx).Where(cond, arg).First(&ins).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", usecase.ErrInstrumentNotFound, arg)
	}
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

// UpsertAll はcodeをキーに銘柄を一括で登録・更新します。
func (r *instrumentGorm) UpsertAll(ctx context.Context, instruments []entity.Instrument) error {
	if len(instruments) == 0 {
		return nil
	}
	rows := make([]entity.Instrument, len(instruments))
	copy(rows, instruments)
	for i := range rows {
		rows[i].ID = 0
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "class", "min_distance", "profile", "is_active", "sort_key", "updated_at"}),
	}).Create(&rows).Error
}
