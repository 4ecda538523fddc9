package usecase

import (
	"context"
	"fmt"

	"fxsignal_backend/internal/feature/signals/domain/entity"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// historyUsecase reads back journaled candidates.
type historyUsecase struct {
	instruments InstrumentResolver
	journal     JournalRepository
}

func NewHistoryUsecase(instruments InstrumentResolver, journal JournalRepository) *historyUsecase {
	return &historyUsecase{instruments: instruments, journal: journal}
}

// ListRecent returns the newest entries first. limit outside (0, MaxHistoryLimit] falls back to the default.
func (u *historyUsecase) ListRecent(ctx context.Context, key string, limit int) ([]entity.JournalEntry, error) {
	ins, err := u.instruments.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	entries, err := u.journal.ListRecent(ctx, ins.Code, limit)
	if err != nil {
		return nil, fmt.Errorf("list history %s: %w", ins.Code, err)
	}
	return entries, nil
}
