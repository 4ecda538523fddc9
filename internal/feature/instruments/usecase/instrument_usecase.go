// Package usecase implements the business logic for the instrument catalog.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fxsignal_backend/internal/feature/instruments/domain/entity"
)

// ErrInstrumentNotFound is returned when neither a code nor a display name matches.
var ErrInstrumentNotFound = errors.New("instrument not found")

// InstrumentRepository abstracts the persistence layer for the instrument catalog.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type InstrumentRepository interface {
	ListActive(ctx context.Context) ([]entity.Instrument, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	FindByCode(ctx context.Context, code string) (*entity.Instrument, error)
	FindByName(ctx context.Context, name string) (*entity.Instrument, error)
	UpsertAll(ctx context.Context, instruments []entity.Instrument) error
}

// InstrumentUsecase provides business logic for instrument operations.
type InstrumentUsecase struct {
	repo InstrumentRepository
}

// NewInstrumentUsecase creates a new InstrumentUsecase with the given repository.
func NewInstrumentUsecase(r InstrumentRepository) *InstrumentUsecase {
	return &InstrumentUsecase{repo: r}
}

// ListActiveInstruments returns all active instruments in display order.
func (u *InstrumentUsecase) ListActiveInstruments(ctx context.Context) ([]entity.Instrument, error) {
	return u.repo.ListActive(ctx)
}

// ListActiveCodes returns the provider codes of all active instruments.
func (u *InstrumentUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// Resolve accepts a provider code ("XAU_USD", "xau_usd", "XAU/USD") or a display name
// ("Gold (XAU/USD)") and returns the matching active instrument.
func (u *InstrumentUsecase) Resolve(ctx context.Context, key string) (*entity.Instrument, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInstrumentNotFound)
	}

	code := strings.ToUpper(strings.ReplaceAll(key, "/", "_"))
	ins, err := u.repo.FindByCode(ctx, code)
	if err == nil {
		return activeOnly(ins, key)
	}
	if !errors.Is(err, ErrInstrumentNotFound) {
		return nil, err
	}

	ins, err = u.repo.FindByName(ctx, key)
	if err != nil {
		return nil, err
	}
	return activeOnly(ins, key)
}

func activeOnly(ins *entity.Instrument, key string) (*entity.Instrument, error) {
	if !ins.IsActive {
		return nil, fmt.Errorf("%w: %q is inactive", ErrInstrumentNotFound, key)
	}
	return ins, nil
}

// SyncCatalog writes the configured catalog to the repository.
func (u *InstrumentUsecase) SyncCatalog(ctx context.Context, instruments []entity.Instrument) error {
	for _, ins := range instruments {
		if ins.Code == "" || ins.MinDistance <= 0 {
			return fmt.Errorf("invalid catalog entry %q: code and positive min_distance are required", ins.Code)
		}
	}
	if err := u.repo.UpsertAll(ctx, instruments); err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}
	return nil
}
