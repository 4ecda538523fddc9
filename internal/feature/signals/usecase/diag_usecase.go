package usecase

import (
	"context"
	"log/slog"

	candle "fxsignal_backend/internal/feature/candles/domain/entity"
)

const (
	diagInstrument = "EUR_USD"
	diagCount      = 5
)

// ProviderInfo describes the configured market data provider without exposing credentials.
type ProviderInfo struct {
	Name      string
	Env       string
	BaseURL   string
	HasAPIKey bool
}

// DiagReport is the provider self-test result.
type DiagReport struct {
	Provider    ProviderInfo
	Instruments []string
	TestOK      bool
	TestError   string
	TestBars    int
}

// ActiveCodeLister lists the codes of active instruments.
type ActiveCodeLister interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// diagUsecase performs a small live request against the raw provider, bypassing caches.
type diagUsecase struct {
	market      MarketRepository
	instruments ActiveCodeLister
	info        ProviderInfo
}

func NewDiagUsecase(market MarketRepository, instruments ActiveCodeLister, info ProviderInfo) *diagUsecase {
	return &diagUsecase{market: market, instruments: instruments, info: info}
}

// Diagnose never fails; problems are reported in the returned report.
func (u *diagUsecase) Diagnose(ctx context.Context) DiagReport {
	r := DiagReport{Provider: u.info, Instruments: []string{}}

	codes, err := u.instruments.ListActiveCodes(ctx)
	if err != nil {
		slog.Warn("diag: list instruments failed", "error", err)
	} else if codes != nil {
		r.Instruments = codes
	}

	cs, err := u.market.GetCandles(ctx, diagInstrument, candle.M15, diagCount)
	if err != nil {
		r.TestError = err.Error()
		return r
	}
	r.TestOK = true
	r.TestBars = len(cs)
	return r
}
