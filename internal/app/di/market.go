// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"log/slog"

	candleusecase "fxsignal_backend/internal/feature/candles/usecase"
	signalsusecase "fxsignal_backend/internal/feature/signals/usecase"
	"fxsignal_backend/internal/platform/config"
	"fxsignal_backend/internal/platform/externalapi/alphavantage"
	"fxsignal_backend/internal/platform/externalapi/demo"
	"fxsignal_backend/internal/platform/externalapi/oanda"
	infrahttp "fxsignal_backend/internal/platform/http"
)

// Market is the raw provider chosen by configuration and its public description.
type Market struct {
	Repo candleusecase.MarketRepository
	Info signalsusecase.ProviderInfo
}

// NewMarket selects the provider named by MARKET_PROVIDER. A provider without credentials
// falls back to the demo generator so the service still starts.
func NewMarket(cfg *config.Config) (Market, error) {
	switch cfg.MarketProvider {
	case config.ProviderOanda:
		ocfg := oanda.NewConfig(cfg.OandaAPIKey, cfg.OandaEnv)
		info := signalsusecase.ProviderInfo{Name: config.ProviderOanda, Env: ocfg.Env, BaseURL: ocfg.BaseURL, HasAPIKey: ocfg.APIKey != ""}
		if ocfg.APIKey == "" {
			slog.Warn("OANDA_API_KEY is not set, using demo data")
			return demoMarket(info), nil
		}
		return Market{Repo: oanda.NewOandaMarket(ocfg, infrahttp.NewHTTPClient(ocfg.Timeout)), Info: info}, nil

	case config.ProviderAlphaVantage:
		acfg := alphavantage.NewConfig(cfg.AlphaVantageAPIKey, cfg.AlphaVantageBaseURL)
		info := signalsusecase.ProviderInfo{Name: config.ProviderAlphaVantage, BaseURL: acfg.BaseURL, HasAPIKey: acfg.APIKey != ""}
		if acfg.APIKey == "" {
			slog.Warn("ALPHA_VANTAGE_API_KEY is not set, using demo data")
			return demoMarket(info), nil
		}
		return Market{Repo: alphavantage.NewAlphaVantageMarket(acfg, infrahttp.NewHTTPClient(acfg.Timeout)), Info: info}, nil

	case config.ProviderDemo:
		return demoMarket(signalsusecase.ProviderInfo{Name: config.ProviderDemo}), nil
	}
	return Market{}, fmt.Errorf("unsupported MARKET_PROVIDER %q", cfg.MarketProvider)
}

// demoMarket keeps the configured provider's description but marks the env as demo.
func demoMarket(info signalsusecase.ProviderInfo) Market {
	info.Env = config.ProviderDemo
	return Market{Repo: demo.NewGenerator(nil), Info: info}
}
