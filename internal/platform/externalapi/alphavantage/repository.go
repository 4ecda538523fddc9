package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/candles/usecase"
	"fxsignal_backend/internal/platform/externalapi/alphavantage/dto"
)

// compactSize はoutputsize=compactで返される件数です。
const compactSize = 100

var intervals = map[entity.Granularity]string{
	entity.M1:  "1min",
	entity.M5:  "5min",
	entity.M15: "15min",
	entity.H1:  "60min",
}

// AlphaVantageMarket はAlpha Vantage外部APIから為替データを取得するMarketRepository実装です。
type AlphaVantageMarket struct {
	cfg    Config
	client *http.Client
}

// AlphaVantageMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*AlphaVantageMarket)(nil)

// NewAlphaVantageMarket は指定された設定とHTTPクライアントでAlphaVantageMarketの新しいインスタンスを生成します。
func NewAlphaVantageMarket(cfg Config, client *http.Client) *AlphaVantageMarket {
	return &AlphaVantageMarket{cfg: cfg, client: client}
}

// GetCandles はFX_INTRADAY（日足はFX_DAILY）から最新count本を古い順で返します。
// "EUR_USD" のような銘柄コードは from_symbol/to_symbol に分解されます。
func (a *AlphaVantageMarket) GetCandles(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	from, to, ok := strings.Cut(instrument, "_")
	if !ok || from == "" || to == "" {
		return nil, fmt.Errorf("%w: alphavantage: instrument %q is not a currency pair", entity.ErrProviderFailure, instrument)
	}

	q := url.Values{}
	q.Set("from_symbol", from)
	q.Set("to_symbol", to)
	q.Set("apikey", a.cfg.APIKey)
	q.Set("outputsize", "compact")
	if count > compactSize {
		q.Set("outputsize", "full")
	}

	layout := "2006-01-02 15:04:05"
	if g == entity.D {
		q.Set("function", "FX_DAILY")
		layout = "2006-01-02"
	} else {
		interval, ok := intervals[g]
		if !ok {
			return nil, fmt.Errorf("%w: alphavantage: granularity %s is not supported", entity.ErrProviderFailure, g)
		}
		q.Set("function", "FX_INTRADAY")
		q.Set("interval", interval)
	}

	u := fmt.Sprintf("%s/query?%s", a.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: alphavantage: %v", entity.ErrProviderFailure, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: alphavantage http %d", entity.ErrProviderFailure, res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: alphavantage decode: %v", entity.ErrProviderFailure, err)
	}
	if body.Series == nil {
		msg := body.Problem()
		if msg == "" {
			msg = "no time series in response"
		}
		return nil, fmt.Errorf("%w: alphavantage: %s", entity.ErrProviderFailure, msg)
	}

	candles := make([]entity.Candle, 0, len(body.Series))
	for ts, v := range body.Series {
		// タイムスタンプはUTC
		tm, err := time.Parse(layout, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: parse time %q: %v", entity.ErrMalformedSeries, ts, err)
		}
		prices := make([]float64, 4)
		for i, s := range []string{v.Open, v.High, v.Low, v.Close} {
			p, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: parse price %q at %s: %v", entity.ErrMalformedSeries, s, ts, err)
			}
			prices[i] = p
		}
		candles = append(candles, entity.Candle{
			Instrument:  instrument,
			Granularity: g,
			Time:        tm,
			Open:        prices[0],
			High:        prices[1],
			Low:         prices[2],
			Close:       prices[3],
			Complete:    true,
		})
	}

	// ペイロードは新しい順のマップなので並べ替えてから末尾count本に絞る
	slices.SortFunc(candles, func(a, b entity.Candle) int { return a.Time.Compare(b.Time) })
	if count > 0 && len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}
