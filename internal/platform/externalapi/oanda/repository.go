package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/candles/usecase"
	"fxsignal_backend/internal/platform/externalapi/oanda/dto"
)

// maxErrorBody はエラーメッセージに含めるレスポンスボディの最大長です。
const maxErrorBody = 200

// OandaMarket はOANDA APIからローソク足を取得するMarketRepository実装です。
type OandaMarket struct {
	cfg    Config
	client *http.Client
}

// OandaMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*OandaMarket)(nil)

// NewOandaMarket は指定された設定とHTTPクライアントでOandaMarketの新しいインスタンスを生成します。
func NewOandaMarket(cfg Config, client *http.Client) *OandaMarket {
	return &OandaMarket{cfg: cfg, client: client}
}

// Config は接続設定を返します（診断用）。
func (o *OandaMarket) Config() Config { return o.cfg }

// GetCandles は確定済みのローソク足のみを古い順で返します。
// 未確定の最新足は除外されるため、件数はcountより少なくなることがあります。
func (o *OandaMarket) GetCandles(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("granularity", string(g))
	q.Set("count", strconv.Itoa(count))
	q.Set("price", "M")

	u := fmt.Sprintf("%s/v3/instruments/%s/candles?%s", o.cfg.BaseURL, url.PathEscape(instrument), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	res, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: oanda %s %s: %v", entity.ErrProviderFailure, instrument, g, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: oanda http %d: %s", entity.ErrProviderFailure, res.StatusCode, string(b))
	}

	var body dto.CandlesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: oanda decode: %v", entity.ErrProviderFailure, err)
	}

	candles := make([]entity.Candle, 0, len(body.Candles))
	for _, c := range body.Candles {
		if !c.Complete || c.Mid == nil {
			continue
		}
		cd, err := toCandle(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrMalformedSeries, err)
		}
		cd.Instrument = instrument
		cd.Granularity = g
		candles = append(candles, cd)
	}
	slices.SortFunc(candles, func(a, b entity.Candle) int { return a.Time.Compare(b.Time) })
	return candles, nil
}

func toCandle(c dto.Candle) (entity.Candle, error) {
	tm, err := time.Parse(time.RFC3339Nano, c.Time)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse time %q: %w", c.Time, err)
	}
	prices := make([]float64, 4)
	for i, s := range []string{c.Mid.O, c.Mid.H, c.Mid.L, c.Mid.C} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse price %q at %s: %w", s, c.Time, err)
		}
		prices[i] = v
	}
	return entity.Candle{
		Time:     tm.UTC(),
		Open:     prices[0],
		High:     prices[1],
		Low:      prices[2],
		Close:    prices[3],
		Volume:   c.Volume,
		Complete: true,
	}, nil
}
