// Package demo generates deterministic synthetic candles for demo mode and local development.
package demo

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"fxsignal_backend/internal/feature/candles/domain/entity"
	"fxsignal_backend/internal/feature/candles/usecase"
)

const (
	seed      = 7
	basePrice = 1900.0
)

// Clock abstracts time.Now.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Generator produces a sinusoid with seeded noise. The same instrument, granularity,
// count and bar boundary always yield the same series.
type Generator struct {
	clock Clock
}

var _ usecase.MarketRepository = (*Generator)(nil)

// NewGenerator returns a generator. A nil clock means the wall clock.
func NewGenerator(clock Clock) *Generator {
	if clock == nil {
		clock = systemClock{}
	}
	return &Generator{clock: clock}
}

// GetCandles returns count complete bars ending at the last closed bar of g.
func (d *Generator) GetCandles(ctx context.Context, instrument string, g entity.Granularity, count int) ([]entity.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	step := g.Duration()
	if step <= 0 || count <= 0 {
		return []entity.Candle{}, nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(instrument + ":" + string(g)))
	rng := rand.New(rand.NewPCG(seed, h.Sum64()))

	start := d.clock.Now().UTC().Truncate(step).Add(-time.Duration(count) * step)

	out := make([]entity.Candle, count)
	var drift, prev float64
	for i := range count {
		x := 0.0
		if count > 1 {
			x = float64(i) * 10 * math.Pi / float64(count-1)
		}
		drift += rng.NormFloat64() * 1.2
		closePrice := basePrice + 20*math.Sin(x) + 5*math.Cos(x*0.5) + drift*0.02
		open := prev
		if i == 0 {
			open = closePrice
		}
		out[i] = entity.Candle{
			Instrument:  instrument,
			Granularity: g,
			Time:        start.Add(time.Duration(i) * step),
			Open:        open,
			High:        math.Max(open, closePrice) + rng.Float64()*1.1,
			Low:         math.Min(open, closePrice) - rng.Float64()*1.1,
			Close:       closePrice,
			Complete:    true,
		}
		prev = closePrice
	}
	return out, nil
}
