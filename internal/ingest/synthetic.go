package ingest

import (
	"math/rand"
	"time"

	"tickbench/internal/tick"
)

const (
	defaultSymbol     = "ABC"
	defaultStartPrice = 100.0
	defaultSeed       = 42
)

// GenOptions tunes the synthetic random-walk generator. Zero values fall
// back to deterministic defaults so fixtures are reproducible.
type GenOptions struct {
	Symbol     string
	StartPrice float64
	Seed       int64
	Start      time.Time
}

func (o GenOptions) withDefaults() GenOptions {
	if o.Symbol == "" {
		o.Symbol = defaultSymbol
	}
	if o.StartPrice <= 0 {
		o.StartPrice = defaultStartPrice
	}
	if o.Seed == 0 {
		o.Seed = defaultSeed
	}
	if o.Start.IsZero() {
		o.Start = time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	}
	return o
}

// Generate produces n random-walk ticks at one-minute spacing. The same
// options always yield the same sequence.
func Generate(n int, opts GenOptions) []tick.Tick {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	price := opts.StartPrice
	ticks := make([]tick.Tick, 0, n)
	for i := 0; i < n; i++ {
		price += rng.Float64() - 0.5
		if price < 0.01 {
			price = 0.01
		}
		ticks = append(ticks, tick.Tick{
			Symbol: opts.Symbol,
			Price:  price,
			Volume: 1 + rng.Int63n(1000),
			Ts:     opts.Start.Add(time.Duration(i) * time.Minute),
		})
	}
	return ticks
}
