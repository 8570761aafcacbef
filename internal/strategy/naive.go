package strategy

import "tickbench/internal/tick"

// Naive retains the full price history and recomputes the mean from scratch
// on every tick. Each call walks the whole history, so consuming n ticks
// costs quadratic time overall and linear space.
type Naive struct {
	prices []float64
}

// NewNaive builds an empty rescan strategy.
func NewNaive() *Naive {
	return &Naive{}
}

// Name returns the identifier for the strategy implementation.
func (s *Naive) Name() string { return "naive" }

// Consume appends the price to the retained history and rescans it for the mean.
func (s *Naive) Consume(t tick.Tick) float64 {
	s.prices = append(s.prices, t.Price)

	var sum float64
	for _, p := range s.prices {
		sum += p
	}
	return sum / float64(len(s.prices))
}

// HistoryLen reports how many prices the strategy has retained so far.
func (s *Naive) HistoryLen() int { return len(s.prices) }
