package strategy

import "tickbench/internal/tick"

// Cumulative keeps only a running sum and count, returning the all-time mean
// in constant time and space. It matches Naive's output exactly but is not a
// sliding window: the two semantics must not be conflated.
type Cumulative struct {
	sum   float64
	count int64
}

// NewCumulative builds an empty cumulative-mean strategy.
func NewCumulative() *Cumulative {
	return &Cumulative{}
}

// Name returns the identifier for the strategy implementation.
func (s *Cumulative) Name() string { return "cumulative" }

// Consume folds the price into the running sum and returns the all-time mean.
func (s *Cumulative) Consume(t tick.Tick) float64 {
	s.sum += t.Price
	s.count++
	return s.sum / float64(s.count)
}
