package strategy

import (
	"errors"
	"fmt"

	"tickbench/internal/tick"
)

// ErrInvalidWindow is returned when a windowed strategy is constructed with a
// non-positive window size.
var ErrInvalidWindow = errors.New("window size must be positive")

// Windowed keeps the last k prices in a fixed-capacity ring buffer together
// with a running sum, so each tick costs constant work and space stays O(k)
// no matter how long the stream runs. Until the buffer fills, the average
// covers however many prices have been seen.
type Windowed struct {
	window int
	prices []float64
	head   int // next write position; oldest slot once the buffer is full
	count  int
	sum    float64
}

// NewWindowed builds a sliding-window strategy over the last `window` prices.
func NewWindowed(window int) (*Windowed, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	return &Windowed{
		window: window,
		prices: make([]float64, window),
	}, nil
}

// Name returns the identifier for the strategy implementation including k.
func (s *Windowed) Name() string { return fmt.Sprintf("windowed_k%d", s.window) }

// Consume pushes the price into the ring, evicting the oldest entry from the
// running sum once the buffer is full, and returns the windowed mean.
func (s *Windowed) Consume(t tick.Tick) float64 {
	if s.count == s.window {
		s.sum -= s.prices[s.head]
	}
	s.prices[s.head] = t.Price
	s.sum += t.Price
	s.head = (s.head + 1) % s.window
	if s.count < s.window {
		s.count++
	}
	return s.sum / float64(s.count)
}

// Len reports how many prices are currently retained; never exceeds the window.
func (s *Windowed) Len() int { return s.count }

// Sum returns the incrementally maintained total of the retained prices.
func (s *Windowed) Sum() float64 { return s.sum }

// Retained returns a copy of the buffered prices, oldest first.
func (s *Windowed) Retained() []float64 {
	out := make([]float64, s.count)
	if s.count < s.window {
		copy(out, s.prices[:s.count])
		return out
	}
	for i := 0; i < s.count; i++ {
		out[i] = s.prices[(s.head+i)%s.window]
	}
	return out
}
