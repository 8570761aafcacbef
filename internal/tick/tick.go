// Package tick standardizes payloads shared between data ingestion and strategy layers.
package tick

import "time"

// Tick models one immutable price observation consumed by strategies.
// Sequences handed to a strategy are ordered by Ts (non-decreasing) and never
// reordered downstream.
type Tick struct {
	Symbol string
	Price  float64
	Volume int64
	Ts     time.Time
}

// Side expresses the directional bias a tick carries relative to an average.
type Side int

const (
	// None means the price sits exactly on the average.
	None Side = 0
	// Buy means the price crossed above the average.
	Buy Side = 1
	// Sell means the price fell below the average.
	Sell Side = -1
)

// String returns the wire-friendly name for the side.
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "NONE"
	}
}

// Classify compares a price against an average and returns the resulting bias.
func Classify(price, avg float64) Side {
	switch {
	case price > avg:
		return Buy
	case price < avg:
		return Sell
	default:
		return None
	}
}
