// Package strategy contains the moving-average computations wired into ticks.
package strategy

import (
	"fmt"
	"strings"

	"tickbench/internal/tick"
)

// Strategy defines behaviour shared by averaging implementations used by the harness.
// Consume is called exactly once per tick, in presentation order, and returns
// the strategy's current average price.
type Strategy interface {
	Consume(t tick.Tick) float64
	Name() string
}

// Params expresses tunable knobs required by strategy constructors.
type Params struct {
	Window int
}

// Build returns a strategy implementation matching the configured mode.
func Build(mode string, params Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "naive", "naive_rescan":
		return NewNaive(), nil
	case "windowed", "window", "sliding":
		return NewWindowed(params.Window)
	case "cumulative", "optimized":
		return NewCumulative(), nil
	default:
		return nil, fmt.Errorf("unknown strategy mode %q", mode)
	}
}
