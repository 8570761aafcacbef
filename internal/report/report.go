// Package report renders benchmark samples into artifacts for inspection.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tickbench/internal/bench"
)

// WriteMarkdown renders a per-strategy scaling table to path. Timed-out runs
// show TIMEOUT in place of a runtime and keep their row so gaps are visible.
func WriteMarkdown(path string, samples []bench.Sample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	sorted := make([]bench.Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Strategy != sorted[j].Strategy {
			return sorted[i].Strategy < sorted[j].Strategy
		}
		return sorted[i].Size < sorted[j].Size
	})

	var b strings.Builder
	b.WriteString("# Moving-Average Strategy Benchmarks\n\n")
	b.WriteString("| Strategy | Ticks | Runtime (s) | Peak Memory (MB) | Signals |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, s := range sorted {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %d |\n",
			s.Strategy, s.Size, fmtRuntime(s), fmtMemory(s), s.Signals)
	}

	b.WriteString(`
## Complexity notes

- **naive** rescans the full retained history on every tick: O(n) per call,
  O(n^2) over the run, O(n) space. Expect TIMEOUT at large sizes.
- **windowed_k** keeps a fixed ring of the last k prices plus a running sum:
  O(1) per call, O(k) space, averages over a sliding window.
- **cumulative** keeps only a running sum and count: O(1) per call and space,
  but computes the all-time mean, not a windowed one.

Peak memory comes from a heap sampler and is a diagnostic figure; the
dependable property is the asymptotic accumulator size per strategy.
`)

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func fmtRuntime(s bench.Sample) string {
	if !s.Completed {
		return "TIMEOUT"
	}
	return fmt.Sprintf("%.6f", s.Elapsed.Seconds())
}

func fmtMemory(s bench.Sample) string {
	if !s.Completed || s.PeakMemory == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", float64(s.PeakMemory)/(1<<20))
}
