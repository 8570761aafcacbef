// Package bench drives strategies over tick sequences under measurement.
package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"tickbench/internal/metrics"
	"tickbench/internal/strategy"
	"tickbench/internal/tick"
)

// deadlineCheckStride bounds how often the runner pays for a clock read while
// consuming ticks.
const deadlineCheckStride = 1024

// Sample is one benchmark observation, immutable once recorded.
// A run that hit its deadline carries Completed=false and only the data
// captured before the abort.
type Sample struct {
	Strategy   string        `json:"strategy"`
	Size       int           `json:"size"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	PeakMemory uint64        `json:"peak_memory_bytes"`
	Signals    int           `json:"signals"`
	Completed  bool          `json:"completed"`
}

// Factory builds a fresh strategy instance for one run. Construction errors
// (for example an invalid window size) surface to the runner's caller.
type Factory func() (strategy.Strategy, error)

// Runner executes single-strategy, single-sequence benchmark runs.
type Runner struct {
	log        zerolog.Logger
	timeLimit  time.Duration
	repeats    int
	sampler    MemSampler
	profileDir string
}

// Option configures Runner construction parameters.
type Option func(*Runner)

// WithTimeLimit sets the wall-clock ceiling for a single timed run.
// Zero means no deadline.
func WithTimeLimit(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeLimit = d
		}
	}
}

// WithRepeats sets how many timed repetitions feed the best-of measurement.
func WithRepeats(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.repeats = n
		}
	}
}

// WithMemSampler installs a memory-sampling hook used in a dedicated pass
// after timing completes. Nil leaves peak memory unreported.
func WithMemSampler(s MemSampler) Option {
	return func(r *Runner) { r.sampler = s }
}

// WithProfileDir enables a CPU-profiled pass per completed run, writing
// pprof files into dir.
func WithProfileDir(dir string) Option {
	return func(r *Runner) { r.profileDir = dir }
}

// NewRunner builds a runner with the provided measurement options.
func NewRunner(log zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{log: log, repeats: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type runResult struct {
	elapsed   time.Duration
	signals   int
	consumed  int
	completed bool
}

// Run benchmarks one strategy over one tick sequence. Timed repetitions come
// first (best-of), then an optional memory pass and an optional profiled
// pass, both skipped when the timed run hit its deadline.
func (r *Runner) Run(factory Factory, ticks []tick.Tick) (Sample, error) {
	strat, err := factory()
	if err != nil {
		return Sample{}, fmt.Errorf("construct strategy: %w", err)
	}
	name := strat.Name()
	metrics.RunsTotal.WithLabelValues(name).Inc()

	best := runResult{}
	for rep := 0; rep < r.repeats; rep++ {
		if rep > 0 {
			if strat, err = factory(); err != nil {
				return Sample{}, fmt.Errorf("construct strategy: %w", err)
			}
		}
		res := r.consume(strat, ticks)
		metrics.TicksConsumed.WithLabelValues(name).Add(float64(res.consumed))

		if !res.completed {
			metrics.TimeoutsTotal.WithLabelValues(name).Inc()
			r.log.Warn().
				Str("strategy", name).
				Int("size", len(ticks)).
				Int("consumed", res.consumed).
				Dur("elapsed", res.elapsed).
				Msg("benchmark run hit deadline")
			return Sample{
				Strategy: name,
				Size:     len(ticks),
				Elapsed:  res.elapsed,
				Signals:  res.signals,
			}, nil
		}
		if rep == 0 || res.elapsed < best.elapsed {
			best = res
		}
	}

	sample := Sample{
		Strategy:  name,
		Size:      len(ticks),
		Elapsed:   best.elapsed,
		Signals:   best.signals,
		Completed: true,
	}

	if r.sampler != nil {
		peak, err := r.measureMemory(factory, ticks)
		if err != nil {
			return Sample{}, err
		}
		sample.PeakMemory = peak
	}
	if r.profileDir != "" {
		if err := r.profileRun(name, factory, ticks); err != nil {
			r.log.Warn().Err(err).Str("strategy", name).Msg("cpu profile failed")
		}
	}

	r.log.Info().
		Str("strategy", name).
		Int("size", sample.Size).
		Dur("elapsed", sample.Elapsed).
		Uint64("peak_bytes", sample.PeakMemory).
		Int("signals", sample.Signals).
		Msg("benchmark run finished")
	return sample, nil
}

// RunAll benchmarks every factory against every prefix size of the sequence.
// Sizes longer than the sequence are skipped.
func (r *Runner) RunAll(factories []Factory, ticks []tick.Tick, sizes []int) ([]Sample, error) {
	var samples []Sample
	for _, n := range sizes {
		if n <= 0 || n > len(ticks) {
			continue
		}
		subset := ticks[:n]
		for _, factory := range factories {
			sample, err := r.Run(factory, subset)
			if err != nil {
				return nil, err
			}
			samples = append(samples, sample)
		}
	}
	return samples, nil
}

// consume feeds ticks through the strategy in order, checking the deadline
// every deadlineCheckStride ticks. Ticks are never reordered or skipped.
func (r *Runner) consume(strat strategy.Strategy, ticks []tick.Tick) runResult {
	var deadline time.Time
	start := time.Now()
	if r.timeLimit > 0 {
		deadline = start.Add(r.timeLimit)
	}

	var res runResult
	for i := range ticks {
		avg := strat.Consume(ticks[i])
		res.consumed++
		if tick.Classify(ticks[i].Price, avg) != tick.None {
			res.signals++
		}
		if !deadline.IsZero() && res.consumed%deadlineCheckStride == 0 && time.Now().After(deadline) {
			res.elapsed = time.Since(start)
			return res
		}
	}
	res.elapsed = time.Since(start)
	res.completed = true
	return res
}

// measureMemory replays the sequence against a fresh instance with the
// sampler active. Kept separate from the timed pass so sampling overhead
// never skews elapsed figures.
func (r *Runner) measureMemory(factory Factory, ticks []tick.Tick) (uint64, error) {
	strat, err := factory()
	if err != nil {
		return 0, fmt.Errorf("construct strategy: %w", err)
	}
	r.sampler.Reset()
	for i := range ticks {
		strat.Consume(ticks[i])
		if (i+1)%deadlineCheckStride == 0 {
			r.sampler.Sample()
		}
	}
	r.sampler.Sample()
	return r.sampler.Peak(), nil
}

func (r *Runner) profileRun(name string, factory Factory, ticks []tick.Tick) error {
	if err := os.MkdirAll(r.profileDir, 0o755); err != nil {
		return err
	}
	strat, err := factory()
	if err != nil {
		return err
	}
	path := filepath.Join(r.profileDir, fmt.Sprintf("%s_%d.pprof", name, len(ticks)))
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return err
	}
	for i := range ticks {
		strat.Consume(ticks[i])
	}
	pprof.StopCPUProfile()
	return nil
}
