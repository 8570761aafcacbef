package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"tickbench/internal/bench"
	"tickbench/internal/config"
	"tickbench/internal/ingest"
	"tickbench/internal/metrics"
	"tickbench/internal/report"
	"tickbench/internal/store"
	"tickbench/internal/strategy"
	"tickbench/internal/tick"
	"tickbench/internal/util"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "internal/config/config.yaml", "path to YAML configuration")
	csvPath := flag.String("csv", "", "tick CSV path (overrides config)")
	outDir := flag.String("out", "", "output directory (overrides config)")
	window := flag.Int("window", 0, "window size for the windowed strategy (overrides config)")
	timeLimit := flag.Duration("time-limit", 0, "per-run wall-clock ceiling (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	if *csvPath != "" {
		cfg.Ingest.CSVPath = *csvPath
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *window > 0 {
		cfg.Bench.Window = *window
	}
	if *timeLimit > 0 {
		cfg.Bench.TimeLimitMs = int(timeLimit.Milliseconds())
	}

	log := util.NewLogger(cfg.App.LogLevel)

	if cfg.App.MetricsAddr != "" {
		_ = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ticks, err := loadTicks(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load ticks")
	}
	log.Info().Int("ticks", len(ticks)).Msg("input ready")

	factories := make([]bench.Factory, 0, len(cfg.Bench.Strategies))
	for _, mode := range cfg.Bench.Strategies {
		mode := mode
		factories = append(factories, func() (strategy.Strategy, error) {
			return strategy.Build(mode, strategy.Params{Window: cfg.Bench.Window})
		})
	}

	opts := []bench.Option{
		bench.WithRepeats(cfg.Bench.Repeats),
		bench.WithMemSampler(bench.NewHeapSampler()),
	}
	if cfg.Bench.TimeLimitMs > 0 {
		opts = append(opts, bench.WithTimeLimit(time.Duration(cfg.Bench.TimeLimitMs)*time.Millisecond))
	}
	if cfg.Bench.Profiles {
		opts = append(opts, bench.WithProfileDir(filepath.Join(cfg.Output.Dir, "profiles")))
	}

	runner := bench.NewRunner(log, opts...)
	samples, err := runner.RunAll(factories, ticks, cfg.Bench.Sizes)
	if err != nil {
		log.Fatal().Err(err).Msg("benchmark suite failed")
	}

	if err := writeArtifacts(cfg, samples); err != nil {
		log.Fatal().Err(err).Msg("write artifacts")
	}
	log.Info().
		Int("samples", len(samples)).
		Str("report", filepath.Join(cfg.Output.Dir, cfg.Output.ReportFile)).
		Msg("benchmark suite finished")
}

// loadTicks reads the configured CSV, falling back to a synthetic fixture
// persisted into the output directory when the file is missing.
func loadTicks(cfg *config.Config, log zerolog.Logger) ([]tick.Tick, error) {
	if _, err := os.Stat(cfg.Ingest.CSVPath); err == nil {
		return ingest.LoadCSV(cfg.Ingest.CSVPath)
	}

	n := cfg.Ingest.Synthetic.Ticks
	if n <= 0 {
		n = 100_000
	}
	log.Warn().Str("csv", cfg.Ingest.CSVPath).Int("ticks", n).Msg("input missing, generating synthetic fixture")
	ticks := ingest.Generate(n, ingest.GenOptions{
		Symbol:     cfg.Ingest.Synthetic.Symbol,
		StartPrice: cfg.Ingest.Synthetic.StartPrice,
		Seed:       cfg.Ingest.Synthetic.Seed,
	})
	fixture := filepath.Join(cfg.Output.Dir, "market_data_synthetic.csv")
	if err := ingest.WriteCSV(fixture, ticks); err != nil {
		return nil, err
	}
	return ticks, nil
}

func writeArtifacts(cfg *config.Config, samples []bench.Sample) error {
	recorder, err := report.NewJSONLRecorder(filepath.Join(cfg.Output.Dir, cfg.Output.SamplesFile))
	if err != nil {
		return err
	}
	for _, sample := range samples {
		recorder.Record(sample)
	}
	if err := recorder.Close(); err != nil {
		return err
	}

	history, err := store.Open(filepath.Join(cfg.Output.Dir, cfg.Output.HistoryDB))
	if err != nil {
		return err
	}
	defer history.Close()
	if err := history.SaveAll(context.Background(), samples); err != nil {
		return err
	}

	return report.WriteMarkdown(filepath.Join(cfg.Output.Dir, cfg.Output.ReportFile), samples)
}
