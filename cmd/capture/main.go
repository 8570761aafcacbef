package main

import (
	"context"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tickbench/internal/config"
	"tickbench/internal/ingest"
	"tickbench/internal/util"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "internal/config/config.yaml", "path to YAML configuration")
	outPath := flag.String("out", "", "CSV destination (overrides config)")
	maxTicks := flag.Int("ticks", 0, "number of ticks to capture (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	if *outPath != "" {
		cfg.Capture.OutPath = *outPath
	}
	if *maxTicks > 0 {
		cfg.Capture.MaxTicks = *maxTicks
	}

	log := util.NewLogger(cfg.App.LogLevel)

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	capture := ingest.NewCapture(cfg.Capture.URL, cfg.Capture.Symbols, cfg.Capture.MaxTicks, log)
	ticks, err := capture.Run(ctx)
	if err != nil && len(ticks) == 0 {
		log.Fatal().Err(err).Msg("capture failed")
	}
	if err != nil {
		log.Warn().Err(err).Int("ticks", len(ticks)).Msg("capture stopped early, writing partial fixture")
	}

	if err := ingest.WriteCSV(cfg.Capture.OutPath, ticks); err != nil {
		log.Fatal().Err(err).Msg("write fixture")
	}
	log.Info().Int("ticks", len(ticks)).Str("path", cfg.Capture.OutPath).Msg("fixture written")
}
