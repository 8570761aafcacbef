// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Bench groups the measurement knobs for a benchmark suite run.
type Bench struct {
	Sizes       []int    `yaml:"sizes"`
	Window      int      `yaml:"window"`
	Repeats     int      `yaml:"repeats"`
	TimeLimitMs int      `yaml:"time_limit_ms"`
	Strategies  []string `yaml:"strategies"`
	Profiles    bool     `yaml:"profiles"`
}

// Synthetic tunes the fallback tick generator used when no CSV input exists.
type Synthetic struct {
	Ticks      int     `yaml:"ticks"`
	Symbol     string  `yaml:"symbol"`
	StartPrice float64 `yaml:"start_price"`
	Seed       int64   `yaml:"seed"`
}

// Ingest describes where benchmark input ticks come from.
type Ingest struct {
	CSVPath   string    `yaml:"csv_path"`
	Synthetic Synthetic `yaml:"synthetic"`
}

// Output collects the artifact destinations for a suite run.
type Output struct {
	Dir         string `yaml:"dir"`
	ReportFile  string `yaml:"report_file"`
	SamplesFile string `yaml:"samples_file"`
	HistoryDB   string `yaml:"history_db"`
}

// Capture configures the live websocket fixture recorder.
type Capture struct {
	URL      string   `yaml:"url"`
	Symbols  []string `yaml:"symbols"`
	MaxTicks int      `yaml:"max_ticks"`
	OutPath  string   `yaml:"out_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App     App     `yaml:"app"`
	Bench   Bench   `yaml:"bench"`
	Ingest  Ingest  `yaml:"ingest"`
	Output  Output  `yaml:"output"`
	Capture Capture `yaml:"capture"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
// TICKBENCH_CSV and TICKBENCH_OUT override the file's paths when set.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	overrideWithEnv(&config)
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func overrideWithEnv(cfg *Config) {
	if csv := os.Getenv("TICKBENCH_CSV"); csv != "" {
		cfg.Ingest.CSVPath = csv
	}
	if out := os.Getenv("TICKBENCH_OUT"); out != "" {
		cfg.Output.Dir = out
	}
}
