package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/source"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/stringsutil"
)

var defaultSources = []string{source.KindNewsAPI, source.KindNYTimes, source.KindGuardian}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

// cliFlags override the environment when set.
type cliFlags struct {
	Strict      bool
	Concurrency int
	Sources     string
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.BoolVar(&f.Strict, "strict", false, "Abort the run on the first fetch or write failure")
	fs.IntVar(&f.Concurrency, "concurrency", 0, "Number of sources drained at once (overrides CONCURRENCY)")
	fs.StringVar(&f.Sources, "sources", "", "Comma-separated source identifiers (overrides ENABLED_SOURCES)")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	return f, nil
}

type IngestConfig struct {
	Pipeline          *ingest.PipelineConfig
	FetchTimeout      time.Duration
	EnabledSources    []string
	SourcesConfigPath string
	factory.StorageConfig
}

func (as *AppConfig) Load(flags cliFlags) (*IngestConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/ingest/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	cfg := &IngestConfig{
		Pipeline:          pipelineConfigFromEnv(),
		FetchTimeout:      time.Duration(env.Int("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		EnabledSources:    env.List("ENABLED_SOURCES", defaultSources),
		SourcesConfigPath: os.Getenv("SOURCES_CONFIG_PATH"),
		StorageConfig:     *storageCfg,
	}

	if flags.Strict {
		cfg.Pipeline.Strict = true
	}
	if flags.Concurrency > 0 {
		cfg.Pipeline.Concurrency = flags.Concurrency
	}
	if flags.Sources != "" {
		cfg.EnabledSources = stringsutil.SplitList(flags.Sources)
	}
	if len(cfg.EnabledSources) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	return cfg, nil
}

func pipelineConfigFromEnv() *ingest.PipelineConfig {
	cfg := ingest.DefaultConfig()
	cfg.Name = "ingest"
	cfg.BatchSize = env.Int("BATCH_SIZE", cfg.BatchSize)
	cfg.DedupTTL = env.Duration("DEDUP_TTL", cfg.DedupTTL)
	cfg.RunTimeout = env.Duration("RUN_TIMEOUT", cfg.RunTimeout)
	cfg.Strict = env.Bool("STRICT_MODE", cfg.Strict)
	cfg.Concurrency = env.Int("CONCURRENCY", cfg.Concurrency)

	if raw := os.Getenv("WRITE_POLICY"); raw != "" {
		if policy, ok := ingest.ParseWritePolicy(raw); ok {
			cfg.WritePolicy = policy
		} else {
			slog.Warn("Invalid WRITE_POLICY, using default", "value", raw, "default", cfg.WritePolicy)
		}
	}
	return cfg
}

// loadSources reads the provider YAML when configured and falls back to the built-in providers.
func loadSources(cfg *IngestConfig) ([]source.Source, error) {
	srcCfg := source.DefaultConfig()
	if cfg.SourcesConfigPath != "" {
		file, err := os.Open(cfg.SourcesConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open source config: %w", err)
		}
		defer file.Close()

		srcCfg, err = source.LoadConfig(file)
		if err != nil {
			return nil, err
		}
	}

	sources := source.Build(srcCfg, cfg.EnabledSources, cfg.FetchTimeout)
	if len(sources) == 0 {
		return nil, fmt.Errorf("none of the enabled sources %v are configured", cfg.EnabledSources)
	}
	return sources, nil
}
