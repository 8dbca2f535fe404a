package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
)

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load(flags)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(env.LogLevel())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pipeline, cleanup, err := newPipeline(ctx, cfg)
	if err != nil {
		slog.Error("failed to create pipeline", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if !cfg.Pipeline.Strict {
		pipeline.Execute(ctx)
		return
	}

	if _, err := pipeline.Run(ctx); err != nil {
		slog.Error("failed to run pipeline", "error", err, "strict_abort", errors.Is(err, apperr.ErrStrictAbort))
		cleanup()
		os.Exit(1)
	}
}

func newPipeline(ctx context.Context, cfg *IngestConfig) (*ingest.ArticlePipeline, func(), error) {
	slog.Info("Creating pipeline", "storageType", cfg.StorageConfig.Type, "sources", cfg.EnabledSources)

	sources, err := loadSources(cfg)
	if err != nil {
		return nil, nil, err
	}

	gateway, cleanup, err := factory.NewGateway(ctx, cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to create storage gateway", "error", err)
		return nil, nil, err
	}

	p := ingest.NewPipeline(gateway, gateway, ingest.WithConfig(cfg.Pipeline))
	for _, src := range sources {
		p.AddSource(src)
	}
	return p, cleanup, nil
}
