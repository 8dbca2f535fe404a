package ingest

import (
	"context"
	"time"
)

const (
	defaultBatchSize  = 100
	defaultDedupTTL   = 7 * 24 * time.Hour
	defaultRunTimeout = 5 * time.Minute
)

// Pipeline defines the common interface for ingestion pipelines
type Pipeline interface {
	// Run executes the pipeline with the given context
	Run(ctx context.Context) (*RunReport, error)

	// Stop aborts an in-flight run
	Stop()
}

// WritePolicy selects how staged articles reach the store.
type WritePolicy string

const (
	// WriteBatch accumulates articles and flushes them with one bulk insert, then
	// writes each article's attributes separately.
	WriteBatch WritePolicy = "batch"
	// WritePerArticle writes every article together with its attributes as soon as
	// it passes dedup.
	WritePerArticle WritePolicy = "per_article"
)

func ParseWritePolicy(s string) (WritePolicy, bool) {
	switch WritePolicy(s) {
	case WriteBatch, WritePerArticle:
		return WritePolicy(s), true
	default:
		return "", false
	}
}

// PipelineConfig defines configuration for the article pipeline
type PipelineConfig struct {
	Name      string
	BatchSize int
	DedupTTL  time.Duration
	// RunTimeout bounds a whole run; zero disables the deadline.
	RunTimeout  time.Duration
	WritePolicy WritePolicy
	// Strict stops the run on the first fetch or write failure.
	Strict bool
	// Concurrency is the number of sources drained at once; 1 is sequential.
	Concurrency int
}

func DefaultConfig() *PipelineConfig {
	return &PipelineConfig{
		Name:        "article-pipeline",
		BatchSize:   defaultBatchSize,
		DedupTTL:    defaultDedupTTL,
		RunTimeout:  defaultRunTimeout,
		WritePolicy: WriteBatch,
		Concurrency: 1,
	}
}

// normalizeConfig falls back to defaults for values a run cannot work with.
func normalizeConfig(config *PipelineConfig) *PipelineConfig {
	if config == nil {
		return DefaultConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.WritePolicy == "" {
		config.WritePolicy = WriteBatch
	}
	return config
}

type PipelineOption func(pipeline *ArticlePipeline)

// WithBatchSize sets the flush threshold for the batch write policy
func WithBatchSize(size int) PipelineOption {
	return func(pipeline *ArticlePipeline) {
		if size > 0 {
			pipeline.config.BatchSize = size
		}
	}
}

func WithDedupTTL(ttl time.Duration) PipelineOption {
	return func(pipeline *ArticlePipeline) {
		if ttl > 0 {
			pipeline.config.DedupTTL = ttl
		}
	}
}

func WithWritePolicy(policy WritePolicy) PipelineOption {
	return func(pipeline *ArticlePipeline) {
		pipeline.config.WritePolicy = policy
	}
}

func WithStrict(strict bool) PipelineOption {
	return func(pipeline *ArticlePipeline) {
		pipeline.config.Strict = strict
	}
}

func WithConcurrency(n int) PipelineOption {
	return func(pipeline *ArticlePipeline) {
		if n > 0 {
			pipeline.config.Concurrency = n
		}
	}
}

func WithRunTimeout(d time.Duration) PipelineOption {
	return func(pipeline *ArticlePipeline) {
		pipeline.config.RunTimeout = d
	}
}

// WithConfig sets custom pipeline configuration
func WithConfig(config *PipelineConfig) PipelineOption {
	return func(pipeline *ArticlePipeline) {
		pipeline.config = config
	}
}
