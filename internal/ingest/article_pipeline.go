package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/source"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"golang.org/x/sync/errgroup"
)

// ArticlePipeline drains registered sources, drops records already seen and
// writes the rest through the storage gateway.
type ArticlePipeline struct {
	sources []source.Source
	writer  storage.ArticleWriter
	dedup   storage.FingerprintStore
	config  *PipelineConfig

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewPipeline creates an article pipeline writing through writer and deduplicating against dedup.
func NewPipeline(writer storage.ArticleWriter, dedup storage.FingerprintStore, opts ...PipelineOption) *ArticlePipeline {
	p := &ArticlePipeline{
		writer: writer,
		dedup:  dedup,
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(p)
	}
	p.config = normalizeConfig(p.config)

	return p
}

// AddSource registers a source. Sources are drained in registration order.
func (p *ArticlePipeline) AddSource(src source.Source) *ArticlePipeline {
	p.sources = append(p.sources, src)
	return p
}

// Run drains every registered source and flushes the remaining batch.
// Failures of a single source or batch are logged and counted in the report; an
// error is returned only when strict mode aborts the run or the run is cancelled.
func (p *ArticlePipeline) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()

	var cancel context.CancelFunc
	if p.config.RunTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.config.RunTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.cancel = nil
		p.mu.Unlock()
	}()

	slog.Info("🛫 Starting pipeline run",
		"pipeline", p.config.Name,
		"sources", len(p.sources),
		"write_policy", p.config.WritePolicy,
		"batch_size", p.config.BatchSize,
		"concurrency", p.config.Concurrency,
		"strict", p.config.Strict,
	)

	r := newRun(p)
	r.purgeExpired(ctx)
	err := r.drainAll(ctx)
	switch {
	case err != nil:
		r.discard(r.batch.take())
	case ctx.Err() != nil:
		r.discard(r.batch.take())
		err = fmt.Errorf("pipeline %s interrupted: %w", p.config.Name, ctx.Err())
	default:
		err = r.flushRemaining(ctx)
	}

	r.report.update(func(rep *RunReport) { rep.Duration = time.Since(start) })
	r.report.log(p.config.Name)

	return r.report, err
}

// Execute runs the pipeline and never fails; problems are only visible through
// logs and the returned report.
func (p *ArticlePipeline) Execute(ctx context.Context) *RunReport {
	report, err := p.Run(ctx)
	if err != nil {
		slog.Error("Pipeline run ended early", "pipeline", p.config.Name, "error", err)
	}
	return report
}

// Stop cancels the run in progress, if any. Batches already flushed stay persisted.
func (p *ArticlePipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}
	slog.Info("Stopping pipeline...", "pipeline", p.config.Name)
	p.cancel()
}

// run holds the state of a single Run call.
type run struct {
	p       *ArticlePipeline
	claims  *claims
	batch   *accumulator
	report  *RunReport
	flushes atomic.Int64
}

func newRun(p *ArticlePipeline) *run {
	return &run{
		p:      p,
		claims: newClaims(p.dedup),
		batch:  newAccumulator(p.config.BatchSize),
		report: &RunReport{},
	}
}

// purgeExpired deletes stale fingerprint markers when the store supports it.
func (r *run) purgeExpired(ctx context.Context) {
	purger, ok := r.p.dedup.(storage.FingerprintPurger)
	if !ok {
		return
	}
	purged, err := purger.PurgeExpiredFingerprints(ctx)
	if err != nil {
		slog.Warn("Failed to purge expired fingerprints", "pipeline", r.p.config.Name, "error", err)
		return
	}
	if purged > 0 {
		slog.Info("Purged expired fingerprints", "pipeline", r.p.config.Name, "count", purged)
	}
	r.report.update(func(rep *RunReport) { rep.Purged = purged })
}

func (r *run) drainAll(ctx context.Context) error {
	if r.p.config.Concurrency <= 1 {
		for _, src := range r.p.sources {
			if err := r.drainSource(ctx, src); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.p.config.Concurrency)
	for _, src := range r.p.sources {
		g.Go(func() error {
			return r.drainSource(gctx, src)
		})
	}
	return g.Wait()
}

// drainSource consumes one source to the end. Records already staged stay staged
// when the source fails part way.
func (r *run) drainSource(ctx context.Context, src source.Source) (err error) {
	if ctx.Err() != nil {
		return nil
	}

	name := src.Name()
	stats := r.report.source(name)

	// stops the producer when the source is abandoned
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = r.fetchFailed(stats, apperr.NewFetchFailed(name, fmt.Errorf("panic: %v", rec)))
		}
	}()

	slog.Info("Draining source", "pipeline", r.p.config.Name, "source", name)

	results, err := src.FetchAndTransform(ctx)
	if err != nil {
		return r.fetchFailed(stats, asFetchFailed(name, err))
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping source",
				"pipeline", r.p.config.Name,
				"source", name,
			)
			return nil
		case res, ok := <-results:
			if !ok {
				slog.Info("Source drained", "pipeline", r.p.config.Name, "source", name)
				return nil
			}
			if res.Err != nil {
				return r.fetchFailed(stats, asFetchFailed(name, res.Err))
			}
			if err := r.handle(ctx, stats, res.Result); err != nil {
				if errors.Is(err, apperr.ErrStrictAbort) {
					return err
				}
				return r.abandon(stats, err)
			}
		}
	}
}

// handle validates, fingerprints and stages one record. The returned error either
// aborts the run or abandons the current source.
func (r *run) handle(ctx context.Context, stats *SourceStats, article domain.CanonicalArticle) error {
	r.report.update(func(*RunReport) { stats.Fetched++ })

	if err := article.Validate(); err != nil {
		slog.Warn("Skipping invalid article", "source", stats.Name, "url", article.URL, "error", err)
		r.report.update(func(*RunReport) { stats.Invalid++ })
		return nil
	}

	fp := domain.Fingerprint(article)
	fresh, err := r.claims.acquire(ctx, fp)
	if err != nil {
		wErr := apperr.NewWriteFailed(apperr.OpCheckFingerprint, 1, err)
		slog.Error("Dedup check failed, skipping article",
			"pipeline", r.p.config.Name,
			"source", stats.Name,
			"url", article.URL,
			"error", wErr,
		)
		r.report.update(func(rep *RunReport) { rep.WriteFailures++ })
		return r.fail(wErr)
	}
	if !fresh {
		slog.Debug("Skipping duplicate article", "source", stats.Name, "url", article.URL, "fingerprint", fp)
		r.report.update(func(*RunReport) { stats.Duplicates++ })
		return nil
	}

	item := staged{
		article:     domain.NewArticle(article, fp),
		fingerprint: fp,
		source:      stats.Name,
	}
	if r.p.config.WritePolicy == WritePerArticle {
		return r.writeOne(ctx, item)
	}
	if full := r.batch.add(item); full != nil {
		return r.flush(ctx, full)
	}
	return nil
}

func (r *run) flushRemaining(ctx context.Context) error {
	err := r.flush(ctx, r.batch.take())
	if err == nil || errors.Is(err, apperr.ErrStrictAbort) {
		return err
	}
	slog.Error("Final batch flush failed", "pipeline", r.p.config.Name, "error", err)
	r.report.update(func(rep *RunReport) { rep.WriteFailures++ })
	return r.fail(err)
}

// discard releases records that will not be written in this run.
func (r *run) discard(batch []staged) {
	if len(batch) == 0 {
		return
	}
	slog.Warn("Discarding unflushed articles", "pipeline", r.p.config.Name, "count", len(batch))
	r.drop(batch)
}

func (r *run) fetchFailed(stats *SourceStats, err error) error {
	slog.Error("Source fetch failed, skipping",
		"pipeline", r.p.config.Name,
		"source", stats.Name,
		"error", err,
	)
	r.report.update(func(rep *RunReport) {
		rep.FetchFailures++
		stats.Err = err
	})
	return r.fail(err)
}

// abandon stops consuming a source after its write was rejected.
func (r *run) abandon(stats *SourceStats, err error) error {
	slog.Error("Write failed, abandoning source",
		"pipeline", r.p.config.Name,
		"source", stats.Name,
		"error", err,
	)
	r.report.update(func(rep *RunReport) {
		rep.WriteFailures++
		stats.Err = err
	})
	return r.fail(err)
}

// fail turns err into a run abort in strict mode and swallows it otherwise.
func (r *run) fail(err error) error {
	if !r.p.config.Strict {
		return nil
	}
	return fmt.Errorf("%w: %w", apperr.ErrStrictAbort, err)
}

func asFetchFailed(name string, err error) error {
	var fetchErr *apperr.FetchFailedError
	if errors.As(err, &fetchErr) {
		return err
	}
	return apperr.NewFetchFailed(name, err)
}
