package ingest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/samber/lo"
)

// staged is an article that passed dedup and waits to be written.
type staged struct {
	article     domain.Article
	fingerprint string
	source      string
}

// accumulator is the batch shared by every source of a run.
type accumulator struct {
	mu    sync.Mutex
	size  int
	items []staged
}

func newAccumulator(size int) *accumulator {
	return &accumulator{size: size, items: make([]staged, 0, size)}
}

// add appends item and hands back the full batch once the threshold is reached.
func (a *accumulator) add(item staged) []staged {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.items = append(a.items, item)
	if len(a.items) < a.size {
		return nil
	}
	full := a.items
	a.items = make([]staged, 0, a.size)
	return full
}

// take empties the accumulator.
func (a *accumulator) take() []staged {
	a.mu.Lock()
	defer a.mu.Unlock()

	rest := a.items
	a.items = make([]staged, 0, a.size)
	return rest
}

// flush writes a batch: one bulk article insert, then attributes and fingerprint
// markers per article. A rejected insert drops the whole batch and is returned as a
// WriteFailedError. Attribute and marker failures are recorded without undoing the
// articles already stored.
func (r *run) flush(ctx context.Context, batch []staged) error {
	if len(batch) == 0 {
		return nil
	}

	articles := lo.Map(batch, func(s staged, _ int) domain.Article { return s.article })
	ids, err := r.p.writer.InsertArticles(ctx, articles)
	if err != nil {
		r.drop(batch)
		return apperr.NewWriteFailed(apperr.OpInsertArticles, len(batch), err)
	}

	r.report.update(func(rep *RunReport) {
		rep.Flushes++
		rep.Persisted += len(ids)
	})
	slog.Info("Flushed article batch",
		"pipeline", r.p.config.Name,
		"count", len(ids),
		"batch", r.flushes.Add(1),
	)

	for i, id := range ids {
		item := batch[i]
		if err := r.p.writer.CreateAttributes(ctx, id, item.article.Attributes); err != nil {
			if err := r.writeFailed(item, apperr.NewWriteFailed(apperr.OpCreateAttributes, 1, err)); err != nil {
				return err
			}
		}
		if err := r.mark(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// writeOne persists a single article with its attributes. Gateways that can do so
// atomically implement storage.ArticleSaver.
func (r *run) writeOne(ctx context.Context, item staged) error {
	if saver, ok := r.p.writer.(storage.ArticleSaver); ok {
		if _, err := saver.SaveArticle(ctx, item.article); err != nil {
			r.drop([]staged{item})
			return apperr.NewWriteFailed(apperr.OpInsertArticles, 1, err)
		}
	} else {
		ids, err := r.p.writer.InsertArticles(ctx, []domain.Article{item.article})
		if err != nil {
			r.drop([]staged{item})
			return apperr.NewWriteFailed(apperr.OpInsertArticles, 1, err)
		}
		if err := r.p.writer.CreateAttributes(ctx, ids[0], item.article.Attributes); err != nil {
			r.report.update(func(rep *RunReport) { rep.Persisted++ })
			if err := r.writeFailed(item, apperr.NewWriteFailed(apperr.OpCreateAttributes, 1, err)); err != nil {
				return err
			}
			return r.mark(ctx, item)
		}
	}

	r.report.update(func(rep *RunReport) { rep.Persisted++ })
	slog.Debug("Article saved", "pipeline", r.p.config.Name, "source", item.source, "url", item.article.URL)
	return r.mark(ctx, item)
}

// mark records the fingerprint as seen. On failure the claim stays held so the
// article cannot be written again during this run.
func (r *run) mark(ctx context.Context, item staged) error {
	if err := r.p.dedup.MarkFingerprint(ctx, item.fingerprint, r.p.config.DedupTTL); err != nil {
		return r.writeFailed(item, apperr.NewWriteFailed(apperr.OpMarkFingerprint, 1, err))
	}
	r.claims.release(item.fingerprint)
	return nil
}

// writeFailed logs a write failure that does not abandon the source.
func (r *run) writeFailed(item staged, err *apperr.WriteFailedError) error {
	slog.Error("Article write failed",
		"pipeline", r.p.config.Name,
		"source", item.source,
		"url", item.article.URL,
		"op", err.Op,
		"error", err,
	)
	r.report.update(func(rep *RunReport) { rep.WriteFailures++ })
	return r.fail(err)
}

// drop gives up on records that never reached the store. Their claims stay held, so
// no other source writes them during this run; a later run sees them as new.
func (r *run) drop(batch []staged) {
	r.report.update(func(rep *RunReport) { rep.Dropped += len(batch) })
}
