// Package source holds the provider adapters that fetch articles from external
// news APIs and feeds and convert them into domain.CanonicalArticle records.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

// Source fetches from one provider. Every FetchAndTransform call starts a fresh
// sequence. An error returned directly means nothing was produced; an Err inside the
// sequence terminates it after the records already sent.
type Source interface {
	Name() string
	FetchAndTransform(ctx context.Context) (<-chan collector.Result[domain.CanonicalArticle], error)
}

// emit streams provider items through transform, dropping records that fail validation.
func emit[T any](ctx context.Context, name string, items []T, transform func(T) domain.CanonicalArticle) <-chan collector.Result[domain.CanonicalArticle] {
	out := make(chan collector.Result[domain.CanonicalArticle])
	go func() {
		defer close(out)
		defer recoverProducer(ctx, name, out)
		for _, item := range items {
			article, ok := finalize(name, transform(item))
			if !ok {
				continue
			}
			if !collector.Send(ctx, out, collector.Result[domain.CanonicalArticle]{Result: article}) {
				return
			}
		}
	}()
	return out
}

// recoverProducer ends a producer goroutine that panicked with a FetchFailed result
// instead of crashing the process.
func recoverProducer(ctx context.Context, name string, out chan<- collector.Result[domain.CanonicalArticle]) {
	rec := recover()
	if rec == nil {
		return
	}
	slog.Error("Source producer panicked", "source", name, "panic", rec)
	err := apperr.NewFetchFailed(name, fmt.Errorf("panic: %v", rec))
	collector.Send(ctx, out, collector.Result[domain.CanonicalArticle]{Err: err})
}

func finalize(name string, article domain.CanonicalArticle) (domain.CanonicalArticle, bool) {
	article.Attributes = domain.CompactAttributes(article.Attributes)
	if err := article.Validate(); err != nil {
		slog.Warn("Dropping invalid article", "source", name, "url", article.URL, "error", err)
		return article, false
	}
	return article, true
}
