package storage

import (
	"context"
	"errors"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/google/uuid"
)

// ArticleWriter persists articles and their attribute rows.
type ArticleWriter interface {
	// InsertArticles writes the core fields of a batch in one operation and returns
	// the assigned ids in batch order.
	InsertArticles(ctx context.Context, articles []domain.Article) ([]uuid.UUID, error)
	// CreateAttributes writes the attribute rows owned by an already inserted article.
	CreateAttributes(ctx context.Context, articleID uuid.UUID, attrs []domain.Attribute) error
}

// ArticleSaver is implemented by writers that can persist an article together with
// its attributes atomically.
type ArticleSaver interface {
	SaveArticle(ctx context.Context, article domain.Article) (uuid.UUID, error)
}

// FingerprintStore records which fingerprints were already persisted. A mark must be
// visible to HasFingerprint in the same process before the next record is evaluated.
type FingerprintStore interface {
	HasFingerprint(ctx context.Context, fp string) (bool, error)
	MarkFingerprint(ctx context.Context, fp string, ttl time.Duration) error
}

// FingerprintPurger is implemented by fingerprint stores that can delete markers
// past their retention window.
type FingerprintPurger interface {
	PurgeExpiredFingerprints(ctx context.Context) (int64, error)
}

// Gateway is the full persistence surface used by the ingestion pipeline.
type Gateway interface {
	ArticleWriter
	FingerprintStore
}

var ErrArticleNotFound = errors.New("article not found")

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
