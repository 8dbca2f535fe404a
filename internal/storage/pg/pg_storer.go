package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	articleColumns   = []string{"id", "title", "url", "description", "fingerprint", "created_at", "updated_at"}
	attributeColumns = []string{"article_id", "name", "value", "created_at", "updated_at"}
)

// Storer is the Postgres persistence gateway: articles, attribute rows and the
// fingerprint table used for dedup.
type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{db: pool.conn}, nil
}

// InsertArticles bulk-loads the core article fields with COPY. Ids are assigned
// here so they are known without a RETURNING round trip.
func (s *Storer) InsertArticles(ctx context.Context, articles []domain.Article) ([]uuid.UUID, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	now := time.Now()
	ids := make([]uuid.UUID, len(articles))
	rows := make([][]interface{}, len(articles))
	for i, a := range articles {
		ids[i] = uuid.New()
		rows[i] = []interface{}{ids[i], a.Title, a.URL, a.Description, a.Fingerprint, now, now}
	}

	_, err := s.db.CopyFrom(ctx, pgx.Identifier{"articles"}, articleColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert articles: %w", err)
	}
	return ids, nil
}

func (s *Storer) CreateAttributes(ctx context.Context, articleID uuid.UUID, attrs []domain.Attribute) error {
	if len(attrs) == 0 {
		return nil
	}
	return insertAttributes(ctx, s.db, articleID, attrs)
}

// SaveArticle writes one article and its attributes in a single transaction.
func (s *Storer) SaveArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmd := `
        INSERT INTO articles (id, title, url, description, fingerprint, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, now(), now())
        RETURNING id;
    `
	var id uuid.UUID
	err = tx.QueryRow(ctx, cmd,
		uuid.New(),
		article.Title,
		article.URL,
		article.Description,
		article.Fingerprint,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert article: %w", err)
	}

	if len(article.Attributes) > 0 {
		if err := insertAttributes(ctx, tx, id, article.Attributes); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit article: %w", err)
	}
	return id, nil
}

type copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func insertAttributes(ctx context.Context, db copier, articleID uuid.UUID, attrs []domain.Attribute) error {
	now := time.Now()
	rows := make([][]interface{}, len(attrs))
	for i, attr := range attrs {
		rows[i] = []interface{}{articleID, attr.Name, attr.Value, now, now}
	}
	if _, err := db.CopyFrom(ctx, pgx.Identifier{"attributes"}, attributeColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to insert attributes for article %s: %w", articleID, err)
	}
	return nil
}
