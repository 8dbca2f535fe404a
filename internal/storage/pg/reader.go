package pg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPageSize = 10

type Reader struct {
	db *pgxpool.Pool
}

func NewReader(pool *ConnectionPool) (*Reader, error) {
	return &Reader{db: pool.conn}, nil
}

func (r *Reader) ListArticles(ctx context.Context, filter storage.ArticleFilter, page, size int) (*storage.Page, error) {
	slog.Debug("Listing pg articles", "filter", filter, "page", page, "size", size)

	q := newQuery()
	if filter.Keyword != "" {
		p := q.arg("%" + filter.Keyword + "%")
		kw := q.arg(filter.Keyword)
		q.where(fmt.Sprintf(`(a.title ILIKE %s OR a.description ILIKE %s OR %s)`,
			p, p, attrExists(domain.AttrKeyword, "lower(t.value) = lower("+kw+")")))
	}
	if filter.Date != "" {
		q.where(attrExists(domain.AttrDate, "t.value LIKE "+q.arg(filter.Date+"%")))
	}
	if filter.Category != "" {
		q.where(attrExists(domain.AttrCategory, "t.value = "+q.arg(filter.Category)))
	}
	if filter.Source != "" {
		q.where(attrExists(domain.AttrSource, "t.value = "+q.arg(filter.Source)))
	}

	return r.page(ctx, q, page, size)
}

func (r *Reader) Feed(ctx context.Context, prefs storage.FeedPreferences, page, size int) (*storage.Page, error) {
	q := newQuery()
	for _, name := range []string{domain.AttrCategory, domain.AttrSource, domain.AttrAuthor} {
		values, ok := prefs.ByAttribute()[name]
		if !ok {
			continue
		}
		q.where(attrExists(name, "t.value = ANY("+q.arg(values)+")"))
	}
	return r.page(ctx, q, page, size)
}

func (r *Reader) page(ctx context.Context, q *query, page, size int) (*storage.Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}

	var total int
	countSQL := "SELECT count(*) FROM articles a" + q.whereClause()
	if err := r.db.QueryRow(ctx, countSQL, q.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	limit := q.arg(size)
	offset := q.arg((page - 1) * size)
	listSQL := `SELECT a.id, a.title, a.url, a.description, a.created_at, a.updated_at FROM articles a` +
		q.whereClause() +
		fmt.Sprintf(" ORDER BY a.created_at DESC, a.id DESC LIMIT %s OFFSET %s", limit, offset)

	rows, err := r.db.Query(ctx, listSQL, q.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list query: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0, size)
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := r.loadAttributes(ctx, articles); err != nil {
		return nil, err
	}

	return &storage.Page{Items: articles, Total: total, Page: page, Size: size}, nil
}

func (r *Reader) loadAttributes(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]int, len(articles))
	ids := make([]uuid.UUID, len(articles))
	for i, a := range articles {
		index[a.ID] = i
		ids[i] = a.ID
	}

	rows, err := r.db.Query(ctx,
		`SELECT article_id, name, value FROM attributes WHERE article_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			articleID uuid.UUID
			attr      domain.Attribute
		)
		if err := rows.Scan(&articleID, &attr.Name, &attr.Value); err != nil {
			return fmt.Errorf("failed to scan attribute: %w", err)
		}
		i := index[articleID]
		articles[i].Attributes = append(articles[i].Attributes, attr)
	}
	return rows.Err()
}

type query struct {
	conds []string
	args  []interface{}
}

func newQuery() *query {
	return &query{}
}

// arg appends a positional argument and returns its placeholder.
func (q *query) arg(v interface{}) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *query) where(cond string) {
	q.conds = append(q.conds, cond)
}

func (q *query) whereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func attrExists(name, cond string) string {
	return fmt.Sprintf(
		`EXISTS (SELECT 1 FROM attributes t WHERE t.article_id = a.id AND t.name = '%s' AND %s)`,
		name, cond)
}
