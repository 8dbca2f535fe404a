package in_mem

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	order       []uuid.UUID
	storage     map[uuid.UUID]domain.Article

	fpLock       sync.Mutex
	fingerprints map[string]time.Time

	now func() time.Time
}

type Option func(*InMemStorer)

// WithClock overrides the time source used for timestamps and fingerprint expiry.
func WithClock(now func() time.Time) Option {
	return func(s *InMemStorer) {
		s.now = now
	}
}

func NewInMemStorer(opts ...Option) *InMemStorer {
	s := &InMemStorer{
		storage:      make(map[uuid.UUID]domain.Article),
		fingerprints: make(map[string]time.Time),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemStorer) InsertArticles(ctx context.Context, articles []domain.Article) ([]uuid.UUID, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	now := s.now()
	ids := make([]uuid.UUID, len(articles))
	for i, article := range articles {
		article.ID = uuid.New()
		article.CreatedAt = now
		article.UpdatedAt = now
		article.Attributes = nil
		s.storage[article.ID] = article
		s.order = append(s.order, article.ID)
		ids[i] = article.ID
	}
	slog.Debug("Saved articles to in-memory storage", "count", len(articles))

	return ids, nil
}

func (s *InMemStorer) CreateAttributes(ctx context.Context, articleID uuid.UUID, attrs []domain.Attribute) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	article, ok := s.storage[articleID]
	if !ok {
		return storage.ErrArticleNotFound
	}
	article.Attributes = append(article.Attributes, attrs...)
	s.storage[articleID] = article
	return nil
}

func (s *InMemStorer) SaveArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	attrs := article.Attributes
	ids, err := s.InsertArticles(ctx, []domain.Article{article})
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.CreateAttributes(ctx, ids[0], attrs); err != nil {
		return uuid.Nil, err
	}
	return ids[0], nil
}

func (s *InMemStorer) HasFingerprint(ctx context.Context, fp string) (bool, error) {
	s.fpLock.Lock()
	defer s.fpLock.Unlock()

	expiresAt, ok := s.fingerprints[fp]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.fingerprints, fp)
		return false, nil
	}
	return true, nil
}

func (s *InMemStorer) MarkFingerprint(ctx context.Context, fp string, ttl time.Duration) error {
	s.fpLock.Lock()
	defer s.fpLock.Unlock()

	s.fingerprints[fp] = s.now().Add(ttl)
	return nil
}

func (s *InMemStorer) PurgeExpiredFingerprints(ctx context.Context) (int64, error) {
	s.fpLock.Lock()
	defer s.fpLock.Unlock()

	now := s.now()
	var purged int64
	for fp, expiresAt := range s.fingerprints {
		if !now.Before(expiresAt) {
			delete(s.fingerprints, fp)
			purged++
		}
	}
	return purged, nil
}

// Articles returns every stored article in insertion order.
func (s *InMemStorer) Articles() []domain.Article {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	return lo.Map(s.order, func(id uuid.UUID, _ int) domain.Article {
		return s.storage[id]
	})
}

func (s *InMemStorer) ListArticles(ctx context.Context, filter storage.ArticleFilter, page, size int) (*storage.Page, error) {
	matched := lo.Filter(s.Articles(), func(a domain.Article, _ int) bool {
		return matchesFilter(a, filter)
	})
	return paginate(matched, page, size), nil
}

func (s *InMemStorer) Feed(ctx context.Context, prefs storage.FeedPreferences, page, size int) (*storage.Page, error) {
	byAttr := prefs.ByAttribute()
	matched := lo.Filter(s.Articles(), func(a domain.Article, _ int) bool {
		for name, values := range byAttr {
			if !lo.SomeBy(a.Attributes, func(attr domain.Attribute) bool {
				return attr.Name == name && lo.Contains(values, attr.Value)
			}) {
				return false
			}
		}
		return true
	})
	return paginate(matched, page, size), nil
}

func matchesFilter(a domain.Article, f storage.ArticleFilter) bool {
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		inText := strings.Contains(strings.ToLower(a.Title), kw) ||
			(a.Description != nil && strings.Contains(strings.ToLower(*a.Description), kw))
		inAttr := lo.SomeBy(a.Attributes, func(attr domain.Attribute) bool {
			return attr.Name == domain.AttrKeyword && strings.EqualFold(attr.Value, f.Keyword)
		})
		if !inText && !inAttr {
			return false
		}
	}
	if f.Date != "" {
		date, ok := a.Attr(domain.AttrDate)
		if !ok || !strings.HasPrefix(date, f.Date) {
			return false
		}
	}
	if f.Category != "" {
		if v, ok := a.Attr(domain.AttrCategory); !ok || v != f.Category {
			return false
		}
	}
	if f.Source != "" {
		if v, ok := a.Attr(domain.AttrSource); !ok || v != f.Source {
			return false
		}
	}
	return true
}

func paginate(articles []domain.Article, page, size int) *storage.Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = len(articles)
	}
	start := (page - 1) * size
	end := start + size
	total := len(articles)
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return &storage.Page{
		Items: articles[start:end],
		Total: total,
		Page:  page,
		Size:  size,
	}
}
