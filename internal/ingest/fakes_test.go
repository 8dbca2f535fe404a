package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/google/uuid"
)

var errStore = errors.New("store unavailable")

func canonical(url, date, title string) domain.CanonicalArticle {
	return domain.CanonicalArticle{
		Title: title,
		URL:   url,
		Attributes: []domain.Attribute{
			{Name: domain.AttrDate, Value: date},
			{Name: domain.AttrCategory, Value: "business"},
		},
	}
}

// staticSource replays a fixed list of records. failAfter >= 0 terminates the
// sequence with an error after that many records.
type staticSource struct {
	name      string
	articles  []domain.CanonicalArticle
	openErr   error
	failAfter int
	panics    bool
}

func newStatic(name string, articles ...domain.CanonicalArticle) *staticSource {
	return &staticSource{name: name, articles: articles, failAfter: -1}
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) FetchAndTransform(ctx context.Context) (<-chan collector.Result[domain.CanonicalArticle], error) {
	if s.panics {
		panic("adapter bug")
	}
	if s.openErr != nil {
		return nil, s.openErr
	}
	out := make(chan collector.Result[domain.CanonicalArticle])
	go func() {
		defer close(out)
		for i, a := range s.articles {
			if i == s.failAfter {
				collector.Send(ctx, out, collector.Result[domain.CanonicalArticle]{Err: errStore})
				return
			}
			if !collector.Send(ctx, out, collector.Result[domain.CanonicalArticle]{Result: a}) {
				return
			}
		}
	}()
	return out, nil
}

// recordingStore delegates to the in-memory storer and records or injects failures.
// It does not implement storage.ArticleSaver.
type recordingStore struct {
	mem *in_mem.InMemStorer

	mu            sync.Mutex
	insertSizes  []int
	failInsertOn map[int]bool
	failAttrs    bool
	failMark     bool
	failHas      bool
	markedPrints []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		mem:          in_mem.NewInMemStorer(),
		failInsertOn: make(map[int]bool),
	}
}

func (s *recordingStore) InsertArticles(ctx context.Context, articles []domain.Article) ([]uuid.UUID, error) {
	s.mu.Lock()
	s.insertSizes = append(s.insertSizes, len(articles))
	fail := s.failInsertOn[len(s.insertSizes)]
	s.mu.Unlock()

	if fail {
		return nil, errStore
	}
	return s.mem.InsertArticles(ctx, articles)
}

func (s *recordingStore) CreateAttributes(ctx context.Context, id uuid.UUID, attrs []domain.Attribute) error {
	if s.failAttrs {
		return errStore
	}
	return s.mem.CreateAttributes(ctx, id, attrs)
}

func (s *recordingStore) HasFingerprint(ctx context.Context, fp string) (bool, error) {
	if s.failHas {
		return false, errStore
	}
	return s.mem.HasFingerprint(ctx, fp)
}

func (s *recordingStore) MarkFingerprint(ctx context.Context, fp string, ttl time.Duration) error {
	if s.failMark {
		return errStore
	}
	s.mu.Lock()
	s.markedPrints = append(s.markedPrints, fp)
	s.mu.Unlock()
	return s.mem.MarkFingerprint(ctx, fp, ttl)
}

func (s *recordingStore) inserts() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.insertSizes...)
}

func (s *recordingStore) urls() []string {
	var urls []string
	for _, a := range s.mem.Articles() {
		urls = append(urls, a.URL)
	}
	return urls
}
