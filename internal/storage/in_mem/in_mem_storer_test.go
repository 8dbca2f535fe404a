package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestInMemStorer_FingerprintExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewInMemStorer(WithClock(clock.Now))

	require.NoError(t, s.MarkFingerprint(ctx, "fp", time.Hour))

	seen, err := s.HasFingerprint(ctx, "fp")
	require.NoError(t, err)
	assert.True(t, seen)

	clock.now = clock.now.Add(time.Hour)
	seen, err = s.HasFingerprint(ctx, "fp")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestInMemStorer_PurgeExpiredFingerprints(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewInMemStorer(WithClock(clock.Now))

	require.NoError(t, s.MarkFingerprint(ctx, "short", time.Hour))
	require.NoError(t, s.MarkFingerprint(ctx, "long", 24*time.Hour))

	clock.now = clock.now.Add(2 * time.Hour)
	purged, err := s.PurgeExpiredFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	seen, err := s.HasFingerprint(ctx, "long")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestInMemStorer_InsertThenAttributes(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorer()

	ids, err := s.InsertArticles(ctx, []domain.Article{
		{Title: "A", URL: "http://x/a", Attributes: []domain.Attribute{{Name: "ignored", Value: "x"}}},
		{Title: "B", URL: "http://x/b"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	require.NoError(t, s.CreateAttributes(ctx, ids[1], []domain.Attribute{{Name: domain.AttrSource, Value: "BBC"}}))

	articles := s.Articles()
	require.Len(t, articles, 2)
	assert.Empty(t, articles[0].Attributes)
	assert.Equal(t, "B", articles[1].Title)
	assert.Equal(t, []domain.Attribute{{Name: domain.AttrSource, Value: "BBC"}}, articles[1].Attributes)
	assert.False(t, articles[1].CreatedAt.IsZero())
}

func TestInMemStorer_CreateAttributesUnknownArticle(t *testing.T) {
	s := NewInMemStorer()
	ids, err := s.InsertArticles(context.Background(), []domain.Article{{Title: "A", URL: "u"}})
	require.NoError(t, err)
	require.NoError(t, s.CreateAttributes(context.Background(), ids[0], nil))

	err = s.CreateAttributes(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, storage.ErrArticleNotFound)
}

func seed(t *testing.T, s *InMemStorer) {
	t.Helper()
	desc := "Markets rally on rate cut"
	for _, a := range []domain.Article{
		{Title: "Stocks up", URL: "http://x/1", Description: &desc, Attributes: []domain.Attribute{
			{Name: domain.AttrDate, Value: "2024-01-01 10:00:00"},
			{Name: domain.AttrCategory, Value: "business"},
			{Name: domain.AttrSource, Value: "Reuters"},
		}},
		{Title: "Match report", URL: "http://x/2", Attributes: []domain.Attribute{
			{Name: domain.AttrDate, Value: "2024-01-02 10:00:00"},
			{Name: domain.AttrCategory, Value: "sport"},
			{Name: domain.AttrSource, Value: "The Guardian"},
			{Name: domain.AttrAuthor, Value: "Jane Doe"},
		}},
	} {
		_, err := s.SaveArticle(context.Background(), a)
		require.NoError(t, err)
	}
}

func TestInMemStorer_ListArticles(t *testing.T) {
	s := NewInMemStorer()
	seed(t, s)

	tests := []struct {
		name   string
		filter storage.ArticleFilter
		want   []string
	}{
		{name: "no filter", want: []string{"Stocks up", "Match report"}},
		{name: "keyword in description", filter: storage.ArticleFilter{Keyword: "rate"}, want: []string{"Stocks up"}},
		{name: "date", filter: storage.ArticleFilter{Date: "2024-01-02"}, want: []string{"Match report"}},
		{name: "category and source", filter: storage.ArticleFilter{Category: "business", Source: "Reuters"}, want: []string{"Stocks up"}},
		{name: "no match", filter: storage.ArticleFilter{Source: "AP"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListArticles(context.Background(), tt.filter, 1, 10)
			require.NoError(t, err)
			titles := []string{}
			for _, a := range page.Items {
				titles = append(titles, a.Title)
			}
			assert.Equal(t, tt.want, titles)
			assert.Equal(t, len(tt.want), page.Total)
		})
	}
}

func TestInMemStorer_FeedAndPaging(t *testing.T) {
	s := NewInMemStorer()
	seed(t, s)

	page, err := s.Feed(context.Background(), storage.FeedPreferences{
		Categories: []string{"sport", "politics"},
		Authors:    []string{"Jane Doe"},
	}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Match report", page.Items[0].Title)

	page, err = s.ListArticles(context.Background(), storage.ArticleFilter{}, 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Match report", page.Items[0].Title)
	assert.Equal(t, 2, page.Total)

	page, err = s.ListArticles(context.Background(), storage.ArticleFilter{}, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
