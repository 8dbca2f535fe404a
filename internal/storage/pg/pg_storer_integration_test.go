//go:build integration

package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/news-aggregator/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx    context.Context
	testPool   *ConnectionPool
	testStorer *Storer
	testReader *Reader
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "news_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}
	if err := EnsureSchema(testCtx, testPool); err != nil {
		panic(err)
	}

	testStorer, _ = NewStorer(testPool)
	testReader, _ = NewReader(testPool)

	code := m.Run()

	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE articles, attributes, article_fingerprints CASCADE")
	require.NoError(t, err)
}

func TestStorer_InsertArticlesAndAttributes(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	ids, err := testStorer.InsertArticles(testCtx, []domain.Article{
		{Title: "A", URL: "http://x/a", Fingerprint: "fa"},
		{Title: "B", URL: "http://x/b", Fingerprint: "fb"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	require.NoError(t, testStorer.CreateAttributes(testCtx, ids[0], []domain.Attribute{
		{Name: domain.AttrCategory, Value: "business"},
		{Name: domain.AttrDate, Value: "2024-01-01 00:00:00"},
	}))

	page, err := testReader.ListArticles(testCtx, storage.ArticleFilter{Category: "business"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A", page.Items[0].Title)
	assert.Len(t, page.Items[0].Attributes, 2)
	assert.Equal(t, 1, page.Total)
}

func TestStorer_SaveArticleAndFeed(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	_, err := testStorer.SaveArticle(testCtx, domain.Article{
		Title:       "Match report",
		URL:         "http://x/m",
		Fingerprint: "fm",
		Attributes: []domain.Attribute{
			{Name: domain.AttrSource, Value: "The Guardian"},
			{Name: domain.AttrAuthor, Value: "Jane Doe"},
		},
	})
	require.NoError(t, err)

	page, err := testReader.Feed(testCtx, storage.FeedPreferences{Sources: []string{"The Guardian", "BBC"}}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	page, err = testReader.Feed(testCtx, storage.FeedPreferences{Authors: []string{"Someone Else"}}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestStorer_Fingerprints(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	seen, err := testStorer.HasFingerprint(testCtx, "f1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, testStorer.MarkFingerprint(testCtx, "f1", time.Hour))
	seen, err = testStorer.HasFingerprint(testCtx, "f1")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, testStorer.MarkFingerprint(testCtx, "f2", -time.Second))
	seen, err = testStorer.HasFingerprint(testCtx, "f2")
	require.NoError(t, err)
	assert.False(t, seen)

	purged, err := testStorer.PurgeExpiredFingerprints(testCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
