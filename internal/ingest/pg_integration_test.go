//go:build integration

package ingest

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
	pkgtesting "github.com/DjordjeVuckovic/news-aggregator/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Postgres(t *testing.T) {
	ctx := context.Background()
	container := pkgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pg.EnsureSchema(ctx, pool))

	storer, err := pg.NewStorer(pool)
	require.NoError(t, err)
	reader, err := pg.NewReader(pool)
	require.NoError(t, err)

	for _, policy := range []WritePolicy{WriteBatch, WritePerArticle} {
		t.Run(string(policy), func(t *testing.T) {
			prefix := string(policy)
			p := NewPipeline(storer, storer, WithWritePolicy(policy), WithBatchSize(2)).
				AddSource(newStatic("a",
					canonical("http://"+prefix+"/1", "2024-01-01", "T1"),
					canonical("http://"+prefix+"/1", "2024-01-01", "T1-dup"),
					canonical("http://"+prefix+"/2", "2024-01-01", "T2"),
				)).
				AddSource(&staticSource{name: "broken", openErr: errStore, failAfter: -1}).
				AddSource(newStatic("c", canonical("http://"+prefix+"/3", "2024-01-02", "T3")))

			first, err := p.Run(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, first.Persisted)

			second, err := p.Run(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, second.Persisted)

			page, err := reader.ListArticles(ctx, storage.ArticleFilter{Keyword: "T1"}, 1, 10)
			require.NoError(t, err)
			var urls []string
			for _, a := range page.Items {
				if a.URL == "http://"+prefix+"/1" {
					urls = append(urls, a.URL)
					assert.Len(t, a.Attributes, 2)
				}
			}
			assert.Len(t, urls, 1)
		})
	}
}
