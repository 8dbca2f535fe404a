package dto

import (
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleQuery_Validate(t *testing.T) {
	assert.NoError(t, (&ArticleQuery{Date: "2024-01-31"}).Validate())

	err := (&ArticleQuery{Date: "2024-31-01"}).Validate()
	require.Error(t, err)
	var ve *apperr.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestFeedQuery_Preferences(t *testing.T) {
	q := FeedQuery{Category: "business, sport,", Author: "Jane"}
	require.NoError(t, q.Validate())

	assert.Equal(t, storage.FeedPreferences{
		Categories: []string{"business", "sport"},
		Authors:    []string{"Jane"},
	}, q.Preferences())
}

func TestFeedQuery_Pagination(t *testing.T) {
	q := FeedQuery{Category: "x"}
	p := q.Pagination()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Size)
}
