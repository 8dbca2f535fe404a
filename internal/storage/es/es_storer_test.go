package es

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDocument(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	doc := toDocument(id, domain.Article{Title: "T", URL: "http://x/1", Fingerprint: "fp"}, now)

	assert.Equal(t, id.String(), doc.ID)
	assert.Equal(t, now, doc.CreatedAt)
	assert.NotNil(t, doc.Attributes)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "123e4567-e89b-12d3-a456-426614174000",
		"title": "T",
		"url": "http://x/1",
		"fingerprint": "fp",
		"created_at": "2024-01-01T00:00:00Z",
		"updated_at": "2024-01-01T00:00:00Z",
		"attributes": []
	}`, string(raw))
}

func TestDocumentID(t *testing.T) {
	a := domain.Article{Title: "T", URL: "http://x/1", Fingerprint: "fp-1"}
	b := domain.Article{Title: "Other title", URL: "http://x/1", Fingerprint: "fp-1"}

	assert.Equal(t, documentID(a), documentID(b))
	assert.NotEqual(t, documentID(a), documentID(domain.Article{Fingerprint: "fp-2"}))
	assert.NotEqual(t, uuid.Nil, documentID(domain.Article{}))
	assert.NotEqual(t, documentID(domain.Article{}), documentID(domain.Article{}))
}
