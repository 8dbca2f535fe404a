package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

// Storer writes articles to an Elasticsearch index. Attributes live on the article
// document as a nested collection.
type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
	config    ClientConfig
}

type Document struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	URL         string             `json:"url"`
	Description *string            `json:"description,omitempty"`
	Fingerprint string             `json:"fingerprint"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Attributes  []domain.Attribute `json:"attributes"`
}

type bulkItem struct {
	action string
	id     string
	body   interface{}
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	storer := &Storer{
		client:    client,
		indexName: config.IndexName,
		config:    config,
	}

	if err := storer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	if err := storer.ensureFingerprintIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure fingerprint index exists: %w", err)
	}

	return storer, nil
}

func (e *Storer) InsertArticles(ctx context.Context, articles []domain.Article) ([]uuid.UUID, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	now := time.Now()
	ids := make([]uuid.UUID, len(articles))
	items := make([]bulkItem, len(articles))
	for i, a := range articles {
		ids[i] = documentID(a)
		doc := toDocument(ids[i], a, now)
		doc.Attributes = []domain.Attribute{}
		items[i] = bulkItem{action: "index", id: doc.ID, body: doc}
	}

	if err := e.bulk(ctx, items); err != nil {
		return nil, err
	}
	return ids, nil
}

func (e *Storer) CreateAttributes(ctx context.Context, articleID uuid.UUID, attrs []domain.Attribute) error {
	if len(attrs) == 0 {
		return nil
	}
	update := map[string]interface{}{
		"doc": map[string]interface{}{
			"attributes": attrs,
			"updated_at": time.Now(),
		},
	}
	return e.bulk(ctx, []bulkItem{{action: "update", id: articleID.String(), body: update}})
}

// SaveArticle indexes the article with its attributes in a single document write.
func (e *Storer) SaveArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	id := documentID(article)
	doc := toDocument(id, article, time.Now())

	res, err := e.client.Index(e.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to index document: %w", err)
	}

	slog.Debug("document indexed successfully", "id", doc.ID, "index", e.indexName, "result", res.Result)
	return id, nil
}

func (e *Storer) bulk(ctx context.Context, items []bulkItem) error {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    2,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var failed int64
	for _, item := range items {
		body, err := json.Marshal(item.body)
		if err != nil {
			failed++
			slog.Error("failed to marshal document", "error", err, "id", item.id)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     item.action,
			DocumentID: item.id,
			Body:       bytes.NewReader(body),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				atomic.AddInt64(&failed, 1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			atomic.AddInt64(&failed, 1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", item.id)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	if n := atomic.LoadInt64(&failed); n > 0 {
		return fmt.Errorf("failed to index %d out of %d documents", n, len(items))
	}
	return nil
}

// documentID derives the document id from the fingerprint so that indexing the
// same article again overwrites it.
func documentID(a domain.Article) uuid.UUID {
	if a.Fingerprint == "" {
		return uuid.New()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(a.Fingerprint))
}

func toDocument(id uuid.UUID, a domain.Article, now time.Time) Document {
	attrs := a.Attributes
	if attrs == nil {
		attrs = []domain.Attribute{}
	}
	return Document{
		ID:          id.String(),
		Title:       a.Title,
		URL:         a.URL,
		Description: a.Description,
		Fingerprint: a.Fingerprint,
		CreatedAt:   now,
		UpdatedAt:   now,
		Attributes:  attrs,
	}
}

func (e *Storer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if exists {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	attributes := types.NewNestedProperty()
	attributes.Properties = map[string]types.Property{
		"name":  types.NewKeywordProperty(),
		"value": types.NewKeywordProperty(),
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"title":       textWithKeyword(),
			"url":         types.NewKeywordProperty(),
			"description": types.NewTextProperty(),
			"fingerprint": types.NewKeywordProperty(),
			"created_at":  types.NewDateProperty(),
			"updated_at":  types.NewDateProperty(),
			"attributes":  attributes,
		},
	}

	createRes, err := e.client.Indices.Create(e.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", e.indexName)
	return nil
}

func textWithKeyword() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
