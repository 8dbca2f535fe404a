package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

type fingerprintDoc struct {
	ExpiresAt time.Time `json:"expires_at"`
}

func (e *Storer) fingerprintIndex() string {
	return e.indexName + "_fingerprints"
}

func (e *Storer) ensureFingerprintIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.fingerprintIndex()).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"expires_at": types.NewDateProperty(),
		},
	}
	if _, err := e.client.Indices.Create(e.fingerprintIndex()).Mappings(&mappings).Do(ctx); err != nil {
		return err
	}
	slog.Info("Index created successfully", "index", e.fingerprintIndex())
	return nil
}

// HasFingerprint uses a realtime GET, so a marker is visible right after MarkFingerprint.
func (e *Storer) HasFingerprint(ctx context.Context, fp string) (bool, error) {
	res, err := e.client.Get(e.fingerprintIndex(), fp).Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get fingerprint: %w", err)
	}
	if !res.Found {
		return false, nil
	}

	var doc fingerprintDoc
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return false, fmt.Errorf("failed to decode fingerprint: %w", err)
	}
	return time.Now().Before(doc.ExpiresAt), nil
}

func (e *Storer) MarkFingerprint(ctx context.Context, fp string, ttl time.Duration) error {
	doc := fingerprintDoc{ExpiresAt: time.Now().Add(ttl)}
	if _, err := e.client.Index(e.fingerprintIndex()).Id(fp).Document(doc).Do(ctx); err != nil {
		return fmt.Errorf("failed to mark fingerprint: %w", err)
	}
	return nil
}
