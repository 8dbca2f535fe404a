package pg

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS articles (
    id          UUID PRIMARY KEY,
    title       TEXT        NOT NULL,
    url         TEXT        NOT NULL,
    description TEXT,
    fingerprint CHAR(64)    NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS articles_fingerprint_idx ON articles (fingerprint);
CREATE INDEX IF NOT EXISTS articles_created_at_idx ON articles (created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS attributes (
    id         BIGSERIAL PRIMARY KEY,
    article_id UUID        NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    name       TEXT        NOT NULL,
    value      TEXT        NOT NULL CHECK (value <> ''),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS attributes_article_id_idx ON attributes (article_id);
CREATE INDEX IF NOT EXISTS attributes_name_value_idx ON attributes (name, value);

CREATE TABLE IF NOT EXISTS article_fingerprints (
    fingerprint CHAR(64) PRIMARY KEY,
    expires_at  TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates the tables used by the ingestion pipeline and the read API.
func EnsureSchema(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
