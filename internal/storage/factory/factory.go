package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/es"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
)

// NewGateway creates the persistence gateway used by the ingestion pipeline.
// The returned close func releases the underlying connections.
func NewGateway(ctx context.Context, cfg StorageConfig) (storage.Gateway, func(), error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := newPgPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		storer, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return storer, pool.Close, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		storer, err := es.NewStorer(ctx, *cfg.Es)
		if err != nil {
			return nil, nil, err
		}
		return storer, func() {}, nil

	case storage.InMem:
		return in_mem.NewInMemStorer(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}

// NewReader creates the read side used by the HTTP API together with a health
// checker for its backing store.
func NewReader(ctx context.Context, cfg StorageConfig) (storage.Reader, pkgserver.HealthChecker, func(), error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := newPgPool(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		reader, err := pg.NewReader(pool)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return reader, pg.NewHealthChecker(pool), pool.Close, nil

	case storage.InMem:
		return in_mem.NewInMemStorer(), pkgserver.NewOkHealthChecker(), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}

func newPgPool(ctx context.Context, cfg StorageConfig) (*pg.ConnectionPool, error) {
	if cfg.Pg == nil {
		return nil, fmt.Errorf("missing PostgreSQL configuration")
	}
	pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
