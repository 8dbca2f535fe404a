package ingest

import (
	"context"
	"sync"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

// claims makes the dedup check-then-mark atomic per fingerprint within a run.
// A fingerprint is held from the moment it passes the store lookup until its
// marker is written, so concurrent sources and not yet flushed batch members
// cannot be staged twice. Records dropped after a rejected write keep their claim
// until the run ends.
type claims struct {
	store storage.FingerprintStore

	mu      sync.Mutex
	pending map[string]struct{}
}

func newClaims(store storage.FingerprintStore) *claims {
	return &claims{
		store:   store,
		pending: make(map[string]struct{}),
	}
}

// acquire reports whether fp is new and now owned by the caller.
func (c *claims) acquire(ctx context.Context, fp string) (bool, error) {
	c.mu.Lock()
	if _, held := c.pending[fp]; held {
		c.mu.Unlock()
		return false, nil
	}
	c.pending[fp] = struct{}{}
	c.mu.Unlock()

	seen, err := c.store.HasFingerprint(ctx, fp)
	if err != nil || seen {
		c.release(fp)
		return false, err
	}
	return true, nil
}

func (c *claims) release(fp string) {
	c.mu.Lock()
	delete(c.pending, fp)
	c.mu.Unlock()
}
