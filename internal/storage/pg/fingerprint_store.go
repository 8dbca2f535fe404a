package pg

import (
	"context"
	"fmt"
	"time"
)

func (s *Storer) HasFingerprint(ctx context.Context, fp string) (bool, error) {
	var seen bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM article_fingerprints WHERE fingerprint = $1 AND expires_at > now())`,
		fp,
	).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}
	return seen, nil
}

// MarkFingerprint records fp as seen until now+ttl, refreshing an expired marker.
func (s *Storer) MarkFingerprint(ctx context.Context, fp string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO article_fingerprints (fingerprint, expires_at)
        VALUES ($1, now() + make_interval(secs => $2))
        ON CONFLICT (fingerprint) DO UPDATE SET expires_at = EXCLUDED.expires_at
    `, fp, ttl.Seconds())
	if err != nil {
		return fmt.Errorf("failed to mark fingerprint: %w", err)
	}
	return nil
}

// PurgeExpiredFingerprints deletes markers past their retention window.
func (s *Storer) PurgeExpiredFingerprints(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM article_fingerprints WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge fingerprints: %w", err)
	}
	return tag.RowsAffected(), nil
}
