package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex SHA-256 of the article URL concatenated with its date attribute.
// Records without a date fall back to the URL alone.
func Fingerprint(a CanonicalArticle) string {
	date, _ := a.Attr(AttrDate)
	sum := sha256.Sum256([]byte(a.URL + date))
	return hex.EncodeToString(sum[:])
}
