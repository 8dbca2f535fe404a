package source

import (
	"log/slog"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// normalizeDate parses a provider timestamp in any common layout and renders it
// in domain.DateLayout, UTC. Unparseable or empty input yields nil.
func normalizeDate(raw *string) *string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(*raw), time.UTC)
	if err != nil {
		slog.Debug("Unparseable provider date", "value", *raw, "error", err)
		return nil
	}
	s := t.UTC().Format(domain.DateLayout)
	return &s
}

func formatTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(domain.DateLayout)
	return &s
}

// cleanText strips markup and collapses whitespace. Empty results become nil.
func cleanText(raw *string) *string {
	if raw == nil {
		return nil
	}
	text := *raw
	if strings.ContainsAny(text, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	return &text
}

func str(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
