package storage

import (
	"context"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

// ArticleFilter narrows an article listing. Empty fields do not filter.
type ArticleFilter struct {
	Keyword  string
	Date     string // YYYY-MM-DD, matched against the date attribute prefix
	Category string
	Source   string
}

// FeedPreferences selects articles whose attributes match any of the listed values per name.
// Names with no values are ignored.
type FeedPreferences struct {
	Categories []string
	Sources    []string
	Authors    []string
}

func (p FeedPreferences) ByAttribute() map[string][]string {
	prefs := make(map[string][]string, 3)
	if len(p.Categories) > 0 {
		prefs[domain.AttrCategory] = p.Categories
	}
	if len(p.Sources) > 0 {
		prefs[domain.AttrSource] = p.Sources
	}
	if len(p.Authors) > 0 {
		prefs[domain.AttrAuthor] = p.Authors
	}
	return prefs
}

type Page struct {
	Items []domain.Article `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

type Reader interface {
	ListArticles(ctx context.Context, filter ArticleFilter, page, size int) (*Page, error)
	Feed(ctx context.Context, prefs FeedPreferences, page, size int) (*Page, error)
}
