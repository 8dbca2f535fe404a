package dto

import (
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/stringsutil"
)

const dateLayout = "2006-01-02"

// ArticleQuery is the query string of GET /articles.
type ArticleQuery struct {
	Keyword  string `query:"keyword"`
	Date     string `query:"date"`
	Category string `query:"category"`
	Source   string `query:"source"`
	Page     int    `query:"page"`
	Size     int    `query:"size"`
}

func (q *ArticleQuery) Validate() error {
	if q.Date != "" {
		if _, err := time.Parse(dateLayout, q.Date); err != nil {
			return apperr.NewValidationWrap("date must use the YYYY-MM-DD format", err)
		}
	}
	return validatePaging(q.Page, q.Size)
}

func (q *ArticleQuery) Filter() storage.ArticleFilter {
	return storage.ArticleFilter{
		Keyword:  strings.TrimSpace(q.Keyword),
		Date:     q.Date,
		Category: strings.TrimSpace(q.Category),
		Source:   strings.TrimSpace(q.Source),
	}
}

func (q *ArticleQuery) Pagination() pagination.OffsetRequest {
	p := pagination.OffsetRequest{Page: q.Page, Size: q.Size}
	p.Normalize()
	return p
}

// FeedQuery is the query string of GET /feed. Each preference accepts a comma separated list.
type FeedQuery struct {
	Category string `query:"category"`
	Source   string `query:"source"`
	Author   string `query:"author"`
	Page     int    `query:"page"`
	Size     int    `query:"size"`
}

func (q *FeedQuery) Validate() error {
	if q.Category == "" && q.Source == "" && q.Author == "" {
		return apperr.NewValidation("at least one of category, source or author is required")
	}
	return validatePaging(q.Page, q.Size)
}

func (q *FeedQuery) Preferences() storage.FeedPreferences {
	return storage.FeedPreferences{
		Categories: stringsutil.SplitList(q.Category),
		Sources:    stringsutil.SplitList(q.Source),
		Authors:    stringsutil.SplitList(q.Author),
	}
}

func (q *FeedQuery) Pagination() pagination.OffsetRequest {
	p := pagination.OffsetRequest{Page: q.Page, Size: q.Size}
	p.Normalize()
	return p
}

func validatePaging(page, size int) error {
	if page < 0 {
		return apperr.NewValidation("page must be positive")
	}
	if size < 0 {
		return apperr.NewValidation("size must be positive")
	}
	return nil
}
