package dto

import (
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Article struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	Attributes  []Attribute `json:"attributes"`
}

type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func FromDomain(a domain.Article) Article {
	out := Article{
		ID:        a.ID,
		Title:     a.Title,
		URL:       a.URL,
		CreatedAt: a.CreatedAt,
		Attributes: lo.Map(a.Attributes, func(attr domain.Attribute, _ int) Attribute {
			return Attribute{Name: attr.Name, Value: attr.Value}
		}),
	}
	if a.Description != nil {
		out.Description = *a.Description
	}
	return out
}

func FromDomainList(articles []domain.Article) []Article {
	return lo.Map(articles, func(a domain.Article, _ int) Article { return FromDomain(a) })
}
