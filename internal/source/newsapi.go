package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

const (
	KindNewsAPI        = "newsapi"
	newsAPIDefaultURL  = "https://newsapi.org/v2/top-headlines"
	newsAPIDefaultCat  = "business"
	newsAPIDefaultCtry = "us"
)

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	PublishedAt *string `json:"publishedAt"`
	Author      *string `json:"author"`
	Source      struct {
		Name *string `json:"name"`
	} `json:"source"`
}

// NewsAPI reads the newsapi.org top-headlines listing.
type NewsAPI struct {
	def    Definition
	client *http.Client
}

func NewNewsAPI(def Definition) *NewsAPI {
	if def.Name == "" {
		def.Name = KindNewsAPI
	}
	if def.URL == "" {
		def.URL = newsAPIDefaultURL
	}
	if def.Category == "" {
		def.Category = newsAPIDefaultCat
	}
	def.Params = withDefault(def.Params, "category", def.Category)
	def.Params = withDefault(def.Params, "country", newsAPIDefaultCtry)
	def.Params = withDefault(def.Params, "apiKey", def.APIKey)
	return &NewsAPI{def: def, client: newHTTPClient(def.Timeout)}
}

func (s *NewsAPI) Name() string {
	return s.def.Name
}

func (s *NewsAPI) FetchAndTransform(ctx context.Context) (<-chan collector.Result[domain.CanonicalArticle], error) {
	var payload newsAPIResponse
	if err := getJSON(ctx, s.client, s.def.Name, s.def.URL, s.def.Params, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "" && payload.Status != "ok" {
		return nil, apperr.NewFetchFailed(s.def.Name, fmt.Errorf("provider status %q", payload.Status))
	}
	return emit(ctx, s.def.Name, payload.Articles, s.transform), nil
}

func (s *NewsAPI) transform(a newsAPIArticle) domain.CanonicalArticle {
	return domain.CanonicalArticle{
		Title:       a.Title,
		URL:         a.URL,
		Description: cleanText(a.Description),
		Attributes: []domain.Attribute{
			domain.OptionalAttr(domain.AttrDate, normalizeDate(a.PublishedAt)),
			domain.OptionalAttr(domain.AttrCategory, str(s.def.Params["category"])),
			domain.OptionalAttr(domain.AttrSource, a.Source.Name),
			domain.OptionalAttr(domain.AttrAuthor, a.Author),
		},
	}
}
