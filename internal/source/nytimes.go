package source

import (
	"context"
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

const (
	KindNYTimes       = "nytimes"
	nyTimesDefaultURL = "https://api.nytimes.com/svc/search/v2/articlesearch.json"
)

type nyTimesResponse struct {
	Response struct {
		Docs []nyTimesDoc `json:"docs"`
	} `json:"response"`
}

type nyTimesDoc struct {
	Headline struct {
		Main string `json:"main"`
	} `json:"headline"`
	WebURL        string  `json:"web_url"`
	LeadParagraph *string `json:"lead_paragraph"`
	Abstract      *string `json:"abstract"`
	PubDate       *string `json:"pub_date"`
	SectionName   *string `json:"section_name"`
	Source        *string `json:"source"`
	Byline        struct {
		Original *string `json:"original"`
	} `json:"byline"`
}

// NYTimes reads the New York Times article search API.
type NYTimes struct {
	def    Definition
	client *http.Client
}

func NewNYTimes(def Definition) *NYTimes {
	if def.Name == "" {
		def.Name = KindNYTimes
	}
	if def.URL == "" {
		def.URL = nyTimesDefaultURL
	}
	def.Params = withDefault(def.Params, "api-key", def.APIKey)
	return &NYTimes{def: def, client: newHTTPClient(def.Timeout)}
}

func (s *NYTimes) Name() string {
	return s.def.Name
}

func (s *NYTimes) FetchAndTransform(ctx context.Context) (<-chan collector.Result[domain.CanonicalArticle], error) {
	var payload nyTimesResponse
	if err := getJSON(ctx, s.client, s.def.Name, s.def.URL, s.def.Params, &payload); err != nil {
		return nil, err
	}
	return emit(ctx, s.def.Name, payload.Response.Docs, s.transform), nil
}

func (s *NYTimes) transform(d nyTimesDoc) domain.CanonicalArticle {
	description := cleanText(d.LeadParagraph)
	if description == nil {
		description = cleanText(d.Abstract)
	}
	return domain.CanonicalArticle{
		Title:       d.Headline.Main,
		URL:         d.WebURL,
		Description: description,
		Attributes: []domain.Attribute{
			domain.OptionalAttr(domain.AttrDate, normalizeDate(d.PubDate)),
			domain.OptionalAttr(domain.AttrCategory, d.SectionName),
			domain.OptionalAttr(domain.AttrSource, d.Source),
			domain.OptionalAttr(domain.AttrAuthor, byline(d.Byline.Original)),
		},
	}
}

func byline(original *string) *string {
	if original == nil {
		return nil
	}
	author := strings.TrimPrefix(strings.TrimSpace(*original), "By ")
	return &author
}
