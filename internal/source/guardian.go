package source

import (
	"context"
	"net/http"

	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

const (
	KindGuardian       = "guardian"
	guardianDefaultURL = "https://content.guardianapis.com/search"
	guardianSourceName = "The Guardian"
)

type guardianResponse struct {
	Response struct {
		Status  string           `json:"status"`
		Results []guardianResult `json:"results"`
	} `json:"response"`
}

type guardianResult struct {
	WebTitle           string  `json:"webTitle"`
	WebURL             string  `json:"webUrl"`
	WebPublicationDate *string `json:"webPublicationDate"`
	SectionID          *string `json:"sectionId"`
}

// Guardian reads the Guardian content search API. It exposes no description.
type Guardian struct {
	def    Definition
	client *http.Client
}

func NewGuardian(def Definition) *Guardian {
	if def.Name == "" {
		def.Name = KindGuardian
	}
	if def.URL == "" {
		def.URL = guardianDefaultURL
	}
	def.Params = withDefault(def.Params, "api-key", def.APIKey)
	return &Guardian{def: def, client: newHTTPClient(def.Timeout)}
}

func (s *Guardian) Name() string {
	return s.def.Name
}

func (s *Guardian) FetchAndTransform(ctx context.Context) (<-chan collector.Result[domain.CanonicalArticle], error) {
	var payload guardianResponse
	if err := getJSON(ctx, s.client, s.def.Name, s.def.URL, s.def.Params, &payload); err != nil {
		return nil, err
	}
	return emit(ctx, s.def.Name, payload.Response.Results, transformGuardian), nil
}

func transformGuardian(r guardianResult) domain.CanonicalArticle {
	return domain.CanonicalArticle{
		Title: r.WebTitle,
		URL:   r.WebURL,
		Attributes: []domain.Attribute{
			domain.OptionalAttr(domain.AttrDate, normalizeDate(r.WebPublicationDate)),
			domain.OptionalAttr(domain.AttrCategory, r.SectionID),
			{Name: domain.AttrSource, Value: guardianSourceName},
		},
	}
}
