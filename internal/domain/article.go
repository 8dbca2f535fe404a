package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the single timestamp representation adapters normalize provider dates to.
const DateLayout = "2006-01-02 15:04:05"

// Attribute names recognized across sources.
const (
	AttrDate     = "date"
	AttrCategory = "category"
	AttrSource   = "source"
	AttrAuthor   = "author"
	AttrKeyword  = "keyword"
)

// KnownAttributes lists the attribute names the read side filters on.
var KnownAttributes = []string{AttrKeyword, AttrDate, AttrCategory, AttrSource, AttrAuthor}

type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CanonicalArticle is the normalized record every source emits.
type CanonicalArticle struct {
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Description *string     `json:"description,omitempty"`
	Attributes  []Attribute `json:"attributes"`
}

// Attr returns the value of the first attribute with the given name.
func (a CanonicalArticle) Attr(name string) (string, bool) {
	for _, attr := range a.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Article is the persisted form of a CanonicalArticle.
type Article struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Description *string     `json:"description,omitempty"`
	Fingerprint string      `json:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Attributes  []Attribute `json:"attributes"`
}

// NewArticle prepares a canonical record for persistence. The id is left for the store to assign.
func NewArticle(c CanonicalArticle, fingerprint string) Article {
	return Article{
		Title:       c.Title,
		URL:         c.URL,
		Description: c.Description,
		Fingerprint: fingerprint,
		Attributes:  c.Attributes,
	}
}

func (a Article) Attr(name string) (string, bool) {
	for _, attr := range a.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}
