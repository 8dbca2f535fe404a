package domain

import (
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/samber/lo"
)

// Validate checks the canonical record invariants: title and url are present and
// no attribute carries an empty value.
func (a CanonicalArticle) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return apperr.NewValidation("article title is required")
	}
	if strings.TrimSpace(a.URL) == "" {
		return apperr.NewValidation("article url is required")
	}
	for _, attr := range a.Attributes {
		if attr.Name == "" {
			return apperr.NewValidation("attribute name is required")
		}
		if attr.Value == "" {
			return apperr.NewValidation("attribute " + attr.Name + " has an empty value")
		}
	}
	return nil
}

// CompactAttributes drops attributes whose value is empty after trimming and
// collapses exact duplicates while preserving order.
func CompactAttributes(attrs []Attribute) []Attribute {
	kept := lo.FilterMap(attrs, func(attr Attribute, _ int) (Attribute, bool) {
		attr.Value = strings.TrimSpace(attr.Value)
		return attr, attr.Name != "" && attr.Value != ""
	})
	return lo.Uniq(kept)
}

// OptionalAttr builds an attribute from a value that may be missing.
func OptionalAttr(name string, value *string) Attribute {
	if value == nil {
		return Attribute{Name: name}
	}
	return Attribute{Name: name, Value: *value}
}
