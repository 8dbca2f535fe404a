package source

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/mmcdole/gofeed"
)

const KindRSS = "rss"

// RSS reads one or more RSS/Atom feeds. Feeds are fetched lazily in order; a
// failing feed ends the sequence after the records of earlier feeds.
type RSS struct {
	def    Definition
	parser *gofeed.Parser
}

func NewRSS(def Definition) *RSS {
	if def.Name == "" {
		def.Name = KindRSS
	}
	if def.URL != "" {
		def.Feeds = append([]string{def.URL}, def.Feeds...)
	}
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient(def.Timeout)
	parser.UserAgent = userAgent
	return &RSS{def: def, parser: parser}
}

func (s *RSS) Name() string {
	return s.def.Name
}

func (s *RSS) FetchAndTransform(ctx context.Context) (<-chan collector.Result[domain.CanonicalArticle], error) {
	if len(s.def.Feeds) == 0 {
		return nil, apperr.NewFetchFailed(s.def.Name, fmt.Errorf("no feeds configured"))
	}

	out := make(chan collector.Result[domain.CanonicalArticle])
	go func() {
		defer close(out)
		defer recoverProducer(ctx, s.def.Name, out)
		for _, feedURL := range s.def.Feeds {
			feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
			if err != nil {
				err = apperr.NewFetchFailed(s.def.Name, fmt.Errorf("feed %s: %w", feedURL, err))
				collector.Send(ctx, out, collector.Result[domain.CanonicalArticle]{Err: err})
				return
			}
			for _, item := range feed.Items {
				article, ok := finalize(s.def.Name, s.transform(feed, item))
				if !ok {
					continue
				}
				if !collector.Send(ctx, out, collector.Result[domain.CanonicalArticle]{Result: article}) {
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *RSS) transform(feed *gofeed.Feed, item *gofeed.Item) domain.CanonicalArticle {
	date := item.PublishedParsed
	if date == nil {
		date = item.UpdatedParsed
	}

	attrs := []domain.Attribute{
		domain.OptionalAttr(domain.AttrDate, formatTime(date)),
	}
	category := s.def.Category
	keywords := item.Categories
	if category == "" && len(keywords) > 0 {
		category, keywords = keywords[0], keywords[1:]
	}
	attrs = append(attrs,
		domain.Attribute{Name: domain.AttrCategory, Value: category},
		domain.Attribute{Name: domain.AttrSource, Value: feed.Title},
	)
	if item.Author != nil {
		attrs = append(attrs, domain.Attribute{Name: domain.AttrAuthor, Value: item.Author.Name})
	}
	for _, kw := range keywords {
		attrs = append(attrs, domain.Attribute{Name: domain.AttrKeyword, Value: kw})
	}

	description := cleanText(&item.Description)
	return domain.CanonicalArticle{
		Title:       deref(cleanText(&item.Title)),
		URL:         item.Link,
		Description: description,
		Attributes:  attrs,
	}
}
