package loader

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"linksummary/internal/domain"
)

const (
	feedMaxItems = 50

	MetaFeedTitle = "feed_title"
	MetaPublished = "published"
)

// FeedLoader turns RSS, Atom and JSON feeds into one document per item.
type FeedLoader struct {
	getter    *httpGetter
	libParser *gofeed.Parser
	strict    *bluemonday.Policy
	log       *slog.Logger
}

func NewFeedLoader(client *http.Client, userAgent string, log *slog.Logger) *FeedLoader {
	return &FeedLoader{
		getter:    newHTTPGetter(client, userAgent, log),
		libParser: gofeed.NewParser(),
		strict:    bluemonday.StrictPolicy(),
		log:       log,
	}
}

func (l *FeedLoader) Name() string {
	return "feed"
}

func (l *FeedLoader) Load(ctx context.Context, rawURL string) ([]domain.Document, error) {
	page, err := l.getter.get(ctx, rawURL, acceptFeed)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	parsed, err := l.libParser.Parse(bytes.NewReader(page.body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	feedTitle := strings.TrimSpace(parsed.Title)
	if feedTitle == "" {
		l.log.WarnContext(ctx, "Empty feed title",
			"feedURL", rawURL,
			"fallbackTitle", rawURL)

		feedTitle = rawURL
	}

	docs := make([]domain.Document, 0, min(len(parsed.Items), feedMaxItems))
	for _, item := range parsed.Items {
		if len(docs) == feedMaxItems {
			break
		}

		doc, ok := l.itemDocument(item, rawURL, feedTitle)
		if !ok {
			continue
		}

		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, ErrEmptyContent
	}

	return docs, nil
}

func (l *FeedLoader) itemDocument(item *gofeed.Item, feedURL string, feedTitle string) (domain.Document, bool) {
	if item == nil {
		return domain.Document{}, false
	}

	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}
	body = normalizeSpace(html.UnescapeString(l.strict.Sanitize(body)))

	title := strings.TrimSpace(item.Title)
	if title == "" && body == "" {
		return domain.Document{}, false
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
	}
	if body != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(body)
	}

	source := strings.TrimSpace(item.Link)
	if source == "" {
		source = feedURL
	}

	metadata := map[string]string{
		MetaSource:    source,
		MetaFeedTitle: feedTitle,
	}
	if title != "" {
		metadata[MetaTitle] = title
	}

	if item.PublishedParsed != nil {
		metadata[MetaPublished] = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if item.UpdatedParsed != nil {
		metadata[MetaPublished] = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	return domain.Document{Content: b.String(), Metadata: metadata}, true
}
