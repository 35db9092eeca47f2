package loader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"linksummary/internal/domain"
)

// ArticleLoader extracts the main article of an HTML page, dropping navigation
// and other boilerplate.
type ArticleLoader struct {
	getter *httpGetter
}

func NewArticleLoader(client *http.Client, userAgent string, log *slog.Logger) *ArticleLoader {
	return &ArticleLoader{getter: newHTTPGetter(client, userAgent, log)}
}

func (l *ArticleLoader) Name() string {
	return "article"
}

func (l *ArticleLoader) Load(ctx context.Context, rawURL string) ([]domain.Document, error) {
	page, err := l.getter.get(ctx, rawURL, acceptHTML)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(page.body), page.finalURL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}

	text := normalizeSpace(article.TextContent)
	if text == "" {
		return nil, ErrEmptyContent
	}

	metadata := map[string]string{MetaSource: rawURL}
	if title := strings.TrimSpace(article.Title); title != "" {
		metadata[MetaTitle] = title
	}
	if byline := strings.TrimSpace(article.Byline); byline != "" {
		metadata[MetaAuthor] = byline
	}

	return []domain.Document{{Content: text, Metadata: metadata}}, nil
}
