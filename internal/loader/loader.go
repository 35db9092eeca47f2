package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linksummary/internal/domain"
)

const (
	maxBodyBytes = 10 << 20

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptFeed = "application/rss+xml,application/atom+xml,application/feed+json," +
		"application/xml;q=0.9,text/xml;q=0.9,*/*;q=0.8"

	MetaSource   = "source"
	MetaTitle    = "title"
	MetaAuthor   = "author"
	MetaLanguage = "language"
)

var (
	ErrAllLoadersFailed = errors.New("all loaders failed: no readable content found")
	ErrEmptyContent     = errors.New("content is empty")
)

// Loader extracts textual documents from a URL.
type Loader interface {
	Name() string
	Load(ctx context.Context, rawURL string) ([]domain.Document, error)
}

type fetched struct {
	body        []byte
	contentType string
	finalURL    *url.URL
}

type httpGetter struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

func newHTTPGetter(client *http.Client, userAgent string, log *slog.Logger) *httpGetter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &httpGetter{client: client, userAgent: userAgent, log: log}
}

func (g *httpGetter) get(ctx context.Context, rawURL string, accept string) (*fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := g.client.Do(req) //nolint:gosec // URL is validated by the caller
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			g.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}

	return &fetched{
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
		finalURL:    resp.Request.URL,
	}, nil
}

func normalizeSpace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}

		blank = false
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
