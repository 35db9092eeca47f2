package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linksummary/internal/domain"
)

const (
	NoticeYouTubeFallback = "YouTube transcript unavailable, using page content..."
)

// Outcome describes the documents a Router produced and how it got them.
type Outcome struct {
	Documents []domain.Document
	Loader    string
	Notice    string
}

// Router picks a loading strategy by URL: YouTube videos try the transcript
// first, feeds try the feed parser first, Telegram channels try the t.me
// preview first, everything falls back to the web chain.
type Router struct {
	youtube  Loader
	feed     Loader
	telegram Loader
	web      *Chain
	log      *slog.Logger
}

type RouterConfig struct {
	Client    *http.Client
	UserAgent string
	Languages []string
	MinChars  int
}

func NewRouter(cfg RouterConfig, log *slog.Logger, opts ...YouTubeOption) *Router {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Router{
		youtube:  NewYouTubeLoader(client, cfg.UserAgent, cfg.Languages, log, opts...),
		feed:     NewFeedLoader(client, cfg.UserAgent, log),
		telegram: NewTelegramLoader(client, cfg.UserAgent, log),
		web: NewChain(cfg.MinChars, log,
			NewArticleLoader(client, cfg.UserAgent, log),
			NewPageLoader(client, cfg.UserAgent, log),
		),
		log: log,
	}
}

// NewRouterWithLoaders assembles a router from arbitrary loaders. Nil
// loaders are skipped. Without a web chain, type-specific loaders have no
// fallback and apply no length threshold.
func NewRouterWithLoaders(youtube, feed, telegram Loader, web *Chain, log *slog.Logger) *Router {
	return &Router{youtube: youtube, feed: feed, telegram: telegram, web: web, log: log}
}

func (r *Router) Load(ctx context.Context, rawURL string) (Outcome, error) {
	switch {
	case IsYouTubeURL(rawURL) && r.youtube != nil:
		outcome, err := r.loadWithFallback(ctx, r.youtube, rawURL)
		if err == nil && outcome.Loader != r.youtube.Name() {
			outcome.Notice = NoticeYouTubeFallback
		}

		return outcome, err

	case looksLikeFeed(rawURL) && r.feed != nil:
		return r.loadWithFallback(ctx, r.feed, rawURL)

	case IsTelegramURL(rawURL) && r.telegram != nil:
		return r.loadWithFallback(ctx, r.telegram, rawURL)

	default:
		return r.loadWeb(ctx, rawURL)
	}
}

// loadWithFallback tries l and falls back to the web chain when it fails.
func (r *Router) loadWithFallback(ctx context.Context, l Loader, rawURL string) (Outcome, error) {
	docs, err := r.loadFirst(ctx, l, rawURL)
	if err == nil {
		return Outcome{Documents: docs, Loader: l.Name()}, nil
	}

	r.log.WarnContext(ctx, "Loader failed, falling back to page content",
		"error", err,
		"loader", l.Name(),
		"url", rawURL)

	outcome, webErr := r.loadWeb(ctx, rawURL)
	if webErr != nil {
		return Outcome{}, errors.Join(webErr, err)
	}

	return outcome, nil
}

// loadFirst runs the type-specific loader under the same length threshold as
// the web chain.
func (r *Router) loadFirst(ctx context.Context, l Loader, rawURL string) ([]domain.Document, error) {
	docs, err := l.Load(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Name(), err)
	}

	minChars := 0
	if r.web != nil {
		minChars = r.web.minChars
	}

	if chars := domain.TotalChars(docs); chars <= minChars {
		return nil, fmt.Errorf("%s: %d chars: %w", l.Name(), chars, ErrEmptyContent)
	}

	return docs, nil
}

func (r *Router) loadWeb(ctx context.Context, rawURL string) (Outcome, error) {
	if r.web == nil {
		return Outcome{}, ErrAllLoadersFailed
	}

	docs, name, err := r.web.Load(ctx, rawURL)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Documents: docs, Loader: name}, nil
}

func looksLikeFeed(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	p := strings.ToLower(strings.TrimRight(u.Path, "/"))
	for _, suffix := range []string{".xml", ".rss", ".atom", "/feed", "/rss", "/atom", "/feed.json"} {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}

	return false
}
