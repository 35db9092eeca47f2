package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"linksummary/internal/domain"
	"linksummary/internal/loader"
)

var ErrNoContent = errors.New("no meaningful content")

// ContentTooShortError is returned when the loaded documents carry fewer
// characters than the configured minimum.
type ContentTooShortError struct {
	Chars int
}

func (e *ContentTooShortError) Error() string {
	return fmt.Sprintf("no meaningful content (only %d chars)", e.Chars)
}

func (e *ContentTooShortError) Unwrap() error {
	return ErrNoContent
}

type Loader interface {
	Load(ctx context.Context, rawURL string) (loader.Outcome, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, apiKey string, docs []domain.Document) (string, domain.Strategy, error)
	Strategy(docs []domain.Document) domain.Strategy
	Model() string
}

type Config struct {
	MinChars int
	CacheTTL time.Duration
}

// Service runs validate, load and summarize for a single request.
type Service struct {
	loader     Loader
	summarizer Summarizer
	cache      *Cache
	cfg        Config
	now        func() time.Time
	log        *slog.Logger
}

func NewService(
	l Loader,
	s Summarizer,
	cache *Cache,
	cfg Config,
	log *slog.Logger,
) *Service {
	return &Service{
		loader:     l,
		summarizer: s,
		cache:      cache,
		cfg:        cfg,
		now:        time.Now,
		log:        log,
	}
}

func (s *Service) Cache() *Cache {
	return s.cache
}

func (s *Service) Summarize(ctx context.Context, req domain.Request) (domain.Result, error) {
	start := s.now()

	rawURL, err := ValidateInput(req.URL, req.APIKey)
	if err != nil {
		return domain.Result{}, err
	}

	outcome, err := s.loader.Load(ctx, rawURL)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load content: %w", err)
	}

	chars := domain.TotalChars(outcome.Documents)
	if chars < s.cfg.MinChars {
		return domain.Result{}, &ContentTooShortError{Chars: chars}
	}

	result := domain.Result{
		URL:       rawURL,
		Documents: len(outcome.Documents),
		Chars:     chars,
		Loader:    outcome.Loader,
		Notice:    outcome.Notice,
		Strategy:  s.summarizer.Strategy(outcome.Documents),
	}

	cacheKey := CacheKey(rawURL, outcome.Documents, s.summarizer.Model(), req.APIKey)
	if cached, ok := s.cache.Get(cacheKey, s.now()); ok {
		result.Summary = cached.Summary
		result.Strategy = cached.Strategy
		result.Cached = true
		result.Elapsed = s.now().Sub(start)

		s.log.InfoContext(ctx, "Summary is served from cache",
			"url", rawURL,
			"loader", result.Loader,
			"chars", chars)

		return result, nil
	}

	summary, strategy, err := s.summarizer.Summarize(ctx, req.APIKey, outcome.Documents)
	if err != nil {
		return domain.Result{}, fmt.Errorf("summarize: %w", err)
	}

	result.Summary = summary
	result.Strategy = strategy

	now := s.now()
	result.Elapsed = now.Sub(start)

	if s.cfg.CacheTTL > 0 {
		s.cache.Set(cacheKey, result, now.Add(s.cfg.CacheTTL), now)
	}

	return result, nil
}
