package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"linksummary/internal/domain"
)

// Chain tries loaders in order and returns the first result with more than
// minChars characters.
type Chain struct {
	loaders  []Loader
	minChars int
	log      *slog.Logger
}

func NewChain(minChars int, log *slog.Logger, loaders ...Loader) *Chain {
	return &Chain{
		loaders:  loaders,
		minChars: minChars,
		log:      log,
	}
}

// Load returns the documents and the name of the loader that produced them.
func (c *Chain) Load(ctx context.Context, rawURL string) ([]domain.Document, string, error) {
	var errs []error

	for _, l := range c.loaders {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		start := time.Now()

		docs, err := l.Load(ctx, rawURL)
		if err != nil {
			c.log.WarnContext(ctx, "Loader failed",
				"error", err,
				"loader", l.Name(),
				"url", rawURL,
				"elapsed", time.Since(start))

			errs = append(errs, fmt.Errorf("%s: %w", l.Name(), err))
			continue
		}

		chars := domain.TotalChars(docs)
		if chars <= c.minChars {
			c.log.WarnContext(ctx, "Loader returned too little content",
				"loader", l.Name(),
				"url", rawURL,
				"chars", chars,
				"minChars", c.minChars)

			errs = append(errs, fmt.Errorf("%s: %d chars: %w", l.Name(), chars, ErrEmptyContent))
			continue
		}

		c.log.InfoContext(ctx, "Content is loaded",
			"loader", l.Name(),
			"url", rawURL,
			"documents", len(docs),
			"chars", chars,
			"elapsed", time.Since(start))

		return docs, l.Name(), nil
	}

	return nil, "", errors.Join(append([]error{ErrAllLoadersFailed}, errs...)...)
}
