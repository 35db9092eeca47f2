package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"linksummary/internal/domain"
)

const (
	documentSeparator = "\n\n"
	maxCollapseRounds = 4
)

type ChainConfig struct {
	Prompt         Prompt
	StuffMaxChars  int
	ChunkSize      int
	ChunkOverlap   int
	MapParallelism int
}

// Chain summarizes documents either in one call ("stuff") or by summarizing
// chunks independently and combining the partial summaries ("map_reduce").
type Chain struct {
	llm           LLM
	prompt        Prompt
	splitter      Splitter
	stuffMaxChars int
	reduceBudget  int
	parallelism   int
	log           *slog.Logger
}

func NewChain(llm LLM, cfg ChainConfig, log *slog.Logger) *Chain {
	prompt := cfg.Prompt
	if prompt.UserTemplate == "" {
		prompt = DefaultPrompt()
	}

	return &Chain{
		llm:           llm,
		prompt:        prompt,
		splitter:      NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		stuffMaxChars: cfg.StuffMaxChars,
		reduceBudget:  max(cfg.ChunkSize, 1),
		parallelism:   max(cfg.MapParallelism, 1),
		log:           log,
	}
}

func (c *Chain) Model() string {
	return c.llm.Model()
}

// Strategy returns the strategy Summarize would use for docs.
func (c *Chain) Strategy(docs []domain.Document) domain.Strategy {
	if len(docs) == 1 && domain.TotalChars(docs) < c.stuffMaxChars {
		return domain.StrategyStuff
	}

	return domain.StrategyMapReduce
}

func (c *Chain) Summarize(
	ctx context.Context,
	apiKey string,
	docs []domain.Document,
) (string, domain.Strategy, error) {
	if len(docs) == 0 {
		return "", "", ErrEmptyInput
	}

	strategy := c.Strategy(docs)
	start := time.Now()

	var (
		summary string
		err     error
	)

	switch strategy {
	case domain.StrategyStuff:
		summary, err = c.stuff(ctx, apiKey, docs)
	default:
		summary, err = c.mapReduce(ctx, apiKey, docs)
	}
	if err != nil {
		return "", strategy, err
	}

	c.log.InfoContext(ctx, "Summary is generated",
		"strategy", strategy,
		"model", c.llm.Model(),
		"documents", len(docs),
		"summaryLen", len(summary),
		"elapsed", time.Since(start))

	return summary, strategy, nil
}

func (c *Chain) stuff(ctx context.Context, apiKey string, docs []domain.Document) (string, error) {
	contents := make([]string, 0, len(docs))
	for _, d := range docs {
		contents = append(contents, strings.TrimSpace(d.Content))
	}

	summary, err := c.llm.Complete(ctx, apiKey, c.prompt.Render(strings.Join(contents, documentSeparator)))
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}

	return summary, nil
}

func (c *Chain) mapReduce(ctx context.Context, apiKey string, docs []domain.Document) (string, error) {
	var chunks []string
	for i, d := range docs {
		parts, err := c.splitter.Split(d.Content)
		if err != nil {
			return "", fmt.Errorf("split document (index = %d): %w", i, err)
		}
		chunks = append(chunks, parts...)
	}
	if len(chunks) == 0 {
		return "", ErrEmptyInput
	}

	summaries, err := c.mapAll(ctx, apiKey, chunks)
	if err != nil {
		return "", fmt.Errorf("map chunks: %w", err)
	}

	for round := 0; round < maxCollapseRounds && runeLen(strings.Join(summaries, documentSeparator)) > c.reduceBudget; round++ {
		groups := groupByBudget(summaries, c.reduceBudget)
		if len(groups) >= len(summaries) {
			break
		}

		c.log.DebugContext(ctx, "Collapsing partial summaries",
			"round", round,
			"summaries", len(summaries),
			"groups", len(groups))

		if summaries, err = c.mapAll(ctx, apiKey, groups); err != nil {
			return "", fmt.Errorf("collapse summaries (round = %d): %w", round, err)
		}
	}

	summary, err := c.llm.Complete(ctx, apiKey, c.prompt.Render(strings.Join(summaries, documentSeparator)))
	if err != nil {
		return "", fmt.Errorf("combine summaries: %w", err)
	}

	return summary, nil
}

// mapAll summarizes every text with at most c.parallelism calls in flight and
// keeps results in input order.
func (c *Chain) mapAll(ctx context.Context, apiKey string, texts []string) ([]string, error) {
	summaries := make([]string, len(texts))
	errs := make([]error, len(texts))

	workerCount := min(c.parallelism, len(texts))

	type task struct {
		index int
		text  string
	}

	tasks := make(chan task)
	var wg sync.WaitGroup

	for range workerCount {
		wg.Go(func() {
			for t := range tasks {
				summary, err := c.llm.Complete(ctx, apiKey, c.prompt.Render(t.text))
				if err != nil {
					errs[t.index] = fmt.Errorf("chunk %d: %w", t.index, err)
					continue
				}
				summaries[t.index] = summary
			}
		})
	}

	for i, text := range texts {
		tasks <- task{index: i, text: text}
	}

	close(tasks)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return summaries, nil
}

func groupByBudget(texts []string, budget int) []string {
	var (
		groups  []string
		current []string
		size    int
	)

	for _, text := range texts {
		textLen := runeLen(text)
		if len(current) > 0 && size+len(documentSeparator)+textLen > budget {
			groups = append(groups, strings.Join(current, documentSeparator))
			current, size = nil, 0
		}

		if len(current) > 0 {
			size += len(documentSeparator)
		}
		size += textLen
		current = append(current, text)
	}

	if len(current) > 0 {
		groups = append(groups, strings.Join(current, documentSeparator))
	}

	return groups
}
