package summarizer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"linksummary/internal/domain"
	"linksummary/internal/summarizer"
)

type stubLLM struct {
	mu       sync.Mutex
	messages []summarizer.Message
	fail     func(msg summarizer.Message) error
}

func (l *stubLLM) Model() string {
	return "stub-model"
}

func (l *stubLLM) Complete(_ context.Context, _ string, msg summarizer.Message) (string, error) {
	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()

	if l.fail != nil {
		if err := l.fail(msg); err != nil {
			return "", err
		}
	}

	text := strings.TrimPrefix(msg.User, "Summarize this content:\n\n")
	return "summary of " + firstWord(text), nil
}

func (l *stubLLM) calls() []summarizer.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]summarizer.Message(nil), l.messages...)
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newChain(llm summarizer.LLM, chunkSize int) *summarizer.Chain {
	return summarizer.NewChain(llm, summarizer.ChainConfig{
		StuffMaxChars:  chunkSize,
		ChunkSize:      chunkSize,
		ChunkOverlap:   0,
		MapParallelism: 3,
	}, discardLogger())
}

func TestChainStrategy(t *testing.T) {
	c := newChain(&stubLLM{}, 8000)

	tests := []struct {
		name string
		docs []domain.Document
		want domain.Strategy
	}{
		{"single short document", []domain.Document{{Content: "short"}}, domain.StrategyStuff},
		{"single long document", []domain.Document{{Content: strings.Repeat("a", 8000)}}, domain.StrategyMapReduce},
		{"many short documents", []domain.Document{{Content: "a"}, {Content: "b"}}, domain.StrategyMapReduce},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := c.Strategy(test.docs); got != test.want {
				t.Fatalf("expected %s, got %s", test.want, got)
			}
		})
	}
}

func TestChainStuffUsesSingleCall(t *testing.T) {
	llm := &stubLLM{}
	c := newChain(llm, 8000)

	summary, strategy, err := c.Summarize(context.Background(), "key", []domain.Document{{Content: "  gophers everywhere  "}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strategy != domain.StrategyStuff || summary != "summary of gophers" {
		t.Fatalf("unexpected result: %q, %s", summary, strategy)
	}

	calls := llm.calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(calls))
	}
	if calls[0].System != summarizer.DefaultSystemPrompt {
		t.Fatalf("expected default system prompt, got %q", calls[0].System)
	}
	if calls[0].User != "Summarize this content:\n\ngophers everywhere" {
		t.Fatalf("unexpected user prompt: %q", calls[0].User)
	}
}

func TestChainMapReducePreservesOrder(t *testing.T) {
	llm := &stubLLM{}
	c := newChain(llm, 8000)

	docs := make([]domain.Document, 0, 6)
	for i := range 6 {
		docs = append(docs, domain.Document{Content: fmt.Sprintf("doc%d has some text", i)})
	}

	summary, strategy, err := c.Summarize(context.Background(), "key", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strategy != domain.StrategyMapReduce {
		t.Fatalf("expected map_reduce, got %s", strategy)
	}

	calls := llm.calls()
	if len(calls) != len(docs)+1 {
		t.Fatalf("expected %d LLM calls, got %d", len(docs)+1, len(calls))
	}

	final := calls[len(calls)-1].User
	var want []string
	for i := range 6 {
		want = append(want, fmt.Sprintf("summary of doc%d", i))
	}
	if !strings.HasSuffix(final, strings.Join(want, "\n\n")) {
		t.Fatalf("expected partial summaries in document order, got %q", final)
	}
	if summary != "summary of summary" {
		t.Fatalf("unexpected final summary: %q", summary)
	}
}

func TestChainMapReduceSplitsLongDocument(t *testing.T) {
	llm := &stubLLM{}
	c := newChain(llm, 100)

	paragraphs := make([]string, 0, 5)
	for i := range 5 {
		paragraphs = append(paragraphs, fmt.Sprintf("part%d %s", i, strings.Repeat("x", 80)))
	}

	_, strategy, err := c.Summarize(context.Background(), "key", []domain.Document{{Content: strings.Join(paragraphs, "\n\n")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strategy != domain.StrategyMapReduce {
		t.Fatalf("expected map_reduce for a document over the chunk size, got %s", strategy)
	}

	if calls := llm.calls(); len(calls) != 6 {
		t.Fatalf("expected 5 map calls and 1 combine call, got %d", len(calls))
	}
}

func TestChainMapReduceReportsChunkErrors(t *testing.T) {
	boom := errors.New("rate limited")
	llm := &stubLLM{fail: func(msg summarizer.Message) error {
		if strings.Contains(msg.User, "doc1") {
			return boom
		}
		return nil
	}}
	c := newChain(llm, 8000)

	_, _, err := c.Summarize(context.Background(), "key", []domain.Document{
		{Content: "doc0 text"},
		{Content: "doc1 text"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected chunk error, got %v", err)
	}
}

func TestChainRejectsEmptyInput(t *testing.T) {
	_, _, err := newChain(&stubLLM{}, 8000).Summarize(context.Background(), "key", nil)
	if !errors.Is(err, summarizer.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
