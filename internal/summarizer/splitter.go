package summarizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

//nolint:gochecknoglobals // Immutable separator order.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts text into chunks of at most size characters, preferring
// paragraph, line, sentence and word boundaries in that order. Consecutive
// chunks share up to overlap characters.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
}

func NewSplitter(size int, overlap int) Splitter {
	if size <= 0 {
		size = 1
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	return Splitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(defaultSeparators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}
}

func (s Splitter) Split(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	parts, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	var chunks []string
	for _, chunk := range parts {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks, nil
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
