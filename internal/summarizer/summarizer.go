package summarizer

import (
	"context"
	"errors"
	"strings"
)

const (
	textPlaceholder = "{text}"

	DefaultSystemPrompt = "You are an expert summarizer. Provide clear, concise, and accurate summaries " +
		"in 2000 words or less. Focus on key points, main ideas, and important details. " +
		"Structure your summary with bullet points for clarity."
	DefaultUserTemplate = "Summarize this content:\n\n" + textPlaceholder
)

var (
	ErrMissingAPIKey = errors.New("API key is empty")
	ErrEmptyInput    = errors.New("input is empty")
	ErrEmptyOutput   = errors.New("output text is missing")
)

// Message is a rendered system + user prompt pair.
type Message struct {
	System string
	User   string
}

// LLM sends one prompt to a hosted model. The API key is supplied per call
// and never kept by the implementation.
type LLM interface {
	Complete(ctx context.Context, apiKey string, msg Message) (string, error)
	Model() string
}

// Prompt is a chat prompt whose user part contains a {text} placeholder.
type Prompt struct {
	System       string
	UserTemplate string
}

func DefaultPrompt() Prompt {
	return Prompt{
		System:       DefaultSystemPrompt,
		UserTemplate: DefaultUserTemplate,
	}
}

func (p Prompt) Render(text string) Message {
	user := p.UserTemplate
	if !strings.Contains(user, textPlaceholder) {
		user += "\n\n" + textPlaceholder
	}

	return Message{
		System: p.System,
		User:   strings.ReplaceAll(user, textPlaceholder, text),
	}
}
