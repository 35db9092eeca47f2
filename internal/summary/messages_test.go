package summary_test

import (
	"errors"
	"fmt"
	"testing"

	"linksummary/internal/loader"
	"linksummary/internal/summary"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing key", summary.ErrMissingAPIKey, "Please enter your Groq API key"},
		{"missing url", summary.ErrMissingURL, "Please enter a URL"},
		{"invalid url", summary.ErrInvalidURL, "Please enter a valid URL"},
		{
			"too short",
			fmt.Errorf("wrap: %w", &summary.ContentTooShortError{Chars: 12}),
			"No meaningful content (only 12 chars). Try a text-heavy page.",
		},
		{
			"all loaders failed",
			fmt.Errorf("load content: %w", errors.Join(loader.ErrAllLoadersFailed, errors.New("403"))),
			"All loaders failed - no readable content found",
		},
		{"other", errors.New("rate limited"), "rate limited"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := summary.UserMessage(test.err, "Groq"); got != test.want {
				t.Fatalf("expected %q, got %q", test.want, got)
			}
		})
	}

	if got := summary.UserMessage(nil, "Groq"); got != "" {
		t.Fatalf("expected empty message for nil error, got %q", got)
	}
}

func TestIsInputError(t *testing.T) {
	if !summary.IsInputError(summary.ErrMissingURL) {
		t.Fatalf("expected missing URL to be an input error")
	}
	if summary.IsInputError(loader.ErrAllLoadersFailed) {
		t.Fatalf("expected loader failure not to be an input error")
	}
}
