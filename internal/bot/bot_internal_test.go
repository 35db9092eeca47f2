package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"linksummary/internal/domain"
	"linksummary/internal/loader"
	"linksummary/internal/summary"
)

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"bare link", "https://example.com/post", "https://example.com/post", true},
		{"link in sentence", "look at this http://blog.example.org/a?b=1 please", "http://blog.example.org/a?b=1", true},
		{"first of many", "https://a.example.com and https://b.example.com", "https://a.example.com", true},
		{"no scheme", "example.com/post", "", false},
		{"no link", "hello there", "", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := extractURL(test.text)
			if ok != test.ok || got != test.want {
				t.Fatalf("extractURL(%q) = %q, %v; want %q, %v", test.text, got, ok, test.want, test.ok)
			}
		})
	}
}

func TestUserAllowed(t *testing.T) {
	if !userAllowed(nil, 1) {
		t.Fatalf("empty allow list must allow everyone")
	}
	if !userAllowed([]int64{1, 2}, 2) {
		t.Fatalf("listed user must be allowed")
	}
	if userAllowed([]int64{1, 2}, 3) {
		t.Fatalf("unlisted user must not be allowed")
	}
}

func TestUpdateBackoffSeconds(t *testing.T) {
	got := initialBackoffSeconds
	for range 10 {
		got = updateBackoffSeconds(got)
	}

	if got != maxBackoffSeconds {
		t.Fatalf("expected backoff to cap at %d, got %d", maxBackoffSeconds, got)
	}
}

func TestFormatResult(t *testing.T) {
	text := formatResult(domain.Result{
		URL:       "https://example.com/a.b",
		Summary:   "- first point.\n- second point!",
		Documents: 3,
		Chars:     12345,
		Notice:    loader.NoticeYouTubeFallback,
	})

	for _, want := range []string{
		`https://example\.com/a\.b`,
		`\- first point\.`,
		`\- second point\!`,
		"12,345",
		"Documents: 3",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}

func TestFormatError(t *testing.T) {
	tooShort := fmt.Errorf("wrapped: %w", &summary.ContentTooShortError{Chars: 12})

	if got := formatError(tooShort); !strings.HasPrefix(got, "⚠️ ") || !strings.Contains(got, "only 12 chars") {
		t.Fatalf("unexpected too short message: %q", got)
	}

	if got := formatError(errors.New("boom")); got != "❌ boom" {
		t.Fatalf("unexpected generic message: %q", got)
	}
}
