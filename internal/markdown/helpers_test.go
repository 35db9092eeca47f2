package markdown_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"linksummary/internal/markdown"
)

func TestEscapeV2(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"punctuation", "Hi. (ok)!", `Hi\. \(ok\)\!`},
		{"bullets", "- item", `\- item`},
		{"backslash", `a\b`, `a\\b`},
		{"unicode", "привет_мир", `привет\_мир`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := markdown.EscapeV2(test.input); got != test.want {
				t.Fatalf("EscapeV2(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSplitShortText(t *testing.T) {
	parts := markdown.Split("short", 10)
	if len(parts) != 1 || parts[0] != "short" {
		t.Fatalf("unexpected parts: %#v", parts)
	}
}

func TestSplitPrefersLineBreaks(t *testing.T) {
	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)

	parts := markdown.Split(text, 12)

	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d: %#v", len(parts), parts)
	}
	if parts[0] != strings.Repeat("a", 8) || parts[1] != strings.Repeat("b", 8) {
		t.Fatalf("unexpected parts: %#v", parts)
	}
}

func TestSplitRespectsLimit(t *testing.T) {
	text := strings.Repeat("ж", 25)

	parts := markdown.Split(text, 10)

	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	for _, part := range parts {
		if utf8.RuneCountInString(part) > 10 {
			t.Fatalf("part exceeds limit: %q", part)
		}
	}
	if strings.Join(parts, "") != text {
		t.Fatalf("parts do not add up to the input")
	}
}

func TestSplitDoesNotBreakEscapes(t *testing.T) {
	text := "abcd\\.efgh"

	parts := markdown.Split(text, 5)

	for _, part := range parts {
		if strings.HasSuffix(part, "\\") {
			t.Fatalf("part ends with a dangling escape: %#v", parts)
		}
	}
	if strings.Join(parts, "") != text {
		t.Fatalf("parts do not add up to the input: %#v", parts)
	}
}
