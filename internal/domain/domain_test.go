package domain_test

import (
	"testing"

	"linksummary/internal/domain"
)

func TestDocumentChars(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"  hello  ", 5},
		{"привет", 6},
	}

	for _, test := range tests {
		if got := (domain.Document{Content: test.content}).Chars(); got != test.want {
			t.Fatalf("Chars(%q) = %d, want %d", test.content, got, test.want)
		}
	}
}

func TestTotalChars(t *testing.T) {
	docs := []domain.Document{{Content: " ab "}, {Content: "cde"}, {}}

	if got := domain.TotalChars(docs); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}
