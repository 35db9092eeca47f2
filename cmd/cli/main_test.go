package main

import (
	"bytes"
	"strings"
	"testing"

	"linksummary/internal/domain"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer

	printResult(&buf, domain.Result{
		Summary:   "- point",
		Documents: 2,
		Chars:     1234567,
		Strategy:  domain.StrategyMapReduce,
		Loader:    "article",
		Notice:    "heads up",
	})

	out := buf.String()
	for _, want := range []string{"! heads up", "- point", "Documents: 2", "Characters: 1,234,567", "Strategy: map_reduce"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
