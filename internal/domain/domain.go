package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Strategy string

const (
	StrategyStuff     Strategy = "stuff"
	StrategyMapReduce Strategy = "map_reduce"
)

// Document is a piece of text extracted from a URL by a loader.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Chars counts characters of the trimmed content.
func (d Document) Chars() int {
	return utf8.RuneCountInString(strings.TrimSpace(d.Content))
}

func TotalChars(docs []Document) int {
	total := 0
	for _, d := range docs {
		total += d.Chars()
	}
	return total
}

type Request struct {
	URL    string
	APIKey string
}

type Result struct {
	URL       string
	Summary   string
	Documents int
	Chars     int
	Strategy  Strategy
	Loader    string
	Notice    string
	Cached    bool
	Elapsed   time.Duration
}
