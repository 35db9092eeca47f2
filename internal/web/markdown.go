package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// summaryRenderer turns LLM markdown into sanitized HTML for the page.
type summaryRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newSummaryRenderer() *summaryRenderer {
	return &summaryRenderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *summaryRenderer) render(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // Sanitized by bluemonday.
}
