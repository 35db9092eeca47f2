package loader

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"linksummary/internal/domain"
)

const pageNoiseSelector = "script, style, noscript, template, svg, iframe, nav, header, footer, form, button"

//nolint:gochecknoglobals // Read-only set of elements that start a new line.
var pageBlockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "details": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "hr": true, "li": true, "main": true,
	"ol": true, "p": true, "pre": true, "section": true, "summary": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// PageLoader returns the visible text of the whole page.
type PageLoader struct {
	getter *httpGetter
	strict *bluemonday.Policy
}

func NewPageLoader(client *http.Client, userAgent string, log *slog.Logger) *PageLoader {
	return &PageLoader{
		getter: newHTTPGetter(client, userAgent, log),
		strict: bluemonday.StrictPolicy(),
	}
}

func (l *PageLoader) Name() string {
	return "page"
}

func (l *PageLoader) Load(ctx context.Context, rawURL string) ([]domain.Document, error) {
	page, err := l.getter.get(ctx, rawURL, acceptHTML)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.body))
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}

	metadata := map[string]string{MetaSource: rawURL}

	if content, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && strings.TrimSpace(content) != "" {
		metadata[MetaTitle] = strings.TrimSpace(content)
	} else if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		metadata[MetaTitle] = title
	}

	if lang, ok := doc.Find("html").Attr("lang"); ok && strings.TrimSpace(lang) != "" {
		metadata[MetaLanguage] = strings.TrimSpace(lang)
	}

	text := pageText(doc)
	if text == "" {
		text = normalizeSpace(html.UnescapeString(l.strict.Sanitize(string(page.body))))
	}
	if text == "" {
		return nil, ErrEmptyContent
	}

	return []domain.Document{{Content: text, Metadata: metadata}}, nil
}

// pageText returns all text of the body with a line break around every
// block element.
func pageText(doc *goquery.Document) string {
	body := doc.Find("body")
	body.Find(pageNoiseSelector).Remove()
	body.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithHtml("\n")
	})

	var b strings.Builder
	writeNodeText(&b, body)

	return normalizeSpace(b.String())
}

func writeNodeText(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)

		switch {
		case name == "#text":
			b.WriteString(child.Text())
		case pageBlockElements[name]:
			b.WriteString("\n")
			writeNodeText(b, child)
			b.WriteString("\n")
		default:
			writeNodeText(b, child)
		}
	})
}
