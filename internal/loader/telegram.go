package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"linksummary/internal/domain"
)

const (
	telegramHost    = "t.me"
	telegramBaseURL = "https://t.me"

	telegramMaxPosts = 50

	minPartsForTelegramChannelSlugStartingWithS = 2
)

var telegramSlugRe = regexp.MustCompile(`^\w{5,32}$`)

// TelegramLoader reads public Telegram channels through the t.me web preview.
// Channel links yield one document per recent post, post links yield the post.
type TelegramLoader struct {
	getter  *httpGetter
	baseURL string
	log     *slog.Logger
}

type TelegramOption func(*TelegramLoader)

// WithTelegramBaseURL points the loader at another host, e.g. a test server.
func WithTelegramBaseURL(baseURL string) TelegramOption {
	return func(l *TelegramLoader) {
		l.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func NewTelegramLoader(client *http.Client, userAgent string, log *slog.Logger, opts ...TelegramOption) *TelegramLoader {
	l := &TelegramLoader{
		getter:  newHTTPGetter(client, userAgent, log),
		baseURL: telegramBaseURL,
		log:     log,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *TelegramLoader) Name() string {
	return "telegram"
}

func (l *TelegramLoader) Load(ctx context.Context, rawURL string) ([]domain.Document, error) {
	slug, postID, ok := telegramTarget(rawURL)
	if !ok {
		return nil, fmt.Errorf("extract channel slug (URL = %s)", rawURL)
	}

	pageURL := l.baseURL + "/s/" + slug
	if postID != "" {
		pageURL = l.baseURL + "/" + slug + "/" + postID + "?embed=1&mode=tme"
	}

	page, err := l.getter.get(ctx, pageURL, acceptHTML)
	if err != nil {
		return nil, fmt.Errorf("fetch channel page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.body))
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}

	title := telegramChannelTitle(doc)
	if title == "" {
		l.log.WarnContext(ctx, "Empty Telegram channel title",
			"slug", slug,
			"url", rawURL)

		title = slug
	}

	var (
		docs []domain.Document
		errs []error
	)

	doc.Find(".tgme_widget_message").Each(func(_ int, message *goquery.Selection) {
		post, processErr := telegramPost(message)
		if processErr != nil {
			errs = append(errs, fmt.Errorf("process post: %w", processErr))
			return
		}
		if post.text == "" {
			return
		}

		metadata := map[string]string{
			MetaSource:    post.url,
			MetaFeedTitle: title,
		}
		if !post.published.IsZero() {
			metadata[MetaPublished] = post.published.UTC().Format(time.RFC3339)
		}

		docs = append(docs, domain.Document{Content: post.text, Metadata: metadata})
	})

	if len(errs) > 0 {
		l.log.WarnContext(ctx, "Some Telegram posts are skipped",
			"error", errors.Join(errs...),
			"slug", slug,
			"skipped", len(errs))
	}

	if len(docs) == 0 {
		return nil, ErrEmptyContent
	}

	// The preview lists posts oldest first.
	if len(docs) > telegramMaxPosts {
		docs = docs[len(docs)-telegramMaxPosts:]
	}

	return docs, nil
}

type telegramPostItem struct {
	url       string
	text      string
	published time.Time
}

func telegramPost(message *goquery.Selection) (telegramPostItem, error) {
	link := message.Find("a.tgme_widget_message_date").First()

	href, ok := link.Attr("href")
	if !ok || href == "" {
		return telegramPostItem{}, errors.New("href empty")
	}

	var b strings.Builder
	message.Find(".tgme_widget_message_text, .tgme_widget_message_caption").Each(
		func(_ int, inner *goquery.Selection) {
			inner.Find("br").Each(func(_ int, br *goquery.Selection) {
				br.ReplaceWithHtml("\n")
			})
			fragment := strings.TrimSpace(inner.Text())
			if fragment == "" {
				return
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(fragment)
		},
	)

	var published time.Time
	if datetime := strings.TrimSpace(link.Find("time").AttrOr("datetime", "")); datetime != "" {
		parsed, err := time.Parse(time.RFC3339, datetime)
		if err != nil {
			return telegramPostItem{}, fmt.Errorf("parse datetime: %w", err)
		}
		published = parsed
	}

	return telegramPostItem{
		url:       telegramCanonicalURL(href),
		text:      normalizeSpace(b.String()),
		published: published,
	}, nil
}

func telegramChannelTitle(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content)
	}

	return strings.TrimSpace(doc.Find(".tgme_channel_info_header_title").Text())
}

func telegramCanonicalURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	u.RawQuery = ""
	u.Fragment = ""

	return u.String()
}

// IsTelegramURL reports whether the URL points at a public t.me channel or post.
func IsTelegramURL(raw string) bool {
	_, _, ok := telegramTarget(raw)
	return ok
}

// telegramTarget extracts the channel slug and, for post links, the post ID
// from t.me/<slug>, t.me/s/<slug> and t.me/<slug>/<id> links.
func telegramTarget(raw string) (string, string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(u.Hostname(), telegramHost) {
		return "", "", false
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", "", false
	}

	parts := strings.Split(path, "/")

	if parts[0] == "s" {
		if len(parts) < minPartsForTelegramChannelSlugStartingWithS {
			return "", "", false
		}
		parts = parts[1:]
	}

	slug := strings.TrimSpace(parts[0])
	if !telegramSlugRe.MatchString(slug) {
		return "", "", false
	}

	var postID string
	if len(parts) > 1 {
		postID = parts[1]
		for _, r := range postID {
			if r < '0' || r > '9' {
				return "", "", false
			}
		}
	}

	return slug, postID, true
}
