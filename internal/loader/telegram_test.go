package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"linksummary/internal/loader"
)

const channelPage = `<!DOCTYPE html>
<html><head><meta property="og:title" content="Go News"></head>
<body>
<div class="tgme_widget_message">
  <div class="tgme_widget_message_text">Go 1.26 is released.<br>Read the notes.</div>
  <a class="tgme_widget_message_date" href="https://t.me/golang_news/1?single"><time datetime="2025-02-11T18:00:00+00:00"></time></a>
</div>
<div class="tgme_widget_message">
  <div class="tgme_widget_message_photo"></div>
  <a class="tgme_widget_message_date" href="https://t.me/golang_news/2"><time datetime="2025-02-12T09:30:00+00:00"></time></a>
</div>
<div class="tgme_widget_message">
  <div class="tgme_widget_message_caption">New blog post about the range-over-func iterators.</div>
  <a class="tgme_widget_message_date" href="https://t.me/golang_news/3"><time datetime="not a time"></time></a>
</div>
<div class="tgme_widget_message">
  <div class="tgme_widget_message_text">Generic type aliases are now fully supported.</div>
  <a class="tgme_widget_message_date" href="https://t.me/golang_news/4"></a>
</div>
</body></html>`

func TestTelegramLoaderReadsChannelPosts(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(channelPage))
	}))
	t.Cleanup(srv.Close)

	l := loader.NewTelegramLoader(srv.Client(), "test-agent", discardLogger(), loader.WithTelegramBaseURL(srv.URL))

	docs, err := l.Load(context.Background(), "https://t.me/golang_news")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/s/golang_news" {
		t.Fatalf("unexpected preview path: %q", gotPath)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 text posts, got %d", len(docs))
	}

	if docs[0].Content != "Go 1.26 is released.\nRead the notes." {
		t.Fatalf("unexpected first post: %q", docs[0].Content)
	}

	meta := docs[0].Metadata
	if meta[loader.MetaSource] != "https://t.me/golang_news/1" ||
		meta[loader.MetaFeedTitle] != "Go News" ||
		meta[loader.MetaPublished] != "2025-02-11T18:00:00Z" {
		t.Fatalf("unexpected metadata: %#v", meta)
	}

	if _, ok := docs[1].Metadata[loader.MetaPublished]; ok {
		t.Fatalf("expected no published time for post without datetime")
	}
}

func TestTelegramLoaderEmptyChannel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	t.Cleanup(srv.Close)

	l := loader.NewTelegramLoader(srv.Client(), "test-agent", discardLogger(), loader.WithTelegramBaseURL(srv.URL))

	if _, err := l.Load(context.Background(), "https://t.me/s/golang_news"); err == nil {
		t.Fatalf("expected error for channel without posts")
	}
}
