package summary

import (
	"strings"
	"testing"
	"time"

	"linksummary/internal/domain"
)

func TestCacheGetSet(t *testing.T) {
	cache := NewCache(2)
	if cache == nil {
		t.Fatalf("expected cache instance")
	}

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	cache.Set("key", domain.Result{Summary: "value"}, now.Add(time.Hour), now)

	result, ok := cache.Get("key", now)
	if !ok {
		t.Fatalf("expected cached summary to be present")
	}

	if result.Summary != "value" {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
}

func TestCacheExpiresEntries(t *testing.T) {
	cache := NewCache(2)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	cache.Set("key", domain.Result{Summary: "value"}, now.Add(time.Minute), now)

	if _, ok := cache.Get("key", now.Add(2*time.Minute)); ok {
		t.Fatalf("expected cache entry to expire")
	}

	if len(cache.entries) != 0 {
		t.Fatalf("expected expired cache entry to be removed")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewCache(2)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	expiresAt := now.Add(time.Hour)

	cache.Set("a", domain.Result{Summary: "summary-a"}, expiresAt, now)
	cache.Set("b", domain.Result{Summary: "summary-b"}, expiresAt, now)

	if _, ok := cache.Get("a", now); !ok {
		t.Fatalf("expected entry a to exist before eviction check")
	}

	cache.Set("c", domain.Result{Summary: "summary-c"}, expiresAt, now)

	if _, ok := cache.Get("a", now); !ok {
		t.Fatalf("expected entry a to remain after evicting least recently used")
	}

	if _, ok := cache.Get("b", now); ok {
		t.Fatalf("expected entry b to be evicted")
	}

	if _, ok := cache.Get("c", now); !ok {
		t.Fatalf("expected entry c to be cached")
	}
}

func TestCacheSweep(t *testing.T) {
	cache := NewCache(4)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	cache.Set("short", domain.Result{Summary: "s"}, now.Add(time.Minute), now)
	cache.Set("long", domain.Result{Summary: "l"}, now.Add(time.Hour), now)

	if removed := cache.Sweep(now.Add(10 * time.Minute)); removed != 1 {
		t.Fatalf("expected 1 swept entry, got %d", removed)
	}

	if cache.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", cache.Len())
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *Cache
	now := time.Now()

	cache.Set("key", domain.Result{Summary: "value"}, now.Add(time.Hour), now)

	if _, ok := cache.Get("key", now); ok {
		t.Fatalf("expected nil cache to miss")
	}
	if cache.Sweep(now) != 0 || cache.Len() != 0 {
		t.Fatalf("expected nil cache to be empty")
	}
}

func TestCacheKey(t *testing.T) {
	docs := []domain.Document{{Content: "hello"}}

	a := CacheKey("https://example.com/post#top", docs, "model", "key-1")
	b := CacheKey("https://example.com/post", docs, "model", "key-1")
	if a != b {
		t.Fatalf("expected fragment to be ignored: %q vs %q", a, b)
	}

	if c := CacheKey("https://example.com/post", docs, "model", "key-2"); c == a {
		t.Fatalf("expected different API keys to produce different cache keys")
	}

	if d := CacheKey("https://example.com/post", []domain.Document{{Content: "changed"}}, "model", "key-1"); d == a {
		t.Fatalf("expected different content to produce different cache keys")
	}

	if strings.Contains(a, "key-1") {
		t.Fatalf("cache key must not contain the API key: %q", a)
	}

	if CacheKey("https://example.com", nil, "model", "key") != "" {
		t.Fatalf("expected empty key without documents")
	}
}
