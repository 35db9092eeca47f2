package summary

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"sync"
	"time"

	"linksummary/internal/domain"
)

// Cache is an in-memory LRU of summaries whose entries expire after a TTL.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
}

type cacheEntry struct {
	key       string
	result    domain.Result
	expiresAt time.Time
}

func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		return nil
	}

	return &Cache{
		entries:    make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
	}
}

func (c *Cache) Get(key string, now time.Time) (domain.Result, bool) {
	if c == nil || key == "" {
		return domain.Result{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return domain.Result{}, false
	}

	entry, ok := elem.Value.(*cacheEntry)
	if !ok {
		return domain.Result{}, false
	}

	if now.After(entry.expiresAt) {
		c.removeElement(elem)

		return domain.Result{}, false
	}

	c.order.MoveToFront(elem)

	return entry.result, true
}

func (c *Cache) Set(key string, result domain.Result, expiresAt time.Time, now time.Time) {
	if c == nil || key == "" || result.Summary == "" || expiresAt.IsZero() {
		return
	}

	if !expiresAt.After(now) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry, castOk := elem.Value.(*cacheEntry)
		if !castOk {
			return
		}

		entry.result = result
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)

		return
	}

	elem := c.order.PushFront(&cacheEntry{
		key:       key,
		result:    result,
		expiresAt: expiresAt,
	})
	c.entries[key] = elem

	c.evictExpiredLocked(now)
	c.enforceSizeLimitLocked()
}

// Sweep drops expired entries and reports how many were removed.
func (c *Cache) Sweep(now time.Time) int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.entries)
	c.evictExpiredLocked(now)

	return before - len(c.entries)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) evictExpiredLocked(now time.Time) {
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()

		if entry, ok := elem.Value.(*cacheEntry); ok && now.After(entry.expiresAt) {
			c.removeElement(elem)
		}

		elem = prev
	}
}

func (c *Cache) enforceSizeLimitLocked() {
	for len(c.entries) > c.maxEntries {
		elem := c.order.Back()
		if elem == nil {
			return
		}
		c.removeElement(elem)
	}
}

func (c *Cache) removeElement(elem *list.Element) {
	entry, ok := elem.Value.(*cacheEntry)
	if !ok {
		return
	}

	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

// CacheKey identifies a summary by URL, loaded content, model and the API
// key it was paid with. The key itself is only stored as a digest.
func CacheKey(rawURL string, docs []domain.Document, model string, apiKey string) string {
	canonicalURL := canonicalURL(rawURL)
	if canonicalURL == "" || len(docs) == 0 {
		return ""
	}

	content := sha256.New()
	for _, d := range docs {
		content.Write([]byte(strings.TrimSpace(d.Content)))
		content.Write([]byte{0})
	}

	key := sha256.Sum256([]byte(strings.TrimSpace(apiKey)))

	return canonicalURL + "|" + model + "|" +
		hex.EncodeToString(content.Sum(nil)) + "|" +
		hex.EncodeToString(key[:8])
}

func canonicalURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	u.Fragment = ""

	return u.String()
}
