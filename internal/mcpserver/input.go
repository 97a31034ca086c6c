package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/docschema"
	"github.com/erraggy/docschema/docscan"
	"github.com/erraggy/docschema/internal/config"
	"github.com/erraggy/docschema/internal/options"
)

// payloadInput represents the three ways a JSON payload can be provided to a
// tool. Exactly one of File, URL, or Content must be set.
type payloadInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a JSON file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch the JSON payload from, e.g. a live API response"`
	Content string `json:"content,omitempty" jsonschema:"Inline JSON payload"`
}

// isZero reports whether no source was provided.
func (p payloadInput) isZero() bool {
	return p.File == "" && p.URL == "" && p.Content == ""
}

// resolve returns the payload text from whichever input was provided.
// Fetched payloads also return the HTTP status code.
func (p payloadInput) resolve(ctx context.Context) (string, int, error) {
	if err := options.ExactlyOne([]string{"file", "url", "content"}, p.File != "", p.URL != "", p.Content != ""); err != nil {
		return "", 0, err
	}

	switch {
	case p.Content != "":
		if int64(len(p.Content)) > cfg.MaxInlineSize {
			return "", 0, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set DOCSCHEMA_MAX_INLINE_SIZE to increase",
				len(p.Content), cfg.MaxInlineSize)
		}
		return p.Content, 0, nil
	case p.File != "":
		data, err := os.ReadFile(p.File) //nolint:gosec // payload paths are provided by the MCP client
		if err != nil {
			return "", 0, err
		}
		return string(data), 0, nil
	default:
		return fetchPayload(ctx, p.URL)
	}
}

// fetchPayload GETs url and returns its body. Private addresses are refused
// unless DOCSCHEMA_ALLOW_PRIVATE_IPS is set.
func fetchPayload(ctx context.Context, url string) (string, int, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	if !cfg.AllowPrivateIPs {
		client = newSafeHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", docschema.UserAgent())

	resp, err := client.Do(req) //nolint:gosec // URL is checked by the safe client
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxFetchSize+1))
	if err != nil {
		return "", resp.StatusCode, err
	}
	if int64(len(body)) > cfg.MaxFetchSize {
		return "", resp.StatusCode, fmt.Errorf("response body exceeds maximum %d bytes; set DOCSCHEMA_MAX_FETCH_SIZE to increase", cfg.MaxFetchSize)
	}
	return string(body), resp.StatusCode, nil
}

// cacheEntry holds scanned documents with LRU ordering and TTL expiry.
type cacheEntry struct {
	docs      []*docscan.Document
	insertAt  time.Time
	expiresAt time.Time
}

// docCacheStore provides a session-scoped cache of scanned documentation
// sets. Keys hash the absolute path and modification time of every file in
// the set, so editing any file invalidates the entry.
type docCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var registryCache = &docCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns cached documents or nil. Expired entries are lazily removed.
func (c *docCacheStore) get(key string) []*docscan.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.docs
	}
	return nil
}

// put stores documents, evicting the least recently used entry if at capacity.
func (c *docCacheStore) put(key string, docs []*docscan.Document, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{docs: docs, insertAt: now, expiresAt: now.Add(ttl)}
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *docCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// It is safe to call multiple times; only the first call spawns a sweeper.
// It stops when ctx is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for a set of documentation files.
// It returns "" when any file cannot be stat'ed.
func makeCacheKey(files []string) string {
	h := sha256.New()
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return ""
		}
		info, err := os.Stat(abs)
		if err != nil {
			return ""
		}
		_, _ = fmt.Fprintf(h, "%s\x00%d\x00", abs, info.ModTime().UnixNano())
	}
	return "docs:" + hex.EncodeToString(h.Sum(nil))
}

// loadDocs scans the documentation files and directories in paths, using the
// cache when enabled. No paths means an empty documentation set.
func loadDocs(ctx context.Context, paths []string, settings *config.Config) ([]*docscan.Document, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if len(paths) > cfg.MaxDocPaths {
		return nil, fmt.Errorf("%d docs paths exceed maximum %d; pass directories instead of single files", len(paths), cfg.MaxDocPaths)
	}
	files, err := docscan.CollectFiles(paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Markdown files found in %s", strings.Join(paths, ", "))
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(files)
	}
	if key != "" {
		if cached := registryCache.get(key); cached != nil {
			return cached, nil
		}
	}

	s, err := docscan.New(settings.ScannerOptions()...)
	if err != nil {
		return nil, err
	}
	docs, err := s.ScanFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	if key != "" {
		registryCache.put(key, docs, cfg.CacheTTL)
	}
	return docs, nil
}
