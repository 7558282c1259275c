// Package httpcache provides optional on-disk caching of fetched HTTP response bodies.
package httpcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/adrg/xdg"
	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
)

// UserAgent is the standard browser User-Agent string for all fetchers.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:146.0) Gecko/20100101 Firefox/146.0"

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 5 << 20

const appName = "emailhunter"

// Stats tracks cache hit/miss statistics.
type Stats struct {
	Hits   int64
	Misses int64
}

var hits, misses atomic.Int64

// CacheStats returns the current cache statistics.
func CacheStats() Stats {
	return Stats{Hits: hits.Load(), Misses: misses.Load()}
}

// ResetStats resets the cache statistics.
func ResetStats() {
	hits.Store(0)
	misses.Store(0)
}

// Cacher allows external cache implementations for sharing across packages.
type Cacher interface {
	GetSet(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl ...time.Duration) ([]byte, error)
	TTL() time.Duration
}

// Cache wraps sfcache for HTTP response caching.
type Cache struct {
	*sfcache.TieredCache[string, []byte]

	ttl time.Duration
}

// New creates a new Cache with disk persistence under the XDG cache directory.
func New(ttl time.Duration) (*Cache, error) {
	dir := xdg.CacheHome
	if dir == "" {
		dir = os.TempDir()
	}
	return NewWithPath(ttl, filepath.Join(dir, appName))
}

// NewWithPath creates a new Cache with disk persistence at the specified path.
func NewWithPath(ttl time.Duration, cachePath string) (*Cache, error) {
	if err := os.MkdirAll(cachePath, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	persist, err := localfs.New[string, []byte](appName, cachePath)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Cache{TieredCache: tc, ttl: ttl}, nil
}

// TTL returns the default TTL for cache entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// URLToKey converts a URL to a cache key using SHA256 hash.
func URLToKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])
}

// HTTPError represents an HTTP error response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Response is a fetched response body and the status it was served with.
type Response struct {
	Body       []byte
	StatusCode int
	Cached     bool
}

// Do executes req, consulting cache first when it is non-nil.
// Only 200 responses are stored; other statuses are returned but never cached,
// and transport errors are never cached either.
func Do(ctx context.Context, cache Cacher, client *http.Client, req *http.Request, logger *slog.Logger) (*Response, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cache == nil {
		misses.Add(1)
		return doFetch(client, req)
	}

	var fetched *Response
	data, err := cache.GetSet(ctx, URLToKey(req.URL.String()), func(context.Context) ([]byte, error) {
		misses.Add(1)
		logger.DebugContext(ctx, "cache miss", "url", req.URL.String())
		resp, err := doFetch(client, req)
		if err != nil {
			return nil, err
		}
		fetched = resp
		if resp.StatusCode != http.StatusOK {
			return nil, &uncacheableError{resp: resp}
		}
		return resp.Body, nil
	}, cache.TTL())

	var uncacheable *uncacheableError
	if errors.As(err, &uncacheable) {
		return uncacheable.resp, nil
	}
	if err != nil {
		return nil, err
	}
	if fetched != nil {
		return fetched, nil
	}

	hits.Add(1)
	logger.DebugContext(ctx, "cache hit", "url", req.URL.String())
	return &Response{Body: data, StatusCode: http.StatusOK, Cached: true}, nil
}

// FetchURL fetches a URL through the cache and returns the body of a 200 response.
// Any other status is reported as an *HTTPError.
func FetchURL(ctx context.Context, cache Cacher, client *http.Client, req *http.Request, logger *slog.Logger) ([]byte, error) {
	resp, err := Do(ctx, cache, client, req, logger)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}
	return resp.Body, nil
}

// uncacheableError carries a response through GetSet without storing it.
type uncacheableError struct{ resp *Response }

func (e *uncacheableError) Error() string { return fmt.Sprintf("uncacheable status %d", e.resp.StatusCode) }

func doFetch(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{Body: body, StatusCode: resp.StatusCode}, nil
}
