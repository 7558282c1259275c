// Package page fetches web pages as unescaped text for email and link extraction.
package page

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/emailhunter/pkg/htmlutil"
	"github.com/codeGROOVE-dev/emailhunter/pkg/httpcache"
	"github.com/codeGROOVE-dev/retry"
)

// DefaultTimeout bounds a single GET.
const DefaultTimeout = 10 * time.Second

// Failure kinds reported by Fetch. Use errors.Is or KindOf to tell them apart.
var (
	ErrMissingScheme = errors.New("missing url scheme")
	ErrMalformedURL  = errors.New("malformed url")
	ErrUnreachable   = errors.New("unable to reach url")
	ErrFetch         = errors.New("fetch failed")
)

// Kind classifies the outcome of a fetch.
type Kind int

// Fetch outcome kinds.
const (
	KindOK Kind = iota
	KindMissingScheme
	KindMalformedURL
	KindUnreachable
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindMissingScheme:
		return "missing-scheme"
	case KindMalformedURL:
		return "malformed-url"
	case KindUnreachable:
		return "unreachable"
	default:
		return "other"
	}
}

// KindOf reports which failure kind err belongs to.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrMissingScheme):
		return KindMissingScheme
	case errors.Is(err, ErrMalformedURL):
		return KindMalformedURL
	case errors.Is(err, ErrUnreachable):
		return KindUnreachable
	default:
		return KindOther
	}
}

// Page is the text of one fetched URL.
type Page struct {
	URL        string // URL actually requested, after scheme fallback
	StatusCode int
	Text       string // response body with HTML entities decoded
}

// Fetcher retrieves pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Client fetches pages over HTTP.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	userAgent  string
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	userAgent  string
	timeout    time.Duration
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache httpcache.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTimeout sets the per-request timeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *config) { c.userAgent = ua }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// New creates a page client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{
		logger:    slog.Default(),
		userAgent: httpcache.UserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // needed for corporate proxies
			},
		}
	}

	return &Client{
		httpClient: httpClient,
		cache:      cfg.cache,
		logger:     cfg.logger,
		userAgent:  cfg.userAgent,
	}, nil
}

// Fetch performs a GET of rawURL and returns its body as unescaped text.
// A URL without a scheme is retried exactly once as http://.
// The body is returned whatever the HTTP status.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	target := rawURL
	var lastErr error

	p, err := retry.DoWithData(
		func() (*Page, error) {
			p, err := c.get(ctx, target)
			lastErr = err
			return p, err
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(10*time.Millisecond),
		retry.MaxJitter(10*time.Millisecond),
		retry.RetryIf(func(err error) bool { return errors.Is(err, ErrMissingScheme) }),
		retry.OnRetry(func(_ uint, _ error) {
			c.logger.InfoContext(ctx, "url has no scheme, retrying over http", "url", target)
			target = "http://" + target
		}),
	)
	if err != nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return nil, lastErr
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, target string) (*Page, error) {
	if !strings.Contains(target, "://") {
		return nil, fmt.Errorf("%w: %s", ErrMissingScheme, target)
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrMalformedURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: no host in %s", ErrMalformedURL, target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := httpcache.Do(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		var urlErr *url.Error
		if ctx.Err() == nil && errors.As(err, &urlErr) {
			return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	c.logger.DebugContext(ctx, "fetched page",
		"url", target, "status", resp.StatusCode, "bytes", len(resp.Body), "cached", resp.Cached)

	return &Page{
		URL:        target,
		StatusCode: resp.StatusCode,
		Text:       htmlutil.Unescape(string(resp.Body)),
	}, nil
}
