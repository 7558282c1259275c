// Package instagram looks up public Instagram profiles via the anonymous web API.
package instagram

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/emailhunter/pkg/httpcache"
	"github.com/codeGROOVE-dev/emailhunter/pkg/profile"
)

const (
	defaultBaseURL = "https://i.instagram.com"
	webAppID       = "936619743392459"
)

// usernamePattern takes the last "instagram.com/" segment in the string.
// The unescaped dot matches any separator.
var usernamePattern = regexp.MustCompile(`^.*instagram.com/([\p{L}\p{N}_.]+)`)

// systemPaths are first path segments that never name an account.
var systemPaths = map[string]bool{
	"p": true, "reel": true, "reels": true, "stories": true,
	"explore": true, "direct": true, "accounts": true,
	"about": true, "legal": true, "privacy": true,
	"terms": true, "api": true, "developer": true,
}

// Username extracts the account name from a profile URL.
func Username(urlStr string) (string, bool) {
	m := usernamePattern.FindStringSubmatch(urlStr)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// Match returns true if the URL is an Instagram profile URL.
func Match(urlStr string) bool {
	if !strings.Contains(strings.ToLower(urlStr), "instagram.com/") {
		return false
	}
	username, ok := Username(urlStr)
	return ok && !systemPaths[strings.ToLower(username)]
}

// Client handles Instagram requests.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	baseURL    string
}

var _ profile.Lookup = (*Client)(nil)

// Option configures a Client.
type Option func(*config)

type config struct {
	cache   httpcache.Cacher
	logger  *slog.Logger
	baseURL string
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache httpcache.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// New creates an Instagram client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // needed for corporate proxies
			},
		},
		cache:   cfg.cache,
		logger:  cfg.logger,
		baseURL: cfg.baseURL,
	}, nil
}

// Lookup retrieves the public profile of username.
func (c *Client) Lookup(ctx context.Context, username string) (*profile.Info, error) {
	c.logger.InfoContext(ctx, "fetching instagram profile", "username", username)

	apiURL := c.baseURL + "/api/v1/users/web_profile_info/?username=" + url.QueryEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Required header for anonymous access
	req.Header.Set("X-Ig-App-Id", webAppID)
	req.Header.Set("User-Agent", httpcache.UserAgent)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		var httpErr *httpcache.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", profile.ErrProfileNotFound, username)
			case http.StatusTooManyRequests:
				return nil, fmt.Errorf("%w: %w", profile.ErrRateLimited, err)
			}
		}
		return nil, fmt.Errorf("fetch instagram API: %w", err)
	}

	return c.parseResponse(body, username)
}

func (c *Client) parseResponse(data []byte, username string) (*profile.Info, error) {
	var resp apiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	user := resp.Data.User
	if user.Username == "" {
		return nil, fmt.Errorf("%w: %s", profile.ErrProfileNotFound, username)
	}

	c.logger.Debug("parsed instagram profile",
		"username", user.Username,
		"followers", user.EdgeFollowedBy.Count,
		"following", user.EdgeFollow.Count,
		"external_url", user.ExternalURL,
	)

	return &profile.Info{
		Username:    user.Username,
		Biography:   user.Biography,
		ExternalURL: user.ExternalURL,
		Followers:   user.EdgeFollowedBy.Count,
		Followees:   user.EdgeFollow.Count,
	}, nil
}

// apiResponse represents the Instagram API response structure.
type apiResponse struct {
	Data struct {
		User userInfo `json:"user"`
	} `json:"data"`
}

type userInfo struct {
	Username       string `json:"username"`
	Biography      string `json:"biography"`
	ExternalURL    string `json:"external_url"`
	EdgeFollowedBy count  `json:"edge_followed_by"`
	EdgeFollow     count  `json:"edge_follow"`
}

type count struct {
	Count int `json:"count"`
}
