// Package hunter finds contact email addresses on web pages and social profiles.
//
// Basic usage:
//
//	pages, _ := page.New(ctx)
//	h := hunter.New(pages)
//	emails := h.Hunt(ctx, "https://example.com")
//
// When the seed page carries no address, Hunt follows one hop of links that
// look like profile, about or contact pages and returns the first non-empty
// set it finds.
package hunter

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/emailhunter/pkg/htmlutil"
	"github.com/codeGROOVE-dev/emailhunter/pkg/page"
)

// fileLikePattern matches links ending in something that looks like a file extension.
var fileLikePattern = regexp.MustCompile(`\.[a-zA-Z]{2,}$`)

// candidateKeywords mark links worth following when the seed has no email.
var candidateKeywords = []string{"profile", "about", "contact"}

// Hunter orchestrates page fetches and extraction.
type Hunter struct {
	fetcher page.Fetcher
	logger  *slog.Logger
}

// Option configures a Hunter.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New returns a Hunter that fetches pages through fetcher.
func New(fetcher page.Fetcher, opts ...Option) *Hunter {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Hunter{fetcher: fetcher, logger: cfg.logger}
}

// EmailsAndLinks fetches url once and returns the emails found on it.
// Links are only extracted when the page has no email.
// Fetch failures are logged and yield two empty sets.
func (h *Hunter) EmailsAndLinks(ctx context.Context, url string) (emails, links []string) {
	p, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		switch page.KindOf(err) {
		case page.KindUnreachable:
			h.logger.InfoContext(ctx, "unable to reach url", "url", url, "error", err)
		case page.KindMissingScheme:
			h.logger.InfoContext(ctx, "url has no scheme, skipping", "url", url, "error", err)
		default:
			h.logger.InfoContext(ctx, "error connecting, skipping", "url", url, "error", err)
		}
		return []string{}, []string{}
	}

	emails = htmlutil.Emails(p.Text)
	if len(emails) > 0 {
		h.logger.DebugContext(ctx, "found emails", "url", p.URL, "count", len(emails))
		return emails, []string{}
	}

	links = htmlutil.Links(p.Text)
	h.logger.InfoContext(ctx, "no emails, collected links",
		"url", p.URL, "domain", htmlutil.Domain(p.URL), "count", len(links))
	return emails, links
}

// Hunt searches seedURL for emails, then falls back to one hop of candidate links.
// An empty result means nothing was found.
func (h *Hunter) Hunt(ctx context.Context, seedURL string) []string {
	h.logger.InfoContext(ctx, "hunting emails", "url", seedURL)

	emails, links := h.EmailsAndLinks(ctx, seedURL)
	if len(emails) > 0 {
		return emails
	}

	candidates := Candidates(links)
	if len(candidates) == 0 {
		h.logger.InfoContext(ctx, "no candidate links to follow", "url", seedURL)
		return []string{}
	}
	h.logger.InfoContext(ctx, "following candidate links", "url", seedURL, "candidates", candidates)

	for _, link := range candidates {
		if err := ctx.Err(); err != nil {
			h.logger.InfoContext(ctx, "hunt cancelled", "url", seedURL, "error", err)
			break
		}
		emails, _ := h.EmailsAndLinks(ctx, link)
		if len(emails) > 0 {
			h.logger.InfoContext(ctx, "found emails on candidate", "url", link, "count", len(emails))
			return emails
		}
	}
	return []string{}
}

// Candidates keeps links that look like profile, about or contact pages,
// dropping those that end in a file-like extension. Order is preserved.
func Candidates(links []string) []string {
	out := []string{}
	for _, link := range links {
		if fileLikePattern.MatchString(link) {
			continue
		}
		for _, kw := range candidateKeywords {
			if strings.Contains(link, kw) {
				out = append(out, link)
				break
			}
		}
	}
	return out
}
