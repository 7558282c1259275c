package hunter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codeGROOVE-dev/emailhunter/pkg/page"
	"github.com/google/go-cmp/cmp"
)

// fakeFetcher serves canned pages and records every requested URL.
type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*page.Page, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	text, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: no such page %s", page.ErrUnreachable, url)
	}
	return &page.Page{URL: url, StatusCode: http.StatusOK, Text: text}, nil
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestEmailsAndLinks(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://a.example.com":  "write to foo@bar.com or foo@bar.com, see https://a.example.com/contact",
		"https://b.example.com/": "nothing here but https://b.example.com/about and https://x.com/...",
	}}
	h := New(f, WithLogger(testLogger(&bytes.Buffer{})))

	tests := []struct {
		name       string
		url        string
		wantEmails []string
		wantLinks  []string
	}{
		{
			name:       "emails skip link extraction",
			url:        "https://a.example.com",
			wantEmails: []string{"foo@bar.com"},
			wantLinks:  []string{},
		},
		{
			name:       "links when no email",
			url:        "https://b.example.com/",
			wantEmails: []string{},
			wantLinks:  []string{"https://b.example.com/about"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emails, links := h.EmailsAndLinks(context.Background(), tt.url)
			if diff := cmp.Diff(tt.wantEmails, emails); diff != "" {
				t.Errorf("emails mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantLinks, links); diff != "" {
				t.Errorf("links mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmailsAndLinksFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantLog string
	}{
		{"unreachable", fmt.Errorf("%w: refused", page.ErrUnreachable), "unable to reach url"},
		{"missing scheme", fmt.Errorf("%w: foo", page.ErrMissingScheme), "no scheme"},
		{"malformed", fmt.Errorf("%w: bad", page.ErrMalformedURL), "error connecting, skipping"},
		{"other", fmt.Errorf("%w: short read", page.ErrFetch), "error connecting, skipping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := &fakeFetcher{errs: map[string]error{"https://down.example.com": tt.err}}
			h := New(f, WithLogger(testLogger(&buf)))

			emails, links := h.EmailsAndLinks(context.Background(), "https://down.example.com")
			if len(emails) != 0 || len(links) != 0 {
				t.Errorf("EmailsAndLinks() = %v, %v, want empty sets", emails, links)
			}
			if emails == nil || links == nil {
				t.Error("EmailsAndLinks() returned nil slices, want empty")
			}
			if !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("log = %q, want it to contain %q", buf.String(), tt.wantLog)
			}
		})
	}
}

func TestEmailsAndLinksRealFetcher(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	var buf bytes.Buffer
	pages, err := page.New(context.Background(), page.WithLogger(testLogger(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	h := New(pages, WithLogger(testLogger(&buf)))

	emails, links := h.EmailsAndLinks(context.Background(), addr)
	if len(emails) != 0 || len(links) != 0 {
		t.Errorf("EmailsAndLinks(%q) = %v, %v, want empty sets", addr, emails, links)
	}
	if !strings.Contains(buf.String(), "unable to reach url") {
		t.Errorf("log = %q, want unreachable message", buf.String())
	}
}

func TestHuntSeedHasEmail(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://seed.example.com": "hello@example.com and https://seed.example.com/contact",
	}}
	h := New(f, WithLogger(testLogger(&bytes.Buffer{})))

	got := h.Hunt(context.Background(), "https://seed.example.com")
	if diff := cmp.Diff([]string{"hello@example.com"}, got); diff != "" {
		t.Errorf("Hunt() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"https://seed.example.com"}, f.calls); diff != "" {
		t.Errorf("fetches mismatch (-want +got):\n%s", diff)
	}
}

func TestHuntFollowsCandidates(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://seed.example.com": `
			<a href="https://seed.example.com/blog">blog</a>
			<a href="https://seed.example.com/logo.png">logo</a>
			<a href="https://seed.example.com/about-us">about</a>
			<a href="https://seed.example.com/contact">contact</a>`,
		"https://seed.example.com/about-us": "we are a small team",
		"https://seed.example.com/contact":  "mail press@example.com",
	}}
	h := New(f, WithLogger(testLogger(&bytes.Buffer{})))

	got := h.Hunt(context.Background(), "https://seed.example.com")
	if diff := cmp.Diff([]string{"press@example.com"}, got); diff != "" {
		t.Errorf("Hunt() mismatch (-want +got):\n%s", diff)
	}

	wantCalls := []string{
		"https://seed.example.com",
		"https://seed.example.com/about-us",
		"https://seed.example.com/contact",
	}
	if diff := cmp.Diff(wantCalls, f.calls); diff != "" {
		t.Errorf("fetches mismatch (-want +got):\n%s", diff)
	}
}

func TestHuntStopsAtFirstHit(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://seed.example.com":         "https://seed.example.com/contact https://seed.example.com/profile",
		"https://seed.example.com/contact": "first@example.com",
		"https://seed.example.com/profile": "second@example.com",
	}}
	h := New(f, WithLogger(testLogger(&bytes.Buffer{})))

	got := h.Hunt(context.Background(), "https://seed.example.com")
	if diff := cmp.Diff([]string{"first@example.com"}, got); diff != "" {
		t.Errorf("Hunt() mismatch (-want +got):\n%s", diff)
	}
	if len(f.calls) != 2 {
		t.Errorf("Hunt() made %d fetches, want 2: %v", len(f.calls), f.calls)
	}
}

func TestHuntFollowsAccentedCandidate(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://seed.fr":                "voir https://seed.fr/équipe/contact",
		"https://seed.fr/équipe/contact": "écrire à josé@seed.fr",
	}}
	h := New(f, WithLogger(testLogger(&bytes.Buffer{})))

	got := h.Hunt(context.Background(), "https://seed.fr")
	if diff := cmp.Diff([]string{"josé@seed.fr"}, got); diff != "" {
		t.Errorf("Hunt() mismatch (-want +got):\n%s", diff)
	}
	wantCalls := []string{"https://seed.fr", "https://seed.fr/équipe/contact"}
	if diff := cmp.Diff(wantCalls, f.calls); diff != "" {
		t.Errorf("fetches mismatch (-want +got):\n%s", diff)
	}
}

func TestHuntNothingFound(t *testing.T) {
	tests := []struct {
		name  string
		pages map[string]string
	}{
		{"unreachable seed", map[string]string{}},
		{"no candidates", map[string]string{"https://seed.example.com": "see https://seed.example.com/blog"}},
		{"candidates without email", map[string]string{
			"https://seed.example.com":         "see https://seed.example.com/contact",
			"https://seed.example.com/contact": "use the form",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&fakeFetcher{pages: tt.pages}, WithLogger(testLogger(&bytes.Buffer{})))
			got := h.Hunt(context.Background(), "https://seed.example.com")
			if got == nil || len(got) != 0 {
				t.Errorf("Hunt() = %#v, want empty non-nil set", got)
			}
		})
	}
}

func TestHuntOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<footer>reach us at team&#64;example.org</footer>")
	}))
	defer srv.Close()

	pages, err := page.New(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	h := New(pages, WithLogger(testLogger(&bytes.Buffer{})))

	got := h.Hunt(context.Background(), srv.URL+"/")
	if diff := cmp.Diff([]string{"team@example.org"}, got); diff != "" {
		t.Errorf("Hunt() mismatch (-want +got):\n%s", diff)
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name  string
		links []string
		want  []string
	}{
		{
			name:  "keyword filter keeps order",
			links: []string{"https://x.io/contact", "https://x.io/blog", "https://x.io/about/team", "https://x.io/profile?id=1"},
			want:  []string{"https://x.io/contact", "https://x.io/about/team", "https://x.io/profile?id=1"},
		},
		{
			name:  "file-like endings dropped",
			links: []string{"https://x.io/about.html", "https://x.io/contact.pdf", "https://about.example.com"},
			want:  []string{},
		},
		{
			name:  "empty",
			links: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Candidates(tt.links)); diff != "" {
				t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
