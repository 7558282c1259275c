// Package htmlutil provides the text extraction used to find contact details in fetched pages.
package htmlutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// wordClass is \w extended to Unicode letters and digits, so accented
// addresses and paths are matched whole.
const wordClass = `\p{L}\p{N}_`

// Pre-compiled patterns for extraction.
var (
	// emailPattern matches shape only, no RFC validation.
	emailPattern = regexp.MustCompile(`[` + wordClass + `\-]+@[` + wordClass + `\-]+\.[a-zA-Z]+`)

	// schemeLinkPattern matches http(s)-like prefixes followed by path characters.
	// The prefix class also admits '|'.
	schemeLinkPattern = regexp.MustCompile(`[htps|]+://[` + wordClass + `\-/=?.]+`)
	// comLinkPattern matches scheme-less references to .com hosts with a path.
	comLinkPattern = regexp.MustCompile(`[` + wordClass + `\-./:]+\.com[` + wordClass + `\-/=?.]+`)

	domainPattern = regexp.MustCompile(`^[htps|]+://([` + wordClass + `\-.]+)`)
)

// excludedLinkSubstrings are dropped from link results wherever they appear.
var excludedLinkSubstrings = []string{
	"...", // truncated display URLs
	"goodreads",
}

// Emails returns the unique email-like substrings of text in order of first appearance.
func Emails(text string) []string {
	return unique(emailPattern.FindAllString(text, -1))
}

// Links returns the unique URL-like substrings of text.
// Scheme-prefixed matches come first, followed by bare .com references.
// Truncated links and links to excluded sites are discarded.
func Links(text string) []string {
	matches := schemeLinkPattern.FindAllString(text, -1)
	matches = append(matches, comLinkPattern.FindAllString(text, -1)...)

	kept := matches[:0]
	for _, m := range matches {
		if isExcludedLink(m) {
			continue
		}
		kept = append(kept, m)
	}
	return unique(kept)
}

func isExcludedLink(link string) bool {
	for _, s := range excludedLinkSubstrings {
		if strings.Contains(link, s) {
			return true
		}
	}
	return false
}

// Domain returns the host of an http(s) URL, or "" if rawURL does not start with a scheme.
func Domain(rawURL string) string {
	if m := domainPattern.FindStringSubmatch(rawURL); len(m) > 1 {
		return m[1]
	}
	return ""
}

// Unescape decodes HTML entities such as &amp; and &#64;.
func Unescape(s string) string {
	return html.UnescapeString(s)
}

func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		result = append(result, s)
	}
	return result
}
