package hunter

import (
	"context"
	"fmt"

	"github.com/codeGROOVE-dev/emailhunter/pkg/htmlutil"
	"github.com/codeGROOVE-dev/emailhunter/pkg/instagram"
	"github.com/codeGROOVE-dev/emailhunter/pkg/profile"
)

// InstagramProfile looks up the account behind an Instagram URL and returns its
// record along with any emails found in the biography. Without a biography
// email, the profile's external URL is fetched once (no candidate crawl).
//
// A URL that names no account is logged and yields (nil, nil, nil).
// Lookup errors are returned to the caller.
func (h *Hunter) InstagramProfile(ctx context.Context, url string, lookup profile.Lookup) (*profile.Record, []string, error) {
	username, ok := instagram.Username(url)
	if !ok {
		h.logger.ErrorContext(ctx, "could not parse instagram username", "url", url)
		return nil, nil, nil
	}

	info, err := lookup.Lookup(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup instagram profile %q: %w", username, err)
	}
	if info == nil {
		return nil, nil, fmt.Errorf("lookup instagram profile %q: %w", username, profile.ErrProfileNotFound)
	}
	rec := profile.NewRecord(info)

	emails := htmlutil.Emails(info.Biography)
	if len(emails) > 0 {
		h.logger.InfoContext(ctx, "found emails in biography", "username", username, "count", len(emails))
		return rec, emails, nil
	}

	if info.ExternalURL == "" {
		h.logger.InfoContext(ctx, "no emails in biography and no external url", "username", username)
		return rec, emails, nil
	}

	h.logger.InfoContext(ctx, "checking external url", "username", username, "url", info.ExternalURL)
	emails, _ = h.EmailsAndLinks(ctx, info.ExternalURL)
	return rec, emails, nil
}
