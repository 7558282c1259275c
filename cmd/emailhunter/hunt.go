package main

import (
	"fmt"

	"github.com/codeGROOVE-dev/emailhunter/pkg/instagram"
)

// Run executes the hunt command. Instagram profile URLs are routed through
// the profile lookup instead of being scraped as pages.
func (c *HuntCmd) Run(deps *Dependencies) error {
	for _, u := range c.URLs {
		if err := deps.Ctx.Err(); err != nil {
			return err
		}

		if instagram.Match(u) {
			if err := lookupInstagram(deps, u); err != nil {
				return err
			}
			continue
		}

		emails := deps.Hunter.Hunt(deps.Ctx, u)
		if err := writeJSON(deps.Stdout, result{URL: u, Emails: emails}); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
