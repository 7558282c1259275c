package main

import "fmt"

// Run executes the instagram command.
func (c *InstagramCmd) Run(deps *Dependencies) error {
	for _, u := range c.URLs {
		if err := deps.Ctx.Err(); err != nil {
			return err
		}
		if err := lookupInstagram(deps, u); err != nil {
			return err
		}
	}
	return nil
}

func lookupInstagram(deps *Dependencies, u string) error {
	rec, emails, err := deps.Hunter.InstagramProfile(deps.Ctx, u, deps.Lookup)
	if err != nil {
		return err
	}
	if emails == nil {
		emails = []string{}
	}
	if err := writeJSON(deps.Stdout, result{URL: u, Profile: rec, Emails: emails}); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
