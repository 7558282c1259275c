package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/emailhunter/pkg/hunter"
	"github.com/codeGROOVE-dev/emailhunter/pkg/profile"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Hunter *hunter.Hunter
	Lookup profile.Lookup
}

// Globals are flags shared by every command. Zero values leave the
// configuration file setting in place.
type Globals struct {
	Config    string        `help:"Path to YAML config file (default: $XDG_CONFIG_HOME/emailhunter/config.yaml)" type:"path"`
	Debug     bool          `help:"Enable debug logging"`
	Timeout   time.Duration `help:"Per-request HTTP timeout"`
	UserAgent string        `name:"user-agent" help:"User-Agent header for page fetches"`
	Cache     bool          `help:"Cache HTTP responses on disk"`
	CacheTTL  time.Duration `name:"cache-ttl" help:"Cache time-to-live"`
	CacheDir  string        `name:"cache-dir" help:"Cache directory" type:"path"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Hunt      HuntCmd      `cmd:"" help:"Hunt emails on web pages, following contact/about/profile links one hop"`
	Instagram InstagramCmd `cmd:"" help:"Look up Instagram profiles and the emails they expose"`
}

// HuntCmd is the "hunt" subcommand.
type HuntCmd struct {
	URLs []string `arg:"" name:"url" help:"Seed URLs (scheme optional)"`
}

// InstagramCmd is the "instagram" subcommand.
type InstagramCmd struct {
	URLs []string `arg:"" name:"url" help:"Instagram profile URLs"`
}

// result is the JSON document printed for each input URL.
type result struct {
	URL     string          `json:"url"`
	Profile *profile.Record `json:"profile,omitempty"`
	Emails  []string        `json:"emails"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
