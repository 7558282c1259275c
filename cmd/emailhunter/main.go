// Command emailhunter finds contact email addresses on web pages and Instagram profiles.
//
// Usage:
//
//	emailhunter hunt https://example.com
//	emailhunter instagram https://instagram.com/johndoe
//	emailhunter --debug --cache hunt example.com https://example.org
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/codeGROOVE-dev/emailhunter/pkg/config"
	"github.com/codeGROOVE-dev/emailhunter/pkg/httpcache"
	"github.com/codeGROOVE-dev/emailhunter/pkg/hunter"
	"github.com/codeGROOVE-dev/emailhunter/pkg/instagram"
	"github.com/codeGROOVE-dev/emailhunter/pkg/page"
	"github.com/codeGROOVE-dev/emailhunter/pkg/profile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewMain().Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Built from configuration when nil.
	Fetcher page.Fetcher
	Lookup  profile.Lookup
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("emailhunter"),
		kong.Description("Find contact email addresses on web pages and Instagram profiles."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"}) //nolint:errcheck // help output only
		return errors.New("no command specified. Run 'emailhunter --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"}) //nolint:errcheck // help output only
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := cli.Globals.resolve()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	var httpCache *httpcache.Cache
	if cfg.Cache.Enabled {
		httpCache, err = openCache(cfg)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			defer func() {
				if err := httpCache.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}()
			logger.Debug("HTTP cache initialized", "dir", cfg.Cache.Dir, "ttl", cfg.Cache.TTL.String())
		}
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		opts := []page.Option{
			page.WithLogger(logger),
			page.WithTimeout(cfg.Timeout),
			page.WithUserAgent(cfg.UserAgent),
		}
		if httpCache != nil {
			opts = append(opts, page.WithHTTPCache(httpCache))
		}
		client, err := page.New(ctx, opts...)
		if err != nil {
			return fmt.Errorf("failed to create page client: %w", err)
		}
		fetcher = client
	}

	lookup := m.Lookup
	if lookup == nil {
		opts := []instagram.Option{instagram.WithLogger(logger)}
		if httpCache != nil {
			opts = append(opts, instagram.WithHTTPCache(httpCache))
		}
		client, err := instagram.New(ctx, opts...)
		if err != nil {
			return fmt.Errorf("failed to create instagram client: %w", err)
		}
		lookup = client
	}

	deps.Logger = logger
	deps.Hunter = hunter.New(fetcher, hunter.WithLogger(logger))
	deps.Lookup = lookup

	err = kongCtx.Run(deps)
	if httpCache != nil {
		stats := httpcache.CacheStats()
		logger.Debug("cache stats", "hits", stats.Hits, "misses", stats.Misses)
	}
	return err
}

// openCache opens the response cache in the configured directory,
// or under the XDG cache directory when none is set.
func openCache(cfg *config.Config) (*httpcache.Cache, error) {
	if cfg.Cache.Dir == "" {
		return httpcache.New(cfg.Cache.TTL)
	}
	return httpcache.NewWithPath(cfg.Cache.TTL, cfg.Cache.Dir)
}

// resolve loads the configuration file and applies flag overrides.
func (g *Globals) resolve() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	if g.Debug {
		cfg.Debug = true
	}
	if g.Timeout != 0 {
		cfg.Timeout = g.Timeout
	}
	if g.UserAgent != "" {
		cfg.UserAgent = g.UserAgent
	}
	if g.Cache {
		cfg.Cache.Enabled = true
	}
	if g.CacheTTL != 0 {
		cfg.Cache.TTL = g.CacheTTL
	}
	if g.CacheDir != "" {
		cfg.Cache.Dir = g.CacheDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
