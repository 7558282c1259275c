// Package config holds emailhunter settings loaded from a YAML file.
package config

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/codeGROOVE-dev/emailhunter/pkg/httpcache"
)

// AppName is the application name used for XDG directory paths.
const AppName = "emailhunter"

// Default values.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultCacheTTL = 24 * time.Hour
)

// Validation errors returned by Config.Validate.
var (
	ErrInvalidTimeout  = errors.New("invalid timeout: must be positive")
	ErrInvalidCacheTTL = errors.New("invalid cache ttl: must be positive")
)

// Config holds all emailhunter settings.
type Config struct {
	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent is sent with every page fetch.
	UserAgent string `yaml:"user_agent"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig controls the optional HTTP response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	// Dir overrides the cache location. Empty means the XDG cache directory.
	Dir string `yaml:"dir"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		UserAgent: httpcache.UserAgent,
		Cache: CacheConfig{
			TTL: DefaultCacheTTL,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return ErrInvalidCacheTTL
	}
	return nil
}

// DefaultPath returns the XDG location of the configuration file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}
