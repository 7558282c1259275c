package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when an explicitly requested configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Load reads the configuration file at path, or DefaultPath when path is empty.
// Fields absent from the file keep their defaults. A missing default file is
// not an error; a missing explicit file returns ErrConfigNotFound.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}

	cfg, err := loadFile(DefaultPath())
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), nil
	}
	return cfg, err
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
