package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anchorhq/anchord/internal/watch"
)

// Config holds project-level settings loaded from anchor.yml, layered over
// the daemon's built-in defaults (spec.md §10).
type Config struct {
	DebounceMS int      `yaml:"debounceMs,omitempty"`
	IgnoreDirs []string `yaml:"ignoreDirs,omitempty"`
	SocketPath string   `yaml:"socketPath,omitempty"`
}

// Debounce returns the configured watcher debounce window, or
// watch.DefaultDebounce if unset.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return watch.DefaultDebounce
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Load attempts to read anchor.yml or anchor.yaml from the given directory.
// Returns a zero-value config (not an error) if no config file exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"anchor.yml", "anchor.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &Config{}, nil
}
