// Package config loads tool configuration from an optional TOML file,
// with environment variables overriding file values and built-in
// defaults underneath.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/purse-pm/purse/pkg/cache"
	"github.com/purse-pm/purse/pkg/registry"
)

const appName = "purse"

// FileName is the config file looked up under the user config directory.
const FileName = "config.toml"

// Environment variables recognized as overrides.
const (
	EnvCacheDir    = "PURSE_CACHE_DIR"
	EnvTagsURL     = "PURSE_TAGS_URL"
	EnvSetURL      = "PURSE_SET_URL"
	EnvTagTTLHours = "PURSE_TAG_TTL_HOURS"
)

// Config is the resolved tool configuration.
type Config struct {
	Registry RegistryConfig `toml:"registry"`
	Cache    CacheConfig    `toml:"cache"`
}

// RegistryConfig selects the upstream registry endpoints.
type RegistryConfig struct {
	// TagsURL lists published package-set tags.
	TagsURL string `toml:"tags_url"`

	// SetURLTemplate fetches one tag's package set; %s is the tag.
	SetURLTemplate string `toml:"set_url_template"`
}

// CacheConfig controls the on-disk cache.
type CacheConfig struct {
	// Dir overrides the default cache directory.
	Dir string `toml:"dir"`

	// TagTTLHours is how long the cached tag listing stays fresh.
	TagTTLHours int `toml:"tag_ttl_hours"`
}

// Default returns the built-in configuration.
func Default() *Config {
	endpoints := registry.DefaultEndpoints()
	return &Config{
		Registry: RegistryConfig{
			TagsURL:        endpoints.TagsURL,
			SetURLTemplate: endpoints.SetURLTemplate,
		},
		Cache: CacheConfig{
			TagTTLHours: int(cache.DefaultTagTTL / time.Hour),
		},
	}
}

// Load resolves the effective configuration: defaults, then the config
// file if present, then environment overrides. A missing file is not an
// error; a malformed one is.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv(EnvTagsURL); v != "" {
		cfg.Registry.TagsURL = v
	}
	if v := os.Getenv(EnvSetURL); v != "" {
		cfg.Registry.SetURLTemplate = v
	}
	if v := os.Getenv(EnvTagTTLHours); v != "" {
		var hours int
		if _, err := fmt.Sscanf(v, "%d", &hours); err != nil || hours <= 0 {
			return nil, fmt.Errorf("%s: expected a positive integer, got %q", EnvTagTTLHours, v)
		}
		cfg.Cache.TagTTLHours = hours
	}

	return cfg, nil
}

// Endpoints converts the registry section to fetcher endpoints.
func (c *Config) Endpoints() registry.Endpoints {
	return registry.Endpoints{
		TagsURL:        c.Registry.TagsURL,
		SetURLTemplate: c.Registry.SetURLTemplate,
	}
}

// TagTTL converts the configured hours to a duration.
func (c *Config) TagTTL() time.Duration {
	return time.Duration(c.Cache.TagTTLHours) * time.Hour
}

// CacheDir resolves the cache directory: the configured override, or
// the XDG location (~/.cache/purse).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the config file location under the user config
// directory (~/.config/purse/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, FileName), nil
}
