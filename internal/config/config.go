// Package config handles loading and validation of the dlink config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/dlink/internal/fallback"
	"github.com/donaldgifford/dlink/internal/getter"
	"github.com/donaldgifford/dlink/internal/platform"
	"github.com/donaldgifford/dlink/internal/release"
)

// Defaults for unset fields.
const (
	DefaultRepo     = "zanwei/skiller"
	DefaultTokenEnv = "GITHUB_TOKEN"
	DefaultListen   = ":8080"
	FileName        = "config.yaml"
)

// Config represents the user's dlink configuration file.
type Config struct {
	// Repo is the GitHub repository in "owner/name" form.
	Repo string `yaml:"repo"`
	// APIURL is the GitHub REST API root.
	APIURL string `yaml:"api_url"`
	// TokenEnv names the environment variable holding an API token.
	TokenEnv string `yaml:"token_env"`
	// CacheTTL is how long release metadata is reused.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// Listen is the address for "dlink serve".
	Listen   string         `yaml:"listen"`
	Fallback FallbackConfig `yaml:"fallback"`
}

// FallbackConfig overrides the static download table.
type FallbackConfig struct {
	BaseURL     string            `yaml:"base_url"`
	ReleasesURL string            `yaml:"releases_url"`
	Files       map[string]string `yaml:"files"`
}

// DefaultConfigDir returns the default configuration directory, respecting XDG_CONFIG_HOME.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dlink")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "dlink")
	}

	return filepath.Join(home, ".config", "dlink")
}

// DefaultConfigPath is DefaultConfigDir joined with FileName.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), FileName)
}

// Load reads, defaults, and validates the config at path.
// If the file doesn't exist, it returns the defaults (no error).
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.ApplyDefaults()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyDefaults fills unset fields. Fallback URLs derive from Repo.
func (c *Config) ApplyDefaults() {
	if c.Repo == "" {
		c.Repo = DefaultRepo
	}

	if c.APIURL == "" {
		c.APIURL = release.DefaultAPIURL
	}

	if c.TokenEnv == "" {
		c.TokenEnv = DefaultTokenEnv
	}

	if c.CacheTTL == 0 {
		c.CacheTTL = release.DefaultTTL
	}

	if c.Listen == "" {
		c.Listen = DefaultListen
	}

	if c.Fallback.BaseURL == "" {
		c.Fallback.BaseURL = getter.LatestDownloadBaseURL(c.Repo)
	}

	if c.Fallback.ReleasesURL == "" {
		c.Fallback.ReleasesURL = getter.ReleasesURL(c.Repo)
	}
}

// Table builds the static fallback table. Files not listed in the config keep
// their conventional names.
func (c *Config) Table() *fallback.Table {
	t := fallback.Default(c.Repo)
	t.BaseURL = c.Fallback.BaseURL
	t.ReleasesURL = c.Fallback.ReleasesURL

	for tag, name := range c.Fallback.Files {
		if p, err := platform.Parse(tag); err == nil {
			t.Files[p] = name
		}
	}

	return t
}
