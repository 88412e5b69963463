package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/donaldgifford/dlink/internal/platform"
	"github.com/donaldgifford/dlink/internal/release"
)

// Validate checks a Config for required fields and valid values.
func Validate(c *Config) error {
	if _, _, err := release.SplitRepo(c.Repo); err != nil {
		return fmt.Errorf("repo: %w", err)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL)
	}

	urls := []struct {
		field string
		value string
	}{
		{"api_url", c.APIURL},
		{"fallback.base_url", c.Fallback.BaseURL},
		{"fallback.releases_url", c.Fallback.ReleasesURL},
	}

	for _, u := range urls {
		if err := validateURL(u.value); err != nil {
			return fmt.Errorf("%s: %w", u.field, err)
		}
	}

	for tag, name := range c.Fallback.Files {
		p, err := platform.Parse(tag)
		if err != nil {
			return fmt.Errorf("fallback.files: %w", err)
		}

		if p == platform.Unknown {
			return fmt.Errorf("fallback.files: %q always maps to releases_url", tag)
		}

		if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
			return fmt.Errorf("fallback.files[%s]: invalid file name %q", tag, name)
		}
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}

	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}

	return nil
}
