// Package release fetches and caches metadata about the latest published
// release of the application.
package release

import (
	"context"

	"github.com/Masterminds/semver/v3"
)

// Asset is one file attached to a published release.
type Asset struct {
	Name        string `json:"name" yaml:"name"`
	DownloadURL string `json:"download_url" yaml:"download_url"`
	SizeBytes   int64  `json:"size" yaml:"size"`
}

// Metadata describes the latest published release. Assets keep the order
// the API returned them in.
type Metadata struct {
	Tag    string  `json:"tag" yaml:"tag"`
	Assets []Asset `json:"assets" yaml:"assets"`
}

// Version parses the release tag as a semantic version. It returns nil when
// the tag is not semver (e.g. "nightly").
func (m *Metadata) Version() *semver.Version {
	if m == nil {
		return nil
	}

	v, err := semver.NewVersion(m.Tag)
	if err != nil {
		return nil
	}

	return v
}

// Fetcher retrieves the latest release from a remote source.
type Fetcher interface {
	FetchLatest(ctx context.Context) (*Metadata, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context) (*Metadata, error)

// FetchLatest calls f.
func (f FetcherFunc) FetchLatest(ctx context.Context) (*Metadata, error) {
	return f(ctx)
}
