// Package resolver turns a platform tag into the download URL of the matching
// installer from the latest release.
package resolver

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/dlink/internal/fallback"
	"github.com/donaldgifford/dlink/internal/platform"
	"github.com/donaldgifford/dlink/internal/release"
)

// MetadataSource provides the latest release metadata, or nil when none is
// available. *release.Cache implements it.
type MetadataSource interface {
	Get(ctx context.Context) *release.Metadata
}

// Source says where a resolved URL came from.
type Source string

const (
	// SourceRelease is a versioned asset from the latest release.
	SourceRelease Source = "release"
	// SourceFallback is the fixed-name URL from the static table.
	SourceFallback Source = "fallback"
	// SourceListing is the releases page.
	SourceListing Source = "listing"
)

// Resolution is the outcome of resolving one platform.
type Resolution struct {
	Platform platform.Platform `json:"platform"`
	URL      string            `json:"url"`
	Source   Source            `json:"source"`
	// Tag and Asset are set only for SourceRelease.
	Tag   string         `json:"tag,omitempty"`
	Asset *release.Asset `json:"asset,omitempty"`
}

// Resolver picks installer URLs.
type Resolver struct {
	source MetadataSource
	table  *fallback.Table
	logger *slog.Logger
}

// New creates a Resolver. A nil logger uses slog.Default.
func New(source MetadataSource, table *fallback.Table, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		source: source,
		table:  table,
		logger: logger,
	}
}

// Resolve returns the download URL for p. It always returns a usable URL; in
// the worst case the releases page.
func (r *Resolver) Resolve(ctx context.Context, p platform.Platform) string {
	return r.ResolveDetailed(ctx, p).URL
}

// ResolveDetailed is Resolve with the reasoning attached.
func (r *Resolver) ResolveDetailed(ctx context.Context, p platform.Platform) Resolution {
	meta := r.source.Get(ctx)
	if meta == nil || len(meta.Assets) == 0 {
		r.logger.Debug("no release metadata, using static table", "platform", p)

		return Resolution{Platform: p, URL: r.table.Lookup(p), Source: SourceFallback}
	}

	if p == platform.Unknown {
		return r.listing(p)
	}

	asset, ok := match(p, meta.Assets)
	if !ok {
		r.logger.Debug("no asset matched", "platform", p, "tag", meta.Tag)

		return r.listing(p)
	}

	r.logger.Debug("asset matched", "platform", p, "tag", meta.Tag, "asset", asset.Name)

	return Resolution{
		Platform: p,
		URL:      asset.DownloadURL,
		Source:   SourceRelease,
		Tag:      meta.Tag,
		Asset:    &asset,
	}
}

// ResolveSync returns the static-table URL for p without any I/O.
func (r *Resolver) ResolveSync(p platform.Platform) string {
	return r.table.Lookup(p)
}

func (r *Resolver) listing(p platform.Platform) Resolution {
	return Resolution{Platform: p, URL: r.table.ReleasesURL, Source: SourceListing}
}
