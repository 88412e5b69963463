package release

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long fetched metadata is served without refetching.
const DefaultTTL = 5 * time.Minute

var errNoMetadata = errors.New("no release metadata")

// Entry is the cached snapshot. Metadata is nil until the first successful
// fetch and is always replaced whole, never merged.
type Entry struct {
	Metadata  *Metadata
	FetchedAt time.Time
}

// Stale reports whether the entry must be refetched at now.
func (e Entry) Stale(now time.Time, ttl time.Duration) bool {
	return e.Metadata == nil || now.Sub(e.FetchedAt) >= ttl
}

// Cache holds the latest release metadata for a bounded time.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger

	mu    sync.RWMutex
	entry Entry

	group   singleflight.Group
	fetches atomic.Int64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache creates an empty cache in front of fetcher.
func NewCache(fetcher Fetcher, opts ...CacheOption) *Cache {
	c := &Cache{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the latest release metadata, or nil when none is available.
//
// A fresh entry is returned without network access. Otherwise a single fetch
// is issued; concurrent callers share it. The fetch is not tied to ctx: if
// the caller gives up, the fetch still completes and refreshes the entry.
// Failures are logged and leave the entry untouched.
func (c *Cache) Get(ctx context.Context) *Metadata {
	if meta, ok := c.fresh(); ok {
		c.logger.Debug("release cache hit")

		return meta
	}

	ch := c.group.DoChan("latest", func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil
		}

		meta, _ := res.Val.(*Metadata)

		return meta
	case <-ctx.Done():
		c.logger.Debug("release lookup abandoned", "err", ctx.Err())

		return nil
	}
}

// Snapshot returns the current entry without fetching.
func (c *Cache) Snapshot() Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entry
}

// Fetches returns the number of outbound fetches issued so far.
func (c *Cache) Fetches() int64 {
	return c.fetches.Load()
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) fresh() (*Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry.Stale(c.now(), c.ttl) {
		return nil, false
	}

	return c.entry.Metadata, true
}

func (c *Cache) refresh(ctx context.Context) (*Metadata, error) {
	c.fetches.Add(1)
	c.logger.Debug("fetching release metadata")

	meta, err := c.fetcher.FetchLatest(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch release metadata", "err", err)

		return nil, err
	}

	if meta == nil {
		c.logger.Warn("release source returned no metadata")

		return nil, errNoMetadata
	}

	c.mu.Lock()
	c.entry = Entry{Metadata: meta, FetchedAt: c.now()}
	c.mu.Unlock()

	c.logger.Debug("release metadata cached", "tag", meta.Tag, "assets", len(meta.Assets))

	return meta, nil
}
