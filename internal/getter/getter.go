// Package getter wraps hashicorp/go-getter for downloading resolved installers.
package getter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	getter "github.com/hashicorp/go-getter/v2"
)

// Getter downloads installer files over HTTP(S).
type Getter struct {
	client *getter.Client
	logger *slog.Logger
}

// New creates a Getter with default configuration.
func New(logger *slog.Logger) *Getter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Getter{
		client: &getter.Client{
			DisableSymlinks: true,
		},
		logger: logger,
	}
}

// FetchOpts configures a download.
type FetchOpts struct {
	// FileName overrides the name derived from the URL path.
	FileName string
}

// Download fetches src into destDir and returns the path of the written file.
func (g *Getter) Download(ctx context.Context, src, destDir string, opts FetchOpts) (string, error) {
	name := opts.FileName
	if name == "" {
		var err error

		name, err = FileName(src)
		if err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return "", fmt.Errorf("creating dest dir: %w", err)
	}

	dest := filepath.Join(destDir, name)

	g.logger.Debug("downloading file", "src", src, "dest", dest)

	req := &getter.Request{
		Src:             src,
		Dst:             dest,
		GetMode:         getter.ModeFile,
		DisableSymlinks: true,
	}

	if _, err := g.client.Get(ctx, req); err != nil {
		return "", fmt.Errorf("downloading %s: %w", src, err)
	}

	return dest, nil
}

// FileName returns the last path element of a download URL.
func FileName(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing download URL %q: %w", src, err)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("download URL %q has no file name", src)
	}

	return name, nil
}
