// Package fallback maps platforms to fixed, convention-named download URLs
// that work without any release metadata.
//
// The release pipeline is expected to upload a copy of each installer under
// a stable, unversioned name alongside the versioned assets, so that
// ".../releases/latest/download/<file>" always serves the newest build.
package fallback

import (
	"strings"

	"github.com/donaldgifford/dlink/internal/getter"
	"github.com/donaldgifford/dlink/internal/platform"
)

// DefaultFiles are the unversioned installer names published with every release.
var DefaultFiles = map[platform.Platform]string{
	platform.MacOSArm:   "Skiller_aarch64.dmg",
	platform.MacOSIntel: "Skiller_x64.dmg",
	platform.Windows:    "Skiller_x64-setup.exe",
	platform.Linux:      "Skiller_amd64.deb",
}

// Table is the static platform to URL mapping.
type Table struct {
	// BaseURL is the "latest release" download prefix.
	BaseURL string
	// ReleasesURL is the human-browsable releases page.
	ReleasesURL string
	// Files holds the fixed filename per platform.
	Files map[platform.Platform]string
}

// Default builds the table for a GitHub repository in "owner/name" form.
func Default(repo string) *Table {
	files := make(map[platform.Platform]string, len(DefaultFiles))
	for p, f := range DefaultFiles {
		files[p] = f
	}

	return &Table{
		BaseURL:     getter.LatestDownloadBaseURL(repo),
		ReleasesURL: getter.ReleasesURL(repo),
		Files:       files,
	}
}

// Lookup returns the fixed URL for p. Platforms without a file, including
// Unknown, get the releases page.
func (t *Table) Lookup(p platform.Platform) string {
	name, ok := t.Files[p]
	if !ok || name == "" || p == platform.Unknown {
		return t.ReleasesURL
	}

	return strings.TrimSuffix(t.BaseURL, "/") + "/" + name
}
