package resolver

import (
	"strings"

	"github.com/donaldgifford/dlink/internal/platform"
	"github.com/donaldgifford/dlink/internal/release"
)

// rule matches an asset by filename suffix and, optionally, by containing
// any one of a set of substrings.
type rule struct {
	suffix   string
	contains []string
}

func (r rule) matches(name string) bool {
	if !strings.HasSuffix(name, r.suffix) {
		return false
	}

	if len(r.contains) == 0 {
		return true
	}

	for _, s := range r.contains {
		if strings.Contains(name, s) {
			return true
		}
	}

	return false
}

// rules lists, per platform, the tiers tried in order. The first tier that
// matches any asset wins. Unknown has no entry.
var rules = map[platform.Platform][]rule{
	platform.MacOSArm: {
		{suffix: ".dmg", contains: []string{"aarch64", "arm64"}},
		{suffix: ".dmg"},
	},
	platform.MacOSIntel: {
		{suffix: ".dmg", contains: []string{"x64", "intel"}},
		{suffix: ".dmg"},
	},
	platform.Windows: {
		{suffix: ".exe"},
		{suffix: ".msi"},
	},
	platform.Linux: {
		{suffix: ".deb"},
		{suffix: ".AppImage"},
		{suffix: ".rpm"},
	},
}

// match returns the first asset satisfying the highest-priority tier for p.
func match(p platform.Platform, assets []release.Asset) (release.Asset, bool) {
	for _, r := range rules[p] {
		for _, a := range assets {
			if r.matches(a.Name) {
				return a, true
			}
		}
	}

	return release.Asset{}, false
}
