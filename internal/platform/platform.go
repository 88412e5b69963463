// Package platform classifies a client environment into the installer
// platform/architecture tags the release resolver understands.
package platform

import (
	"fmt"
	"runtime"
)

// Platform is the closed set of installer targets.
type Platform string

const (
	MacOSArm   Platform = "macos-arm"
	MacOSIntel Platform = "macos-intel"
	Windows    Platform = "windows"
	Linux      Platform = "linux"
	Unknown    Platform = "unknown"
)

// All returns every platform tag, unknown last.
func All() []Platform {
	return []Platform{MacOSArm, MacOSIntel, Windows, Linux, Unknown}
}

// Parse maps a platform tag to a Platform.
func Parse(s string) (Platform, error) {
	for _, p := range All() {
		if string(p) == s {
			return p, nil
		}
	}

	return Unknown, fmt.Errorf("unknown platform %q (expected one of %v)", s, All())
}

// IsMac reports whether p is one of the macOS architectures.
func (p Platform) IsMac() bool {
	return p == MacOSArm || p == MacOSIntel
}

func (p Platform) String() string {
	return string(p)
}

// DetectHost classifies the running process from runtime.GOOS/GOARCH.
func DetectHost() Platform {
	return fromGo(runtime.GOOS, runtime.GOARCH)
}

func fromGo(goos, goarch string) Platform {
	switch goos {
	case "darwin":
		if goarch == "arm64" {
			return MacOSArm
		}

		return MacOSIntel
	case "windows":
		return Windows
	case "linux":
		return Linux
	default:
		return Unknown
	}
}
