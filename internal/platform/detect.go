package platform

import (
	"net/http"
	"strings"
)

// Environment describes the requesting client as a browser page sees it.
type Environment struct {
	// Platform is the raw OS identifier (navigator.platform, e.g. "MacIntel").
	Platform string
	// UserAgent is the full user-agent string.
	UserAgent string
	// UADataPlatform is the structured platform name from client hints
	// (Sec-CH-UA-Platform, e.g. "macOS").
	UADataPlatform string
	// UADataArch is the structured architecture from client hints
	// (Sec-CH-UA-Arch, e.g. "arm" or "x86"). Often absent.
	UADataArch string
	// GPURenderer is the unmasked graphics renderer string, if the page
	// could read one.
	GPURenderer string
}

// Detect classifies env. It never fails; unrecognized environments are Unknown.
func Detect(env Environment) Platform {
	ident := strings.ToLower(env.Platform)
	ua := strings.ToLower(env.UserAgent)

	switch {
	case strings.Contains(ident, "mac") || strings.Contains(ua, "mac"):
		if appleSilicon(env) {
			return MacOSArm
		}

		return MacOSIntel
	case strings.Contains(ident, "win") || strings.Contains(ua, "win"):
		return Windows
	case strings.Contains(ident, "linux") || strings.Contains(ua, "linux"):
		return Linux
	default:
		return Unknown
	}
}

// heuristic inspects env for an Apple silicon signal. ok is false when the
// heuristic has nothing to say.
type heuristic func(env Environment) (arm, ok bool)

// archHeuristics run in priority order.
var archHeuristics = []heuristic{
	structuredArch,
	gpuRenderer,
	armToken,
}

func appleSilicon(env Environment) bool {
	arm, ok := firstSignal(env, archHeuristics...)

	return ok && arm
}

// firstSignal returns the verdict of the first heuristic that reports one.
func firstSignal(env Environment, hs ...heuristic) (arm, ok bool) {
	for _, h := range hs {
		if arm, ok := h(env); ok {
			return arm, true
		}
	}

	return false, false
}

// structuredArch only decides when client hints carry an ARM architecture.
// The platform name alone does not expose the CPU.
func structuredArch(env Environment) (bool, bool) {
	if strings.EqualFold(strings.TrimSpace(env.UADataArch), "arm") {
		return true, true
	}

	return false, false
}

// Apple GPUs report as "Apple M1", "Apple M2 Pro", "Apple GPU", ...
var appleGPUMarkers = []string{"Apple M", "Apple GPU"}

func gpuRenderer(env Environment) (bool, bool) {
	for _, m := range appleGPUMarkers {
		if strings.Contains(env.GPURenderer, m) {
			return true, true
		}
	}

	return false, false
}

func armToken(env Environment) (bool, bool) {
	if strings.Contains(env.Platform, "arm") || strings.Contains(env.UserAgent, "arm") {
		return true, true
	}

	return false, false
}

// FromRequest builds an Environment from an HTTP request. Client hints are
// read from headers; the page script may pass the navigator platform and GPU
// renderer as "platform" and "gpu" query parameters.
func FromRequest(r *http.Request) Environment {
	q := r.URL.Query()

	gpu := q.Get("gpu")
	if gpu == "" {
		gpu = r.Header.Get("X-GPU-Renderer")
	}

	return Environment{
		Platform:       q.Get("platform"),
		UserAgent:      r.UserAgent(),
		UADataPlatform: unquote(r.Header.Get("Sec-CH-UA-Platform")),
		UADataArch:     unquote(r.Header.Get("Sec-CH-UA-Arch")),
		GPURenderer:    gpu,
	}
}

// unquote strips the sf-string quotes client hints are sent with.
func unquote(v string) string {
	return strings.Trim(strings.TrimSpace(v), `"`)
}
