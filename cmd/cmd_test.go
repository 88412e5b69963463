package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dlink/internal/platform"
	"github.com/donaldgifford/dlink/internal/resolver"
)

// execute runs the root command with args and returns stdout and stderr.
// Command tests share package-level flag state and must not run in parallel.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	verbose, noColor, cfgFile = false, true, ""
	detectEnv = platform.Environment{}
	resolvePlatform, resolveOffline, resolveAll, resolveOutput = "", false, false, "text"
	releaseOutput = "text"
	downloadPlatform, downloadDest = "", "."

	var out, errOut bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), errOut.String(), err
}

// withConfig points --config at a file using apiURL as the GitHub API root.
func withConfig(t *testing.T, apiURL string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("repo: zanwei/skiller\napi_url: %s\ntoken_env: DLINK_TEST_TOKEN_UNSET\n", apiURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func fakeGitHub(t *testing.T, status int, body string) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/zanwei/skiller/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv.URL
}

const releaseBody = `{"tag_name":"v0.9.1","assets":[
 {"name":"Skiller_0.9.1_aarch64.dmg","browser_download_url":"https://example.com/Skiller_0.9.1_aarch64.dmg","size":5242880},
 {"name":"Skiller_0.9.1_amd64.AppImage","browser_download_url":"https://example.com/Skiller_0.9.1_amd64.AppImage","size":1048576}
]}`

func TestResolve_OfflineAll(t *testing.T) {
	out, _, err := execute(t, "resolve", "--offline", "--all", "-o", "url",
		"--config", withConfig(t, "https://api.github.com/"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"https://github.com/zanwei/skiller/releases/latest/download/Skiller_aarch64.dmg",
		"https://github.com/zanwei/skiller/releases/latest/download/Skiller_x64.dmg",
		"https://github.com/zanwei/skiller/releases/latest/download/Skiller_x64-setup.exe",
		"https://github.com/zanwei/skiller/releases/latest/download/Skiller_amd64.deb",
		"https://github.com/zanwei/skiller/releases",
	}, lines)
}

func TestResolve_FromRelease(t *testing.T) {
	api := fakeGitHub(t, http.StatusOK, releaseBody)

	out, _, err := execute(t, "resolve", "-p", "macos-arm", "-o", "json", "--config", withConfig(t, api))
	require.NoError(t, err)

	var res resolver.Resolution
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, platform.MacOSArm, res.Platform)
	assert.Equal(t, resolver.SourceRelease, res.Source)
	assert.Equal(t, "https://example.com/Skiller_0.9.1_aarch64.dmg", res.URL)
	assert.Equal(t, "v0.9.1", res.Tag)
}

func TestResolve_TextOutputWarnsOnListing(t *testing.T) {
	api := fakeGitHub(t, http.StatusOK, releaseBody)

	out, errOut, err := execute(t, "resolve", "-p", "windows", "--config", withConfig(t, api))
	require.NoError(t, err)

	assert.Contains(t, out, "https://github.com/zanwei/skiller/releases")
	assert.Contains(t, out, "listing")
	assert.Contains(t, errOut, "no installer for windows")
}

func TestResolve_APIErrorFallsBack(t *testing.T) {
	api := fakeGitHub(t, http.StatusForbidden, `{"message":"API rate limit exceeded"}`)

	out, _, err := execute(t, "resolve", "-p", "linux", "-o", "url", "--config", withConfig(t, api))
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/zanwei/skiller/releases/latest/download/Skiller_amd64.deb\n", out)
}

func TestResolve_InvalidPlatform(t *testing.T) {
	_, _, err := execute(t, "resolve", "-p", "haiku", "--config", withConfig(t, "https://api.github.com/"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown platform")
}

func TestResolve_InvalidOutput(t *testing.T) {
	_, _, err := execute(t, "resolve", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRelease(t *testing.T) {
	api := fakeGitHub(t, http.StatusOK, releaseBody)

	out, _, err := execute(t, "release", "--config", withConfig(t, api))
	require.NoError(t, err)

	assert.Contains(t, out, "v0.9.1")
	assert.Contains(t, out, "0.9.1")
	assert.Contains(t, out, "Skiller_0.9.1_aarch64.dmg")
	assert.Contains(t, out, "5.0 MB")
}

func TestRelease_Unavailable(t *testing.T) {
	api := fakeGitHub(t, http.StatusNotFound, `{"message":"Not Found"}`)

	_, _, err := execute(t, "release", "--config", withConfig(t, api))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestDownload_FromRelease(t *testing.T) {
	var srvURL string

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/zanwei/skiller/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"tag_name":"v0.9.1","assets":[
 {"name":"Skiller_0.9.1_aarch64.dmg","browser_download_url":"%[1]s/dl/Skiller_0.9.1_aarch64.dmg","size":3},
 {"name":"Skiller_0.9.1_amd64.deb","browser_download_url":"%[1]s/dl/Skiller_0.9.1_amd64.deb","size":3}
]}`, srvURL)
	})
	mux.HandleFunc("/dl/Skiller_0.9.1_amd64.deb", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("deb"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	dest := t.TempDir()

	out, _, err := execute(t, "download", "-p", "linux", "-d", dest, "--config", withConfig(t, srv.URL))
	require.NoError(t, err)
	assert.Contains(t, out, "Skiller_0.9.1_amd64.deb")

	content, err := os.ReadFile(filepath.Join(dest, "Skiller_0.9.1_amd64.deb"))
	require.NoError(t, err)
	assert.Equal(t, "deb", string(content))
}

func TestDownload_ListingSkipsDownload(t *testing.T) {
	api := fakeGitHub(t, http.StatusOK, releaseBody)
	dest := t.TempDir()

	_, errOut, err := execute(t, "download", "-p", "windows", "-d", dest, "--config", withConfig(t, api))
	require.NoError(t, err)
	assert.Contains(t, errOut, "no installer available for windows")

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDetect_Flags(t *testing.T) {
	out, _, err := execute(t, "detect",
		"--os-id", "MacIntel",
		"--user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
		"--gpu", "Apple M1 Max",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "macos-arm")
	assert.Contains(t, out, "macOS (Apple Silicon)")
}

func TestDetect_Host(t *testing.T) {
	out, _, err := execute(t, "detect")
	require.NoError(t, err)
	assert.Contains(t, out, string(platform.DetectHost()))
}

func TestPlatforms(t *testing.T) {
	out, _, err := execute(t, "platforms")
	require.NoError(t, err)

	for _, p := range platform.All() {
		assert.Contains(t, out, string(p))
	}
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123")
	t.Cleanup(func() { SetVersionInfo("dev", "none") })

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dlink 1.2.3 (commit: abc123)\n", out)
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "5.0 MB", formatBytes(5*1024*1024))
	assert.Equal(t, "2.0 GB", formatBytes(2*1024*1024*1024))
}
