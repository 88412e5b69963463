package getter_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dlink/internal/getter"
)

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected string
		wantErr  bool
	}{
		{
			name:     "release asset",
			src:      "https://github.com/zanwei/skiller/releases/download/v1.0.0/Skiller_1.0.0_x64.dmg",
			expected: "Skiller_1.0.0_x64.dmg",
		},
		{
			name:     "query ignored",
			src:      "https://example.com/files/app.deb?token=abc",
			expected: "app.deb",
		},
		{
			name:    "no path",
			src:     "https://example.com",
			wantErr: true,
		},
		{
			name:    "trailing slash",
			src:     "https://example.com/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := getter.FileName(tt.src)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestURLHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://github.com/zanwei/skiller/releases", getter.ReleasesURL("zanwei/skiller"))
	assert.Equal(t,
		"https://github.com/zanwei/skiller/releases/latest/download",
		getter.LatestDownloadBaseURL("zanwei/skiller"),
	)
}

func TestDownload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("installer-bytes"))
	}))
	t.Cleanup(srv.Close)

	destDir := filepath.Join(t.TempDir(), "downloads")

	g := getter.New(nil)
	path, err := g.Download(t.Context(), srv.URL+"/Skiller_amd64.deb", destDir, getter.FetchOpts{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "Skiller_amd64.deb"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "installer-bytes", string(content))
}

func TestDownload_NoFileName(t *testing.T) {
	t.Parallel()

	g := getter.New(nil)
	_, err := g.Download(t.Context(), "https://example.com/", t.TempDir(), getter.FetchOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no file name")
}

func TestNew(t *testing.T) {
	t.Parallel()

	g := getter.New(nil)
	assert.NotNil(t, g)
}
