package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/dlink/internal/getter"
	"github.com/donaldgifford/dlink/internal/resolver"
	"github.com/donaldgifford/dlink/internal/ui"
)

var (
	downloadPlatform string
	downloadDest     string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the installer for a platform",
	Long: `Resolve the installer URL for a platform and download it into a directory.
The file is not verified or installed.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadPlatform, "platform", "p", "", "platform tag (default: this machine)")
	downloadCmd.Flags().StringVarP(&downloadDest, "dest", "d", ".", "destination directory")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	p, err := platformOrHost(downloadPlatform)
	if err != nil {
		return err
	}

	logger := slog.Default()

	s, err := newStack(logger)
	if err != nil {
		return err
	}

	w := ui.NewWriterWithOutputs(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)

	res := s.resolver.ResolveDetailed(cmd.Context(), p)
	if res.Source == resolver.SourceListing {
		w.Warningf("no installer available for %s; see %s", p, res.URL)

		return nil
	}

	if res.Source == resolver.SourceFallback {
		w.Warning("release metadata unavailable; using the fixed latest-download URL")
	}

	w.Infof("downloading %s", res.URL)

	path, err := getter.New(logger).Download(cmd.Context(), res.URL, downloadDest, getter.FetchOpts{})
	if err != nil {
		return err
	}

	w.Successf("saved %s", path)

	return nil
}
