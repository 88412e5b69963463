package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/dlink/internal/platform"
	"github.com/donaldgifford/dlink/internal/resolver"
	"github.com/donaldgifford/dlink/internal/ui"
)

var (
	resolvePlatform string
	resolveOffline  bool
	resolveAll      bool
	resolveOutput   string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the installer URL for a platform",
	Long: `Resolve the download URL of the installer for a platform from the latest
release. Defaults to the platform of this machine. With --offline, only the
fixed "latest" URLs are used and no network request is made.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolvePlatform, "platform", "p", "", "platform tag (macos-arm, macos-intel, windows, linux, unknown)")
	resolveCmd.Flags().BoolVar(&resolveOffline, "offline", false, "use the static fallback table only")
	resolveCmd.Flags().BoolVar(&resolveAll, "all", false, "resolve every platform")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "text", "output format (text, json, url)")
	rootCmd.AddCommand(resolveCmd)
}

// platformOrHost parses tag, defaulting to the running machine.
func platformOrHost(tag string) (platform.Platform, error) {
	if tag == "" {
		return platform.DetectHost(), nil
	}

	return platform.Parse(tag)
}

func runResolve(cmd *cobra.Command, _ []string) error {
	switch resolveOutput {
	case "text", "json", "url":
	default:
		return fmt.Errorf("unsupported output format %q (expected text, json, or url)", resolveOutput)
	}

	targets := platform.All()
	if !resolveAll {
		p, err := platformOrHost(resolvePlatform)
		if err != nil {
			return err
		}

		targets = []platform.Platform{p}
	}

	s, err := newStack(slog.Default())
	if err != nil {
		return err
	}

	results := make([]resolver.Resolution, 0, len(targets))

	for _, p := range targets {
		if resolveOffline {
			results = append(results, resolver.Resolution{
				Platform: p,
				URL:      s.resolver.ResolveSync(p),
				Source:   resolver.SourceFallback,
			})

			continue
		}

		results = append(results, s.resolver.ResolveDetailed(cmd.Context(), p))
	}

	w := ui.NewWriterWithOutputs(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)

	return printResolutions(w, results)
}

func printResolutions(w *ui.Writer, results []resolver.Resolution) error {
	switch resolveOutput {
	case "json":
		enc := json.NewEncoder(w.Out())
		enc.SetIndent("", "  ")

		if len(results) == 1 {
			return enc.Encode(results[0])
		}

		return enc.Encode(results)
	case "url":
		for _, r := range results {
			fmt.Fprintln(w.Out(), r.URL)
		}

		return nil
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w.Out())
		}

		fields := []ui.Field{
			{Key: "platform", Value: platform.Label(r.Platform)},
			{Key: "url", Value: r.URL},
			{Key: "source", Value: string(r.Source)},
		}

		if r.Asset != nil {
			fields = append(fields,
				ui.Field{Key: "tag", Value: r.Tag},
				ui.Field{Key: "asset", Value: r.Asset.Name},
				ui.Field{Key: "size", Value: formatBytes(r.Asset.SizeBytes)},
			)
		}

		w.Fields(fields...)

		if r.Source == resolver.SourceListing && r.Platform != platform.Unknown {
			w.Warningf("no installer for %s in the latest release; linking the releases page", r.Platform)
		}
	}

	return nil
}

func formatBytes(b int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
