package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/dlink/internal/ui"
)

var releaseOutput string

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Show the latest release and its assets",
	RunE:  runRelease,
}

func init() {
	releaseCmd.Flags().StringVarP(&releaseOutput, "output", "o", "text", "output format (text, json)")
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, _ []string) error {
	s, err := newStack(slog.Default())
	if err != nil {
		return err
	}

	meta := s.cache.Get(cmd.Context())
	if meta == nil {
		return fmt.Errorf("release metadata for %s is unavailable (run with -v for details)", s.cfg.Repo)
	}

	w := ui.NewWriterWithOutputs(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)

	if releaseOutput == "json" {
		enc := json.NewEncoder(w.Out())
		enc.SetIndent("", "  ")

		return enc.Encode(meta)
	}

	version := ""
	if v := meta.Version(); v != nil {
		version = v.String()
	}

	w.Fields(
		ui.Field{Key: "repo", Value: s.cfg.Repo},
		ui.Field{Key: "tag", Value: meta.Tag},
		ui.Field{Key: "version", Value: version},
	)

	if len(meta.Assets) == 0 {
		w.Warning("release has no assets")

		return nil
	}

	fmt.Fprintln(w.Out())

	for _, a := range meta.Assets {
		fmt.Fprintf(w.Out(), "  %-40s %10s\n", a.Name, formatBytes(a.SizeBytes))
	}

	return nil
}
