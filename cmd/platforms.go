package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/dlink/internal/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platform tags",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, p := range platform.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s %s\n", platform.Icon(p), p, platform.Label(p))
		}
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
