package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/dlink/internal/platform"
	"github.com/donaldgifford/dlink/internal/ui"
)

var detectEnv platform.Environment

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Classify a client platform",
	Long: `Classify a client environment into a platform tag. With no flags the
machine running dlink is classified; otherwise the given browser-side values
(navigator platform, user agent, GPU renderer, client hints) are used.`,
	RunE: runDetect,
}

func init() {
	f := detectCmd.Flags()
	f.StringVar(&detectEnv.Platform, "os-id", "", `raw OS identifier (e.g. "MacIntel")`)
	f.StringVar(&detectEnv.UserAgent, "user-agent", "", "user-agent string")
	f.StringVar(&detectEnv.GPURenderer, "gpu", "", `GPU renderer string (e.g. "Apple M2")`)
	f.StringVar(&detectEnv.UADataPlatform, "ua-platform", "", "Sec-CH-UA-Platform client hint")
	f.StringVar(&detectEnv.UADataArch, "ua-arch", "", "Sec-CH-UA-Arch client hint")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	w := ui.NewWriterWithOutputs(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)

	p := platform.DetectHost()
	if detectEnv != (platform.Environment{}) {
		p = platform.Detect(detectEnv)
	}

	w.Fields(
		ui.Field{Key: "platform", Value: string(p)},
		ui.Field{Key: "label", Value: platform.Label(p)},
		ui.Field{Key: "family", Value: platform.SimpleLabel(p)},
	)

	return nil
}
