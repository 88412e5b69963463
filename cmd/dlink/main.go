// Package main is the entry point for the dlink CLI.
package main

import (
	"os"

	"github.com/donaldgifford/dlink/cmd"
	"github.com/donaldgifford/dlink/internal/ui"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.SetVersionInfo(version, commit)

	if err := cmd.Execute(); err != nil {
		ui.NewWriter(cmd.NoColor()).Error(err.Error())
		os.Exit(1)
	}
}
