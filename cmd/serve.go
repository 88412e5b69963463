package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/dlink/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the download redirect service",
	Long: `Serve HTTP endpoints that redirect browsers to the installer matching
their platform:

  GET /download             detect from request headers and redirect
  GET /download/{platform}  redirect for an explicit platform tag
  GET /api/platform         detected platform and labels as JSON
  GET /api/release          latest release metadata as JSON`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default from config, \":8080\")")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	s, err := newStack(logger)
	if err != nil {
		return err
	}

	addr := serveListen
	if addr == "" {
		addr = s.cfg.Listen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(s.resolver, s.cache, logger).ListenAndServe(ctx, addr)
}
