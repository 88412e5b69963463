// Package cmd defines the CLI commands for dlink.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/dlink/internal/config"
	"github.com/donaldgifford/dlink/internal/release"
	"github.com/donaldgifford/dlink/internal/resolver"
)

var (
	verbose bool
	noColor bool
	cfgFile string
)

// rootCmd is the base command for the dlink CLI.
var rootCmd = &cobra.Command{
	Use:   "dlink",
	Short: "Resolve the right installer download for a platform",
	Long: `dlink finds the installer that matches a client's operating system and
CPU architecture in the latest published release. Release metadata comes from
the GitHub releases API and is cached for a few minutes; when it is
unavailable, fixed "latest" download URLs are used instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		initLogger()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// NoColor reports whether --no-color was given.
func NoColor() bool {
	return noColor
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/dlink/config.yaml)")
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// stack is the wired resolver and the cache behind it.
type stack struct {
	cfg      *config.Config
	cache    *release.Cache
	resolver *resolver.Resolver
}

func newStack(logger *slog.Logger) (*stack, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	fetcher, err := release.NewGitHubFetcher(cfg.Repo,
		release.WithAPIURL(cfg.APIURL),
		release.WithTokenFromEnv(cfg.TokenEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("creating release fetcher: %w", err)
	}

	cache := release.NewCache(fetcher,
		release.WithTTL(cfg.CacheTTL),
		release.WithLogger(logger),
	)

	return &stack{
		cfg:      cfg,
		cache:    cache,
		resolver: resolver.New(cache, cfg.Table(), logger),
	}, nil
}
