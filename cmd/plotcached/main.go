// Command plotcached serves cached CI plot artifacts over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/plotcache"
	"github.com/jmgilman/go/plotcache/internal/config"
	"github.com/jmgilman/go/plotcache/server"
)

var (
	// Version information (set by build)
	version = "dev"
	commit  = "unknown"

	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plotcached",
	Short: "Serve CI plot artifacts from a local cache",
	Long: `Plotcached downloads plot artifacts produced by CI workflow runs,
extracts them into a local content-keyed cache, and serves a browsing UI
over HTTP. Artifacts are fetched at most once per repository and
reference; every later request is served from disk.`,
	Version: fmt.Sprintf("%s (%s)", version, commit),
	RunE:    runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./plotcache.yaml)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []plotcache.ClientOption{
		plotcache.WithCacheDir(cfg.CacheDir),
		plotcache.WithPlotsDir(cfg.PlotsDir),
		plotcache.WithToken(cfg.Token),
		plotcache.WithImageExtensions(cfg.ImageExts...),
		plotcache.WithBuildTimeout(cfg.BuildTimeout),
		plotcache.WithLogger(logger),
	}

	switch cfg.Strategy {
	case config.StrategyRunListing:
		lister := plotcache.NewSDKArtifactLister(cfg.Token)
		locator, err := plotcache.NewRunListingLocator(lister)
		if err != nil {
			return err
		}
		opts = append(opts, plotcache.WithLocator(locator))
	default:
		opts = append(opts, plotcache.WithLocator(plotcache.NewDirectLocator(cfg.APIBaseURL)))
	}

	client, err := plotcache.New(opts...)
	if err != nil {
		return err
	}

	srv, err := server.New(client,
		server.WithAddr(cfg.Addr),
		server.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting plotcached",
		"addr", cfg.Addr,
		"plots_dir", cfg.PlotsDir,
		"strategy", cfg.Strategy,
	)
	return srv.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
