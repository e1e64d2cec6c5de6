// Package cmd provides the CLI commands for contentcore.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nafsi-health/contentcore/internal/config"
	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/logging"
	"github.com/nafsi-health/contentcore/internal/resolver"
	"github.com/nafsi-health/contentcore/internal/source"
	"github.com/nafsi-health/contentcore/pkg/version"
)

var (
	cfgPath   string
	debugMode bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the contentcore CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contentcore",
		Short: "Clinical content resolution and search",
		Long: `contentcore resolves clinical-knowledge documents (conditions,
medications, governance pages) from a CMS and the local content tree,
validates their editorial metadata, and builds the weighted search
index that serves the content site.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("contentcore version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (default contentcore.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.contentcore/logs/")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if loggingCleanup != nil {
			loggingCleanup()
		}
	}

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func setupLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg = logging.DebugConfig()
	}
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads configuration from the --config path or defaults.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

// buildResolver assembles the source chain and cache from config. The
// remote source leads when configured; the local tree is always last.
// Load has already validated the duration fields, so the parse errors
// here cannot fire.
func buildResolver(cfg *config.Config, logger *slog.Logger) (*resolver.Resolver, error) {
	var sources []source.Source
	if cfg.RemoteEnabled() {
		timeout, err := cfg.CMSTimeout()
		if err != nil {
			return nil, err
		}
		var opts []source.RemoteOption
		if cfg.CMS.PreviewToken != "" {
			opts = append(opts, source.WithPreviewToken(cfg.CMS.PreviewToken))
		}
		sources = append(sources, source.NewRemoteSource(
			cfg.CMS.BaseURL, cfg.CMS.APIPath, timeout, logger, opts...))
	}
	sources = append(sources, source.NewLocalSource(
		cfg.Content.Dir, cfg.Content.DefaultLocale, logger))

	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	var cache resolver.Cache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		cache = resolver.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisDB, ttl, logger)
	default:
		cache = resolver.NewMemoryCache(cfg.Cache.Size, ttl)
	}

	validator := content.NewValidator(cfg.Content.Locales)
	return resolver.New(sources, validator, cache, logger), nil
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}
