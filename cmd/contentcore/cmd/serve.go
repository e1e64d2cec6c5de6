package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nafsi-health/contentcore/internal/search"
	"github.com/nafsi-health/contentcore/internal/server"
	"github.com/nafsi-health/contentcore/internal/watcher"
	"github.com/nafsi-health/contentcore/pkg/version"
)

// serveOptions holds CLI flags for serve.
type serveOptions struct {
	host string
	port int
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve content resolution and search over HTTP",
		Long: `Run the HTTP server: health checks, the search API, per-document
resolution, and the CMS revalidation webhook.

The search index is built at startup and swapped atomically on every
reindex. With watching enabled, local content changes invalidate the
affected cached resolutions automatically.

Examples:
  contentcore serve
  contentcore serve --port 9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Listen port (default from config)")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slog.Default()

	res, err := buildResolver(cfg, logger)
	if err != nil {
		return err
	}
	builder := search.NewBuilder(res, cfg.Content.Locales, cfg.Index.Workers, logger)

	entries, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("building initial index: %w", err)
	}
	logger.Info("initial index built", "entries", len(entries))

	srvCfg := server.Config{
		Host:             cfg.Server.Host,
		Port:             cfg.Server.Port,
		Version:          version.Version,
		RevalidateSecret: cfg.Server.RevalidateSecret,
		ArtifactPath:     cfg.Index.OutputPath,
	}
	if opts.host != "" {
		srvCfg.Host = opts.host
	}
	if opts.port != 0 {
		srvCfg.Port = opts.port
	}
	srv := server.New(srvCfg, res, builder, search.NewEngine(entries), logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if cfg.Watch.Enabled {
		debounce, err := cfg.WatchDebounce()
		if err != nil {
			return err
		}
		w := watcher.New(cfg.Content.Dir, cfg.Content.Locales, srv, debounce, logger)
		g.Go(func() error {
			if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
