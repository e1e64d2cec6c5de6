package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nafsi-health/contentcore/internal/search"
)

// indexOptions holds CLI flags for index.
type indexOptions struct {
	output string
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the search index artifact",
		Long: `Build the search index by resolving every published document across
the configured locales and write the result as a JSON artifact.

Draft documents and documents that fail validation are skipped. The
artifact is written atomically under a file lock, so a concurrent
server reading it never sees a partial index.

Examples:
  contentcore index
  contentcore index --output dist/search-index.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Artifact path (default from config)")

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, opts indexOptions) error {
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
		return fmt.Errorf("building index: %w", err)
	}

	output := opts.output
	if output == "" {
		output = cfg.Index.OutputPath
	}
	if err := search.WriteArtifact(output, entries); err != nil {
		return fmt.Errorf("writing index artifact: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d entries to %s\n", len(entries), output)
	return nil
}
