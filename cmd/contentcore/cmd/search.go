package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nafsi-health/contentcore/internal/config"
	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	locale   string
	typ      string
	limit    int
	format   string // "text", "json"
	artifact string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the content index",
		Long: `Search indexed content with synonym-aware weighted scoring.

Queries expand through the clinical synonym table, so "mdd" also
matches documents titled "Major Depressive Disorder". Results from a
prebuilt artifact are used when one exists; otherwise the index is
built in place.

Examples:
  contentcore search depression
  contentcore search "mdd" --locale en --limit 5
  contentcore search sertraline --type medication --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Filter by locale (e.g., en, ar)")
	cmd.Flags().StringVarP(&opts.typ, "type", "t", "", "Filter by content type: condition, medication, governance")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVar(&opts.artifact, "artifact", "", "Index artifact to search (default from config)")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var ct content.ContentType
	if opts.typ != "" {
		ct, err = content.ParseContentType(opts.typ)
		if err != nil {
			return err
		}
	}

	engine, err := loadEngine(ctx, cfg, opts.artifact)
	if err != nil {
		return err
	}

	results := engine.Search(query, opts.locale, ct)
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No results found for %q\n", query)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Found %d results for %q:\n\n", len(results), query)
	for i, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s (score: %d)\n", i+1, r.Entry.Title, r.Score)
		fmt.Fprintf(cmd.OutOrStdout(), "   %s/%s [%s] matched: %s\n",
			string(r.Entry.Type), r.Entry.Slug, r.Entry.Locale,
			strings.Join(r.MatchedFields, ", "))
	}
	return nil
}

// loadEngine answers from the prebuilt artifact when one exists and
// falls back to building the index in place.
func loadEngine(ctx context.Context, cfg *config.Config, artifactFlag string) (*search.Engine, error) {
	artifact := artifactFlag
	if artifact == "" {
		artifact = cfg.Index.OutputPath
	}

	if _, err := os.Stat(artifact); err == nil {
		entries, err := search.ReadArtifact(artifact)
		if err != nil {
			return nil, fmt.Errorf("reading index artifact: %w", err)
		}
		return search.NewEngine(entries), nil
	}

	logger := slog.Default()
	res, err := buildResolver(cfg, logger)
	if err != nil {
		return nil, err
	}
	builder := search.NewBuilder(res, cfg.Content.Locales, cfg.Index.Workers, logger)
	entries, err := builder.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	return search.NewEngine(entries), nil
}
