package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/resolver"
)

// resolveOptions holds CLI flags for resolve.
type resolveOptions struct {
	locale  string
	preview bool
}

func newResolveCmd() *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve <type> <slug>",
		Short: "Resolve one document through the source chain",
		Long: `Resolve a single document and print it as JSON.

Sources are tried in precedence order (CMS first when configured, then
the local tree) and the first candidate that validates wins. Draft
documents resolve only with --preview.

Examples:
  contentcore resolve condition depression
  contentcore resolve medication sertraline --locale ar
  contentcore resolve governance privacy --preview`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Locale to resolve (default from config)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "Admit draft documents and bypass the cache")

	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, typ, slug string, opts resolveOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ct, err := content.ParseContentType(typ)
	if err != nil {
		return err
	}
	locale := opts.locale
	if locale == "" {
		locale = cfg.Content.DefaultLocale
	}

	res, err := buildResolver(cfg, slog.Default())
	if err != nil {
		return err
	}

	var doc *content.Document
	if opts.preview {
		doc, err = res.ResolvePreview(ctx, ct, slug, locale)
	} else {
		doc, err = res.Resolve(ctx, ct, slug, locale)
	}
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return fmt.Errorf("no %s found for slug %q in locale %q", typ, slug, locale)
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
