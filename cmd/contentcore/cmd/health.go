package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nafsi-health/contentcore/internal/health"
)

// healthOptions holds CLI flags for health.
type healthOptions struct {
	format      string // "text", "json"
	onlyIssues  bool
	summaryOnly bool
}

func newHealthCmd() *cobra.Command {
	var opts healthOptions

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Audit the editorial health of the content set",
		Long: `Audit every document for editorial issues: overdue reviews, missing
reviewers, missing citations, and draft content.

Drafts are included in the audit. Reports are advisory and never block
resolution.

Examples:
  contentcore health
  contentcore health --issues-only
  contentcore health --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealth(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.onlyIssues, "issues-only", false, "Show only documents with issues")
	cmd.Flags().BoolVar(&opts.summaryOnly, "summary", false, "Show only the aggregate summary")

	return cmd
}

func runHealth(ctx context.Context, cmd *cobra.Command, opts healthOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slog.Default()

	res, err := buildResolver(cfg, logger)
	if err != nil {
		return err
	}

	reporter := health.NewReporter(res, cfg.Content.Locales, logger)
	reports, err := reporter.GenerateAll(ctx)
	if err != nil {
		return fmt.Errorf("generating health reports: %w", err)
	}
	summary := health.Summarize(reports)

	if opts.onlyIssues {
		var filtered []health.Report
		for _, r := range reports {
			if len(r.Issues) > 0 {
				filtered = append(filtered, r)
			}
		}
		reports = filtered
	}

	if opts.format == "json" {
		out := map[string]any{"summary": summary}
		if !opts.summaryOnly {
			out["reports"] = reports
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := cmd.OutOrStdout()
	if !opts.summaryOnly {
		for _, r := range reports {
			marker := "ok"
			if len(r.Issues) > 0 {
				marker = fmt.Sprintf("%d issue(s)", len(r.Issues))
			}
			fmt.Fprintf(w, "%s/%s [%s] %s: %s\n",
				string(r.ContentType), r.Slug, r.Locale, r.Status, marker)
			for _, issue := range r.Issues {
				fmt.Fprintf(w, "  [%s] %s: %s\n", issue.Severity, issue.Type, issue.Message)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %d documents (%d published, %d drafts)\n",
		summary.Total, summary.Published, summary.Drafts)
	fmt.Fprintf(w, "Overdue for review: %d\n", summary.Overdue)
	fmt.Fprintf(w, "With issues: %d\n", summary.WithIssues)
	for _, sev := range []string{health.SeverityHigh, health.SeverityMedium, health.SeverityLow} {
		if n := summary.IssuesBySeverity[sev]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", sev, n)
		}
	}
	return nil
}
