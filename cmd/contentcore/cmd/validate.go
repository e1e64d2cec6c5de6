package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/validation"
)

// validateOptions holds CLI flags for validate.
type validateOptions struct {
	format string // "text", "json"
}

func newValidateCmd() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate every metadata file in the content tree",
		Long: `Validate the metadata of every document in the local content tree.

Unlike resolution, which skips invalid documents, validation collects
every failure across every file and exits non-zero when any exist.
Intended as a CI gate.

Examples:
  contentcore validate
  contentcore validate --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	checker := validation.NewChecker(cfg.Content.Dir, content.NewValidator(cfg.Content.Locales))
	err = checker.CheckAll()
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "All content metadata is valid")
		return nil
	}

	var batch *validation.BatchError
	if !errors.As(err, &batch) {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(batch.Errors); encErr != nil {
			return encErr
		}
		return fmt.Errorf("content validation failed with %d error(s)", len(batch.Errors))
	}
	return batch
}
