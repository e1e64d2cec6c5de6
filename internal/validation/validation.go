// Package validation runs the strict batch check over the local
// content tree. Unlike resolution, which skips invalid documents and
// moves on, the batch check collects every failure across every file
// and fails loudly when any exist. It backs the CI gate and the
// validate CLI command.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nafsi-health/contentcore/internal/content"
)

// FileError ties one validation failure to the file that caused it.
type FileError struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

// BatchError reports every invalid file found in one pass.
type BatchError struct {
	Errors []FileError
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "content validation failed with %d error(s):", len(e.Errors))
	for _, fe := range e.Errors {
		fmt.Fprintf(&b, "\n  %s: %s", fe.File, fe.Err)
	}
	return b.String()
}

// Checker walks the local content directory and validates every
// metadata file it finds.
type Checker struct {
	dir       string
	validator *content.Validator
}

// NewChecker creates a batch checker over the content directory.
func NewChecker(dir string, validator *content.Validator) *Checker {
	return &Checker{dir: dir, validator: validator}
}

// CheckAll validates every metadata file for every content type. The
// walk never stops at the first failure; the returned *BatchError
// carries them all. A nil error means the whole tree is valid.
func (c *Checker) CheckAll() error {
	var errs []FileError
	for _, ct := range content.Types {
		errs = append(errs, c.checkType(ct)...)
	}
	if len(errs) > 0 {
		return &BatchError{Errors: errs}
	}
	return nil
}

func (c *Checker) checkType(ct content.ContentType) []FileError {
	baseDir := filepath.Join(c.dir, ct.PathSegment())
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		// An absent type directory is a valid empty set.
		if os.IsNotExist(err) {
			return nil
		}
		return []FileError{{File: baseDir, Err: err.Error()}}
	}

	var errs []FileError
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '_' {
			continue
		}
		errs = append(errs, c.checkSlugDir(ct, filepath.Join(baseDir, entry.Name()))...)
	}
	return errs
}

// checkSlugDir validates the root metadata pair and every locale
// subdirectory of one slug. A slug directory with no metadata file
// anywhere is itself an error.
func (c *Checker) checkSlugDir(ct content.ContentType, slugDir string) []FileError {
	var errs []FileError
	found := false

	rootMeta := filepath.Join(slugDir, "metadata.json")
	if fileExists(rootMeta) {
		found = true
		if err := c.checkFile(rootMeta, ct); err != nil {
			errs = append(errs, FileError{File: rootMeta, Err: err.Error()})
		}
	}

	entries, err := os.ReadDir(slugDir)
	if err != nil {
		return append(errs, FileError{File: slugDir, Err: err.Error()})
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		localeMeta := filepath.Join(slugDir, entry.Name(), "metadata.json")
		if !fileExists(localeMeta) {
			continue
		}
		found = true
		if err := c.checkFile(localeMeta, ct); err != nil {
			errs = append(errs, FileError{File: localeMeta, Err: err.Error()})
		}
	}

	if !found {
		errs = append(errs, FileError{
			File: filepath.Join(slugDir, "metadata.json"),
			Err:  "metadata.json file is missing",
		})
	}
	return errs
}

func (c *Checker) checkFile(path string, ct content.ContentType) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var meta content.Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return c.validator.Validate(&meta, ct)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
