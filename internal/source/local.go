package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nafsi-health/contentcore/internal/content"
)

// LocalSource reads content from the local directory layout:
//
//	<dir>/<plural>/<slug>/<locale>/metadata.json
//	<dir>/<plural>/<slug>/<locale>/index.md
//
// A slug directory may also carry a root-level metadata.json/index.md
// pair. Fetch tries the locale subtree first; when the requested
// locale is not the default, it falls back to the root pair and marks
// the result as not locale-specific.
type LocalSource struct {
	dir           string
	defaultLocale string
	logger        *slog.Logger
}

var _ Source = (*LocalSource)(nil)

// NewLocalSource creates a filesystem source rooted at dir.
func NewLocalSource(dir, defaultLocale string, logger *slog.Logger) *LocalSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalSource{
		dir:           dir,
		defaultLocale: defaultLocale,
		logger:        logger.With("source", "local"),
	}
}

// Name implements Source.
func (s *LocalSource) Name() string { return "local" }

// Fetch implements Source.
func (s *LocalSource) Fetch(ctx context.Context, ct content.ContentType, slug, locale string) (*RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slugDir := filepath.Join(s.dir, ct.PathSegment(), slug)

	doc, err := s.readPair(filepath.Join(slugDir, locale), ct)
	if err == nil {
		doc.LocaleSpecific = true
		return doc, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	// The root pair only stands in for non-default locales. A missing
	// default-locale document is genuinely missing.
	if locale == s.defaultLocale {
		return nil, ErrNotFound
	}

	doc, err = s.readPair(slugDir, ct)
	if err != nil {
		return nil, err
	}
	doc.LocaleSpecific = false
	return doc, nil
}

// readPair loads metadata.json and index.md from one directory.
// A missing metadata file means not found; a present but unreadable
// pair is a real error worth surfacing.
func (s *LocalSource) readPair(dir string, ct content.ContentType) (*RawDocument, error) {
	metaPath := filepath.Join(dir, "metadata.json")
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", metaPath, err)
	}

	var meta content.Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", metaPath, err)
	}

	bodyPath := filepath.Join(dir, "index.md")
	body, err := os.ReadFile(bodyPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Metadata without a body is a thin but valid document.
			body = nil
		} else {
			return nil, fmt.Errorf("reading %s: %w", bodyPath, err)
		}
	}

	text, fm := splitFrontmatter(body)
	if len(fm) > 0 {
		// Frontmatter must at least parse; its values are advisory and
		// metadata.json stays authoritative.
		var ignored map[string]any
		if err := yaml.Unmarshal(fm, &ignored); err != nil {
			s.logger.Warn("ignoring malformed frontmatter", "path", bodyPath, "error", err)
		}
	}

	return &RawDocument{
		Metadata: meta,
		Body: content.Body{
			Format:  content.BodyMarkdown,
			Content: string(text),
		},
	}, nil
}

// Slugs implements Source. Directory entries prefixed with an
// underscore are templates or scratch space and are skipped.
func (s *LocalSource) Slugs(ctx context.Context, ct content.ContentType) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	baseDir := filepath.Join(s.dir, ct.PathSegment())
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", baseDir, err)
	}

	var slugs []string
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '_' {
			continue
		}
		slugs = append(slugs, entry.Name())
	}
	sort.Strings(slugs)
	return slugs, nil
}

var frontmatterDelim = []byte("---")

// splitFrontmatter separates a leading YAML frontmatter block from the
// markdown body. Input without a frontmatter block passes through
// unchanged with a nil frontmatter.
func splitFrontmatter(b []byte) (body, frontmatter []byte) {
	if !bytes.HasPrefix(b, frontmatterDelim) {
		return b, nil
	}
	rest := b[len(frontmatterDelim):]
	if len(rest) == 0 || (rest[0] != '\n' && !bytes.HasPrefix(rest, []byte("\r\n"))) {
		return b, nil
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return b, nil
	}
	frontmatter = rest[:end]
	body = bytes.TrimLeft(rest[end+len("\n---"):], "\r\n")
	return body, frontmatter
}
