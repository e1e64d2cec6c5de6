package search

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/source"
)

// ContentResolver is the slice of the resolver the builder needs.
type ContentResolver interface {
	Resolve(ctx context.Context, ct content.ContentType, slug, locale string) (*content.Document, error)
	Slugs(ctx context.Context, ct content.ContentType) ([]string, error)
}

const defaultBuildWorkers = 8

// Builder walks every resolvable (type, slug, locale) and projects the
// published documents into index entries. A document that fails to
// resolve or validate is skipped, never fatal; one bad file must not
// take down the whole index.
type Builder struct {
	resolver ContentResolver
	locales  []string
	workers  int
	logger   *slog.Logger
}

// NewBuilder creates a builder resolving against the configured locale
// list. workers bounds the resolution fan-out; zero means the default.
func NewBuilder(resolver ContentResolver, locales []string, workers int, logger *slog.Logger) *Builder {
	if workers <= 0 {
		workers = defaultBuildWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		resolver: resolver,
		locales:  locales,
		workers:  workers,
		logger:   logger.With("component", "indexer"),
	}
}

// Build produces the full index. Output order is deterministic for a
// given content set: canonical type order, then sorted slugs, then the
// configured locale order. Resolution fans out across slugs but the
// assembly preserves job order, so concurrency never reorders output.
func (b *Builder) Build(ctx context.Context) ([]IndexEntry, error) {
	type job struct {
		ct   content.ContentType
		slug string
	}

	var jobs []job
	for _, ct := range content.Types {
		slugs, err := b.resolver.Slugs(ctx, ct)
		if err != nil {
			return nil, err
		}
		for _, slug := range slugs {
			jobs = append(jobs, job{ct: ct, slug: slug})
		}
	}

	results := make([][]IndexEntry, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, j := range jobs {
		g.Go(func() error {
			var entries []IndexEntry
			for _, locale := range b.locales {
				doc, err := b.resolver.Resolve(gctx, j.ct, j.slug, locale)
				if err != nil {
					if !errors.Is(err, source.ErrNotFound) {
						b.logger.Warn("skipping unresolvable document",
							"type", string(j.ct), "slug", j.slug,
							"locale", locale, "error", err)
					}
					continue
				}
				if doc.Metadata.Status != content.StatusPublished {
					continue
				}
				entries = append(entries, projectEntry(doc, locale))
			}
			results[i] = entries
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var index []IndexEntry
	for _, entries := range results {
		index = append(index, entries...)
	}
	b.logger.Info("index built", "entries", len(index), "documents", len(jobs))
	return index, nil
}

// projectEntry maps a resolved document onto its searchable fields.
func projectEntry(doc *content.Document, locale string) IndexEntry {
	meta := doc.Metadata
	entry := IndexEntry{
		ID:          EntryID(doc.Type, meta.Slug, locale),
		Type:        doc.Type,
		Slug:        meta.Slug,
		Title:       meta.Title,
		Description: meta.Description,
		Locale:      locale,
		Synonyms:    meta.Synonyms,
	}
	if entry.Synonyms == nil {
		entry.Synonyms = []string{}
	}

	switch doc.Type {
	case content.TypeCondition:
		entry.Tags = meta.Tags
		entry.Category = meta.Category
	case content.TypeMedication:
		entry.DrugClass = meta.DrugClass
		entry.GenericName = meta.GenericName
		entry.BrandNames = meta.BrandNames
	}
	return entry
}
