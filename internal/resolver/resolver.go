// Package resolver turns (type, slug, locale) keys into validated
// documents. It chains content sources in precedence order, validates
// every candidate, recomputes review schedules, gates drafts, and
// caches the winners.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/source"
)

// ErrNotFound reports that no source produced a servable document for
// the requested key.
var ErrNotFound = source.ErrNotFound

// Resolver resolves content keys against an ordered source chain.
// When a remote CMS is configured it comes first; the local filesystem
// is always last. Resolver is safe for concurrent use.
type Resolver struct {
	sources   []source.Source
	validator *content.Validator
	cache     Cache
	logger    *slog.Logger
}

// New creates a resolver over the given sources, tried in order.
func New(sources []source.Source, validator *content.Validator, cache Cache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		sources:   sources,
		validator: validator,
		cache:     cache,
		logger:    logger.With("component", "resolver"),
	}
}

// Resolve returns the published document for (type, slug, locale).
// Results are cached under the configured TTL. Draft documents resolve
// to ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, ct content.ContentType, slug, locale string) (*content.Document, error) {
	key := content.Key{Type: ct, Slug: slug, Locale: locale}.String()
	if doc, ok := r.cache.Get(ctx, key); ok {
		return doc, nil
	}

	doc, err := r.resolve(ctx, ct, slug, locale, false)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, doc)
	return doc, nil
}

// ResolvePreview resolves like Resolve but also admits drafts. Preview
// resolutions bypass the cache entirely: they never read stale
// published copies and never leak drafts into it.
func (r *Resolver) ResolvePreview(ctx context.Context, ct content.ContentType, slug, locale string) (*content.Document, error) {
	return r.resolve(ctx, ct, slug, locale, true)
}

func (r *Resolver) resolve(ctx context.Context, ct content.ContentType, slug, locale string, preview bool) (*content.Document, error) {
	for _, src := range r.sources {
		raw, err := src.Fetch(ctx, ct, slug, locale)
		if err != nil {
			if !errors.Is(err, source.ErrNotFound) {
				r.logger.Warn("source fetch failed",
					"source", src.Name(), "type", string(ct), "slug", slug,
					"locale", locale, "error", err)
			}
			continue
		}

		meta := raw.Metadata
		if err := r.validator.Validate(&meta, ct); err != nil {
			r.logger.Warn("rejecting invalid document",
				"source", src.Name(), "type", string(ct), "slug", slug,
				"locale", locale, "error", err)
			continue
		}

		// The stored nextReviewDue is advisory; the schedule is always
		// recomputed so a stale date can never mask an overdue review.
		if last, err := content.ParseDate(meta.Editorial.LastReviewed); err == nil {
			meta.NextReviewDue = content.FormatDate(
				content.ComputeNextReview(last, meta.ReviewCadenceMonths))
		}

		// Draft gating applies to the winning candidate only. A draft
		// in a higher-precedence source deliberately shadows published
		// copies below it rather than letting them leak out.
		if meta.Status == content.StatusDraft && !preview {
			return nil, ErrNotFound
		}

		return &content.Document{
			Type:             ct,
			Metadata:         meta,
			Body:             raw.Body,
			IsLocaleSpecific: raw.LocaleSpecific,
			Source:           src.Name(),
		}, nil
	}

	return nil, ErrNotFound
}

// Invalidate drops the cached resolution for one key.
func (r *Resolver) Invalidate(ctx context.Context, ct content.ContentType, slug, locale string) {
	key := content.Key{Type: ct, Slug: slug, Locale: locale}.String()
	r.cache.Delete(ctx, key)
	r.logger.Debug("cache invalidated", "key", key)
}

// Purge drops every cached resolution.
func (r *Resolver) Purge(ctx context.Context) {
	r.cache.Purge(ctx)
}

// Slugs returns the union of slugs every source holds for the type,
// sorted and deduplicated. A failing source is logged and skipped so
// one down adapter cannot empty the whole listing.
func (r *Resolver) Slugs(ctx context.Context, ct content.ContentType) ([]string, error) {
	seen := make(map[string]bool)
	for _, src := range r.sources {
		slugs, err := src.Slugs(ctx, ct)
		if err != nil {
			r.logger.Warn("source slug listing failed",
				"source", src.Name(), "type", string(ct), "error", err)
			continue
		}
		for _, s := range slugs {
			seen[s] = true
		}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
