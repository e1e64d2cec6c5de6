// Package source defines the content source contract and its two
// adapters: a remote CMS client and a local filesystem reader. Sources
// return raw, unvalidated documents; validation and draft gating live
// in the resolver.
package source

import (
	"context"
	"errors"

	"github.com/nafsi-health/contentcore/internal/content"
)

// ErrNotFound reports that a source holds no document for the
// requested key. Every adapter failure that should trigger fallback
// (missing files, network errors, CMS downtime) surfaces as this
// sentinel so the resolver can move to the next source.
var ErrNotFound = errors.New("content not found")

// RawDocument is an unvalidated document as a source produced it.
type RawDocument struct {
	Metadata content.Metadata
	Body     content.Body

	// LocaleSpecific is true when the source held content tagged with
	// the requested locale, false when it served fallback content.
	LocaleSpecific bool
}

// Source supplies raw documents for resolution.
type Source interface {
	// Name identifies the adapter in logs and resolved documents.
	Name() string

	// Fetch returns the raw document for (type, slug, locale), or
	// ErrNotFound when the source has nothing for that key.
	Fetch(ctx context.Context, ct content.ContentType, slug, locale string) (*RawDocument, error)

	// Slugs lists every slug the source holds for the given type.
	Slugs(ctx context.Context, ct content.ContentType) ([]string, error)
}
