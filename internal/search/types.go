// Package search builds and queries the weighted full-text index over
// resolvable content. The index is a flat list of projected entries;
// the engine scores them against synonym-expanded queries with fixed
// per-field weights.
package search

import (
	"fmt"

	"github.com/nafsi-health/contentcore/internal/content"
)

// IndexEntry is one published document projected into its searchable
// fields. Optional fields stay empty for types that do not carry them.
type IndexEntry struct {
	ID          string              `json:"id"`
	Type        content.ContentType `json:"type"`
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Locale      string              `json:"locale"`
	Synonyms    []string            `json:"synonyms"`

	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category,omitempty"`

	DrugClass   string   `json:"drugClass,omitempty"`
	GenericName string   `json:"genericName,omitempty"`
	BrandNames  []string `json:"brandNames,omitempty"`
}

// EntryID builds the deterministic index entry id.
func EntryID(ct content.ContentType, slug, locale string) string {
	return fmt.Sprintf("%s-%s-%s", ct, slug, locale)
}

// Result is one scored index entry.
type Result struct {
	Entry         IndexEntry `json:"entry"`
	Score         int        `json:"score"`
	MatchedFields []string   `json:"matchedFields"`
}
