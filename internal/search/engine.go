package search

import (
	"sort"
	"strings"

	"github.com/nafsi-health/contentcore/internal/content"
)

// Field weights. Exact title matches earn the bonus on top of the
// containment weight.
const (
	weightTitle       = 10
	weightTitleExact  = 20
	weightDescription = 5
	weightSynonym     = 8
	weightTag         = 3
	weightDrugClass   = 7
	weightGenericName = 9
	weightBrandName   = 6
)

// Engine scores index entries against expanded queries. An Engine is
// an immutable snapshot: rebuilds produce a new Engine and swap it in
// whole, so readers never observe a partial index.
type Engine struct {
	entries []IndexEntry
}

// NewEngine creates an engine over the given entries. The slice is
// owned by the engine after the call.
func NewEngine(entries []IndexEntry) *Engine {
	return &Engine{entries: entries}
}

// Size returns the number of indexed entries.
func (e *Engine) Size() int { return len(e.entries) }

// Entries exposes the snapshot, mainly for persistence.
func (e *Engine) Entries() []IndexEntry { return e.entries }

// Search scores every entry passing the locale/type pre-filter against
// the synonym-expanded query. Zero-score entries are dropped; results
// sort descending by score with ties keeping index order. An empty or
// whitespace-only query matches nothing.
func (e *Engine) Search(query, locale string, ct content.ContentType) []Result {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	terms := Expand(query)

	var results []Result
	for _, entry := range e.entries {
		if locale != "" && entry.Locale != locale {
			continue
		}
		if ct != "" && entry.Type != ct {
			continue
		}
		if r, ok := scoreEntry(entry, terms); ok {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func scoreEntry(entry IndexEntry, terms []string) (Result, bool) {
	score := 0
	var matched []string
	seen := map[string]bool{}
	mark := func(field string) {
		if !seen[field] {
			seen[field] = true
			matched = append(matched, field)
		}
	}

	title := strings.ToLower(entry.Title)
	desc := strings.ToLower(entry.Description)

	for _, term := range terms {
		if strings.Contains(title, term) {
			score += weightTitle
			mark("title")
		}
		if title == term {
			score += weightTitleExact
		}
		if strings.Contains(desc, term) {
			score += weightDescription
			mark("description")
		}
		if containsAny(entry.Synonyms, term) {
			score += weightSynonym
			mark("synonyms")
		}
		if containsAny(entry.Tags, term) {
			score += weightTag
			mark("tags")
		}
		if entry.DrugClass != "" && strings.Contains(strings.ToLower(entry.DrugClass), term) {
			score += weightDrugClass
			mark("drugClass")
		}
		if entry.GenericName != "" && strings.Contains(strings.ToLower(entry.GenericName), term) {
			score += weightGenericName
			mark("genericName")
		}
		if containsAny(entry.BrandNames, term) {
			score += weightBrandName
			mark("brandNames")
		}
	}

	if score == 0 {
		return Result{}, false
	}
	return Result{Entry: entry, Score: score, MatchedFields: matched}, true
}

func containsAny(values []string, term string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
