package watcher

import (
	"path/filepath"
	"strings"

	"github.com/nafsi-health/contentcore/internal/content"
)

// KeyMapper translates changed filesystem paths back into content
// keys. A path under a locale subdirectory maps to that one locale; a
// root-pair path maps to every configured locale, because the root
// pair serves as the fallback for all of them.
type KeyMapper struct {
	dir     string
	locales map[string]bool
	order   []string
}

// NewKeyMapper creates a mapper for the content directory and the
// configured locale list.
func NewKeyMapper(dir string, locales []string) *KeyMapper {
	set := make(map[string]bool, len(locales))
	for _, l := range locales {
		set[l] = true
	}
	return &KeyMapper{dir: dir, locales: set, order: locales}
}

// Map returns the content keys a changed path invalidates, or nil
// when the path is not content (unknown subtree, underscore-prefixed
// slug, stray files above the slug level).
func (m *KeyMapper) Map(path string) []content.Key {
	rel, err := filepath.Rel(m.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return nil
	}

	ct, ok := typeForSegment(parts[0])
	if !ok {
		return nil
	}
	slug := parts[1]
	if slug == "" || slug[0] == '_' {
		return nil
	}

	// Deep enough to name a locale subtree?
	if len(parts) >= 3 && m.locales[parts[2]] {
		return []content.Key{{Type: ct, Slug: slug, Locale: parts[2]}}
	}

	// Root pair (or the slug directory itself): every locale may have
	// been served from it.
	keys := make([]content.Key, 0, len(m.order))
	for _, locale := range m.order {
		keys = append(keys, content.Key{Type: ct, Slug: slug, Locale: locale})
	}
	return keys
}

func typeForSegment(segment string) (content.ContentType, bool) {
	for _, ct := range content.Types {
		if ct.PathSegment() == segment {
			return ct, true
		}
	}
	return "", false
}
