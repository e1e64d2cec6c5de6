package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nafsi-health/contentcore/internal/content"
)

func TestArtifact_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "search-index.json")
	entries := []IndexEntry{
		{
			ID: "condition-depression-en", Type: content.TypeCondition,
			Slug: "depression", Title: "Major Depressive Disorder",
			Description: "Overview.", Locale: "en", Synonyms: []string{"mdd"},
		},
	}

	require.NoError(t, WriteArtifact(path, entries))

	got, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestArtifact_EmptyIndexWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search-index.json")
	require.NoError(t, WriteArtifact(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestArtifact_OverwriteReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search-index.json")

	require.NoError(t, WriteArtifact(path, []IndexEntry{
		{ID: "a", Type: content.TypeCondition, Slug: "a", Locale: "en", Synonyms: []string{}},
		{ID: "b", Type: content.TypeCondition, Slug: "b", Locale: "en", Synonyms: []string{}},
	}))
	require.NoError(t, WriteArtifact(path, []IndexEntry{
		{ID: "c", Type: content.TypeCondition, Slug: "c", Locale: "en", Synonyms: []string{}},
	}))

	got, err := ReadArtifact(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestArtifact_ReadMissingFile(t *testing.T) {
	_, err := ReadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
