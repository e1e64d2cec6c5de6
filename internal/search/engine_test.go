package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nafsi-health/contentcore/internal/content"
)

func testEntries() []IndexEntry {
	return []IndexEntry{
		{
			ID:          "condition-depression-en",
			Type:        content.TypeCondition,
			Slug:        "depression",
			Title:       "Major Depressive Disorder",
			Description: "Persistent low mood and loss of interest.",
			Locale:      "en",
			Synonyms:    []string{"mdd"},
			Tags:        []string{"mood"},
			Category:    "mood",
		},
		{
			ID:          "medication-sertraline-en",
			Type:        content.TypeMedication,
			Slug:        "sertraline",
			Title:       "Sertraline",
			Description: "A commonly prescribed antidepressant.",
			Locale:      "en",
			Synonyms:    []string{},
			DrugClass:   "SSRI",
			GenericName: "sertraline",
			BrandNames:  []string{"Zoloft"},
		},
		{
			ID:          "condition-depression-ar",
			Type:        content.TypeCondition,
			Slug:        "depression",
			Title:       "الاكتئاب",
			Description: "وصف الاكتئاب",
			Locale:      "ar",
			Synonyms:    []string{"mdd"},
		},
	}
}

func TestEngine_EmptyQueryMatchesNothing(t *testing.T) {
	e := NewEngine(testEntries())
	assert.Empty(t, e.Search("", "", ""))
	assert.Empty(t, e.Search("   ", "", ""))
}

func TestEngine_SynonymScenario(t *testing.T) {
	e := NewEngine(testEntries())

	results := e.Search("mdd", "", "")
	require.NotEmpty(t, results)

	assert.Equal(t, "condition-depression-en", results[0].Entry.ID)
	assert.Contains(t, results[0].MatchedFields, "synonyms")
	assert.GreaterOrEqual(t, results[0].Score, weightSynonym)

	for _, r := range results {
		assert.NotEqual(t, "medication-sertraline-en", r.Entry.ID,
			"an entry with no matching field must be excluded")
	}
}

func TestEngine_ExactTitleOutscoresDescription(t *testing.T) {
	// "zolpidem" has no synonym table entry, so the expansion is just
	// the query itself and the arithmetic is exact.
	e := NewEngine([]IndexEntry{
		{ID: "a", Type: content.TypeMedication, Title: "Zolpidem",
			Description: "Sedative-hypnotic.", Locale: "en", Synonyms: []string{}},
		{ID: "b", Type: content.TypeMedication, Title: "Other",
			Description: "Often compared with zolpidem.", Locale: "en", Synonyms: []string{}},
	})

	results := e.Search("zolpidem", "", "")
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].Entry.ID)
	assert.Equal(t, weightTitle+weightTitleExact, results[0].Score)
	assert.Equal(t, "b", results[1].Entry.ID)
	assert.Equal(t, weightDescription, results[1].Score)
}

func TestEngine_FieldWeights(t *testing.T) {
	entry := IndexEntry{
		ID: "m", Type: content.TypeMedication, Title: "X", Description: "Y",
		Locale: "en", Synonyms: []string{}, DrugClass: "zzclass",
		GenericName: "zzgeneric", BrandNames: []string{"zzbrand"},
	}
	e := NewEngine([]IndexEntry{entry})

	tests := []struct {
		query string
		score int
		field string
	}{
		{"zzclass", weightDrugClass, "drugClass"},
		{"zzgeneric", weightGenericName, "genericName"},
		{"zzbrand", weightBrandName, "brandNames"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			results := e.Search(tt.query, "", "")
			require.Len(t, results, 1)
			assert.Equal(t, tt.score, results[0].Score)
			assert.Equal(t, []string{tt.field}, results[0].MatchedFields)
		})
	}
}

func TestEngine_LocaleAndTypeFilters(t *testing.T) {
	e := NewEngine(testEntries())

	t.Run("locale filter", func(t *testing.T) {
		results := e.Search("mdd", "ar", "")
		require.Len(t, results, 1)
		assert.Equal(t, "condition-depression-ar", results[0].Entry.ID)
	})

	t.Run("type filter", func(t *testing.T) {
		results := e.Search("antidepressant", "en", content.TypeMedication)
		require.Len(t, results, 1)
		assert.Equal(t, "medication-sertraline-en", results[0].Entry.ID)
	})

	t.Run("filters exclude everything", func(t *testing.T) {
		assert.Empty(t, e.Search("mdd", "ar", content.TypeMedication))
	})
}

func TestEngine_TiesKeepIndexOrder(t *testing.T) {
	e := NewEngine([]IndexEntry{
		{ID: "first", Type: content.TypeCondition, Title: "A",
			Description: "mentions zzterm here", Locale: "en", Synonyms: []string{}},
		{ID: "second", Type: content.TypeCondition, Title: "B",
			Description: "also zzterm here", Locale: "en", Synonyms: []string{}},
	})

	results := e.Search("zzterm", "", "")
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, "first", results[0].Entry.ID)
	assert.Equal(t, "second", results[1].Entry.ID)
}

func TestEngine_MatchedFieldsDeduplicated(t *testing.T) {
	// Both "mdd" and "major depressive disorder" hit the synonym list
	// of this entry, but the field is reported once.
	e := NewEngine([]IndexEntry{{
		ID: "c", Type: content.TypeCondition, Title: "T", Description: "D",
		Locale: "en", Synonyms: []string{"mdd", "major depressive disorder"},
	}})

	results := e.Search("mdd", "", "")
	require.Len(t, results, 1)

	count := 0
	for _, f := range results[0].MatchedFields {
		if f == "synonyms" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
