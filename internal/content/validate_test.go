package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMetadata() Metadata {
	return Metadata{
		Slug:        "depression",
		Title:       "Major Depressive Disorder",
		Description: "Overview of MDD diagnosis and management.",
		Locale:      "en",
		Status:      StatusPublished,
		Editorial: Editorial{
			LastReviewed: "2026-01-15",
			Reviewer: Reviewer{
				Name:        "Dr. Example",
				Role:        "Consultant Psychiatrist",
				Credentials: []string{"MD"},
			},
			EvidenceStrength: StrengthGuideline,
			EvidenceLevel:    EvidenceA,
			Version:          3,
		},
		AudienceLevel:       AudienceLevel{Public: true},
		ReviewCadenceMonths: 12,
	}
}

func TestValidate_OK(t *testing.T) {
	v := NewValidator([]string{"en", "ar"})
	meta := validMetadata()

	require.NoError(t, v.Validate(&meta, TypeCondition))
}

func TestValidate_NormalizesNilSlices(t *testing.T) {
	v := NewValidator([]string{"en", "ar"})
	meta := validMetadata()
	meta.Synonyms = nil
	meta.Citations = nil
	meta.Tags = nil
	meta.BrandNames = nil

	require.NoError(t, v.Validate(&meta, TypeCondition))

	assert.NotNil(t, meta.Synonyms)
	assert.NotNil(t, meta.Citations)
	assert.NotNil(t, meta.Tags)
	assert.NotNil(t, meta.BrandNames)
	assert.Empty(t, meta.Synonyms)
}

func TestValidate_DefaultsCadenceAndStatus(t *testing.T) {
	v := NewValidator([]string{"en", "ar"})
	meta := validMetadata()
	meta.ReviewCadenceMonths = 0
	meta.Status = ""

	require.NoError(t, v.Validate(&meta, TypeCondition))
	assert.Equal(t, DefaultReviewCadenceMonths, meta.ReviewCadenceMonths)
	assert.Equal(t, StatusPublished, meta.Status)
}

func TestValidate_PublishedRequiresReviewerAndDate(t *testing.T) {
	v := NewValidator([]string{"en", "ar"})

	t.Run("missing reviewer name", func(t *testing.T) {
		meta := validMetadata()
		meta.Editorial.Reviewer.Name = ""

		err := v.Validate(&meta, TypeCondition)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "editorial.reviewer.name")
	})

	t.Run("missing lastReviewed", func(t *testing.T) {
		meta := validMetadata()
		meta.Editorial.LastReviewed = ""

		err := v.Validate(&meta, TypeCondition)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "editorial.lastReviewed")
	})

	t.Run("draft may omit both", func(t *testing.T) {
		meta := validMetadata()
		meta.Status = StatusDraft
		meta.Editorial.LastReviewed = ""
		meta.Editorial.Reviewer.Name = ""

		require.NoError(t, v.Validate(&meta, TypeCondition))
	})
}

func TestValidate_AudienceInvariant(t *testing.T) {
	v := NewValidator([]string{"en", "ar"})
	meta := validMetadata()
	meta.AudienceLevel = AudienceLevel{}

	err := v.Validate(&meta, TypeCondition)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audienceLevel")
}

func TestValidate_FieldConstraints(t *testing.T) {
	v := NewValidator([]string{"en", "ar"})

	tests := []struct {
		name   string
		mutate func(*Metadata)
		field  string
	}{
		{"empty slug", func(m *Metadata) { m.Slug = "" }, "slug"},
		{"empty title", func(m *Metadata) { m.Title = "" }, "title"},
		{"empty description", func(m *Metadata) { m.Description = "" }, "description"},
		{"unknown locale", func(m *Metadata) { m.Locale = "fr" }, "locale"},
		{"bad status", func(m *Metadata) { m.Status = "pending" }, "status"},
		{"bad date format", func(m *Metadata) { m.Editorial.LastReviewed = "15/01/2026" }, "editorial.lastReviewed"},
		{"bad evidence level", func(m *Metadata) { m.Editorial.EvidenceLevel = "E" }, "editorial.evidenceLevel"},
		{"bad evidence strength", func(m *Metadata) { m.Editorial.EvidenceStrength = "vibes" }, "editorial.evidenceStrength"},
		{"zero version", func(m *Metadata) { m.Editorial.Version = 0 }, "editorial.version"},
		{"negative cadence", func(m *Metadata) { m.ReviewCadenceMonths = -3 }, "reviewCadenceMonths"},
		{"bad nextReviewDue", func(m *Metadata) { m.NextReviewDue = "soonish" }, "nextReviewDue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := validMetadata()
			tt.mutate(&meta)

			err := v.Validate(&meta, TypeCondition)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	v := NewValidator([]string{"en", "ar"})
	meta := validMetadata()
	meta.Slug = ""
	meta.Title = ""
	meta.Editorial.Reviewer.Name = ""

	err := v.Validate(&meta, TypeCondition)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Len(t, verr.Violations, 3)
}

func TestParseContentType(t *testing.T) {
	ct, err := ParseContentType("medication")
	require.NoError(t, err)
	assert.Equal(t, TypeMedication, ct)

	_, err = ParseContentType("article")
	assert.Error(t, err)
}
