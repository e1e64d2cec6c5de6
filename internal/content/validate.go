package content

import (
	"fmt"
	"strings"
)

// FieldError describes one violated constraint.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

// ValidationError aggregates every constraint a document violates.
// Callers decide whether to skip the document or abort a batch.
type ValidationError struct {
	Violations []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// Validator schema-checks and normalizes document metadata. It is a
// pure function over its inputs; the locale set is fixed at
// construction from configuration.
type Validator struct {
	locales map[string]bool
}

// NewValidator creates a validator accepting the given closed set of
// locales.
func NewValidator(locales []string) *Validator {
	set := make(map[string]bool, len(locales))
	for _, l := range locales {
		set[l] = true
	}
	return &Validator{locales: set}
}

// Validate checks meta against the schema for the given content type,
// normalizing it in place: nil array fields become empty slices, the
// review cadence defaults, and an empty status defaults to published.
// On any violation it returns a *ValidationError naming every
// offending field; the metadata is left normalized either way.
func (v *Validator) Validate(meta *Metadata, ct ContentType) error {
	var violations []FieldError
	add := func(field, constraint string) {
		violations = append(violations, FieldError{Field: field, Constraint: constraint})
	}

	v.normalize(meta)

	if meta.Slug == "" {
		add("slug", "is required")
	}
	if meta.Title == "" {
		add("title", "is required")
	}
	if meta.Description == "" {
		add("description", "is required")
	}
	if !v.locales[meta.Locale] {
		add("locale", fmt.Sprintf("%q is not a supported locale", meta.Locale))
	}
	if meta.Status != StatusDraft && meta.Status != StatusPublished {
		add("status", fmt.Sprintf("%q must be draft or published", meta.Status))
	}
	if !meta.AudienceLevel.Any() {
		add("audienceLevel", "at least one audience flag must be true")
	}
	if meta.ReviewCadenceMonths <= 0 {
		add("reviewCadenceMonths", "must be a positive integer")
	}
	if meta.NextReviewDue != "" {
		if _, err := ParseDate(meta.NextReviewDue); err != nil {
			add("nextReviewDue", "must be YYYY-MM-DD")
		}
	}

	violations = append(violations, v.checkEditorial(meta)...)
	violations = append(violations, checkTypeFields(meta, ct)...)

	// Publish-time invariants are hard errors, never warnings.
	if meta.Status == StatusPublished {
		if meta.Editorial.LastReviewed == "" {
			add("editorial.lastReviewed", "required for published content")
		}
		if meta.Editorial.Reviewer.Name == "" {
			add("editorial.reviewer.name", "required for published content")
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// normalize applies defaults and replaces nil slices with empty ones
// so downstream consumers never see null arrays.
func (v *Validator) normalize(meta *Metadata) {
	if meta.Status == "" {
		meta.Status = StatusPublished
	}
	if meta.ReviewCadenceMonths == 0 {
		meta.ReviewCadenceMonths = DefaultReviewCadenceMonths
	}
	if meta.Citations == nil {
		meta.Citations = []Citation{}
	}
	if meta.Synonyms == nil {
		meta.Synonyms = []string{}
	}
	if meta.Changelog == nil {
		meta.Changelog = []ChangelogEntry{}
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	if meta.RelatedConditions == nil {
		meta.RelatedConditions = []string{}
	}
	if meta.BrandNames == nil {
		meta.BrandNames = []string{}
	}
	if meta.RelatedMedications == nil {
		meta.RelatedMedications = []string{}
	}
	if meta.Editorial.Reviewer.Credentials == nil {
		meta.Editorial.Reviewer.Credentials = []string{}
	}
}

func (v *Validator) checkEditorial(meta *Metadata) []FieldError {
	var violations []FieldError
	ed := meta.Editorial

	if ed.LastReviewed != "" {
		if _, err := ParseDate(ed.LastReviewed); err != nil {
			violations = append(violations, FieldError{
				Field: "editorial.lastReviewed", Constraint: "must be YYYY-MM-DD",
			})
		}
	}

	switch ed.EvidenceLevel {
	case EvidenceA, EvidenceB, EvidenceC, EvidenceD:
	default:
		violations = append(violations, FieldError{
			Field: "editorial.evidenceLevel", Constraint: "must be A, B, C, or D",
		})
	}

	switch ed.EvidenceStrength {
	case StrengthGuideline, StrengthMetaAnalysis, StrengthExpertConsensus:
	default:
		violations = append(violations, FieldError{
			Field:      "editorial.evidenceStrength",
			Constraint: "must be guideline, meta-analysis, or expert-consensus",
		})
	}

	if ed.Version <= 0 {
		violations = append(violations, FieldError{
			Field: "editorial.version", Constraint: "must be a positive integer",
		})
	}

	return violations
}

func checkTypeFields(meta *Metadata, ct ContentType) []FieldError {
	var violations []FieldError

	switch ct {
	case TypeCondition, TypeMedication, TypeGovernance:
	default:
		violations = append(violations, FieldError{
			Field: "type", Constraint: fmt.Sprintf("unknown content type %q", ct),
		})
	}

	for _, entry := range meta.Changelog {
		if entry.Date != "" {
			if _, err := ParseDate(entry.Date); err != nil {
				violations = append(violations, FieldError{
					Field: "changelog.date", Constraint: "must be YYYY-MM-DD",
				})
			}
		}
	}

	return violations
}
