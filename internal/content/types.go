// Package content defines the clinical content document model, the
// metadata validator, and the review scheduler. Everything here is
// pure: no I/O, no clocks other than those passed in.
package content

import (
	"fmt"
	"time"
)

// ContentType is one of the three fixed document kinds.
type ContentType string

const (
	TypeCondition  ContentType = "condition"
	TypeMedication ContentType = "medication"
	TypeGovernance ContentType = "governance"
)

// Types lists all content types in their canonical order. The index
// builder and batch validator iterate in this order so their output is
// deterministic.
var Types = []ContentType{TypeCondition, TypeMedication, TypeGovernance}

// Valid reports whether the content type is one of the known kinds.
func (t ContentType) Valid() bool {
	switch t {
	case TypeCondition, TypeMedication, TypeGovernance:
		return true
	}
	return false
}

// PathSegment returns the directory name used in the local content
// layout ("conditions", "medications", "governance").
func (t ContentType) PathSegment() string {
	switch t {
	case TypeCondition:
		return "conditions"
	case TypeMedication:
		return "medications"
	case TypeGovernance:
		return "governance"
	}
	return string(t)
}

// ParseContentType converts a string to a ContentType.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown content type %q", s)
	}
	return t, nil
}

// Status is the publishing state of a document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// EvidenceLevel grades clinical evidence from A (strong) to D (expert
// opinion).
type EvidenceLevel string

const (
	EvidenceA EvidenceLevel = "A"
	EvidenceB EvidenceLevel = "B"
	EvidenceC EvidenceLevel = "C"
	EvidenceD EvidenceLevel = "D"
)

// EvidenceStrength names the kind of source backing the content.
type EvidenceStrength string

const (
	StrengthGuideline       EvidenceStrength = "guideline"
	StrengthMetaAnalysis    EvidenceStrength = "meta-analysis"
	StrengthExpertConsensus EvidenceStrength = "expert-consensus"
)

// AudienceLevel flags which audience tiers may access a document.
// At least one flag must be true.
type AudienceLevel struct {
	Public    bool `json:"public" yaml:"public"`
	Student   bool `json:"student" yaml:"student"`
	Clinician bool `json:"clinician" yaml:"clinician"`
}

// Any reports whether at least one audience flag is set.
func (a AudienceLevel) Any() bool {
	return a.Public || a.Student || a.Clinician
}

// Reviewer identifies who signed off on the content.
type Reviewer struct {
	Name        string   `json:"name" yaml:"name"`
	Role        string   `json:"role" yaml:"role"`
	Credentials []string `json:"credentials" yaml:"credentials"`
}

// Editorial is the review provenance block every clinical document
// carries.
type Editorial struct {
	LastReviewed     string           `json:"lastReviewed" yaml:"lastReviewed"`
	Reviewer         Reviewer         `json:"reviewer" yaml:"reviewer"`
	EvidenceStrength EvidenceStrength `json:"evidenceStrength" yaml:"evidenceStrength"`
	EvidenceLevel    EvidenceLevel    `json:"evidenceLevel" yaml:"evidenceLevel"`
	Version          int              `json:"version" yaml:"version"`
}

// Citation is a reference backing the content.
type Citation struct {
	Text string `json:"text" yaml:"text"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ChangelogEntry records one published revision.
type ChangelogEntry struct {
	Date    string `json:"date" yaml:"date"`
	Summary string `json:"summary" yaml:"summary"`
	Version int    `json:"version" yaml:"version"`
}

// DefaultReviewCadenceMonths applies when metadata omits the cadence.
const DefaultReviewCadenceMonths = 12

// Metadata is the validated metadata for any content type. Conditions
// and medications each add a few fields; the rest are shared.
type Metadata struct {
	Slug        string `json:"slug" yaml:"slug"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Locale      string `json:"locale" yaml:"locale"`
	Status      Status `json:"status" yaml:"status"`

	Editorial     Editorial     `json:"editorial" yaml:"editorial"`
	AudienceLevel AudienceLevel `json:"audienceLevel" yaml:"audienceLevel"`
	PublicSummary string        `json:"publicSummary,omitempty" yaml:"publicSummary,omitempty"`

	ReviewCadenceMonths int    `json:"reviewCadenceMonths" yaml:"reviewCadenceMonths"`
	NextReviewDue       string `json:"nextReviewDue,omitempty" yaml:"nextReviewDue,omitempty"`

	Citations []Citation       `json:"citations" yaml:"citations"`
	Synonyms  []string         `json:"synonyms" yaml:"synonyms"`
	Changelog []ChangelogEntry `json:"changelog" yaml:"changelog"`

	// Condition fields.
	Category          string   `json:"category,omitempty" yaml:"category,omitempty"`
	Tags              []string `json:"tags" yaml:"tags"`
	RelatedConditions []string `json:"relatedConditions" yaml:"relatedConditions"`

	// Medication fields.
	DrugClass          string   `json:"drugClass,omitempty" yaml:"drugClass,omitempty"`
	GenericName        string   `json:"genericName,omitempty" yaml:"genericName,omitempty"`
	BrandNames         []string `json:"brandNames" yaml:"brandNames"`
	RelatedMedications []string `json:"relatedMedications" yaml:"relatedMedications"`
}

// BodyFormat names the encoding of a document body.
type BodyFormat string

const (
	BodyMarkdown BodyFormat = "markdown"
	BodyRichText BodyFormat = "richtext"
)

// Body is the free-form body content of a document. The resolver and
// search layers treat it as an opaque payload; only rendering layers
// (out of scope here) interpret it.
type Body struct {
	Format  BodyFormat `json:"format"`
	Content string     `json:"content"`
}

// Document is one fully resolved, validated content item. Documents
// are produced fresh on every resolution; they are never mutated after
// being returned.
type Document struct {
	Type     ContentType `json:"type"`
	Metadata Metadata    `json:"metadata"`
	Body     Body        `json:"body"`

	// IsLocaleSpecific is true only when the winning source held
	// content tagged with the requested locale. When false, callers
	// must surface a fallback-locale notice.
	IsLocaleSpecific bool `json:"isLocaleSpecific"`

	// Source names the adapter that supplied the document.
	Source string `json:"source"`
}

// Key uniquely addresses a document.
type Key struct {
	Type   ContentType
	Slug   string
	Locale string
}

// String renders the key in its canonical cache-key form.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Type, k.Slug, k.Locale)
}

// DateFormat is the wire format for all content dates.
const DateFormat = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate renders a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
