// Package health audits the editorial state of the content set: which
// documents are overdue for review, missing reviewers, or still in
// draft. Reports are advisory; nothing here blocks resolution.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/nafsi-health/contentcore/internal/content"
)

// Issue severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Issue types.
const (
	IssueOverdueReview    = "overdue_review"
	IssueMissingReviewer  = "missing_reviewer"
	IssueMissingCitations = "missing_citations"
	IssueMissingContent   = "missing_content"
	IssueDraftContent     = "draft_content"
)

// Overdue-review severity thresholds in days.
const (
	overdueHighDays   = 90
	overdueMediumDays = 30
)

// Issue is one finding against one document.
type Issue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Report is the audit result for one (type, slug, locale).
type Report struct {
	Slug        string              `json:"slug"`
	ContentType content.ContentType `json:"contentType"`
	Locale      string              `json:"locale"`
	Status      content.Status      `json:"status"`
	Issues      []Issue             `json:"issues"`

	LastReviewed  string `json:"lastReviewed,omitempty"`
	NextReviewDue string `json:"nextReviewDue,omitempty"`
	content.ReviewStatus
}

// Summary aggregates a report set.
type Summary struct {
	Total      int `json:"total"`
	Published  int `json:"published"`
	Drafts     int `json:"drafts"`
	Overdue    int `json:"overdue"`
	WithIssues int `json:"withIssues"`

	IssuesByType     map[string]int `json:"issuesByType"`
	IssuesBySeverity map[string]int `json:"issuesBySeverity"`
}

// ContentResolver is the slice of the resolver the reporter needs.
// Preview resolution is used deliberately so drafts show up in the
// audit instead of hiding behind the draft gate.
type ContentResolver interface {
	ResolvePreview(ctx context.Context, ct content.ContentType, slug, locale string) (*content.Document, error)
	Slugs(ctx context.Context, ct content.ContentType) ([]string, error)
}

// Reporter audits every resolvable document.
type Reporter struct {
	resolver ContentResolver
	locales  []string
	now      func() time.Time
	logger   *slog.Logger
}

// NewReporter creates a reporter over the configured locales.
func NewReporter(resolver ContentResolver, locales []string, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		resolver: resolver,
		locales:  locales,
		now:      time.Now,
		logger:   logger.With("component", "health"),
	}
}

// WithClock fixes the reporter's notion of today, for tests.
func (r *Reporter) WithClock(now func() time.Time) *Reporter {
	r.now = now
	return r
}

// GenerateAll audits every (type, slug, locale) that resolves. Keys
// that do not resolve are silently absent, matching the resolver's
// skip-and-continue policy.
func (r *Reporter) GenerateAll(ctx context.Context) ([]Report, error) {
	var reports []Report
	for _, ct := range content.Types {
		slugs, err := r.resolver.Slugs(ctx, ct)
		if err != nil {
			return nil, err
		}
		for _, slug := range slugs {
			for _, locale := range r.locales {
				doc, err := r.resolver.ResolvePreview(ctx, ct, slug, locale)
				if err != nil {
					continue
				}
				reports = append(reports, r.reportFor(doc, locale))
			}
		}
	}
	return reports, nil
}

func (r *Reporter) reportFor(doc *content.Document, locale string) Report {
	meta := doc.Metadata
	report := Report{
		Slug:          meta.Slug,
		ContentType:   doc.Type,
		Locale:        locale,
		Status:        meta.Status,
		Issues:        []Issue{},
		LastReviewed:  meta.Editorial.LastReviewed,
		NextReviewDue: meta.NextReviewDue,
	}

	if due, err := content.ParseDate(meta.NextReviewDue); err == nil {
		report.ReviewStatus = content.ReviewStatusAt(due, r.now())
	}

	if report.Overdue && meta.Status == content.StatusPublished {
		report.Issues = append(report.Issues, Issue{
			Type:     IssueOverdueReview,
			Severity: overdueSeverity(report.DaysOverdue),
			Message:  fmt.Sprintf("content is %d days overdue for review", report.DaysOverdue),
		})
	}

	if meta.Status == content.StatusPublished && meta.Editorial.Reviewer.Name == "" {
		report.Issues = append(report.Issues, Issue{
			Type:     IssueMissingReviewer,
			Severity: SeverityHigh,
			Message:  "published content must have a reviewer",
		})
	}

	if meta.Status == content.StatusPublished && missingCitations(doc.Body.Content) {
		report.Issues = append(report.Issues, Issue{
			Type:     IssueMissingCitations,
			Severity: SeverityMedium,
			Message:  "content may be missing citations or references",
		})
	}

	if len(doc.Body.Content) == 0 {
		report.Issues = append(report.Issues, Issue{
			Type:     IssueMissingContent,
			Severity: SeverityLow,
			Message:  "document has no body content",
		})
	}

	if meta.Status == content.StatusDraft {
		report.Issues = append(report.Issues, Issue{
			Type:     IssueDraftContent,
			Severity: SeverityLow,
			Message:  "content is in draft status",
		})
	}

	return report
}

func overdueSeverity(daysOverdue int) string {
	switch {
	case daysOverdue > overdueHighDays:
		return SeverityHigh
	case daysOverdue > overdueMediumDays:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

var (
	referencesRe = regexp.MustCompile(`(?i)references?|citations?|sources?`)
	citationRe   = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\d{4}[^)]*\)`)
)

// missingCitations is a heuristic: a body mentioning no reference
// section and carrying no bracketed or dated citation markers probably
// lacks citations.
func missingCitations(body string) bool {
	if body == "" {
		return false
	}
	return !referencesRe.MatchString(body) && !citationRe.MatchString(body)
}

// Summarize aggregates reports into counts. Issue counts are per
// document, not per issue: a report with two high-severity issues
// counts once under "high".
func Summarize(reports []Report) Summary {
	s := Summary{
		Total:            len(reports),
		IssuesByType:     map[string]int{},
		IssuesBySeverity: map[string]int{},
	}
	for _, r := range reports {
		if r.Status == content.StatusPublished {
			s.Published++
		} else {
			s.Drafts++
		}
		if r.Overdue {
			s.Overdue++
		}
		if len(r.Issues) > 0 {
			s.WithIssues++
		}

		types := map[string]bool{}
		sevs := map[string]bool{}
		for _, issue := range r.Issues {
			types[issue.Type] = true
			sevs[issue.Severity] = true
		}
		for t := range types {
			s.IssuesByType[t]++
		}
		for sev := range sevs {
			s.IssuesBySeverity[sev]++
		}
	}
	return s
}
