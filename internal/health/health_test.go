package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/source"
)

type fakeResolver struct {
	docs  map[string]*content.Document
	slugs map[content.ContentType][]string
}

func (f *fakeResolver) ResolvePreview(_ context.Context, ct content.ContentType, slug, locale string) (*content.Document, error) {
	key := content.Key{Type: ct, Slug: slug, Locale: locale}.String()
	doc, ok := f.docs[key]
	if !ok {
		return nil, source.ErrNotFound
	}
	return doc, nil
}

func (f *fakeResolver) Slugs(_ context.Context, ct content.ContentType) ([]string, error) {
	return f.slugs[ct], nil
}

func healthDoc(slug string, status content.Status, nextReviewDue string) *content.Document {
	return &content.Document{
		Type: content.TypeCondition,
		Metadata: content.Metadata{
			Slug:        slug,
			Title:       "Title",
			Description: "Description",
			Locale:      "en",
			Status:      status,
			Editorial: content.Editorial{
				LastReviewed: "2025-06-01",
				Reviewer:     content.Reviewer{Name: "Dr. Example"},
			},
			NextReviewDue: nextReviewDue,
		},
		Body: content.Body{
			Format:  content.BodyMarkdown,
			Content: "Body with references [1] and (Smith 2024).",
		},
	}
}

func fixedNow() time.Time {
	t, _ := time.Parse(content.DateFormat, "2026-06-01")
	return t
}

func newReporter(f *fakeResolver) *Reporter {
	return NewReporter(f, []string{"en"}, nil).WithClock(fixedNow)
}

func TestReporter_OverdueSeverityThresholds(t *testing.T) {
	tests := []struct {
		name     string
		due      string
		severity string
	}{
		{"120 days overdue is high", "2026-02-01", SeverityHigh},
		{"61 days overdue is medium", "2026-04-01", SeverityMedium},
		{"10 days overdue is low", "2026-05-22", SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeResolver{
				docs: map[string]*content.Document{
					"condition/depression/en": healthDoc("depression", content.StatusPublished, tt.due),
				},
				slugs: map[content.ContentType][]string{
					content.TypeCondition: {"depression"},
				},
			}

			reports, err := newReporter(f).GenerateAll(context.Background())
			require.NoError(t, err)
			require.Len(t, reports, 1)

			require.True(t, reports[0].Overdue)
			require.Len(t, reports[0].Issues, 1)
			assert.Equal(t, IssueOverdueReview, reports[0].Issues[0].Type)
			assert.Equal(t, tt.severity, reports[0].Issues[0].Severity)
		})
	}
}

func TestReporter_UpcomingReviewHasNoIssues(t *testing.T) {
	f := &fakeResolver{
		docs: map[string]*content.Document{
			"condition/depression/en": healthDoc("depression", content.StatusPublished, "2026-09-01"),
		},
		slugs: map[content.ContentType][]string{content.TypeCondition: {"depression"}},
	}

	reports, err := newReporter(f).GenerateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	assert.False(t, reports[0].Overdue)
	assert.Equal(t, 92, reports[0].DaysUntilReview)
	assert.Empty(t, reports[0].Issues)
}

func TestReporter_MissingReviewer(t *testing.T) {
	doc := healthDoc("depression", content.StatusPublished, "2026-09-01")
	doc.Metadata.Editorial.Reviewer.Name = ""

	f := &fakeResolver{
		docs:  map[string]*content.Document{"condition/depression/en": doc},
		slugs: map[content.ContentType][]string{content.TypeCondition: {"depression"}},
	}

	reports, err := newReporter(f).GenerateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Issues, 1)
	assert.Equal(t, IssueMissingReviewer, reports[0].Issues[0].Type)
	assert.Equal(t, SeverityHigh, reports[0].Issues[0].Severity)
}

func TestReporter_DraftContent(t *testing.T) {
	f := &fakeResolver{
		docs: map[string]*content.Document{
			"condition/wip/en": healthDoc("wip", content.StatusDraft, "2026-09-01"),
		},
		slugs: map[content.ContentType][]string{content.TypeCondition: {"wip"}},
	}

	reports, err := newReporter(f).GenerateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Issues, 1)
	assert.Equal(t, IssueDraftContent, reports[0].Issues[0].Type)
	assert.Equal(t, SeverityLow, reports[0].Issues[0].Severity)
}

func TestReporter_MissingCitations(t *testing.T) {
	doc := healthDoc("depression", content.StatusPublished, "2026-09-01")
	doc.Body.Content = "Plain prose without any markers."

	f := &fakeResolver{
		docs:  map[string]*content.Document{"condition/depression/en": doc},
		slugs: map[content.ContentType][]string{content.TypeCondition: {"depression"}},
	}

	reports, err := newReporter(f).GenerateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Issues, 1)
	assert.Equal(t, IssueMissingCitations, reports[0].Issues[0].Type)
}

func TestReporter_SkipsUnresolvableKeys(t *testing.T) {
	f := &fakeResolver{
		docs: map[string]*content.Document{
			"condition/depression/en": healthDoc("depression", content.StatusPublished, "2026-09-01"),
		},
		slugs: map[content.ContentType][]string{
			content.TypeCondition: {"depression", "ghost"},
		},
	}

	reports, err := newReporter(f).GenerateAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestSummarize(t *testing.T) {
	reports := []Report{
		{
			Status:       content.StatusPublished,
			ReviewStatus: content.ReviewStatus{Overdue: true, DaysOverdue: 100},
			Issues: []Issue{
				{Type: IssueOverdueReview, Severity: SeverityHigh},
				{Type: IssueMissingReviewer, Severity: SeverityHigh},
			},
		},
		{
			Status: content.StatusDraft,
			Issues: []Issue{{Type: IssueDraftContent, Severity: SeverityLow}},
		},
		{Status: content.StatusPublished, Issues: []Issue{}},
	}

	s := Summarize(reports)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Published)
	assert.Equal(t, 1, s.Drafts)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 2, s.WithIssues)
	assert.Equal(t, 1, s.IssuesByType[IssueOverdueReview])
	assert.Equal(t, 1, s.IssuesByType[IssueDraftContent])
	// Two high issues on one report count that report once.
	assert.Equal(t, 1, s.IssuesBySeverity[SeverityHigh])
	assert.Equal(t, 1, s.IssuesBySeverity[SeverityLow])
}
