package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/retry"
)

// pageType maps a content type to the CMS page type filter.
func pageType(ct content.ContentType) string {
	switch ct {
	case content.TypeCondition:
		return "conditions.ConditionPage"
	case content.TypeMedication:
		return "medications.MedicationPage"
	case content.TypeGovernance:
		return "governance.GovernancePage"
	}
	return ""
}

// RemoteSource fetches content from a Wagtail CMS pages API. The CMS
// is strictly optional infrastructure: an unconfigured source, a down
// CMS, or a malformed response all surface as ErrNotFound so resolution
// falls through to the local source. Remote failures are logged, never
// propagated.
type RemoteSource struct {
	baseURL      string
	apiPath      string
	previewToken string
	client       *http.Client
	retryCfg     retry.Config
	logger       *slog.Logger
}

var _ Source = (*RemoteSource)(nil)

// RemoteOption configures a RemoteSource.
type RemoteOption func(*RemoteSource)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(s *RemoteSource) { s.client = c }
}

// WithRetry overrides the backoff applied to CMS requests.
func WithRetry(cfg retry.Config) RemoteOption {
	return func(s *RemoteSource) { s.retryCfg = cfg }
}

// WithPreviewToken attaches a bearer token to every CMS request so the
// API also returns unpublished drafts. Draft gating stays with the
// resolver; the token only widens what the CMS is willing to serve.
func WithPreviewToken(token string) RemoteOption {
	return func(s *RemoteSource) { s.previewToken = token }
}

// NewRemoteSource creates a CMS source. baseURL empty means
// unconfigured; every Fetch then returns ErrNotFound without a
// network call.
func NewRemoteSource(baseURL, apiPath string, timeout time.Duration, logger *slog.Logger, opts ...RemoteOption) *RemoteSource {
	if logger == nil {
		logger = slog.Default()
	}
	if apiPath == "" {
		apiPath = "/api/v2"
	}
	s := &RemoteSource{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiPath:  apiPath,
		client:   &http.Client{Timeout: timeout},
		retryCfg: retry.DefaultConfig(),
		logger:   logger.With("source", "cms"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Source.
func (s *RemoteSource) Name() string { return "cms" }

// Configured reports whether a CMS base URL is set.
func (s *RemoteSource) Configured() bool { return s.baseURL != "" }

// wagtailItem is the subset of a Wagtail page we consume. The API
// returns many more fields; unknown ones are ignored.
type wagtailItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Meta  struct {
		Type   string `json:"type"`
		Slug   string `json:"slug"`
		Locale string `json:"locale"`
	} `json:"meta"`

	Description         string `json:"description"`
	PublicSummary       string `json:"public_summary"`
	LastReviewed        string `json:"last_reviewed"`
	ReviewerName        string `json:"reviewer_name"`
	ReviewerRole        string `json:"reviewer_role"`
	EvidenceLevel       string `json:"evidence_level"`
	ReviewCadenceMonths int    `json:"review_cadence_months"`
	NextReviewDue       string `json:"next_review_due"`

	AudiencePublic    *bool `json:"audience_public"`
	AudienceStudent   *bool `json:"audience_student"`
	AudienceClinician *bool `json:"audience_clinician"`

	Category    string `json:"category"`
	DrugClass   string `json:"drug_class"`
	GenericName string `json:"generic_name"`
	BrandNames  string `json:"brand_names"`

	BodyPublic string `json:"body_public"`
	Body       string `json:"body"`
}

type wagtailListResponse struct {
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
	Items []wagtailItem `json:"items"`
}

// Fetch implements Source.
func (s *RemoteSource) Fetch(ctx context.Context, ct content.ContentType, slug, locale string) (*RawDocument, error) {
	if !s.Configured() {
		return nil, ErrNotFound
	}

	query := url.Values{}
	query.Set("slug", slug)
	query.Set("type", pageType(ct))
	query.Set("fields", "*")

	var resp wagtailListResponse
	if err := s.get(ctx, query, &resp); err != nil {
		s.logger.Warn("cms fetch failed",
			"type", string(ct), "slug", slug, "locale", locale, "error", err)
		return nil, ErrNotFound
	}
	if len(resp.Items) == 0 {
		return nil, ErrNotFound
	}

	item := resp.Items[0]
	return &RawDocument{
		Metadata:       transformItem(item, ct, locale),
		Body:           itemBody(item, ct),
		LocaleSpecific: item.Meta.Locale == locale,
	}, nil
}

// Slugs implements Source.
func (s *RemoteSource) Slugs(ctx context.Context, ct content.ContentType) ([]string, error) {
	if !s.Configured() {
		return nil, nil
	}

	query := url.Values{}
	query.Set("type", pageType(ct))
	query.Set("fields", "meta.slug")
	query.Set("limit", "1000")

	var resp wagtailListResponse
	if err := s.get(ctx, query, &resp); err != nil {
		return nil, fmt.Errorf("listing %s slugs: %w", ct, err)
	}

	slugs := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Meta.Slug != "" {
			slugs = append(slugs, item.Meta.Slug)
		}
	}
	return slugs, nil
}

// get issues one CMS request with retry. Server errors and network
// failures back off and try again; client errors and malformed
// responses fail immediately since repeating them cannot help.
func (s *RemoteSource) get(ctx context.Context, query url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s/pages/?%s", s.baseURL, s.apiPath, query.Encode())

	_, err := retry.Do(ctx, s.retryCfg, func() (struct{}, error) {
		return struct{}{}, s.getOnce(ctx, reqURL, out)
	})
	return err
}

func (s *RemoteSource) getOnce(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if s.previewToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.previewToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("cms api status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return retry.Permanent(fmt.Errorf("cms api status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Permanent(fmt.Errorf("decoding cms response: %w", err))
	}
	return nil
}

// transformItem maps a Wagtail page onto the content metadata schema.
// The CMS does not model every editorial field; missing values get the
// schema defaults the validator expects (absent audience_public means
// public, absent evidence level means C).
func transformItem(item wagtailItem, ct content.ContentType, locale string) content.Metadata {
	meta := content.Metadata{
		Slug:        item.Meta.Slug,
		Title:       item.Title,
		Description: item.Description,
		Locale:      locale,
		Status:      content.StatusPublished,
		Editorial: content.Editorial{
			LastReviewed: item.LastReviewed,
			Reviewer: content.Reviewer{
				Name:        item.ReviewerName,
				Role:        item.ReviewerRole,
				Credentials: []string{},
			},
			EvidenceStrength: content.StrengthGuideline,
			EvidenceLevel:    content.EvidenceLevel(item.EvidenceLevel),
			Version:          1,
		},
		AudienceLevel: content.AudienceLevel{
			Public:    boolOr(item.AudiencePublic, true),
			Student:   boolOr(item.AudienceStudent, false),
			Clinician: boolOr(item.AudienceClinician, false),
		},
		PublicSummary:       item.PublicSummary,
		ReviewCadenceMonths: item.ReviewCadenceMonths,
		NextReviewDue:       item.NextReviewDue,
	}
	if meta.Editorial.LastReviewed == "" {
		meta.Editorial.LastReviewed = content.FormatDate(time.Now())
	}
	if meta.Editorial.EvidenceLevel == "" {
		meta.Editorial.EvidenceLevel = content.EvidenceC
	}

	switch ct {
	case content.TypeCondition:
		meta.Category = item.Category
	case content.TypeMedication:
		meta.DrugClass = item.DrugClass
		meta.GenericName = item.GenericName
		meta.BrandNames = splitList(item.BrandNames)
	}
	return meta
}

// itemBody picks the body field for the content type. Governance pages
// publish a single body; clinical pages expose the public tier.
func itemBody(item wagtailItem, ct content.ContentType) content.Body {
	text := item.BodyPublic
	if ct == content.TypeGovernance {
		text = item.Body
	}
	return content.Body{Format: content.BodyRichText, Content: text}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// splitList parses the CMS's comma-separated list convention.
func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
