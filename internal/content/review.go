package content

import "time"

// ComputeNextReview derives the next review date from the last review
// and the cadence in months. The arithmetic is calendar-month based,
// not a fixed day count: AddDate normalizes month-end overflow the
// standard library way (Jan 31 + 1 month = Mar 2/3).
func ComputeNextReview(lastReviewed time.Time, cadenceMonths int) time.Time {
	if cadenceMonths <= 0 {
		cadenceMonths = DefaultReviewCadenceMonths
	}
	return lastReviewed.AddDate(0, cadenceMonths, 0)
}

// ReviewStatus describes where a document sits relative to its review
// due date. DaysOverdue and DaysUntilReview are mutually exclusive:
// exactly one is meaningful depending on Overdue. The scheduler is
// severity-agnostic; classifying day counts into severities is the
// caller's business.
type ReviewStatus struct {
	Overdue         bool `json:"overdue"`
	DaysOverdue     int  `json:"daysOverdue,omitempty"`
	DaysUntilReview int  `json:"daysUntilReview,omitempty"`
}

// ReviewStatusAt computes the review status of a document due at
// nextReviewDue as of today. Both times are truncated to calendar
// dates before comparison; a document due today is not overdue.
func ReviewStatusAt(nextReviewDue, today time.Time) ReviewStatus {
	due := toDate(nextReviewDue)
	now := toDate(today)

	days := int(due.Sub(now).Hours() / 24)
	if days < 0 {
		return ReviewStatus{Overdue: true, DaysOverdue: -days}
	}
	return ReviewStatus{Overdue: false, DaysUntilReview: days}
}

func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
