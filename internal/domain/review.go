package domain

import "strings"

// Review is one input record. Text is nil when the source cell is null.
type Review struct {
	Line    int      // 1-based data row, header excluded
	Text    *string  // review_text
	Rating  *float64 // optional, nil when absent or blank
	Columns []string // raw values aligned with Dataset.Header

	// Invalid is set by a source that could not decode a field of this row.
	Invalid *RowError
}

// Validate reports why the row cannot be analyzed, or nil.
func (r Review) Validate() error {
	if r.Invalid != nil {
		return r.Invalid
	}
	if r.Text == nil {
		return &RowError{Line: r.Line, Field: ColReviewText, Reason: "null value"}
	}
	return nil
}

// Dataset is a loaded table of reviews plus its header, so passthrough
// columns can be written back out unchanged.
type Dataset struct {
	Header  []string
	Reviews []Review
}

const (
	ColReviewText   = "review_text"
	ColRating       = "rating"
	ColCleanedText  = "cleaned_text"
	ColSentiment    = "sentiment"
	ColPolarity     = "polarity"
	ColSubjectivity = "subjectivity"
	ColIssues       = "issues"
)

// DerivedColumns are appended (or replaced in place) on augmented output.
var DerivedColumns = []string{ColCleanedText, ColSentiment, ColPolarity, ColSubjectivity, ColIssues}

// ColumnIndex returns the index of name in the header or -1.
func (d Dataset) ColumnIndex(name string) int {
	for i, h := range d.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// ScoredReview is a Review augmented with derived fields.
// Issues is non-empty only when Sentiment is Negative.
type ScoredReview struct {
	Review
	CleanedText  string
	Sentiment    Sentiment
	Polarity     float64
	Subjectivity float64
	Issues       []IssueCategory
}
