package analysis

import (
	"context"
	"errors"
	"fmt"

	"feedback_analyzer/internal/domain"
)

// Result is the output of one batch run. Scored keeps input order; Skipped
// lists rows dropped under RowPolicySkip.
type Result struct {
	Scored  []domain.ScoredReview
	Skipped []domain.RowError
}

// Pipeline applies normalize -> score -> issue extraction to every review.
type Pipeline struct {
	adapter *Adapter
	policy  domain.RowPolicy
}

func NewPipeline(o domain.SentimentOracle, policy domain.RowPolicy) *Pipeline {
	return &Pipeline{adapter: NewAdapter(o), policy: policy}
}

// ScoreText runs the pipeline on a single raw text. Sentiment is computed
// on the normalized text while issues are matched on the raw text; issue
// extraction only runs for Negative reviews.
func (p *Pipeline) ScoreText(ctx context.Context, raw string) (domain.ScoredReview, error) {
	cleaned := Normalize(raw)
	l, err := p.adapter.Score(ctx, cleaned)
	if err != nil {
		return domain.ScoredReview{}, err
	}
	sr := domain.ScoredReview{
		CleanedText:  cleaned,
		Sentiment:    l.Sentiment,
		Polarity:     l.Polarity,
		Subjectivity: l.Subjectivity,
	}
	if l.Sentiment == domain.Negative {
		sr.Issues = ExtractIssues(raw)
	}
	return sr, nil
}

// Analyze scores reviews in order. Invalid rows, including text the oracle
// rejects as too long, either abort the run (RowPolicyReject) or are
// collected in Result.Skipped (RowPolicySkip). Other oracle failures always
// abort.
func (p *Pipeline) Analyze(ctx context.Context, reviews []domain.Review) (Result, error) {
	res := Result{Scored: make([]domain.ScoredReview, 0, len(reviews))}
	for _, r := range reviews {
		if err := r.Validate(); err != nil {
			if p.skip(&res, err) {
				continue
			}
			return Result{}, err
		}
		sr, err := p.ScoreText(ctx, *r.Text)
		if errors.Is(err, domain.ErrTextTooLong) {
			rowErr := &domain.RowError{Line: r.Line, Field: domain.ColReviewText, Reason: err.Error()}
			if p.skip(&res, rowErr) {
				continue
			}
			return Result{}, rowErr
		}
		if err != nil {
			return Result{}, fmt.Errorf("row %d: %w", r.Line, err)
		}
		sr.Review = r
		res.Scored = append(res.Scored, sr)
	}
	return res, nil
}

// skip records err in res.Skipped when the policy allows dropping the row.
func (p *Pipeline) skip(res *Result, err error) bool {
	var re *domain.RowError
	if p.policy != domain.RowPolicySkip || !errors.As(err, &re) {
		return false
	}
	res.Skipped = append(res.Skipped, *re)
	return true
}
