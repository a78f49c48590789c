package analysis

import (
	"context"
	"fmt"

	"feedback_analyzer/internal/domain"
)

// Label thresholds. The band [-0.1, 0.1] is Neutral, boundaries included.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Label maps a polarity score to a sentiment label.
func Label(polarity float64) domain.Sentiment {
	switch {
	case polarity > PositiveThreshold:
		return domain.Positive
	case polarity < NegativeThreshold:
		return domain.Negative
	default:
		return domain.Neutral
	}
}

// Labeled is the adapter output for one cleaned text.
type Labeled struct {
	Sentiment    domain.Sentiment `json:"sentiment"`
	Polarity     float64          `json:"polarity"`
	Subjectivity float64          `json:"subjectivity"`
}

// Adapter puts the fixed label policy in front of a swappable oracle.
type Adapter struct {
	oracle domain.SentimentOracle
}

func NewAdapter(o domain.SentimentOracle) *Adapter {
	return &Adapter{oracle: o}
}

// Score asks the oracle for polarity/subjectivity and assigns the label.
// Subjectivity is passed through untouched.
func (a *Adapter) Score(ctx context.Context, cleaned string) (Labeled, error) {
	s, err := a.oracle.Score(ctx, cleaned)
	if err != nil {
		return Labeled{}, fmt.Errorf("sentiment oracle: %w", err)
	}
	return Labeled{
		Sentiment:    Label(s.Polarity),
		Polarity:     s.Polarity,
		Subjectivity: s.Subjectivity,
	}, nil
}
