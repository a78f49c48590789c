package domain

import "context"

// Score is the raw oracle output. Polarity is in [-1,1], Subjectivity in [0,1].
type Score struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// SentimentOracle scores cleaned text. Empty input must yield a zero Score.
type SentimentOracle interface {
	Score(ctx context.Context, text string) (Score, error)
}

// ReviewSource loads a table of reviews (CSV file, database, upload).
type ReviewSource interface {
	Load(ctx context.Context) (Dataset, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
