package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedback_analyzer/internal/domain"
)

func scored(s domain.Sentiment, rating *float64, issues ...domain.IssueCategory) domain.ScoredReview {
	sr := domain.ScoredReview{Sentiment: s}
	sr.Rating = rating
	if s == domain.Negative {
		sr.Issues = issues
	}
	return sr
}

func rate(v float64) *float64 { return &v }

func batch(pos, neg, neu int) []domain.ScoredReview {
	var out []domain.ScoredReview
	for i := 0; i < pos; i++ {
		out = append(out, scored(domain.Positive, rate(5)))
	}
	for i := 0; i < neg; i++ {
		out = append(out, scored(domain.Negative, rate(1)))
	}
	for i := 0; i < neu; i++ {
		out = append(out, scored(domain.Neutral, nil))
	}
	return out
}

func TestSummarize_DistributionRendering(t *testing.T) {
	rep := Summarize(batch(5, 2, 3))
	text := RenderText(rep)

	assert.Contains(t, text, "Positive Reviews: 5 (50.0%)")
	assert.Contains(t, text, "Negative Reviews: 2 (20.0%)")
	assert.Contains(t, text, "Neutral Reviews: 3 (30.0%)")

	var sum float64
	for _, d := range rep.Distribution {
		sum += d.Percent
	}
	assert.InDelta(t, 100, sum, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	rep := Summarize(nil)
	require.True(t, rep.Empty())
	_, ok := rep.Percent(domain.Positive)
	assert.False(t, ok)
	assert.Nil(t, rep.AveragePolarity)
	assert.Empty(t, rep.Recommendations)

	text := RenderText(rep)
	assert.Contains(t, text, "No data: 0 reviews analyzed.")
	assert.NotContains(t, text, "NaN")
	assert.NotContains(t, text, "SENTIMENT DISTRIBUTION")
	assert.Contains(t, RenderMarkdown(rep), "No data")
}

func TestSummarize_HighNegativeStrictThreshold(t *testing.T) {
	assert.Contains(t, Summarize(batch(3, 4, 3)).Recommendations, RecHighNegative)
	assert.NotContains(t, Summarize(batch(4, 3, 3)).Recommendations, RecHighNegative)
}

func TestSummarize_MeanRatingAbsentWithoutRatings(t *testing.T) {
	rep := Summarize(batch(2, 2, 2))

	m, ok := rep.MeanRating(domain.Positive)
	require.True(t, ok)
	assert.Equal(t, 5.0, m)
	_, ok = rep.MeanRating(domain.Neutral)
	assert.False(t, ok)

	text := RenderText(rep)
	assert.Contains(t, text, "    Negative: 1.00/5.0\n    Positive: 5.00/5.0\n")
	assert.NotContains(t, text, "Neutral: ")
}

func TestSummarize_IssueRankingAndRecommendations(t *testing.T) {
	in := []domain.ScoredReview{
		scored(domain.Negative, nil, domain.IssuePricing, domain.IssueWaitTime),
		scored(domain.Negative, nil, domain.IssuePricing, domain.IssueServiceQuality),
		scored(domain.Negative, nil, domain.IssueWaitTime),
		scored(domain.Negative, nil, domain.IssueCleanliness),
		scored(domain.Negative, nil, domain.IssueVehicleCondition),
		scored(domain.Positive, rate(4)),
	}
	rep := Summarize(in)

	want := []IssueCount{
		{domain.IssueWaitTime, 2},
		{domain.IssuePricing, 2},
		{domain.IssueCleanliness, 1},
		{domain.IssueVehicleCondition, 1},
		{domain.IssueServiceQuality, 1},
	}
	assert.Equal(t, want, rep.TopIssues)
	assert.Equal(t, []string{RecHighNegative, RecCleaning}, rep.Recommendations)

	text := RenderText(rep)
	assert.Contains(t, text, "    Wait Time: 2 occurrences\n    Pricing: 2 occurrences\n")
	assert.Contains(t, text, "    • Improve vehicle cleaning procedures.")
}

func TestRenderText_Deterministic(t *testing.T) {
	rep := Summarize(batch(1, 1, 1))
	rep.GeneratedAt = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	rep.RunID = "run-1"
	rep.Skipped = []domain.RowError{{Line: 4, Field: domain.ColReviewText, Reason: "null value"}}

	a, b := RenderText(rep), RenderText(rep)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "Analysis Date: 2026-10-19 08:30:00")
	assert.Contains(t, a, "Rows skipped: 1\n    row 4: review_text: null value")
	assert.True(t, strings.HasPrefix(a, reportRule))
	assert.True(t, strings.HasSuffix(a, reportRule+"\n"))
}

func TestRenderMarkdown(t *testing.T) {
	rep := Summarize([]domain.ScoredReview{scored(domain.Negative, nil, domain.IssueVehicleCondition)})
	md := RenderMarkdown(rep)
	assert.Contains(t, md, "| Negative | 1 | 100.0% |")
	assert.Contains(t, md, "1. Vehicle Condition: 1 occurrences")
	assert.Contains(t, md, "_No rated reviews._")
	assert.Contains(t, md, "- "+RecMaintenance)
}
