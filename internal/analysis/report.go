package analysis

import (
	"sort"
	"time"

	"feedback_analyzer/internal/domain"
)

// TopIssueLimit is how many ranked issues the report keeps.
const TopIssueLimit = 5

// Recommendation texts.
const (
	RecHighNegative = "High negative sentiment detected. Immediate action required."
	RecCleaning     = "Improve vehicle cleaning procedures."
	RecMaintenance  = "Enhance vehicle maintenance and inspection."
	RecTraining     = "Provide customer service training for staff."
)

// topIssueRecommendations fire when their category ranks in the top three.
var topIssueRecommendations = []struct {
	issue domain.IssueCategory
	text  string
}{
	{domain.IssueCleanliness, RecCleaning},
	{domain.IssueVehicleCondition, RecMaintenance},
	{domain.IssueServiceQuality, RecTraining},
}

type SentimentStat struct {
	Sentiment domain.Sentiment `json:"sentiment"`
	Count     int              `json:"count"`
	Percent   float64          `json:"percent"`
}

// RatingStat is present only for labels with at least one rated review.
type RatingStat struct {
	Sentiment domain.Sentiment `json:"sentiment"`
	Mean      float64          `json:"mean"`
	Rated     int              `json:"rated"`
}

type IssueCount struct {
	Issue domain.IssueCategory `json:"issue"`
	Count int                  `json:"count"`
}

// Report is a read-only summary of one analysis run.
type Report struct {
	RunID           string            `json:"run_id,omitempty"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Total           int               `json:"total"`
	Distribution    []SentimentStat   `json:"distribution"`
	Ratings         []RatingStat      `json:"ratings"`
	AveragePolarity *float64          `json:"average_polarity,omitempty"`
	Issues          []IssueCount      `json:"issues"`
	TopIssues       []IssueCount      `json:"top_issues"`
	Recommendations []string          `json:"recommendations"`
	Skipped         []domain.RowError `json:"skipped,omitempty"`
}

// Empty reports the no-data state: percentages and means are undefined.
func (r Report) Empty() bool { return r.Total == 0 }

// Count returns the number of reviews labeled s.
func (r Report) Count(s domain.Sentiment) int {
	for _, d := range r.Distribution {
		if d.Sentiment == s {
			return d.Count
		}
	}
	return 0
}

// Percent returns the share of reviews labeled s; ok is false when empty.
func (r Report) Percent(s domain.Sentiment) (float64, bool) {
	if r.Empty() {
		return 0, false
	}
	for _, d := range r.Distribution {
		if d.Sentiment == s {
			return d.Percent, true
		}
	}
	return 0, true
}

// MeanRating returns the mean rating for s; ok is false when no review with
// that label carried a rating.
func (r Report) MeanRating(s domain.Sentiment) (float64, bool) {
	for _, rs := range r.Ratings {
		if rs.Sentiment == s {
			return rs.Mean, true
		}
	}
	return 0, false
}

// Summarize aggregates scored reviews. It never divides by zero: an empty
// input yields a Report whose Empty() is true with no percentages, means or
// recommendations.
func Summarize(scored []domain.ScoredReview) Report {
	rep := Report{
		Total:           len(scored),
		Distribution:    make([]SentimentStat, 0, len(domain.DistributionOrder)),
		Ratings:         []RatingStat{},
		Issues:          []IssueCount{},
		TopIssues:       []IssueCount{},
		Recommendations: []string{},
	}

	counts := map[domain.Sentiment]int{}
	ratingSum := map[domain.Sentiment]float64{}
	ratingN := map[domain.Sentiment]int{}
	issueCounts := map[domain.IssueCategory]int{}
	var polSum float64

	for _, sr := range scored {
		counts[sr.Sentiment]++
		polSum += sr.Polarity
		if sr.Rating != nil {
			ratingSum[sr.Sentiment] += *sr.Rating
			ratingN[sr.Sentiment]++
		}
		if sr.Sentiment != domain.Negative {
			continue
		}
		for _, is := range sr.Issues {
			issueCounts[is]++
		}
	}

	for _, s := range domain.DistributionOrder {
		st := SentimentStat{Sentiment: s, Count: counts[s]}
		if rep.Total > 0 {
			st.Percent = float64(counts[s]) / float64(rep.Total) * 100
		}
		rep.Distribution = append(rep.Distribution, st)
	}
	if rep.Empty() {
		return rep
	}

	avg := polSum / float64(rep.Total)
	rep.AveragePolarity = &avg

	for _, s := range domain.AlphabeticalOrder {
		if n := ratingN[s]; n > 0 {
			rep.Ratings = append(rep.Ratings, RatingStat{Sentiment: s, Mean: ratingSum[s] / float64(n), Rated: n})
		}
	}

	rep.Issues = rankIssues(issueCounts)
	rep.TopIssues = rep.Issues
	if len(rep.TopIssues) > TopIssueLimit {
		rep.TopIssues = rep.TopIssues[:TopIssueLimit]
	}
	rep.Recommendations = recommend(counts[domain.Negative], rep.Total, rep.Issues)
	return rep
}

// rankIssues orders categories by count descending, ties by enumeration order.
func rankIssues(counts map[domain.IssueCategory]int) []IssueCount {
	out := make([]IssueCount, 0, len(counts))
	for _, c := range domain.IssueCategories {
		if n := counts[c]; n > 0 {
			out = append(out, IssueCount{Issue: c, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func recommend(negative, total int, ranked []IssueCount) []string {
	recs := []string{}
	// negative/total > 0.30, kept in integers so 3/10 does not fire
	if negative*10 > total*3 {
		recs = append(recs, RecHighNegative)
	}
	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}
	for _, rule := range topIssueRecommendations {
		for _, ic := range top {
			if ic.Issue == rule.issue {
				recs = append(recs, rule.text)
				break
			}
		}
	}
	return recs
}
