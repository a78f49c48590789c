package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"feedback_analyzer/internal/adapters/observability"
	"feedback_analyzer/internal/analysis"
	"feedback_analyzer/internal/domain"
)

// Run is the outcome of one batch analysis.
type Run struct {
	ID      string
	Source  string
	Header  []string
	Scored  []domain.ScoredReview
	Skipped []domain.RowError
	Report  analysis.Report
}

// AnalysisService is shared by the CLI and the dashboard so both surfaces
// produce identical results for the same input.
type AnalysisService struct {
	pipeline *analysis.Pipeline
	now      func() time.Time
}

func NewAnalysisService(o domain.SentimentOracle, policy domain.RowPolicy) *AnalysisService {
	return &AnalysisService{pipeline: analysis.NewPipeline(o, policy), now: time.Now}
}

// WithClock overrides the report timestamp source. Used by tests.
func (s *AnalysisService) WithClock(now func() time.Time) *AnalysisService {
	s.now = now
	return s
}

// AnalyzeText scores a single free-text review.
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string) (domain.ScoredReview, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ScoredReview{}, domain.ErrEmptyText
	}
	sr, err := s.pipeline.ScoreText(ctx, text)
	if err != nil {
		return domain.ScoredReview{}, err
	}
	sr.Text = &text
	observability.ObserveReview("single", sr.Sentiment.String(), analysis.IssueNames(sr.Issues))
	return sr, nil
}

// AnalyzeSource loads a dataset from src and analyzes it.
func (s *AnalysisService) AnalyzeSource(ctx context.Context, source string, src domain.ReviewSource) (Run, error) {
	ds, err := src.Load(ctx)
	if err != nil {
		observability.ObserveRun(source, 0, err)
		return Run{}, err
	}
	return s.AnalyzeDataset(ctx, source, ds)
}

// AnalyzeDataset runs the pipeline and builds the report. A dataset with no
// rows is not an error here: the returned Run has an empty Report and the
// caller decides how to surface it.
func (s *AnalysisService) AnalyzeDataset(ctx context.Context, source string, ds domain.Dataset) (Run, error) {
	res, err := s.pipeline.Analyze(ctx, ds.Reviews)
	observability.ObserveRun(source, len(res.Skipped), err)
	if err != nil {
		return Run{}, err
	}

	run := Run{
		ID:      uuid.NewString(),
		Source:  source,
		Header:  ds.Header,
		Scored:  res.Scored,
		Skipped: res.Skipped,
	}
	run.Report = analysis.Summarize(res.Scored)
	run.Report.RunID = run.ID
	run.Report.GeneratedAt = s.now()
	run.Report.Skipped = res.Skipped

	for _, sr := range res.Scored {
		observability.ObserveReview(source, sr.Sentiment.String(), analysis.IssueNames(sr.Issues))
	}
	log.Debug().
		Str("run_id", run.ID).
		Str("source", source).
		Int("rows", len(ds.Reviews)).
		Int("scored", len(res.Scored)).
		Int("skipped", len(res.Skipped)).
		Msg("analysis run complete")
	return run, nil
}
