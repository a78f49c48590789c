package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"feedback_analyzer/internal/adapters/chart"
	"feedback_analyzer/internal/adapters/csvio"
	"feedback_analyzer/internal/analysis"
	"feedback_analyzer/internal/app"
)

// Output file names.
const (
	CSVFile    = "analyzed_reviews.csv"
	ReportFile = "sentiment_analysis_report"
	ChartFile  = "sentiment_analysis_report.png"
)

const (
	formatText = "text"
	formatMD   = "md"
)

func renderReport(rep analysis.Report, format string) string {
	if format == formatMD {
		return analysis.RenderMarkdown(rep)
	}
	return analysis.RenderText(rep)
}

func reportName(format string) string {
	if format == formatMD {
		return ReportFile + ".md"
	}
	return ReportFile + ".txt"
}

// writeArtifacts writes the augmented CSV, the report and, when there is
// anything to plot, the chart into dir. It returns the paths written.
func writeArtifacts(dir string, run app.Run, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var written []string

	csvPath := filepath.Join(dir, CSVFile)
	if err := csvio.WriteFile(csvPath, run.Header, run.Scored); err != nil {
		return written, err
	}
	written = append(written, csvPath)

	reportPath := filepath.Join(dir, reportName(format))
	if err := os.WriteFile(reportPath, []byte(renderReport(run.Report, format)), 0o644); err != nil {
		return written, fmt.Errorf("write report: %w", err)
	}
	written = append(written, reportPath)

	chartPath := filepath.Join(dir, ChartFile)
	switch err := chart.WriteFile(chartPath, run.Scored); {
	case errors.Is(err, chart.ErrNoData):
		log.Debug().Msg("no scored reviews; chart skipped")
	case err != nil:
		return written, fmt.Errorf("write chart: %w", err)
	default:
		written = append(written, chartPath)
	}

	for _, p := range written {
		log.Info().Str("run_id", run.ID).Str("path", p).Msg("artifact written")
	}
	return written, nil
}
