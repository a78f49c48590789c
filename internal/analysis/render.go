package analysis

import (
	"fmt"
	"strings"

	"feedback_analyzer/internal/domain"
)

const (
	reportRule  = "==============================================================================="
	reportTitle = "CAR RENTAL FEEDBACK ANALYSIS REPORT"
	// TimeLayout is the timestamp format used in rendered reports.
	TimeLayout = "2006-01-02 15:04:05"
)

// RenderText formats the report as the fixed plain-text block written to
// the report file. Output depends only on r.
func RenderText(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%24s%s\n%s\n\n", reportRule, "", reportTitle, reportRule)

	section(&b, "OVERVIEW")
	fmt.Fprintf(&b, "Total Reviews Analyzed: %d\n", r.Total)
	fmt.Fprintf(&b, "Analysis Date: %s\n", r.GeneratedAt.Format(TimeLayout))
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", r.RunID)
	}
	b.WriteString("\n")

	if r.Empty() {
		b.WriteString("No data: 0 reviews analyzed.\n\n")
	} else {
		section(&b, "SENTIMENT DISTRIBUTION")
		for _, d := range r.Distribution {
			fmt.Fprintf(&b, "%s Reviews: %d (%.1f%%)\n", d.Sentiment, d.Count, d.Percent)
		}
		b.WriteString("\n")

		section(&b, "AVERAGE RATINGS BY SENTIMENT")
		for _, rs := range r.Ratings {
			fmt.Fprintf(&b, "    %s: %.2f/5.0\n", rs.Sentiment, rs.Mean)
		}
		b.WriteString("\n")

		section(&b, fmt.Sprintf("MOST COMMON ISSUES (Top %d)", TopIssueLimit))
		for _, ic := range r.TopIssues {
			fmt.Fprintf(&b, "    %s: %d occurrences\n", ic.Issue.DisplayName(), ic.Count)
		}
		b.WriteString("\n")
	}

	if len(r.Skipped) > 0 {
		section(&b, "SKIPPED ROWS")
		fmt.Fprintf(&b, "Rows skipped: %d\n", len(r.Skipped))
		for _, re := range r.Skipped {
			fmt.Fprintf(&b, "    %s\n", re.Error())
		}
		b.WriteString("\n")
	}

	section(&b, "RECOMMENDATIONS")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "    • %s\n", rec)
	}
	fmt.Fprintf(&b, "\n%s\n", reportRule)
	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s:\n%s\n", title, strings.Repeat("-", len(title)+1))
}

// RenderMarkdown formats the same data as Markdown for the dashboard.
func RenderMarkdown(r Report) string {
	var b strings.Builder
	b.WriteString("# Car Rental Feedback Analysis Report\n\n")
	fmt.Fprintf(&b, "- **Total reviews analyzed:** %d\n", r.Total)
	fmt.Fprintf(&b, "- **Analysis date:** %s\n", r.GeneratedAt.Format(TimeLayout))
	if r.RunID != "" {
		fmt.Fprintf(&b, "- **Run ID:** `%s`\n", r.RunID)
	}
	if r.AveragePolarity != nil {
		fmt.Fprintf(&b, "- **Average polarity:** %.3f\n", *r.AveragePolarity)
	}
	b.WriteString("\n")

	if r.Empty() {
		b.WriteString("_No data: 0 reviews analyzed._\n")
		return b.String()
	}

	b.WriteString("## Sentiment distribution\n\n| Sentiment | Reviews | Share |\n|---|---:|---:|\n")
	for _, d := range r.Distribution {
		fmt.Fprintf(&b, "| %s | %d | %.1f%% |\n", d.Sentiment, d.Count, d.Percent)
	}

	b.WriteString("\n## Average rating by sentiment\n\n")
	if len(r.Ratings) == 0 {
		b.WriteString("_No rated reviews._\n")
	}
	for _, rs := range r.Ratings {
		fmt.Fprintf(&b, "- %s: %.2f/5.0 (%d rated)\n", rs.Sentiment, rs.Mean, rs.Rated)
	}

	fmt.Fprintf(&b, "\n## Most common issues (top %d)\n\n", TopIssueLimit)
	if len(r.TopIssues) == 0 {
		b.WriteString("_No specific issues identified in negative reviews._\n")
	}
	for i, ic := range r.TopIssues {
		fmt.Fprintf(&b, "%d. %s: %d occurrences\n", i+1, ic.Issue.DisplayName(), ic.Count)
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "\n## Skipped rows (%d)\n\n", len(r.Skipped))
		for _, re := range r.Skipped {
			fmt.Fprintf(&b, "- %s\n", re.Error())
		}
	}

	b.WriteString("\n## Recommendations\n\n")
	if len(r.Recommendations) == 0 {
		b.WriteString("_None._\n")
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	return b.String()
}

// IssueNames returns display names for a review's issues.
func IssueNames(issues []domain.IssueCategory) []string {
	out := make([]string, len(issues))
	for i, c := range issues {
		out[i] = c.DisplayName()
	}
	return out
}
