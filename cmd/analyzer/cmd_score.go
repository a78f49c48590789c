package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"feedback_analyzer/internal/analysis"
	"feedback_analyzer/internal/app"
	"feedback_analyzer/internal/bootstrap"
)

type scoreOutput struct {
	Text         string   `json:"text"`
	CleanedText  string   `json:"cleaned_text"`
	Sentiment    string   `json:"sentiment"`
	Polarity     float64  `json:"polarity"`
	Subjectivity float64  `json:"subjectivity"`
	Issues       []string `json:"issues"`
}

func newScoreCommand(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "score <review text>",
		Short: "Analyze a single review",
		Example: `  analyzer score "The car was dirty and the wait was too long."
  analyzer score --json "Great service!"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oracle, closeOracle, err := bootstrap.Oracle(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			defer closeOracle()

			text := strings.Join(args, " ")
			sr, err := app.NewAnalysisService(oracle, e.cfg.Policy()).AnalyzeText(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("%w: please enter a review", err)
			}

			res := scoreOutput{
				Text:         text,
				CleanedText:  sr.CleanedText,
				Sentiment:    sr.Sentiment.String(),
				Polarity:     sr.Polarity,
				Subjectivity: sr.Subjectivity,
				Issues:       make([]string, 0, len(sr.Issues)),
			}
			for _, c := range sr.Issues {
				res.Issues = append(res.Issues, string(c))
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "Sentiment:    %s\n", res.Sentiment)
			fmt.Fprintf(out, "Polarity:     %.3f\n", res.Polarity)
			fmt.Fprintf(out, "Subjectivity: %.3f\n", res.Subjectivity)
			fmt.Fprintf(out, "Cleaned text: %s\n", res.CleanedText)
			if len(sr.Issues) > 0 {
				fmt.Fprintf(out, "Issues:       %s\n", strings.Join(analysis.IssueNames(sr.Issues), ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
