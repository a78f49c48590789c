package main

import (
	"github.com/spf13/cobra"

	"feedback_analyzer/internal/adapters/csvio"
	"feedback_analyzer/internal/app"
	"feedback_analyzer/internal/bootstrap"
	"feedback_analyzer/internal/sample"
)

func newSampleCommand(e *env) *cobra.Command {
	var (
		asCSV  bool
		outDir string
		format string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Analyze the built-in sample reviews",
		Long: `Sample analyzes the ten built-in demo reviews and prints the report.

Use --csv to print the sample table itself, e.g. as a starting point for
"analyzer analyze --input". With --out-dir the usual artifacts are written too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asCSV {
				return csvio.WriteDataset(cmd.OutOrStdout(), sample.Dataset())
			}

			oracle, closeOracle, err := bootstrap.Oracle(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			defer closeOracle()

			run, err := app.NewAnalysisService(oracle, e.cfg.Policy()).
				AnalyzeDataset(cmd.Context(), "sample", sample.Dataset())
			if err != nil {
				return err
			}
			if outDir != "" {
				return finish(cmd.OutOrStdout(), outDir, run, format)
			}
			_, err = cmd.OutOrStdout().Write([]byte(renderReport(run.Report, format)))
			return err
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print the sample dataset as CSV instead of analyzing it")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Also write the report artifacts here")
	cmd.Flags().StringVar(&format, "format", formatText, "Report format: text or md")
	return cmd
}
