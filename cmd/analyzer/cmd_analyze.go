package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"feedback_analyzer/internal/adapters/csvio"
	"feedback_analyzer/internal/app"
	"feedback_analyzer/internal/bootstrap"
	"feedback_analyzer/internal/domain"
	mysqlrepo "feedback_analyzer/internal/storage/mysql"
)

type analyzeOptions struct {
	input      string
	outDir     string
	rowPolicy  string
	format     string
	mysqlDSN   string
	properties []int64
	workers    int
}

func newAnalyzeCommand(e *env) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a CSV file (or stored reviews) and write the report artifacts",
		Long: `Analyze reads a table with a review_text column (rating optional), scores
every review and writes three files into --out-dir:

  analyzed_reviews.csv              input columns plus cleaned_text, sentiment,
                                    polarity, subjectivity and issues
  sentiment_analysis_report.txt     summary report (.md with --format md)
  sentiment_analysis_report.png     four-panel chart

With --mysql-property the reviews of one or more stored properties are read
from MYSQL_DSN instead; several properties are analyzed concurrently, each
into its own property_<id> subdirectory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), e, opts, cmd.Flags().Changed)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input CSV (default INPUT_PATH)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "Output directory (default OUTPUT_DIR)")
	cmd.Flags().StringVar(&opts.rowPolicy, "row-policy", "", "Invalid row handling: reject or skip (default ROW_POLICY)")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "Report format: text or md")
	cmd.Flags().StringVar(&opts.mysqlDSN, "mysql-dsn", "", "MySQL DSN (default MYSQL_DSN)")
	cmd.Flags().Int64SliceVar(&opts.properties, "mysql-property", nil, "Analyze stored reviews of these property ids")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent property analyses (default WORKERS)")

	return cmd
}

func (o *analyzeOptions) resolve(e *env) error {
	cfg := e.cfg
	if o.input == "" {
		o.input = cfg.InputPath
	}
	if o.outDir == "" {
		o.outDir = cfg.OutputDir
	}
	if o.rowPolicy == "" {
		o.rowPolicy = cfg.RowPolicy
	}
	if o.mysqlDSN == "" {
		o.mysqlDSN = cfg.MySQLDSN
	}
	if o.workers <= 0 {
		o.workers = max(1, cfg.Workers)
	}
	if o.format != formatText && o.format != formatMD {
		return fmt.Errorf("unknown format %q (want %s|%s)", o.format, formatText, formatMD)
	}
	return nil
}

func runAnalyze(ctx context.Context, out io.Writer, e *env, opts *analyzeOptions, changed func(string) bool) error {
	if err := opts.resolve(e); err != nil {
		return err
	}
	policy, err := domain.ParseRowPolicy(opts.rowPolicy)
	if err != nil {
		return err
	}

	oracle, closeOracle, err := bootstrap.Oracle(ctx, e.cfg)
	if err != nil {
		return err
	}
	defer closeOracle()
	svc := app.NewAnalysisService(oracle, policy)

	if len(opts.properties) > 0 {
		if changed("input") {
			return errors.New("--input and --mysql-property are mutually exclusive")
		}
		return analyzeProperties(ctx, out, svc, opts)
	}

	log.Info().Str("input", opts.input).Str("row_policy", policy.String()).Msg("analysis starting")
	run, err := svc.AnalyzeSource(ctx, "csv", csvio.NewFileSource(opts.input))
	if err != nil {
		return err
	}
	return finish(out, opts.outDir, run, opts.format)
}

// finish writes the artifacts, prints the report and turns an empty run into
// ErrEmptyDataset once the "no data" report is on disk.
func finish(out io.Writer, dir string, run app.Run, format string) error {
	if _, err := writeArtifacts(dir, run, format); err != nil {
		return err
	}
	fmt.Fprint(out, renderReport(run.Report, format))
	if len(run.Skipped) > 0 {
		log.Warn().Int("skipped", len(run.Skipped)).Msg("rows skipped")
	}
	if run.Report.Empty() {
		return fmt.Errorf("%w: 0 reviews analyzed", domain.ErrEmptyDataset)
	}
	return nil
}

func analyzeProperties(ctx context.Context, out io.Writer, svc *app.AnalysisService, opts *analyzeOptions) error {
	if opts.mysqlDSN == "" {
		return errors.New("MYSQL_DSN (or --mysql-dsn) is required with --mysql-property")
	}
	db, err := mysqlrepo.Open(ctx, opts.mysqlDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	repo := mysqlrepo.New(db)

	if len(opts.properties) == 1 {
		id := opts.properties[0]
		run, err := svc.AnalyzeSource(ctx, "mysql", mysqlrepo.Source{Repo: repo, PropertyID: id})
		if err != nil {
			return fmt.Errorf("property %d: %w", id, err)
		}
		return finish(out, opts.outDir, run, opts.format)
	}

	sem := semaphore.NewWeighted(int64(opts.workers))
	// each goroutine owns its slot, so no lock is needed
	var (
		wg   sync.WaitGroup
		errs = make([]error, len(opts.properties))
		outs = make([]string, len(opts.properties))
	)
	for i, id := range opts.properties {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			break
		}
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			defer sem.Release(1)

			run, err := svc.AnalyzeSource(ctx, "mysql", mysqlrepo.Source{Repo: repo, PropertyID: id})
			if err != nil {
				errs[i] = fmt.Errorf("property %d: %w", id, err)
				return
			}
			var buf bytes.Buffer
			dir := filepath.Join(opts.outDir, fmt.Sprintf("property_%d", id))
			if err := finish(&buf, dir, run, opts.format); err != nil {
				errs[i] = fmt.Errorf("property %d: %w", id, err)
			}
			outs[i] = buf.String()
			log.Info().Int64("property", id).Msg("property analyzed")
		}(i, id)
	}
	wg.Wait()

	for _, s := range outs {
		fmt.Fprint(out, s)
	}
	return errors.Join(errs...)
}
