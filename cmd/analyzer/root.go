package main

import (
	"github.com/spf13/cobra"

	"feedback_analyzer/internal/bootstrap"
	"feedback_analyzer/internal/shared"
)

var version = "dev"

// env carries the loaded configuration to subcommands.
type env struct {
	cfg shared.Config
}

func newRootCommand() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Sentiment and issue analysis for car rental reviews",
		Long: `analyzer scores customer reviews as Positive, Negative or Neutral,
detects recurring service issues in negative reviews and writes an augmented
CSV, a summary report and a chart image.

Configuration comes from environment variables (optionally a YAML file named
by CONFIG_FILE); flags override them for a single run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	logLevel := cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := shared.Load()
		if err != nil {
			return err
		}
		if *logLevel != "" {
			cfg.LogLevel = *logLevel
		}
		// logs go to stderr so stdout carries only reports
		bootstrap.Logger(cmd.ErrOrStderr(), cfg)
		e.cfg = cfg
		return nil
	}

	cmd.AddCommand(newAnalyzeCommand(e))
	cmd.AddCommand(newScoreCommand(e))
	cmd.AddCommand(newSampleCommand(e))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
