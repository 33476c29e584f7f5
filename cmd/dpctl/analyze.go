package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"situation-analyzer/internal/analyze"
	"situation-analyzer/internal/bootstrap"
	"situation-analyzer/internal/shared/config"
)

var (
	analyzePolicy  string
	analyzeTimeout time.Duration
	analyzeCompact bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <formUrl>",
	Short: "Analyze one document URL and print the extracted fields as JSON",
	Example: `  dpctl analyze https://storage.example/dp-2024-03.pdf
  dpctl analyze s3://forms/dp-2024-03.pdf --policy na`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePolicy, "policy", "", "missing value policy: zero or na (default from MISSING_VALUE_POLICY)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "overall timeout (default from ANALYZE_TIMEOUT_SECONDS)")
	analyzeCmd.Flags().BoolVar(&analyzeCompact, "compact", false, "print compact JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if analyzePolicy != "" {
		cfg.MissingValuePolicy = analyzePolicy
	}
	if analyzeTimeout > 0 {
		cfg.AnalyzeTimeout = analyzeTimeout
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		return err
	}

	formURL := args[0]
	out, err := app.AnalyzeService.Analyze(cmd.Context(), analyze.Request{FormURL: &formURL})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", formURL, err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !analyzeCompact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out.Fields)
}
