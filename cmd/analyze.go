// =============================================================================
// Purchase Analyzer - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, the main command of the tool. It
// runs the full pipeline and prints a summary to stdout.
//
// COMMAND USAGE:
//   purchase-analyzer analyze [flags]
//
// FLAGS:
//   --input, -i   : Purchase file to read
//   --report      : Text report to write
//   --xlsx        : Also export an XLSX workbook
//   --error-log   : Also write a log of rejected lines
//   --archive-dir : Also archive a copy of the report
//   --top         : Number of expensive purchases in the summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchase-analyzer/internal/analyzer"
	"github.com/ginjaninja78/purchase-analyzer/internal/config"
	"github.com/ginjaninja78/purchase-analyzer/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	flagInput      string
	flagReport     string
	flagWorkbook   string
	flagErrorLog   string
	flagArchiveDir string
	flagTop        int
)

// =============================================================================
// ANALYZE COMMAND DEFINITION
// =============================================================================

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the purchase file and write the report",
	Long: `The analyze command reads the purchase file, skips every malformed line,
prints a summary and writes the text report.

Optional outputs:
  - An XLSX workbook with all purchases, category totals and the top list
  - A log that explains why each rejected line was rejected
  - A timestamped copy of the report in an archive directory`,

	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalyzeFlags(analyzeCmd)
}

// addAnalyzeFlags registers the output flags on cmd. The root command and
// analyze share them because the root command runs the analysis by default.
func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagReport, "report", "", "Text report to write (overrides report_file)")
	cmd.Flags().StringVar(&flagWorkbook, "xlsx", "", "XLSX workbook to write (overrides workbook_file)")
	cmd.Flags().StringVar(&flagErrorLog, "error-log", "", "Rejected-line log to write (overrides error_log_file)")
	cmd.Flags().StringVar(&flagArchiveDir, "archive-dir", "", "Directory for report copies (overrides archive_dir)")
	cmd.Flags().IntVar(&flagTop, "top", 0, "Number of expensive purchases in the summary (overrides top_n)")
}

// applyFlagOverrides copies explicitly set flags into cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputFile = flagInput
	}
	if flags.Changed("report") {
		cfg.ReportFile = flagReport
	}
	if flags.Changed("xlsx") {
		cfg.WorkbookFile = flagWorkbook
	}
	if flags.Changed("error-log") {
		cfg.ErrorLogFile = flagErrorLog
	}
	if flags.Changed("archive-dir") {
		cfg.ArchiveDir = flagArchiveDir
	}
	if flags.Changed("top") {
		cfg.TopN = flagTop
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Analyzing file %s...\n", cfg.InputFile)

	result, err := analyzer.New(cfg, logger).Run()
	if err != nil {
		return &processingError{err: err}
	}

	printSummary(out, result, cfg.TopN)
	return nil
}

// printSummary writes the console summary of a finished run.
func printSummary(w io.Writer, result *analyzer.Result, topN int) {
	s := result.Summary

	fmt.Fprintf(w, "Valid purchases found: %d\n", s.Purchases)
	fmt.Fprintf(w, "Lines with errors: %d\n", s.Errors)
	fmt.Fprintf(w, "Total spent: %s %s\n", report.FormatAmount(s.Total, 0), report.Currency)

	fmt.Fprintln(w, "\nSpending by category:")
	for _, c := range s.Categories {
		fmt.Fprintf(w, "  %-15s %s %s\n", c.Category, report.FormatAmount(c.Total, 8), report.Currency)
	}

	fmt.Fprintf(w, "\nTop %d most expensive purchases:\n", topN)
	for i, r := range s.Top {
		fmt.Fprintf(w, "%d. %-20s %s %s\n", i+1, r.Name, report.FormatAmount(r.Total(), 6), report.Currency)
	}

	fmt.Fprintf(w, "\nReport saved to %s\n", result.ReportFile)
	if result.ErrorLogFile != "" {
		fmt.Fprintf(w, "Error log saved to %s\n", result.ErrorLogFile)
	}
	if result.WorkbookFile != "" {
		fmt.Fprintf(w, "Workbook saved to %s\n", result.WorkbookFile)
	}
	if result.ArchiveFile != "" {
		fmt.Fprintf(w, "Report archived to %s\n", result.ArchiveFile)
	}
}
