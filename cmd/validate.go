// =============================================================================
// Purchase Analyzer - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the purchase file
// without writing any output file.
//
// COMMAND USAGE:
//   purchase-analyzer validate [--input purchases.txt]
//
// OUTPUT:
//   One line per rejected input line, followed by a count:
//     line 2: line: wrong number of fields (value: 'got 4, want 5')
//     line 3: price: price is not a number (value: 'abc')
//     2 of 5 lines rejected
//
// Rejected lines are not a failure; the command only exits non-zero when the
// file cannot be read.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchase-analyzer/internal/analyzer"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "List the rejected lines of the purchase file",
	Long: `The validate command reads the purchase file and prints every line that
would be skipped by 'analyze', together with the reason. No report is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		scanned, err := analyzer.New(cfg, logger).Validate()
		if err != nil {
			return &processingError{err: err}
		}

		out := cmd.OutOrStdout()
		for _, line := range scanned.Rejections {
			fmt.Fprintf(out, "line %d: %v\n", line.Number, line.Err)
		}
		fmt.Fprintf(out, "%d of %d lines rejected\n", scanned.ErrorCount(), scanned.TotalLines)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
