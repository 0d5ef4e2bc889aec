// =============================================================================
// Purchase Analyzer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Called without a
// subcommand it runs the analysis, so "purchase-analyzer" alone behaves like
// "purchase-analyzer analyze".
//
// COBRA CLI STRUCTURE:
//   rootCmd (purchase-analyzer)
//   ├── analyzeCmd  (purchase-analyzer analyze)
//   ├── validateCmd (purchase-analyzer validate)
//   ├── configCmd   (purchase-analyzer config init)
//   └── versionCmd  (purchase-analyzer version)
//
// EXIT CODES:
//   0 - Success
//   1 - Any failure (missing input, unreadable file, invalid configuration)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchase-analyzer/internal/config"
	"github.com/ginjaninja78/purchase-analyzer/internal/logging"
	"github.com/ginjaninja78/purchase-analyzer/internal/scanner"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "purchase-analyzer",
	Short: "Purchase Analyzer - Summarize a semicolon-delimited purchase log",
	Long: `Purchase Analyzer reads a purchase log with one purchase per line:

  <date:YYYY-MM-DD>;<category>;<name>;<price>;<quantity>

It validates every line, prints a summary (total spent, spending per category,
most expensive purchases) and writes a fixed-layout text report.

Example Usage:
  purchase-analyzer                              # Analyze purchases.txt into report.txt
  purchase-analyzer analyze --input march.txt    # Analyze another file
  purchase-analyzer analyze --xlsx report.xlsx   # Also export a workbook
  purchase-analyzer validate                     # List rejected lines only`,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: runAnalyze,
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI and exits with a non-zero status on failure.
// This is called by main.main().
func Execute() {
	if code := execute(os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// execute runs the root command with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, errorMessage(err))
		return 1
	}
	return 0
}

// processingError marks failures of the analysis itself, as opposed to
// usage or configuration errors.
type processingError struct {
	err error
}

func (e *processingError) Error() string { return e.err.Error() }

func (e *processingError) Unwrap() error { return e.err }

// errorMessage renders the user-facing message for a failed command.
func errorMessage(err error) string {
	var accessErr *scanner.FileAccessError
	if errors.As(err, &accessErr) && accessErr.NotFound() {
		return fmt.Sprintf("Error: file %s not found!", accessErr.Path)
	}

	var procErr *processingError
	if errors.As(err, &procErr) {
		return fmt.Sprintf("Error processing file: %v", procErr.err)
	}

	return fmt.Sprintf("Error: %v", err)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// setup loads .env, the configuration file and the logger for a command.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return nil, zerolog.Nop(), err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to create logger: %w", err)
	}

	cfgLog := logging.WithComponent(logger, logging.ComponentConfig)
	cfgLog.Debug().
		Str(logging.FieldFile, cfgFile).
		Str("input_file", cfg.InputFile).
		Str("report_file", cfg.ReportFile).
		Msg("configuration loaded")

	return cfg, logger, nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVarP(
		&flagInput,
		"input",
		"i",
		"",
		"Purchase file to read (overrides input_file)",
	)

	addAnalyzeFlags(rootCmd)
}
