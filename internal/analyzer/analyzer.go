// =============================================================================
// Purchase Analyzer - Analysis Pipeline
// =============================================================================
//
// This module orchestrates one analysis run over a single purchase file.
//
// PIPELINE:
//   1. Scan the input file and classify every line
//   2. Aggregate the valid purchases
//   3. Write the text report
//   4. Write the rejection log (optional)
//   5. Write the XLSX workbook (optional)
//   6. Archive a copy of the report (optional, failures are only logged)
//
// Steps 1-5 are fatal: the first failure ends the run and is returned to the
// caller unchanged in kind, so a missing input file can still be recognized
// with errors.As(err, *scanner.FileAccessError).
//
// =============================================================================

package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/purchase-analyzer/internal/aggregate"
	"github.com/ginjaninja78/purchase-analyzer/internal/config"
	"github.com/ginjaninja78/purchase-analyzer/internal/export"
	"github.com/ginjaninja78/purchase-analyzer/internal/logging"
	"github.com/ginjaninja78/purchase-analyzer/internal/purchase"
	"github.com/ginjaninja78/purchase-analyzer/internal/report"
	"github.com/ginjaninja78/purchase-analyzer/internal/scanner"
	"github.com/ginjaninja78/purchase-analyzer/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one analysis run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// InputFile is the purchase file that was analyzed.
	InputFile string

	// ReportFile is the written text report.
	ReportFile string

	// ErrorLogFile is the written rejection log, or empty.
	ErrorLogFile string

	// WorkbookFile is the written XLSX workbook, or empty.
	WorkbookFile string

	// ArchiveFile is the archived report copy, or empty.
	ArchiveFile string

	// Purchases are the valid purchases in file order.
	Purchases []purchase.Record

	// ErrorCount is the number of rejected lines.
	ErrorCount int

	// Summary holds the aggregated statistics.
	Summary aggregate.Summary

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// LinesProcessed is the number of lines read, blank lines included.
	LinesProcessed int

	// ValidLines is the number of lines that decoded into a purchase.
	ValidLines int

	// RejectedLines is the number of lines that were rejected.
	RejectedLines int

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// ANALYZER
// =============================================================================

// Analyzer runs the pipeline for one configuration.
type Analyzer struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// New creates an Analyzer. A nil cfg means config.Default().
func New(cfg *config.Config, logger zerolog.Logger) *Analyzer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Analyzer{
		cfg:    cfg,
		logger: logging.WithComponent(logger, logging.ComponentAnalyzer),
	}
}

// Run executes the pipeline.
//
// RETURNS:
//   - The Result of the run.
//   - The first fatal error. A *scanner.FileAccessError is returned wrapped,
//     never replaced.
func (a *Analyzer) Run() (*Result, error) {
	startTime := time.Now()
	runID := uuid.New().String()
	logger := a.logger.With().Str(logging.FieldRunID, runID).Logger()

	result := &Result{
		RunID:     runID,
		InputFile: a.cfg.InputFile,
	}

	// =========================================================================
	// STEP 1: SCAN INPUT
	// =========================================================================

	logger.Info().Str(logging.FieldFile, a.cfg.InputFile).Msg("processing file")

	scanned, err := a.scan()
	if err != nil {
		return result, err
	}

	result.Purchases = scanned.Records
	result.ErrorCount = scanned.ErrorCount()

	logger.Debug().
		Str(logging.FieldOperation, logging.OpScan).
		Int(logging.FieldLines, scanned.TotalLines).
		Int(logging.FieldPurchases, len(scanned.Records)).
		Int(logging.FieldErrors, result.ErrorCount).
		Msg("input scanned")

	for _, line := range scanned.Rejections {
		logger.Debug().Int(logging.FieldLine, line.Number).Err(line.Err).Msg("line rejected")
	}

	// =========================================================================
	// STEP 2: AGGREGATE
	// =========================================================================

	result.Summary = aggregate.Summarize(result.Purchases, result.ErrorCount, a.cfg.TopN)

	logger.Debug().
		Int(logging.FieldCategories, len(result.Summary.Categories)).
		Float64(logging.FieldTotal, result.Summary.Total).
		Msg("purchases aggregated")

	// =========================================================================
	// STEP 3: WRITE REPORT
	// =========================================================================

	if err := ensureParentDir(a.cfg.ReportFile); err != nil {
		return result, err
	}
	if err := report.WriteFile(a.cfg.ReportFile, result.Purchases, result.ErrorCount); err != nil {
		return result, err
	}
	result.ReportFile = a.cfg.ReportFile

	logger.Debug().
		Str(logging.FieldOperation, logging.OpRender).
		Str(logging.FieldFile, a.cfg.ReportFile).
		Msg("report written")

	// =========================================================================
	// STEP 4: WRITE REJECTION LOG
	// =========================================================================

	if a.cfg.ErrorLogFile != "" {
		if err := ensureParentDir(a.cfg.ErrorLogFile); err != nil {
			return result, err
		}
		if err := report.WriteRejectionLog(a.cfg.ErrorLogFile, a.cfg.InputFile, scanned.Rejections); err != nil {
			return result, err
		}
		result.ErrorLogFile = a.cfg.ErrorLogFile
		logger.Debug().Str(logging.FieldFile, a.cfg.ErrorLogFile).Msg("error log written")
	}

	// =========================================================================
	// STEP 5: WRITE WORKBOOK
	// =========================================================================

	if a.cfg.WorkbookFile != "" {
		if err := ensureParentDir(a.cfg.WorkbookFile); err != nil {
			return result, err
		}
		if err := export.WriteWorkbook(a.cfg.WorkbookFile, result.Purchases, result.Summary); err != nil {
			return result, err
		}
		result.WorkbookFile = a.cfg.WorkbookFile
		logger.Debug().
			Str(logging.FieldOperation, logging.OpExport).
			Str(logging.FieldFile, a.cfg.WorkbookFile).
			Msg("workbook written")
	}

	// =========================================================================
	// STEP 6: ARCHIVE REPORT
	// =========================================================================

	if a.cfg.ArchiveDir != "" {
		fm := utils.NewFileManager(a.cfg.ArchiveDir)
		fm.UseTimestampSubdirs = a.cfg.ArchiveSubdirs
		archived, err := fm.ArchiveFile(a.cfg.ReportFile, a.cfg.ArchiveFormat)
		if err != nil {
			logger.Warn().
				Str(logging.FieldOperation, logging.OpArchive).
				Err(err).
				Msg("failed to archive report")
		} else {
			result.ArchiveFile = archived
			logger.Debug().Str(logging.FieldFile, archived).Msg("report archived")
		}
	}

	result.Stats = ProcessingStats{
		LinesProcessed: scanned.TotalLines,
		ValidLines:     len(scanned.Records),
		RejectedLines:  result.ErrorCount,
		ProcessingTime: time.Since(startTime),
	}

	logger.Info().
		Int(logging.FieldPurchases, result.Stats.ValidLines).
		Int(logging.FieldErrors, result.Stats.RejectedLines).
		Float64(logging.FieldTotal, result.Summary.Total).
		Int64(logging.FieldDuration, result.Stats.ProcessingTime.Milliseconds()).
		Msg("analysis complete")

	return result, nil
}

// Validate scans the input file without writing anything.
func (a *Analyzer) Validate() (*scanner.Result, error) {
	scanned, err := a.scan()
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str(logging.FieldOperation, logging.OpValidate).
		Int(logging.FieldLines, scanned.TotalLines).
		Int(logging.FieldErrors, scanned.ErrorCount()).
		Msg("input validated")
	return scanned, nil
}

func (a *Analyzer) scan() (*scanner.Result, error) {
	scanned, err := scanner.Scan(a.cfg.InputFile, scanner.WithMaxLineBytes(a.cfg.MaxLineBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read purchases: %w", err)
	}
	return scanned, nil
}

// ensureParentDir creates the directory that will hold path.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
