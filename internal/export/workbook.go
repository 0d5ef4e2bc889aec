// =============================================================================
// Purchase Analyzer - Workbook Export
// =============================================================================
//
// This module writes the analysis as an XLSX workbook for spreadsheet users.
//
// SHEETS:
//   - Purchases:  every valid purchase (Date, Category, Name, Price, Quantity, Total)
//   - Categories: spending per category, sorted by name
//   - Top:        the most expensive purchases, highest total first
//
// Amount columns carry a two-decimal number format; the cells hold the raw
// float values so formulas keep working. Infinite amounts are written as the
// text "inf" because XLSX has no numeric representation for them.
//
// =============================================================================

package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/purchase-analyzer/internal/aggregate"
	"github.com/ginjaninja78/purchase-analyzer/internal/purchase"
	"github.com/ginjaninja78/purchase-analyzer/internal/report"
	"github.com/ginjaninja78/purchase-analyzer/pkg/utils"
)

// Sheet names.
const (
	SheetPurchases  = "Purchases"
	SheetCategories = "Categories"
	SheetTop        = "Top"
)

// amountFormat is excelize's built-in "0.00" number format.
const amountFormat = 2

var (
	purchaseHeaders = []interface{}{"Date", "Category", "Name", "Price", "Quantity", "Total"}
	categoryHeaders = []interface{}{"Category", "Total"}
	topHeaders      = []interface{}{"Rank", "Name", "Date", "Category", "Price", "Quantity", "Total"}
)

// WriteWorkbook writes records and summary to an XLSX file at path.
//
// PARAMETERS:
//   - path: The workbook file. An existing file is replaced.
//   - records: The valid purchases in file order.
//   - summary: The aggregated statistics for the same records.
//
// RETURNS:
//   - An error if a sheet cannot be built or the file cannot be written.
func WriteWorkbook(path string, records []purchase.Record, summary aggregate.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{file: f}
	if err := w.init(); err != nil {
		return err
	}

	if err := w.writePurchases(records); err != nil {
		return err
	}
	if err := w.writeCategories(summary.Categories); err != nil {
		return err
	}
	if err := w.writeTop(summary.Top); err != nil {
		return err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// =============================================================================
// SHEET BUILDERS
// =============================================================================

type workbook struct {
	file        *excelize.File
	headerStyle int
	amountStyle int
}

func (w *workbook) init() error {
	if err := w.file.SetSheetName(w.file.GetSheetName(0), SheetPurchases); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetCategories, SheetTop} {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}
	w.file.SetActiveSheet(0)

	var err error
	w.headerStyle, err = w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	w.amountStyle, err = w.file.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	return nil
}

func (w *workbook) writePurchases(records []purchase.Record) error {
	if err := w.writeHeader(SheetPurchases, purchaseHeaders); err != nil {
		return err
	}
	for i, r := range records {
		row := []interface{}{r.Date, r.Category, r.Name, amount(r.Price), amount(r.Quantity), amount(r.Total())}
		if err := w.writeRow(SheetPurchases, i+2, row); err != nil {
			return err
		}
	}
	if err := w.styleAmounts(SheetPurchases, "D", "D", len(records)); err != nil {
		return err
	}
	if err := w.styleAmounts(SheetPurchases, "F", "F", len(records)); err != nil {
		return err
	}
	return w.setWidths(SheetPurchases, []float64{12, 15, 30, 10, 10, 12})
}

func (w *workbook) writeCategories(categories []aggregate.CategoryTotal) error {
	if err := w.writeHeader(SheetCategories, categoryHeaders); err != nil {
		return err
	}
	for i, c := range categories {
		if err := w.writeRow(SheetCategories, i+2, []interface{}{c.Category, amount(c.Total)}); err != nil {
			return err
		}
	}
	if err := w.styleAmounts(SheetCategories, "B", "B", len(categories)); err != nil {
		return err
	}
	return w.setWidths(SheetCategories, []float64{20, 12})
}

func (w *workbook) writeTop(top []purchase.Record) error {
	if err := w.writeHeader(SheetTop, topHeaders); err != nil {
		return err
	}
	for i, r := range top {
		row := []interface{}{i + 1, r.Name, r.Date, r.Category, amount(r.Price), amount(r.Quantity), amount(r.Total())}
		if err := w.writeRow(SheetTop, i+2, row); err != nil {
			return err
		}
	}
	if err := w.styleAmounts(SheetTop, "E", "E", len(top)); err != nil {
		return err
	}
	if err := w.styleAmounts(SheetTop, "G", "G", len(top)); err != nil {
		return err
	}
	return w.setWidths(SheetTop, []float64{6, 30, 12, 15, 10, 10, 12})
}

// =============================================================================
// CELL HELPERS
// =============================================================================

// amount returns the cell value for v.
func amount(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return report.FormatAmount(v, 0)
	}
	return v
}

func (w *workbook) writeHeader(sheet string, headers []interface{}) error {
	if err := w.writeRow(sheet, 1, headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := w.file.SetCellStyle(sheet, "A1", last, w.headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}
	return nil
}

func (w *workbook) writeRow(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", row, err)
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// styleAmounts applies the amount format to rows 2..count+1 of a column range.
func (w *workbook) styleAmounts(sheet, fromCol, toCol string, count int) error {
	if count == 0 {
		return nil
	}
	from := fmt.Sprintf("%s2", fromCol)
	to := fmt.Sprintf("%s%d", toCol, count+1)
	if err := w.file.SetCellStyle(sheet, from, to, w.amountStyle); err != nil {
		return fmt.Errorf("failed to style amounts of %s: %w", sheet, err)
	}
	return nil
}

func (w *workbook) setWidths(sheet string, widths []float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column %d: %w", i+1, err)
		}
		if err := w.file.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set width of %s!%s: %w", sheet, col, err)
		}
	}
	return nil
}
