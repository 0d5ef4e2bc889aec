// =============================================================================
// Purchase Analyzer - Report Renderer
// =============================================================================
//
// This module renders the fixed-layout text report.
//
// REPORT LAYOUT:
//   1. Header
//   2. Line counts (processed, valid, errors)
//   3. Grand total in EUR
//   4. Spending per category, sorted by category name
//   5. Separator
//   6. The three most expensive purchases
//   7. Closing separator and success message
//
// The report is rendered into memory first and then written atomically, so a
// failed write never leaves a truncated report behind.
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/purchase-analyzer/internal/aggregate"
	"github.com/ginjaninja78/purchase-analyzer/internal/purchase"
	"github.com/ginjaninja78/purchase-analyzer/pkg/utils"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// Currency is the label printed after every amount.
	Currency = "EUR"

	// TopCount is the number of purchases listed in the report.
	TopCount = 3

	// SuccessMessage closes every report.
	SuccessMessage = "Report generated successfully!"

	categoryRule = 30
	sectionRule  = 50
)

// =============================================================================
// RENDERING
// =============================================================================

// Render writes the report for the given purchases to w.
//
// PARAMETERS:
//   - w: The destination.
//   - records: The valid purchases in file order. They are not modified.
//   - errorCount: The number of rejected lines.
//
// RETURNS:
//   - An error only if writing to w fails.
func Render(w io.Writer, records []purchase.Record, errorCount int) error {
	summary := aggregate.Summarize(records, errorCount, TopCount)

	var b strings.Builder

	b.WriteString("=== PURCHASE REPORT ===\n\n")

	fmt.Fprintf(&b, "Total lines processed: %d\n", summary.Lines)
	fmt.Fprintf(&b, "Valid purchases: %d\n", summary.Purchases)
	fmt.Fprintf(&b, "Lines with errors: %d\n\n", summary.Errors)

	fmt.Fprintf(&b, "Total spent: %s %s\n\n", FormatAmount(summary.Total, 0), Currency)

	b.WriteString("Spending by category:\n")
	b.WriteString(strings.Repeat("-", categoryRule) + "\n")
	for _, c := range summary.Categories {
		fmt.Fprintf(&b, "%-15s %s %s\n", c.Category, FormatAmount(c.Total, 8), Currency)
	}

	b.WriteString("\n" + strings.Repeat("=", sectionRule) + "\n\n")

	fmt.Fprintf(&b, "Top %d most expensive purchases:\n", TopCount)
	b.WriteString(strings.Repeat("-", sectionRule) + "\n")
	for i, r := range summary.Top {
		fmt.Fprintf(&b, "%d. %-20s %s %-15s %s %s × %3s = %s %s\n",
			i+1, r.Name, r.Date, r.Category,
			FormatAmount(r.Price, 6), Currency, FormatQuantity(r.Quantity),
			FormatAmount(r.Total(), 6), Currency)
	}

	b.WriteString("\n" + strings.Repeat("=", sectionRule) + "\n")
	b.WriteString(SuccessMessage)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteFile renders the report and replaces the file at path with it.
func WriteFile(path string, records []purchase.Record, errorCount int) error {
	var buf bytes.Buffer
	if err := Render(&buf, records, errorCount); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// FormatAmount prints v with two decimals, right-aligned to width.
// Non-finite values print as "inf", "-inf" or "nan".
func FormatAmount(v float64, width int) string {
	if name, ok := nonFinite(v); ok {
		return fmt.Sprintf("%*s", width, name)
	}
	return fmt.Sprintf("%*.2f", width, v)
}

// FormatQuantity prints a quantity in its shortest round-trip form with at
// least one fractional digit: 2 -> "2.0", 1.5 -> "1.5", 0.00001 -> "1e-05".
func FormatQuantity(q float64) string {
	if name, ok := nonFinite(q); ok {
		return name
	}

	scientific := strconv.FormatFloat(q, 'e', -1, 64)
	if q != 0 {
		_, exp, _ := strings.Cut(scientific, "e")
		if n, err := strconv.Atoi(exp); err == nil && (n < -4 || n >= 16) {
			return scientific
		}
	}

	s := strconv.FormatFloat(q, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "nan", true
	case math.IsInf(v, 1):
		return "inf", true
	case math.IsInf(v, -1):
		return "-inf", true
	}
	return "", false
}
