package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/purchase-analyzer/internal/purchase"
	"github.com/ginjaninja78/purchase-analyzer/internal/scanner"
	"github.com/ginjaninja78/purchase-analyzer/pkg/utils"
)

const logRule = 80

// =============================================================================
// REJECTION LOG
// =============================================================================

// RenderRejections writes one entry per rejected line to w.
//
// PARAMETERS:
//   - w: The destination.
//   - source: The input file the lines came from.
//   - rejections: The rejected lines in file order.
//
// OUTPUT FORMAT:
//   Purchase Analyzer - Error Log
//   Source: purchases.txt
//   Total Errors: 2
//   ========...
//
//   Error #1
//     Line Number:    2
//     Field:          line
//     Reason:         wrong number of fields
//     Value:          got 4, want 5
//     Content:        2025-09-01;food;Bread;0.85
//   ...
//   ========...
//   End of Error Log
func RenderRejections(w io.Writer, source string, rejections []scanner.Line) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Purchase Analyzer - Error Log\n"+
		"Source: %s\n"+
		"Total Errors: %d\n"+
		"%s\n\n",
		source, len(rejections), strings.Repeat("=", logRule))

	for i, line := range rejections {
		fmt.Fprintf(&b, "Error #%d\n", i+1)
		fmt.Fprintf(&b, "  Line Number:    %d\n", line.Number)

		var rejectErr *purchase.RejectError
		if errors.As(line.Err, &rejectErr) {
			fmt.Fprintf(&b, "  Field:          %s\n", rejectErr.Field)
			fmt.Fprintf(&b, "  Reason:         %v\n", rejectErr.Reason)
			if rejectErr.Value != "" {
				fmt.Fprintf(&b, "  Value:          %s\n", rejectErr.Value)
			}
		} else if line.Err != nil {
			fmt.Fprintf(&b, "  Reason:         %v\n", line.Err)
		}

		if line.Text != "" {
			fmt.Fprintf(&b, "  Content:        %s\n", line.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("=", logRule) + "\n")
	b.WriteString("End of Error Log\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}

// WriteRejectionLog renders the rejection log and replaces the file at path.
func WriteRejectionLog(path, source string, rejections []scanner.Line) error {
	var buf bytes.Buffer
	if err := RenderRejections(&buf, source, rejections); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save error log: %w", err)
	}
	return nil
}
