// =============================================================================
// Purchase Analyzer - Main Entry Point
// =============================================================================
//
// USAGE:
//   purchase-analyzer            - Analyze purchases.txt and write report.txt
//   purchase-analyzer analyze    - Same, with flags for other files and outputs
//   purchase-analyzer validate   - List rejected lines without writing a report
//   purchase-analyzer config init - Write a default config.yaml
//   purchase-analyzer version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : Decoding, scanning, aggregation, report and export logic
//   - pkg/      : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/purchase-analyzer/cmd"
)

func main() {
	cmd.Execute()
}
