// =============================================================================
// Purchase Analyzer - Aggregator
// =============================================================================
//
// Pure functions that derive statistics from a list of purchases. None of
// them modify their input and all of them handle an empty list.
//
// FUNCTIONS:
//   - TotalSpent:       grand total of all purchases
//   - SpentByCategory:  total per category
//   - TopNExpensive:    the n purchases with the highest total
//   - SortedCategories: category totals ordered by category name
//   - Summarize:        all of the above in one Summary
//
// =============================================================================

package aggregate

import (
	"sort"

	"github.com/ginjaninja78/purchase-analyzer/internal/purchase"
)

// DefaultTopN is the number of purchases listed in the report.
const DefaultTopN = 3

// =============================================================================
// TYPES
// =============================================================================

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// Summary collects every statistic shown to the user.
type Summary struct {
	// Lines is the number of lines processed (valid + errors).
	Lines int

	// Purchases is the number of valid purchases.
	Purchases int

	// Errors is the number of rejected lines.
	Errors int

	// Total is the grand total of all valid purchases.
	Total float64

	// Categories holds the per-category totals, sorted by category name.
	Categories []CategoryTotal

	// Top holds the most expensive purchases, highest total first.
	Top []purchase.Record
}

// =============================================================================
// AGGREGATION
// =============================================================================

// TotalSpent returns the sum of all purchase totals, added in list order.
func TotalSpent(records []purchase.Record) float64 {
	total := 0.0
	for _, r := range records {
		total += r.Total()
	}
	return total
}

// SpentByCategory groups totals by category. Categories without purchases do
// not appear in the map.
func SpentByCategory(records []purchase.Record) map[string]float64 {
	byCategory := make(map[string]float64)
	for _, r := range records {
		byCategory[r.Category] += r.Total()
	}
	return byCategory
}

// TopNExpensive returns up to n purchases ordered by total, highest first.
// Purchases with equal totals keep their input order.
//
// PARAMETERS:
//   - records: The purchases to rank. The slice is not modified.
//   - n: How many purchases to return. n <= 0 yields an empty slice.
//
// RETURNS:
//   - A new slice of length min(n, len(records)).
func TopNExpensive(records []purchase.Record, n int) []purchase.Record {
	if n <= 0 {
		return []purchase.Record{}
	}

	sorted := make([]purchase.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total() > sorted[j].Total()
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// SortedCategories turns a category map into a slice ordered by name.
func SortedCategories(byCategory map[string]float64) []CategoryTotal {
	categories := make([]CategoryTotal, 0, len(byCategory))
	for name, total := range byCategory {
		categories = append(categories, CategoryTotal{Category: name, Total: total})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})
	return categories
}

// Summarize computes a Summary for the valid purchases of a file and the
// number of lines that were rejected.
func Summarize(records []purchase.Record, errorCount, topN int) Summary {
	return Summary{
		Lines:      len(records) + errorCount,
		Purchases:  len(records),
		Errors:     errorCount,
		Total:      TotalSpent(records),
		Categories: SortedCategories(SpentByCategory(records)),
		Top:        TopNExpensive(records, topN),
	}
}
