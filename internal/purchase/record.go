// =============================================================================
// Purchase Analyzer - Purchase Record
// =============================================================================
//
// This package defines the validated purchase record and the decoder that
// turns one raw input line into a record. It is shared by the scanner, the
// aggregator, the report renderer and the workbook export.
//
// INPUT LINE FORMAT:
//   <date:YYYY-MM-DD>;<category>;<name>;<price>;<quantity>
//
// =============================================================================

package purchase

// =============================================================================
// RECORD
// =============================================================================

// Record is a single validated purchase line.
// Records are only produced by Decode (or built directly in tests) and are
// passed by value; nothing in the pipeline modifies a record once created.
type Record struct {
	// Date is the purchase date exactly as written in the file.
	// Only its shape is checked (10 characters, '-' at index 4 and 7).
	Date string

	// Category is the free-form grouping label used for aggregation.
	Category string

	// Name is the item description.
	Name string

	// Price is the unit price. Always >= 0.
	Price float64

	// Quantity is the number of units bought. Always > 0.
	Quantity float64
}

// Total returns price * quantity. It is derived, never stored.
func (r Record) Total() float64 {
	return r.Price * r.Quantity
}
