// =============================================================================
// Purchase Analyzer - Record Decoder
// =============================================================================
//
// Decode turns one raw line into a validated Record or rejects it.
//
// DECODING STEPS:
//   1. Trim the whole line; an empty line is rejected
//   2. Split on ';' and require exactly 5 fields
//   3. Trim every field
//   4. Check the date shape (length 10, '-' at index 4 and 7)
//   5. Parse the price (empty means 0)
//   6. Parse the quantity (empty means 0)
//   7. Require price >= 0 and quantity > 0
//   8. Build the record
//
// ERROR HANDLING:
//   A rejected line is a normal outcome, not a failure. Every rejection is a
//   *RejectError whose Reason is one of the sentinel errors below, so callers
//   can classify it with errors.Is.
//
// =============================================================================

package purchase

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// FieldSeparator separates the fields of an input line.
	FieldSeparator = ";"

	// FieldCount is the number of fields every valid line has.
	FieldCount = 5

	// dateLength is the required date length in characters.
	dateLength = 10
)

// Field names used in rejection messages.
const (
	FieldLine     = "line"
	FieldDate     = "date"
	FieldPrice    = "price"
	FieldQuantity = "quantity"
)

// =============================================================================
// REJECTION REASONS
// =============================================================================

var (
	ErrBlankLine           = errors.New("blank line")
	ErrLineTooLong         = errors.New("line too long")
	ErrFieldCount          = errors.New("wrong number of fields")
	ErrDateFormat          = errors.New("malformed date")
	ErrPriceFormat         = errors.New("price is not a number")
	ErrQuantityFormat      = errors.New("quantity is not a number")
	ErrNegativePrice       = errors.New("price is negative")
	ErrNonPositiveQuantity = errors.New("quantity is not positive")
)

// RejectError describes why a line was rejected.
type RejectError struct {
	// Reason is one of the Err* sentinels of this package.
	Reason error

	// Field is the name of the offending field ("line" for whole-line checks).
	Field string

	// Value is the offending value after trimming.
	Value string
}

// Error implements the error interface.
func (e *RejectError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %v (value: '%s')", e.Field, e.Reason, e.Value)
}

// Unwrap exposes the reason to errors.Is.
func (e *RejectError) Unwrap() error {
	return e.Reason
}

func reject(reason error, field, value string) (Record, error) {
	return Record{}, &RejectError{Reason: reason, Field: field, Value: value}
}

// =============================================================================
// DECODER
// =============================================================================

// Decode validates a single input line and returns the purchase it describes.
//
// PARAMETERS:
//   - line: One raw line of the input file, with or without its line ending.
//
// RETURNS:
//   - The decoded Record and a nil error when the line is valid.
//   - The zero Record and a *RejectError otherwise.
func Decode(line string) (Record, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return reject(ErrBlankLine, FieldLine, "")
	}

	parts := strings.Split(line, FieldSeparator)
	if len(parts) != FieldCount {
		return reject(ErrFieldCount, FieldLine, fmt.Sprintf("got %d, want %d", len(parts), FieldCount))
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	date, category, name, priceStr, qtyStr := parts[0], parts[1], parts[2], parts[3], parts[4]

	if !validDateShape(date) {
		return reject(ErrDateFormat, FieldDate, date)
	}

	price, err := parseAmount(priceStr)
	if err != nil {
		return reject(ErrPriceFormat, FieldPrice, priceStr)
	}

	quantity, err := parseAmount(qtyStr)
	if err != nil {
		return reject(ErrQuantityFormat, FieldQuantity, qtyStr)
	}

	if price < 0 {
		return reject(ErrNegativePrice, FieldPrice, priceStr)
	}
	if quantity <= 0 {
		return reject(ErrNonPositiveQuantity, FieldQuantity, qtyStr)
	}

	return Record{
		Date:     date,
		Category: category,
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}, nil
}

// validDateShape checks the YYYY-MM-DD shape only; "2025-99-99" passes.
func validDateShape(date string) bool {
	if utf8.RuneCountInString(date) != dateLength {
		return false
	}
	runes := []rune(date)
	return runes[4] == '-' && runes[7] == '-'
}

// =============================================================================
// NUMBER PARSING
// =============================================================================

// parseAmount parses a decimal floating-point field.
// An empty field is 0. Single underscores between digits are allowed
// ("1_000.50"). "inf" and literals too large for a float64 parse as
// infinity. Hexadecimal literals and NaN are rejected.
func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}

	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return 0, strconv.ErrSyntax
	}

	cleaned, err := stripDigitSeparators(s)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	if math.IsNaN(value) {
		return 0, strconv.ErrSyntax
	}

	return value, nil
}

// stripDigitSeparators removes underscores that sit between two digits and
// fails on any other underscore.
func stripDigitSeparators(s string) (string, error) {
	if !strings.Contains(s, "_") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' {
			b.WriteByte(c)
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", strconv.ErrSyntax
		}
	}
	return b.String(), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
