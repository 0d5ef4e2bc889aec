// =============================================================================
// Purchase Analyzer - File Scanner
// =============================================================================
//
// This module reads a purchase file line by line and classifies every line
// with purchase.Decode. It provides:
//   - A streaming Scanner (Next/Line/Err/Close) for callers that want every
//     outcome, including rejected lines
//   - Scan, which collects valid records and rejections in a single pass
//   - ReadPurchases and CountErrors, the two entry points the pipeline uses
//
// LINE SEMANTICS:
//   - "\n", "\r\n" and a lone "\r" each terminate a line
//   - A final line without a terminator still counts
//   - An empty file has zero lines
//   - Blank lines are lines too and are classified as errors
//   - A line longer than the configured limit is rejected as too long
//
// ERROR HANDLING:
//   - Malformed lines are never errors here, they are rejections
//   - A missing or unreadable path is reported as a *FileAccessError
//   - Invalid UTF-8 and read failures abort the scan and are returned wrapped
//
// =============================================================================

package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/purchase-analyzer/internal/purchase"
)

// DefaultMaxLineBytes is the longest line the scanner accepts by default.
const DefaultMaxLineBytes = 1 << 20

// ErrInvalidEncoding is returned when a line is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")

// =============================================================================
// FILE ACCESS ERRORS
// =============================================================================

// FileAccessError reports that the input file could not be opened.
// Use errors.Is(err, fs.ErrNotExist) to tell a missing file apart from other
// access problems.
type FileAccessError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileAccessError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the file does not exist.
func (e *FileAccessError) NotFound() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// =============================================================================
// OPTIONS
// =============================================================================

type options struct {
	maxLineBytes int
}

// Option configures a Scanner.
type Option func(*options)

// WithMaxLineBytes limits the length of a single line.
// Values below 1 keep the default.
func WithMaxLineBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineBytes = n
		}
	}
}

// =============================================================================
// LINE OUTCOME
// =============================================================================

// Line is the classification of one input line.
type Line struct {
	// Number is the 1-indexed line number in the file.
	Number int

	// Text is the raw line without its line ending.
	Text string

	// Record is the decoded purchase. Only meaningful when Err is nil.
	Record purchase.Record

	// Err is the rejection reason (*purchase.RejectError) or nil.
	Err error
}

// Valid reports whether the line decoded into a record.
func (l Line) Valid() bool {
	return l.Err == nil
}

// =============================================================================
// STREAMING SCANNER
// =============================================================================

// Scanner walks a purchase file one line at a time.
//
// USAGE:
//   s, err := scanner.Open(path)
//   if err != nil {
//       return err
//   }
//   defer s.Close()
//
//   for s.Next() {
//       line := s.Line()
//       // Inspect line.Valid(), line.Record, line.Err...
//   }
//
//   if err := s.Err(); err != nil {
//       return err
//   }
type Scanner struct {
	file    *os.File
	lines   *bufio.Scanner
	current Line
	number  int
	err     error

	maxLineBytes int

	// truncated marks the current token as the prefix of an oversized line;
	// discarding is set while the rest of that line is skipped.
	truncated  bool
	discarding bool
}

// Open opens the file at path for scanning.
//
// PARAMETERS:
//   - path: The purchase file to read.
//   - opts: Optional scanner settings.
//
// RETURNS:
//   - A Scanner positioned before the first line.
//   - A *FileAccessError if the file cannot be opened or is a directory.
func Open(path string, opts ...Option) (*Scanner, error) {
	o := options{maxLineBytes: DefaultMaxLineBytes}
	for _, opt := range opts {
		opt(&o)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &FileAccessError{Path: path, Err: err}
	}
	if info.IsDir() {
		file.Close()
		return nil, &FileAccessError{Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}

	s := &Scanner{file: file, maxLineBytes: o.maxLineBytes}

	// The buffer leaves room for a "\r\n" after the longest line so split
	// always sees an oversized line before bufio gives up with ErrTooLong.
	limit := o.maxLineBytes + 2
	initial := 64 * 1024
	if limit < initial {
		initial = limit
	}
	s.lines = bufio.NewScanner(file)
	s.lines.Buffer(make([]byte, 0, initial), limit)
	s.lines.Split(s.split)

	return s, nil
}

// split is a bufio.SplitFunc that ends lines at "\n", "\r\n" or a lone "\r".
// Lines longer than maxLineBytes are cut to the limit and the remainder of
// the line is dropped.
func (s *Scanner) split(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	end, advance := lineEnd(data, atEOF)
	if advance > 0 {
		if s.discarding {
			s.discarding = false
			return advance, nil, nil
		}
		if end > s.maxLineBytes {
			s.truncated = true
			return advance, data[:s.maxLineBytes], nil
		}
		return advance, data[:end], nil
	}

	if len(data) <= s.maxLineBytes+1 {
		return 0, nil, nil
	}

	// No terminator within the limit. Keep a trailing '\r' so a following
	// '\n' is still recognized as part of the same terminator.
	n := len(data)
	if data[n-1] == '\r' {
		n--
	}
	if s.discarding {
		return n, nil, nil
	}
	s.discarding = true
	s.truncated = true
	return n, data[:s.maxLineBytes], nil
}

// lineEnd finds the first line terminator in data. It returns the length of
// the line and the number of bytes to consume, or 0, 0 when more data is
// needed.
func lineEnd(data []byte, atEOF bool) (end, advance int) {
	i := bytes.IndexAny(data, "\r\n")
	switch {
	case i < 0:
		if atEOF {
			return len(data), len(data)
		}
		return 0, 0
	case data[i] == '\n':
		return i, i + 1
	case i+1 < len(data):
		if data[i+1] == '\n' {
			return i, i + 2
		}
		return i, i + 1
	case atEOF:
		return i, i + 1
	}
	// A '\r' at the end of the buffer may be the first half of "\r\n".
	return 0, 0
}

// Next advances to the next line. It returns false at the end of the file or
// when reading fails; check Err afterwards.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	if !s.lines.Scan() {
		if err := s.lines.Err(); err != nil {
			s.err = fmt.Errorf("failed to read line %d: %w", s.number+1, err)
		}
		return false
	}

	s.number++
	text := s.lines.Text()
	if s.truncated {
		s.truncated = false
		s.current = Line{
			Number: s.number,
			Text:   strings.ToValidUTF8(text, ""),
			Err: &purchase.RejectError{
				Reason: purchase.ErrLineTooLong,
				Field:  purchase.FieldLine,
				Value:  fmt.Sprintf("longer than %d bytes", s.maxLineBytes),
			},
		}
		return true
	}
	if !utf8.ValidString(text) {
		s.err = fmt.Errorf("line %d: %w", s.number, ErrInvalidEncoding)
		return false
	}

	record, err := purchase.Decode(text)
	s.current = Line{
		Number: s.number,
		Text:   text,
		Record: record,
		Err:    err,
	}
	return true
}

// Line returns the current line outcome.
func (s *Scanner) Line() Line {
	return s.current
}

// LineNumber returns the number of lines read so far.
func (s *Scanner) LineNumber() int {
	return s.number
}

// Err returns the first read error, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Close closes the underlying file.
func (s *Scanner) Close() error {
	return s.file.Close()
}

// =============================================================================
// SINGLE-PASS HELPERS
// =============================================================================

// Result holds the outcome of scanning a whole file.
type Result struct {
	// Records are the valid purchases in file order.
	Records []purchase.Record

	// Rejections are the invalid lines in file order.
	Rejections []Line

	// TotalLines is the number of lines seen, blank lines included.
	TotalLines int
}

// ErrorCount returns the number of invalid lines.
func (r *Result) ErrorCount() int {
	return r.TotalLines - len(r.Records)
}

// Scan reads the whole file and classifies every line.
// The file is closed before Scan returns.
func Scan(path string, opts ...Option) (*Result, error) {
	s, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	result := &Result{
		Records: []purchase.Record{},
	}
	for s.Next() {
		line := s.Line()
		if line.Valid() {
			result.Records = append(result.Records, line.Record)
		} else {
			result.Rejections = append(result.Rejections, line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	result.TotalLines = s.LineNumber()
	return result, nil
}

// ReadPurchases returns the valid purchases of the file in file order.
// Invalid lines are skipped.
func ReadPurchases(path string, opts ...Option) ([]purchase.Record, error) {
	result, err := Scan(path, opts...)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// CountErrors returns the number of invalid lines in the file, blank lines
// included. It applies exactly the same rules as ReadPurchases.
func CountErrors(path string, opts ...Option) (int, error) {
	s, err := Open(path, opts...)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	valid := 0
	for s.Next() {
		if s.Line().Valid() {
			valid++
		}
	}
	if err := s.Err(); err != nil {
		return 0, err
	}

	return s.LineNumber() - valid, nil
}
