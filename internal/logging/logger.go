// =============================================================================
// Purchase Analyzer - Logging
// =============================================================================
//
// Structured logging built on zerolog. Logs go to stderr by default so the
// summary printed on stdout stays machine-friendly.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRunID      = "run_id"
	FieldOperation  = "operation"
	FieldFile       = "file"
	FieldLine       = "line"
	FieldLines      = "lines"
	FieldPurchases  = "purchases"
	FieldErrors     = "errors"
	FieldTotal      = "total"
	FieldCategories = "categories"
	FieldDuration   = "duration_ms"
)

// Component names.
const (
	ComponentAnalyzer = "analyzer"
	ComponentConfig   = "config"
)

// Operation names.
const (
	OpScan     = "scan"
	OpValidate = "validate"
	OpRender   = "render"
	OpExport   = "export"
	OpArchive  = "archive"
)

// Formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Levels lists the accepted level names, most verbose first.
var Levels = []string{"debug", "info", "warn", "error"}

// Config holds logger configuration.
type Config struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string

	// Format is FormatConsole or FormatJSON.
	Format string

	// Output is where log lines are written. Default: os.Stderr.
	Output io.Writer

	// Component is attached to every entry when set.
	Component string
}

// New creates a logger from cfg.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(cfg.Format) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: !isTerminal(out)}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", cfg.Format)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.Component != "" {
		logger = WithComponent(logger, cfg.Component)
	}
	return logger, nil
}

// WithComponent returns a child logger tagged with a component name.
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str(FieldComponent, component).Logger()
}

// ParseLevel converts a level name into a zerolog level. An empty name is info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(name) {
	case "":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
