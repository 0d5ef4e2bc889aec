// =============================================================================
// Purchase Analyzer - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// SOURCES (later sources win):
//   1. Built-in defaults (Default)
//   2. The YAML configuration file (config.yaml by default)
//   3. Environment variables prefixed with PURCHASES_ (e.g. PURCHASES_TOP_N=5)
//   4. Command-line flags, applied by the cmd package
//
// A .env file in the working directory is loaded into the environment by the
// CLI before this module runs, so it behaves like step 3.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/purchase-analyzer/internal/logging"
	"github.com/ginjaninja78/purchase-analyzer/pkg/utils"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "PURCHASES"

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the purchase file to analyze.
	// Default: "purchases.txt"
	InputFile string `mapstructure:"input_file" yaml:"input_file"`

	// ReportFile is where the text report is written.
	// Default: "report.txt"
	ReportFile string `mapstructure:"report_file" yaml:"report_file"`

	// ErrorLogFile receives one entry per rejected line. Empty disables it.
	ErrorLogFile string `mapstructure:"error_log_file" yaml:"error_log_file"`

	// WorkbookFile receives an XLSX export of the analysis. Empty disables it.
	WorkbookFile string `mapstructure:"workbook_file" yaml:"workbook_file"`

	// =========================================================================
	// ARCHIVE SETTINGS
	// =========================================================================

	// ArchiveDir receives a copy of every report. Empty disables archiving.
	ArchiveDir string `mapstructure:"archive_dir" yaml:"archive_dir"`

	// ArchiveFormat is the archived report name.
	// Placeholders: {uuid}, {timestamp}, {date}, {time}, {original}
	// Default: "report_{timestamp}_{uuid}.txt"
	ArchiveFormat string `mapstructure:"archive_format" yaml:"archive_format"`

	// ArchiveSubdirs stores copies under date subdirectories (YYYY/MM/DD).
	// Default: false
	ArchiveSubdirs bool `mapstructure:"archive_subdirs" yaml:"archive_subdirs"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// TopN is the number of expensive purchases shown in the console summary
	// and the workbook. The text report always lists three.
	// Default: 3
	TopN int `mapstructure:"top_n" yaml:"top_n"`

	// MaxLineBytes is the longest accepted input line.
	// Default: 1048576
	MaxLineBytes int `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFormat selects human-readable ("console") or JSON ("json") logs.
	// Default: "console"
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		InputFile:     "purchases.txt",
		ReportFile:    "report.txt",
		ArchiveFormat: "report_{timestamp}_{uuid}.txt",
		TopN:          3,
		MaxLineBytes:  1 << 20,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

var validLogFormats = []string{logging.FormatConsole, logging.FormatJSON}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - path: The YAML configuration file. Empty means DefaultPath.
//   - required: When false a missing file is not an error and the defaults
//               (plus environment overrides) are used.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be read or parsed, or a value is invalid.
func Load(path string, required bool) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) || required {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so environment overrides apply even when
// the key is absent from the file.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input_file", d.InputFile)
	v.SetDefault("report_file", d.ReportFile)
	v.SetDefault("error_log_file", d.ErrorLogFile)
	v.SetDefault("workbook_file", d.WorkbookFile)
	v.SetDefault("archive_dir", d.ArchiveDir)
	v.SetDefault("archive_format", d.ArchiveFormat)
	v.SetDefault("archive_subdirs", d.ArchiveSubdirs)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("max_line_bytes", d.MaxLineBytes)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// applyDefaults fills options that were explicitly set to empty values.
func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.InputFile == "" {
		cfg.InputFile = d.InputFile
	}
	if cfg.ReportFile == "" {
		cfg.ReportFile = d.ReportFile
	}
	if cfg.ArchiveFormat == "" {
		cfg.ArchiveFormat = d.ArchiveFormat
	}
	if cfg.MaxLineBytes == 0 {
		cfg.MaxLineBytes = d.MaxLineBytes
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = d.LogFormat
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks every option and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if c.TopN < 1 {
		problems = append(problems, fmt.Sprintf("invalid top_n %d: must be at least 1", c.TopN))
	}
	if c.MaxLineBytes < 1 {
		problems = append(problems, fmt.Sprintf("invalid max_line_bytes %d: must be at least 1", c.MaxLineBytes))
	}
	if !contains(logging.Levels, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("invalid log_level '%s': must be one of %v", c.LogLevel, logging.Levels))
	}
	if !contains(validLogFormats, c.LogFormat) {
		problems = append(problems, fmt.Sprintf("invalid log_format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}
	if c.InputFile != "" && c.InputFile == c.ReportFile {
		problems = append(problems, fmt.Sprintf("report_file must differ from input_file (%s)", c.InputFile))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// =============================================================================
// WRITING
// =============================================================================

// WriteDefault writes the default configuration as YAML to path.
// An existing file is only replaced when force is true.
func WriteDefault(path string, force bool) error {
	if !force && utils.FileExists(path) {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	header := []byte("# Purchase Analyzer configuration\n" +
		"# Every key can be overridden with a PURCHASES_<KEY> environment variable.\n\n")

	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
