package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "sbaclean/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input      InputConfig      `yaml:"input" envconfig:"INPUT"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Pipeline   PipelineConfig   `yaml:"pipeline" envconfig:"PIPELINE"`
	Validation ValidationConfig `yaml:"validation" envconfig:"VALIDATION"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes where workbooks are read from and how sheets are laid out
type InputConfig struct {
	Dir             string `yaml:"dir" envconfig:"DIR" validate:"required"`
	HeaderRow       int    `yaml:"header_row" envconfig:"HEADER_ROW" validate:"min=0"`
	FormattedValues bool   `yaml:"formatted_values" envconfig:"FORMATTED_VALUES"`
}

// OutputConfig contains extract serialization settings
type OutputConfig struct {
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"required"`
}

// PipelineConfig controls run-level behaviour
type PipelineConfig struct {
	FailFast    bool   `yaml:"fail_fast" envconfig:"FAIL_FAST"`
	SummaryFile string `yaml:"summary_file" envconfig:"SUMMARY_FILE"`
}

// ValidationConfig toggles report-only checks
type ValidationConfig struct {
	CheckColumns bool `yaml:"check_columns" envconfig:"CHECK_COLUMNS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains metrics and tracing configuration.
// Empty file paths disable the corresponding exporter.
type TelemetryConfig struct {
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
}

// DelimiterRune returns the field delimiter as a rune
func (o OutputConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(o.Delimiter)
	return r
}

// Load builds the configuration from defaults, an optional YAML file, an optional
// .env file and SBA_* environment variables, in increasing order of precedence.
// An empty configFile falls back to the well-known locations.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load .env", err)
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config from file %s", configFile), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints and the delimiter
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if utf8.RuneCountInString(c.Output.Delimiter) != 1 {
		return apperrors.NewConfigError(fmt.Sprintf("delimiter must be a single character, got %q", c.Output.Delimiter), nil)
	}
	if strings.ContainsAny(c.Output.Delimiter, "\"\r\n") || c.Output.DelimiterRune() == utf8.RuneError {
		return apperrors.NewConfigError(fmt.Sprintf("invalid delimiter %q", c.Output.Delimiter), nil)
	}

	return nil
}

// getConfigFilePath returns the first config file found in the common locations
func getConfigFilePath() string {
	locations := []string{
		"sbaclean.yaml",
		"configs/sbaclean.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:       DefaultInputDir,
			HeaderRow: DefaultHeaderRow,
		},
		Output: OutputConfig{
			Delimiter: DefaultDelimiter,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
	}
}
