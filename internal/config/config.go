// Package config provides configuration loading and validation for the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the CLI configuration that can be loaded from a YAML file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Source   SourceConfig   `yaml:"source"`
	Import   ImportConfig   `yaml:"import"`
	Courts   CourtsConfig   `yaml:"courts"`
	Logging  LoggingConfig  `yaml:"logging"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// DatabaseConfig selects the store clusters are written to
type DatabaseConfig struct {
	Driver     string `yaml:"driver" validate:"omitempty,oneof=postgres sqlite"`
	URL        string `yaml:"url"`         // PostgreSQL connection URL
	SQLitePath string `yaml:"sqlite_path"` // database file for the sqlite driver
}

// SourceConfig says where source documents are read from. Dir and S3 are
// mutually exclusive.
type SourceConfig struct {
	Dir string   `yaml:"dir"`
	S3  S3Config `yaml:"s3"`
}

// S3Config locates a bucket of case-law JSON documents
type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // S3-compatible endpoint, path-style addressing
}

// ImportConfig controls a batch
type ImportConfig struct {
	Workers        int      `yaml:"workers" validate:"gte=0,lte=256"`
	MatchThreshold int      `yaml:"match_threshold" validate:"gte=0,lte=100"`
	MakeSearchable bool     `yaml:"make_searchable"`
	Bankruptcy     bool     `yaml:"bankruptcy"`
	CourtID        string   `yaml:"court_id"`
	Reporter       string   `yaml:"reporter"`
	Volumes        []string `yaml:"volumes"`
	Page           string   `yaml:"page"`
}

// CourtsConfig points at an optional court table replacing the built-in one
type CourtsConfig struct {
	Table string `yaml:"table"`
}

// LoggingConfig controls the zerolog logger
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// ScheduleConfig holds the cron spec for recurring imports
type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

// Defaults returns the configuration used when neither file nor flags set a value.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			SQLitePath: "corpus-merge.db",
		},
		Import: ImportConfig{
			Workers:        4,
			MatchThreshold: 70,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads environment variables from .env files. Missing files are
// ignored; variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration values from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
		if c.Database.Driver == "" {
			c.Database.Driver = DriverPostgres
		}
	}
	if v := os.Getenv("CORPUS_MERGE_S3_BUCKET"); v != "" {
		c.Source.S3.Bucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Source.S3.Region = v
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Validate mutually exclusive fields
	if c.Source.Dir != "" && c.Source.S3.Bucket != "" {
		return fmt.Errorf("config error: 'source.dir' and 'source.s3.bucket' are mutually exclusive")
	}
	if c.Database.Driver == DriverPostgres && c.Database.URL == "" {
		return fmt.Errorf("config error: 'database.url' is required for the postgres driver")
	}

	if c.Courts.Table != "" {
		if _, err := os.Stat(c.Courts.Table); os.IsNotExist(err) {
			return fmt.Errorf("config error: court table not found: %s", c.Courts.Table)
		}
	}
	if c.Source.Dir != "" {
		if _, err := os.Stat(c.Source.Dir); os.IsNotExist(err) {
			return fmt.Errorf("config error: source directory not found: %s", c.Source.Dir)
		}
	}

	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			return fmt.Errorf("config error: invalid schedule %q: %w", c.Schedule.Cron, err)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Database.Driver, defaults.Database.Driver)
	fill(&result.Database.URL, defaults.Database.URL)
	fill(&result.Database.SQLitePath, defaults.Database.SQLitePath)
	fill(&result.Source.Dir, defaults.Source.Dir)
	fill(&result.Source.S3.Bucket, defaults.Source.S3.Bucket)
	fill(&result.Source.S3.Prefix, defaults.Source.S3.Prefix)
	fill(&result.Source.S3.Region, defaults.Source.S3.Region)
	fill(&result.Source.S3.Endpoint, defaults.Source.S3.Endpoint)
	fill(&result.Import.CourtID, defaults.Import.CourtID)
	fill(&result.Import.Reporter, defaults.Import.Reporter)
	fill(&result.Import.Page, defaults.Import.Page)
	fill(&result.Courts.Table, defaults.Courts.Table)
	fill(&result.Logging.Level, defaults.Logging.Level)
	fill(&result.Logging.Format, defaults.Logging.Format)
	fill(&result.Schedule.Cron, defaults.Schedule.Cron)

	// Int fields: use default if zero
	if result.Import.Workers == 0 {
		result.Import.Workers = defaults.Import.Workers
	}
	if result.Import.MatchThreshold == 0 {
		result.Import.MatchThreshold = defaults.Import.MatchThreshold
	}

	if len(result.Import.Volumes) == 0 {
		result.Import.Volumes = defaults.Import.Volumes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
