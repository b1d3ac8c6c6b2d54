package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
database:
  driver: postgres
  url: postgres://localhost/corpus
source:
  s3:
    bucket: harvard-cap
    prefix: static/
import:
  workers: 8
  match_threshold: 75
  make_searchable: true
  reporter: Mass.
  volumes: ["453", "454"]
logging:
  level: debug
  format: json
schedule:
  cron: "0 3 * * *"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/corpus", cfg.Database.URL)
	assert.Equal(t, "harvard-cap", cfg.Source.S3.Bucket)
	assert.Equal(t, "static/", cfg.Source.S3.Prefix)
	assert.Equal(t, 8, cfg.Import.Workers)
	assert.Equal(t, 75, cfg.Import.MatchThreshold)
	assert.True(t, cfg.Import.MakeSearchable)
	assert.Equal(t, []string{"453", "454"}, cfg.Import.Volumes)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "0 3 * * *", cfg.Schedule.Cron)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{"empty path", func(*testing.T) string { return "" }, "config path is empty"},
		{"missing file", func(*testing.T) string { return "/nonexistent/path/config.yaml" }, "failed to read config file"},
		{"invalid yaml", func(t *testing.T) string { return writeFile(t, "c.yaml", "database: [") }, "failed to parse config YAML"},
		{"unknown field", func(t *testing.T) string { return writeFile(t, "c.yaml", "databse:\n  url: x\n") }, "failed to parse config YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"bad driver", Config{Database: DatabaseConfig{Driver: "mysql"}}, "config error"},
		{"postgres needs url", Config{Database: DatabaseConfig{Driver: DriverPostgres}}, "'database.url' is required"},
		{"threshold range", Config{Import: ImportConfig{MatchThreshold: 101}}, "config error"},
		{"negative workers", Config{Import: ImportConfig{Workers: -1}}, "config error"},
		{"bad log level", Config{Logging: LoggingConfig{Level: "loud"}}, "config error"},
		{"bad log format", Config{Logging: LoggingConfig{Format: "xml"}}, "config error"},
		{
			"dir and bucket",
			Config{Source: SourceConfig{Dir: dir, S3: S3Config{Bucket: "b"}}},
			"mutually exclusive",
		},
		{"missing dir", Config{Source: SourceConfig{Dir: filepath.Join(dir, "nope")}}, "source directory not found"},
		{"missing court table", Config{Courts: CourtsConfig{Table: filepath.Join(dir, "courts.yaml")}}, "court table not found"},
		{"bad cron", Config{Schedule: ScheduleConfig{Cron: "every day"}}, "invalid schedule"},
		{"good cron", Config{Schedule: ScheduleConfig{Cron: "@daily"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{URL: "postgres://x"},
		Import:   ImportConfig{Workers: 2},
	}

	merged := cfg.MergeWithDefaults(Defaults())
	assert.Equal(t, DriverSQLite, merged.Database.Driver)
	assert.Equal(t, "postgres://x", merged.Database.URL)
	assert.Equal(t, 2, merged.Import.Workers)
	assert.Equal(t, 70, merged.Import.MatchThreshold)
	assert.Equal(t, "info", merged.Logging.Level)
	assert.Equal(t, "console", merged.Logging.Format)

	// The receiver is not modified.
	assert.Empty(t, cfg.Database.Driver)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/corpus")
	t.Setenv("CORPUS_MERGE_S3_BUCKET", "env-bucket")
	t.Setenv("AWS_REGION", "us-west-2")

	var cfg Config
	cfg.ApplyEnv()
	assert.Equal(t, "postgres://env/corpus", cfg.Database.URL)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "env-bucket", cfg.Source.S3.Bucket)
	assert.Equal(t, "us-west-2", cfg.Source.S3.Region)

	// An explicit driver is kept.
	cfg = Config{Database: DatabaseConfig{Driver: DriverSQLite}}
	cfg.ApplyEnv()
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "CORPUS_MERGE_TEST_VALUE=from-dotenv\n")
	t.Setenv("CORPUS_MERGE_TEST_VALUE", "")
	os.Unsetenv("CORPUS_MERGE_TEST_VALUE")

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv("CORPUS_MERGE_TEST_VALUE"))
	os.Unsetenv("CORPUS_MERGE_TEST_VALUE")
}
