package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultLeavesMarkupAlone(t *testing.T) {
	assert.False(t, Default().StripMarkup)
	assert.False(t, Default().DetectLanguage)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `output_dir: results
dictionary_path: dict.csv
frequency:
  top_n: 10
pairs:
  min_count: 2
consistency:
  categories:
    - genres
report:
  database: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "results", cfg.OutputDir)
	assert.Equal(t, "dict.csv", cfg.DictionaryPath)
	assert.Equal(t, 10, cfg.Frequency.TopN)
	assert.Equal(t, 20, cfg.Frequency.CategoryTopN, "default kept")
	assert.Equal(t, 2, cfg.Pairs.MinCount)
	assert.Equal(t, 30, cfg.Pairs.TopN)
	assert.Equal(t, []string{"genres"}, cfg.Consistency.Categories)
	assert.False(t, cfg.Report.Database)
	assert.True(t, cfg.Report.Workbook)
	assert.False(t, cfg.StripMarkup)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PROMPTSTAT_PAIRS_TOP_N", "7")
	t.Setenv("PROMPTSTAT_DETECT_LANGUAGE", "true")
	t.Setenv("PROMPTSTAT_STRIP_MARKUP", "true")
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pairs.TopN)
	assert.True(t, cfg.DetectLanguage)
	assert.True(t, cfg.StripMarkup)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs:\n  min_count: 0\nlog:\n  format: xml\n"), 0644))

	_, err := Load(viper.New(), path)
	require.ErrorIs(t, err, internalerr.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "min_count")
	assert.Contains(t, err.Error(), "xml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative top", func(c *Config) { c.Frequency.TopN = -1 }},
		{"negative cross", func(c *Config) { c.Pairs.CrossTopN = -3 }},
		{"other category", func(c *Config) { c.Consistency.Categories = []string{"other"} }},
		{"blank category", func(c *Config) { c.Consistency.Categories = []string{" "} }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), internalerr.ErrInvalidConfig)
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = "out"
	data, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "top_n: 30")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "out", back.OutputDir)
	assert.Equal(t, 30, back.Pairs.CrossTopN)
	assert.True(t, back.Report.JSON)
}

func TestDatabasePath(t *testing.T) {
	cfg := Default()
	cfg.DatabasePath = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.Database())

	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg.DatabasePath = ""
	assert.Equal(t, filepath.Join(home, ".promptstat", "runs.db"), cfg.Database())
}
