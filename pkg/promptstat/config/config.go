// Package config holds the settings of an analysis run. Values come from,
// in increasing priority: built-in defaults, a YAML config file,
// PROMPTSTAT_* environment variables and command-line flags bound by the
// caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
)

// EnvPrefix prefixes every environment override, e.g. PROMPTSTAT_PAIRS_TOP_N.
const EnvPrefix = "PROMPTSTAT"

// Frequency controls word frequency tables.
type Frequency struct {
	TopN         int `mapstructure:"top_n" yaml:"top_n"`
	CategoryTopN int `mapstructure:"category_top_n" yaml:"category_top_n"`
}

// Pairs controls co-occurrence tables.
type Pairs struct {
	TopN      int `mapstructure:"top_n" yaml:"top_n"`
	CrossTopN int `mapstructure:"cross_top_n" yaml:"cross_top_n"`
	MinCount  int `mapstructure:"min_count" yaml:"min_count"`
}

// Consistency lists the categories compared between prompts and tags.
type Consistency struct {
	Categories []string `mapstructure:"categories" yaml:"categories"`
}

// Report selects which outputs are written.
type Report struct {
	Workbook bool `mapstructure:"workbook" yaml:"workbook"`
	Database bool `mapstructure:"database" yaml:"database"`
	JSON     bool `mapstructure:"json" yaml:"json"`
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config is the full run configuration.
type Config struct {
	OutputDir      string      `mapstructure:"output_dir" yaml:"output_dir"`
	DictionaryPath string      `mapstructure:"dictionary_path" yaml:"dictionary_path"`
	VocabularyPath string      `mapstructure:"vocabulary_path" yaml:"vocabulary_path"`
	DatabasePath   string      `mapstructure:"database_path" yaml:"database_path"`
	StripMarkup    bool        `mapstructure:"strip_markup" yaml:"strip_markup"`
	DetectLanguage bool        `mapstructure:"detect_language" yaml:"detect_language"`
	Frequency      Frequency   `mapstructure:"frequency" yaml:"frequency"`
	Pairs          Pairs       `mapstructure:"pairs" yaml:"pairs"`
	Consistency    Consistency `mapstructure:"consistency" yaml:"consistency"`
	Report         Report      `mapstructure:"report" yaml:"report"`
	Log            Log         `mapstructure:"log" yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Frequency: Frequency{TopN: 30, CategoryTopN: 20},
		Pairs:     Pairs{TopN: 30, CrossTopN: 30, MinCount: 1},
		Consistency: Consistency{
			Categories: []string{lexicon.Genres, lexicon.Emotions, lexicon.Narrative},
		},
		Report: Report{Workbook: true, Database: true, JSON: true},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// DefaultPath is $HOME/.promptstat/config.yaml, or "" without a home dir.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".promptstat", "config.yaml")
}

// Database returns the run database path: database_path when set,
// otherwise $HOME/.promptstat/runs.db, or runs.db in the working
// directory without a home dir.
func (c Config) Database() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "runs.db"
	}
	return filepath.Join(home, ".promptstat", "runs.db")
}

// SetDefaults registers every key with its default so environment
// variables are honoured for all of them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("dictionary_path", d.DictionaryPath)
	v.SetDefault("vocabulary_path", d.VocabularyPath)
	v.SetDefault("database_path", d.DatabasePath)
	v.SetDefault("strip_markup", d.StripMarkup)
	v.SetDefault("detect_language", d.DetectLanguage)
	v.SetDefault("frequency.top_n", d.Frequency.TopN)
	v.SetDefault("frequency.category_top_n", d.Frequency.CategoryTopN)
	v.SetDefault("pairs.top_n", d.Pairs.TopN)
	v.SetDefault("pairs.cross_top_n", d.Pairs.CrossTopN)
	v.SetDefault("pairs.min_count", d.Pairs.MinCount)
	v.SetDefault("consistency.categories", d.Consistency.Categories)
	v.SetDefault("report.workbook", d.Report.Workbook)
	v.SetDefault("report.database", d.Report.Database)
	v.SetDefault("report.json", d.Report.JSON)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads the configuration into v. An explicit path must exist; with
// an empty path $HOME/.promptstat/config.yaml is used when present.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".promptstat"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %v: %w", err, internalerr.ErrInvalidConfig)
		}
	} else {
		log.WithField("path", v.ConfigFileUsed()).Debug("using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var problems []string
	if c.Frequency.TopN < 0 || c.Frequency.CategoryTopN < 0 {
		problems = append(problems, "frequency cutoffs must not be negative")
	}
	if c.Pairs.TopN < 0 || c.Pairs.CrossTopN < 0 {
		problems = append(problems, "pair cutoffs must not be negative")
	}
	if c.Pairs.MinCount < 1 {
		problems = append(problems, "pairs.min_count must be at least 1")
	}
	for _, cat := range c.Consistency.Categories {
		if strings.TrimSpace(cat) == "" || cat == lexicon.Other {
			problems = append(problems, fmt.Sprintf("invalid consistency category %q", cat))
		}
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			problems = append(problems, err.Error())
		}
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(problems, "; "), internalerr.ErrInvalidConfig)
	}
	return nil
}

// YAML renders the configuration as a config file.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
