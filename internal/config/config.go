// Package config loads converter settings from a YAML or JSON file and
// from WORDTABLE_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"

	"github.com/hanpama/wordtable"
)

// FileConfig is the configuration file schema. Unset fields leave the
// corresponding option untouched.
type FileConfig struct {
	Preset string `yaml:"preset" json:"preset"`

	Tables struct {
		Extract *bool `yaml:"extract" json:"extract"`
		HTML    *bool `yaml:"html" json:"html"`
	} `yaml:"tables" json:"tables"`

	Output struct {
		Format   string `yaml:"format" json:"format"`
		Metadata *bool  `yaml:"metadata" json:"metadata"`
	} `yaml:"output" json:"output"`

	Limits struct {
		MaxDocumentSizeMB int           `yaml:"maxDocumentSizeMB" json:"maxDocumentSizeMB"`
		MaxConcurrency    int           `yaml:"maxConcurrency" json:"maxConcurrency"`
		Timeout           Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"limits" json:"limits"`

	ErrorStrategy string `yaml:"errorStrategy" json:"errorStrategy"`
	Placeholder   string `yaml:"placeholder" json:"placeholder"`

	Headings struct {
		Tags          map[string]int `yaml:"tags" json:"tags"`
		ClassPatterns []string       `yaml:"classPatterns" json:"classPatterns"`
	} `yaml:"headings" json:"headings"`
}

// Duration is a time.Duration written as a duration string such as "90s",
// in YAML and JSON alike.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// LoadFile reads YAML or JSON into FileConfig, chosen by extension.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// Env variable names.
const (
	EnvPreset         = "WORDTABLE_PRESET"
	EnvFormat         = "WORDTABLE_FORMAT"
	EnvTableHTML      = "WORDTABLE_TABLE_HTML"
	EnvExtractTables  = "WORDTABLE_EXTRACT_TABLES"
	EnvMetadata       = "WORDTABLE_METADATA"
	EnvMaxSizeMB      = "WORDTABLE_MAX_SIZE_MB"
	EnvMaxConcurrency = "WORDTABLE_MAX_CONCURRENCY"
	EnvTimeout        = "WORDTABLE_TIMEOUT"
	EnvErrorStrategy  = "WORDTABLE_ERROR_STRATEGY"
	EnvPlaceholder    = "WORDTABLE_PLACEHOLDER"
)

// LoadEnv loads the given .env files into the process environment, without
// overriding variables already set, and reads WORDTABLE_* variables into a
// FileConfig. Missing .env files are ignored.
func LoadEnv(files ...string) (FileConfig, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return FileConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var fc FileConfig
	fc.Preset = os.Getenv(EnvPreset)
	fc.Output.Format = os.Getenv(EnvFormat)
	fc.ErrorStrategy = os.Getenv(EnvErrorStrategy)
	fc.Placeholder = os.Getenv(EnvPlaceholder)

	var err error
	if fc.Tables.HTML, err = envBool(EnvTableHTML); err != nil {
		return fc, err
	}
	if fc.Tables.Extract, err = envBool(EnvExtractTables); err != nil {
		return fc, err
	}
	if fc.Output.Metadata, err = envBool(EnvMetadata); err != nil {
		return fc, err
	}
	if fc.Limits.MaxDocumentSizeMB, err = envInt(EnvMaxSizeMB); err != nil {
		return fc, err
	}
	if fc.Limits.MaxConcurrency, err = envInt(EnvMaxConcurrency); err != nil {
		return fc, err
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if err := fc.Limits.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fc, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
	}
	return fc, nil
}

func envBool(key string) (*bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &b, nil
}

func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Options starts from the named preset (DefaultOptions when empty), applies
// fc and validates the result.
func (fc FileConfig) Options() (wordtable.Options, error) {
	opts, err := wordtable.Preset(fc.Preset)
	if err != nil {
		return opts, err
	}
	fc.Apply(&opts)
	return opts, opts.Validate()
}

// Apply overlays every field set in fc onto opts.
func (fc FileConfig) Apply(opts *wordtable.Options) {
	if opts == nil {
		return
	}
	if fc.Tables.Extract != nil {
		opts.EnableTableExtraction = *fc.Tables.Extract
	}
	if fc.Tables.HTML != nil {
		opts.TableAsHTML = *fc.Tables.HTML
	}
	if fc.Output.Format != "" {
		opts.OutputFormat = wordtable.OutputFormat(fc.Output.Format)
	}
	if fc.Output.Metadata != nil {
		opts.IncludeMetadata = *fc.Output.Metadata
	}
	if fc.Limits.MaxDocumentSizeMB > 0 {
		opts.MaxDocumentSizeMB = fc.Limits.MaxDocumentSizeMB
	}
	if fc.Limits.MaxConcurrency > 0 {
		opts.MaxConcurrency = fc.Limits.MaxConcurrency
	}
	if fc.Limits.Timeout > 0 {
		opts.Timeout = time.Duration(fc.Limits.Timeout)
	}
	if fc.ErrorStrategy != "" {
		opts.ErrorStrategy = wordtable.ErrorStrategy(fc.ErrorStrategy)
	}
	if fc.Placeholder != "" {
		opts.Placeholder = fc.Placeholder
	}
	if len(fc.Headings.Tags) > 0 {
		opts.Headings.Tags = fc.Headings.Tags
	}
	if len(fc.Headings.ClassPatterns) > 0 {
		opts.Headings.ClassPatterns = fc.Headings.ClassPatterns
	}
}

// Merge returns fc with every field set in other taking precedence.
func (fc FileConfig) Merge(other FileConfig) FileConfig {
	if other.Preset != "" {
		fc.Preset = other.Preset
	}
	if other.Tables.Extract != nil {
		fc.Tables.Extract = other.Tables.Extract
	}
	if other.Tables.HTML != nil {
		fc.Tables.HTML = other.Tables.HTML
	}
	if other.Output.Format != "" {
		fc.Output.Format = other.Output.Format
	}
	if other.Output.Metadata != nil {
		fc.Output.Metadata = other.Output.Metadata
	}
	if other.Limits.MaxDocumentSizeMB > 0 {
		fc.Limits.MaxDocumentSizeMB = other.Limits.MaxDocumentSizeMB
	}
	if other.Limits.MaxConcurrency > 0 {
		fc.Limits.MaxConcurrency = other.Limits.MaxConcurrency
	}
	if other.Limits.Timeout > 0 {
		fc.Limits.Timeout = other.Limits.Timeout
	}
	if other.ErrorStrategy != "" {
		fc.ErrorStrategy = other.ErrorStrategy
	}
	if other.Placeholder != "" {
		fc.Placeholder = other.Placeholder
	}
	if len(other.Headings.Tags) > 0 {
		fc.Headings.Tags = other.Headings.Tags
	}
	if len(other.Headings.ClassPatterns) > 0 {
		fc.Headings.ClassPatterns = other.Headings.ClassPatterns
	}
	return fc
}
