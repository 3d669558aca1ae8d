package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/wordtable"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "wordtable.yaml", `
preset: rag
tables:
  html: false
output:
  format: text
limits:
  maxConcurrency: 2
  timeout: 90s
headings:
  classPatterns: ['(?i)^title_(\d)$']
`)
	fc, err := LoadFile(path)
	require.NoError(t, err)

	opts, err := fc.Options()
	require.NoError(t, err)
	assert.False(t, opts.TableAsHTML)
	assert.True(t, opts.IncludeMetadata)
	assert.Equal(t, wordtable.FormatPlainText, opts.OutputFormat)
	assert.Equal(t, 2, opts.MaxConcurrency)
	assert.Equal(t, 90*time.Second, opts.Timeout)
	assert.Equal(t, []string{`(?i)^title_(\d)$`}, opts.Headings.ClassPatterns)
	assert.Len(t, opts.Headings.Tags, 9)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "wordtable.json", `{
  "tables": {"extract": false},
  "limits": {"timeout": "30s"},
  "errorStrategy": "fail-fast"
}`)
	fc, err := LoadFile(path)
	require.NoError(t, err)

	opts, err := fc.Options()
	require.NoError(t, err)
	assert.False(t, opts.EnableTableExtraction)
	assert.Equal(t, wordtable.FailFast, opts.ErrorStrategy)
	assert.Equal(t, 30*time.Second, opts.Timeout)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "parse json")

	_, err = LoadFile(writeFile(t, "slow.json", `{"limits": {"timeout": "soon"}}`))
	assert.ErrorContains(t, err, "parse json")

	_, err = LoadFile(writeFile(t, "slow.yaml", "limits:\n  timeout: soon\n"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestOptionsRejectsInvalidValues(t *testing.T) {
	var fc FileConfig
	fc.Output.Format = "pdf"
	_, err := fc.Options()
	assert.ErrorIs(t, err, wordtable.ErrInvalidOptions)

	_, err = FileConfig{Preset: "turbo"}.Options()
	assert.ErrorIs(t, err, wordtable.ErrInvalidOptions)
}

func TestLoadEnv(t *testing.T) {
	env := writeFile(t, ".env", "WORDTABLE_FORMAT=html\nWORDTABLE_MAX_SIZE_MB=10\n")
	t.Setenv(EnvFormat, "")
	t.Setenv(EnvMaxSizeMB, "")
	os.Unsetenv(EnvFormat)
	os.Unsetenv(EnvMaxSizeMB)
	t.Setenv(EnvMetadata, "true")
	t.Setenv(EnvTimeout, "5s")

	fc, err := LoadEnv(env, filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "html", fc.Output.Format)
	assert.Equal(t, 10, fc.Limits.MaxDocumentSizeMB)
	require.NotNil(t, fc.Output.Metadata)
	assert.True(t, *fc.Output.Metadata)
	assert.Equal(t, Duration(5*time.Second), fc.Limits.Timeout)
}

func TestLoadEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv(EnvMaxConcurrency, "many")
	_, err := LoadEnv()
	assert.ErrorContains(t, err, EnvMaxConcurrency)
}

func TestMergePrefersLaterValues(t *testing.T) {
	var file, env FileConfig
	file.Output.Format = "markdown"
	file.Limits.MaxConcurrency = 3
	env.Output.Format = "json"

	merged := file.Merge(env)
	assert.Equal(t, "json", merged.Output.Format)
	assert.Equal(t, 3, merged.Limits.MaxConcurrency)
}
