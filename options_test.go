package wordtable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/wordtable/internal/assemble"
)

func TestPresetsAreValid(t *testing.T) {
	for _, name := range []string{"default", "rag", "rag-markdown", "performance", "full"} {
		opts, err := Preset(name)
		require.NoError(t, err, name)
		assert.NoError(t, opts.Validate(), name)
	}

	_, err := Preset("turbo")
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestPresetValues(t *testing.T) {
	hp := HighPerformance()
	assert.False(t, hp.IncludeMetadata)
	assert.Equal(t, SkipErrors, hp.ErrorStrategy)
	assert.Equal(t, 8, hp.MaxConcurrency)
	assert.Equal(t, 60*time.Second, hp.Timeout)
	assert.Equal(t, FormatPlainText, hp.OutputFormat)

	full := FullFeature()
	assert.True(t, full.IncludeMetadata)
	assert.Equal(t, 600*time.Second, full.Timeout)

	assert.True(t, RAGOptimized().TableAsHTML)
	assert.False(t, RAGMarkdownOptimized().TableAsHTML)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"size", func(o *Options) { o.MaxDocumentSizeMB = 0 }},
		{"concurrency", func(o *Options) { o.MaxConcurrency = -1 }},
		{"timeout", func(o *Options) { o.Timeout = -time.Second }},
		{"format", func(o *Options) { o.OutputFormat = "pdf" }},
		{"strategy", func(o *Options) { o.ErrorStrategy = "retry" }},
		{"headings", func(o *Options) {
			o.Headings = assemble.HeadingConfig{ClassPatterns: []string{"^no-group$"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	ole := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	assert.Equal(t, FormatDoc, DetectFormat(ole, "report.docx"))
	assert.Equal(t, FormatDocx, DetectFormat([]byte("PK\x03\x04rest"), "report.doc"))
	assert.Equal(t, FormatDoc, DetectFormat(nil, "TEMPLATE.DOT"))
	assert.Equal(t, FormatDocx, DetectFormat([]byte("??"), "macro.docm"))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte("%PDF"), "paper.pdf"))
}
