package wordtable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplice(t *testing.T) {
	prose := `<html><head><title>ignored</title></head><body>
<h2>Budget</h2>
<table><tr><td>old</td></tr></table>
<p>Notes</p>
</body></html>`

	out, err := Splice(strings.NewReader(prose), []string{
		"<table>\u200b<tr><td>new</td></tr></table>",
		"<table><tr><td>extra</td></tr></table>",
	}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "## Budget\n\n<table><tr><td>new</td></tr></table>\n\nNotes\n\n<table><tr><td>extra</td></tr></table>\n", out)
	assert.NotContains(t, out, "old")
	assert.NotContains(t, out, "ignored")
}
