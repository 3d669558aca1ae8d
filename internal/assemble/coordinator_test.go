package assemble

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/wordtable/internal/document"
	"github.com/hanpama/wordtable/internal/xhtml"
)

func newCoordinator(t *testing.T, opts ...Option) *Coordinator {
	t.Helper()
	c, err := NewClassifier(DefaultHeadingConfig())
	require.NoError(t, err)
	return New(c, append([]Option{WithTempDir(t.TempDir())}, opts...)...)
}

func entry(content, cellText string) Entry {
	return Entry{Content: content, Fingerprint: Fingerprint(cellText)}
}

const twoTables = `<h1>Title</h1>
<p>Intro &lt;text&gt;</p>
<table><tr><td>a</td><td>b</td></tr></table>
<p class="标题_2">Middle</p>
<table><tr><td>c</td></tr></table>
<p>End<img alt="logo" src="img/1.png"></p>`

func TestAssembleSubstitutesInOrder(t *testing.T) {
	c := newCoordinator(t)

	out, err := c.Assemble(xhtml.New(strings.NewReader(twoTables)), []Entry{
		entry("<table>T0</table>", "ab"),
		entry("<table>T1</table>", "c"),
	})
	require.NoError(t, err)

	want := "# Title\n\nIntro &lt;text&gt;\n\n<table>T0</table>\n\n## Middle\n\n<table>T1</table>\n\nEnd![logo](img/1.png)\n"
	assert.Equal(t, want, out.Content)
	assert.Equal(t, 2, out.Placeholders)
	assert.Equal(t, 2, out.Substituted)
	assert.Zero(t, out.Appended)
	assert.Empty(t, out.Warnings)
}

func TestAssembleAppendsUnconsumedTables(t *testing.T) {
	var buf bytes.Buffer
	c := newCoordinator(t, WithLogger(zerolog.New(&buf)))

	out, err := c.Assemble(xhtml.New(strings.NewReader(twoTables)), []Entry{
		entry("T0", "ab"),
		entry("T1", "c"),
		entry("T2", "zzz"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(out.Content, "T1\n\nEnd![logo](img/1.png)\n\nT2\n"), out.Content)
	assert.Less(t, strings.Index(out.Content, "T0"), strings.Index(out.Content, "T1"))
	assert.Equal(t, 1, out.Appended)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "2 placeholders, 3 extracted tables")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "table count mismatch")
}

func TestAssembleDropsSurplusPlaceholders(t *testing.T) {
	c := newCoordinator(t)

	out, err := c.Assemble(xhtml.New(strings.NewReader(twoTables)), []Entry{entry("T0", "ab")})
	require.NoError(t, err)

	assert.NotContains(t, out.Content, DefaultPlaceholder)
	assert.Contains(t, out.Content, "T0\n\n## Middle\n\nEnd")
	assert.Len(t, out.Warnings, 1)
}

func TestAssembleReportsFingerprintMismatch(t *testing.T) {
	c := newCoordinator(t)

	out, err := c.Assemble(xhtml.New(strings.NewReader(twoTables)), []Entry{
		entry("T0", "c"),
		entry("T1", "ab"),
	})
	require.NoError(t, err)

	assert.Len(t, out.Warnings, 2)
	assert.Contains(t, out.Content, "T0")
}

func TestAssembleNestedTableIsOnePlaceholder(t *testing.T) {
	c := newCoordinator(t)
	src := `<table><tr><td>a<table><tr><td>b</td></tr></table></td></tr></table><p>after</p>`

	out, err := c.Assemble(xhtml.New(strings.NewReader(src)), []Entry{entry("T0", "a b")})
	require.NoError(t, err)

	assert.Equal(t, "T0\n\nafter\n", out.Content)
	assert.Empty(t, out.Warnings)
}

func TestAssembleInlineTables(t *testing.T) {
	c := newCoordinator(t, WithInlineTables(true))
	src := `<p>before</p><table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>`

	out, err := c.Assemble(xhtml.New(strings.NewReader(src)), nil)
	require.NoError(t, err)

	assert.Equal(t, "before\n\na | b\nc | d\n", out.Content)
}

func TestAssembleSkipsTablesWithoutCells(t *testing.T) {
	c := newCoordinator(t)
	src := `<p>Before</p><table></table><p>Middle</p><table><tr></tr></table>` +
		`<table><tr><td>real</td></tr></table><p>After</p>`

	out, err := c.Assemble(xhtml.New(strings.NewReader(src)), []Entry{entry("T0", "real")})
	require.NoError(t, err)

	assert.Equal(t, "Before\n\nMiddle\n\nT0\n\nAfter\n", out.Content)
	assert.Equal(t, 1, out.Placeholders)
	assert.Empty(t, out.Warnings)
}

func TestAssembleCountsPlaceholdersInProse(t *testing.T) {
	var buf bytes.Buffer
	c := newCoordinator(t, WithPlaceholder("@@TABLE@@"), WithLogger(zerolog.New(&buf)))
	src := `<p>see @@TABLE@@ here</p><table><tr><td>a</td></tr></table>`

	out, err := c.Assemble(xhtml.New(strings.NewReader(src)), []Entry{entry("T0", "a")})
	require.NoError(t, err)

	assert.Equal(t, "see T0 here\n", out.Content)
	assert.Equal(t, 2, out.Placeholders)
	assert.Equal(t, 1, out.Substituted)
	assert.Zero(t, out.Appended)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "placeholder text occurs 1 time(s) outside tables")
	assert.Contains(t, buf.String(), "placeholder text found in prose")
}

type failingSource struct{}

func (failingSource) Walk(h document.Handler) error {
	h.StartElement("p", nil)
	h.Characters("partial")
	return errors.New("broken container")
}

func TestAssembleRemovesTempFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	c, err := NewClassifier(DefaultHeadingConfig())
	require.NoError(t, err)

	_, err = New(c, WithTempDir(dir)).Assemble(failingSource{}, nil)
	require.ErrorContains(t, err, "broken container")

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSubstitute(t *testing.T) {
	p := DefaultPlaceholder

	q := NewQueue([]Entry{{Content: "A"}, {Content: "B"}})
	assert.Equal(t, "x A y B z", Substitute("x "+p+" y "+p+" z", q, p))
	assert.Equal(t, 2, q.Consumed())

	q = NewQueue([]Entry{{Content: "A"}})
	assert.Equal(t, "A  ", Substitute(p+" "+p+" ", q, p))

	q = NewQueue([]Entry{{Content: "A"}, {Content: "B"}})
	assert.Equal(t, "text\n\nA\n\n\n\nB\n\n", Substitute("text", q, p))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\n\nb\n", Normalize("\n\na  \n\n\n\n  \nb\n\n"))
	assert.Equal(t, "", Normalize(" \n\n "))
}

func TestFingerprintIgnoresSpacing(t *testing.T) {
	assert.Equal(t, Fingerprint("a b\nc"), Fingerprint("abc"))
	assert.Equal(t, Fingerprint("ＡＢ"), Fingerprint("AB"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
}
