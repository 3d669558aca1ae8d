package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/wordtable/internal/document"
)

const testBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
  xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
  xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
  xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<w:body>
  <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Report</w:t></w:r></w:p>
  <w:p><w:pPr><w:pStyle w:val="CnTitle2"/></w:pPr><w:r><w:t>Section</w:t></w:r></w:p>
  <w:p><w:r><w:t xml:space="preserve">See </w:t></w:r><w:hyperlink r:id="rId9"><w:r><w:t>site</w:t></w:r></w:hyperlink><w:r><w:br/><w:t>next</w:t></w:r></w:p>
  <w:tbl>
    <w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>
    <w:tblGrid><w:gridCol/><w:gridCol/><w:gridCol/></w:tblGrid>
    <w:tr>
      <w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>
      <w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>B</w:t></w:r></w:p></w:tc>
    </w:tr>
    <w:tr>
      <w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>
      <w:tc><w:p><w:r><w:t>C1</w:t></w:r></w:p><w:p><w:r><w:t>C2</w:t></w:r></w:p></w:tc>
      <w:tc>
        <w:tbl><w:tr><w:tc><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
        <w:p/>
      </w:tc>
    </w:tr>
  </w:tbl>
  <w:p><w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr><w:r><w:t>item</w:t></w:r></w:p>
  <w:p><w:r><w:drawing><wp:inline><wp:docPr id="1" name="Picture 1" descr="chart"/><a:graphic><a:graphicData><a:blip r:embed="rId5"/></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>
  <w:p><w:r><w:fldChar w:fldCharType="begin"/></w:r><w:r><w:instrText>PAGE</w:instrText></w:r><w:r><w:t>1</w:t></w:r><w:del><w:r><w:delText>gone</w:delText></w:r></w:del></w:p>
  <w:sectPr/>
</w:body>
</w:document>`

const testStyles = `<?xml version="1.0" encoding="UTF-8"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
  <w:style w:type="paragraph" w:styleId="CnTitle2"><w:name w:val="标题 2"/></w:style>
</w:styles>`

const testRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId5" Type="image" Target="media/image1.png"/>
  <Relationship Id="rId9" Type="hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`

const testCore = `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Quarterly</dc:title>
  <dc:creator>Kim</dc:creator>
</cp:coreProperties>`

func buildPackage(t *testing.T, parts map[string]string) *Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return r
}

func testPackage(t *testing.T) *Reader {
	return buildPackage(t, map[string]string{
		"word/document.xml":            testBody,
		"word/styles.xml":              testStyles,
		"word/_rels/document.xml.rels": testRels,
		"docProps/core.xml":            testCore,
	})
}

type recorder struct {
	sb strings.Builder
}

func (r *recorder) StartElement(name string, attrs map[string]string) {
	r.sb.WriteString("<" + name)
	for _, k := range []string{"class", "colspan", "vmerge", "href", "alt", "src"} {
		if v, ok := attrs[k]; ok {
			r.sb.WriteString(" " + k + "=" + v)
		}
	}
	r.sb.WriteString(">")
}

func (r *recorder) EndElement(name string) { r.sb.WriteString("</" + name + ">") }
func (r *recorder) Characters(text string)  { r.sb.WriteString(text) }

func TestWalkEvents(t *testing.T) {
	r := testPackage(t)

	var rec recorder
	require.NoError(t, r.Walk(&rec))
	out := rec.sb.String()

	assert.Contains(t, out, "<h1>Report</h1>")
	assert.Contains(t, out, "<p class=标题_2>Section</p>")
	assert.Contains(t, out, "<p>See <a href=https://example.com>site</a><br></br>next</p>")
	assert.Contains(t, out, "<td vmerge=restart><p>A</p></td>")
	assert.Contains(t, out, "<td colspan=2><p>B</p></td>")
	assert.Contains(t, out, "<td vmerge=continue><p></p></td>")
	assert.Contains(t, out, "<table><tr><td><p>inner</p></td></tr></table>")
	assert.Contains(t, out, "<li>item</li>")
	assert.Contains(t, out, "<img alt=chart src=word/media/image1.png></img>")
	assert.Contains(t, out, "<p>1</p>")
	assert.NotContains(t, out, "PAGE")
	assert.NotContains(t, out, "gone")
}

func TestTables(t *testing.T) {
	r := testPackage(t)

	tables, err := r.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 1)

	rows := tables[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, []document.ExplicitCell{
		{Text: "A", GridSpan: 1, VMerge: document.VMergeRestart},
		{Text: "B", GridSpan: 2},
	}, rows[0])
	assert.Equal(t, []document.ExplicitCell{
		{Text: "", GridSpan: 1, VMerge: document.VMergeContinue},
		{Text: "C1\nC2", GridSpan: 1},
		{Text: "inner", GridSpan: 1},
	}, rows[1])
}

func TestMetadata(t *testing.T) {
	r := testPackage(t)
	assert.Equal(t, map[string]string{"title": "Quarterly", "author": "Kim"}, r.Metadata())
}

func TestOpenRequiresDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestStyleIDWithoutStylesPart(t *testing.T) {
	r := buildPackage(t, map[string]string{"word/document.xml": testBody})

	var rec recorder
	require.NoError(t, r.Walk(&rec))
	assert.Contains(t, rec.sb.String(), "<h1>Report</h1>")
	assert.Contains(t, rec.sb.String(), "<p class=CnTitle2>Section</p>")
}
