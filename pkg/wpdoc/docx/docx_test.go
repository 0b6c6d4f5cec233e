package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wordimp/pkg/wpdoc"
)

func TestRoundTripThroughLoadAndSave(t *testing.T) {
	doc := wpdoc.NewDocument("Heading\nfirst item\tend\nsecond <item> & more")
	doc.Paragraphs[0].Runs = []wpdoc.StyleRun{{Start: 0, End: 7, Attr: wpdoc.InlineAttr{FontFamily: "Georgia", FontSize: 20, Bold: true, Foreground: wpdoc.Colour{B: 0xcc}}}}
	doc.Paragraphs[2].Runs = []wpdoc.StyleRun{{Start: 7, End: 13, Attr: wpdoc.InlineAttr{FontFamily: wpdoc.DefaultFontFamily, FontSize: 12, Italic: true, Underline: true}}}
	doc.Styles[0] = wpdoc.ParagraphStyle{Alignment: wpdoc.AlignCenter}
	doc.Styles[1] = wpdoc.ParagraphStyle{Alignment: wpdoc.AlignLeft, Indent: 1, List: wpdoc.ListBullet}
	doc.Styles[2] = wpdoc.ParagraphStyle{Alignment: wpdoc.AlignJustify, Indent: 1, List: wpdoc.ListNumbered}

	path := filepath.Join(t.TempDir(), "letter.docx")
	report, err := wpdoc.Save(path, doc)
	require.NoError(t, err)
	require.Empty(t, report.Dropped)
	require.Empty(t, report.Sidecar)
	_, err = os.Stat(wpdoc.SidecarPath(path))
	require.True(t, errors.Is(err, fs.ErrNotExist), "docx keeps paragraph styles inline")

	loaded, _, err := wpdoc.Load(path)
	require.NoError(t, err)
	require.Equal(t, doc.Text(), loaded.Text())
	require.Equal(t, doc.Styles, loaded.Styles)
	for i := range doc.Paragraphs {
		require.Equal(t, wpdoc.SanitizeRuns(doc.Paragraphs[i].Len(), doc.Paragraphs[i].Runs), loaded.Paragraphs[i].Runs, "paragraph %d", i)
	}
}

func TestListMarkersAreNotWrittenAsText(t *testing.T) {
	doc := wpdoc.NewDocument("    • apples\n1. one\n2. two\n- plain")
	bold := wpdoc.InlineAttr{FontFamily: wpdoc.DefaultFontFamily, FontSize: 12, Bold: true}
	doc.Paragraphs[0].Runs = []wpdoc.StyleRun{{Start: 6, End: 11, Attr: bold}}
	doc.Styles[0] = wpdoc.ParagraphStyle{Indent: 1, List: wpdoc.ListBullet}
	doc.Styles[1] = wpdoc.ParagraphStyle{List: wpdoc.ListNumbered}
	doc.Styles[2] = wpdoc.ParagraphStyle{List: wpdoc.ListNumbered}

	blob, err := Codec{}.Encode(doc)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	var xmlDoc string
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			b, err := readZipFile(f)
			require.NoError(t, err)
			xmlDoc = string(b)
		}
	}
	require.NotContains(t, xmlDoc, "•")
	require.NotContains(t, xmlDoc, ">1. ")
	require.NotContains(t, xmlDoc, ">2. ")
	require.Contains(t, xmlDoc, "- plain", "paragraphs without a list keep their text")

	loaded, err := Codec{}.Decode(blob)
	require.NoError(t, err)
	require.Equal(t, "apples\none\ntwo\n- plain", loaded.Text())
	require.Equal(t, wpdoc.SanitizeRuns(6, []wpdoc.StyleRun{{Start: 0, End: 5, Attr: bold}}), loaded.Paragraphs[0].Runs)
	require.Equal(t, doc.Styles, loaded.Styles)
}

func TestPackageContainsRequiredParts(t *testing.T) {
	blob, err := Codec{}.Encode(wpdoc.NewDocument("x"))
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.ElementsMatch(t, []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/numbering.xml",
	}, names)
}

func TestStylesPastLastParagraphAreReported(t *testing.T) {
	doc := wpdoc.NewDocument("only")
	doc.Styles[4] = wpdoc.ParagraphStyle{Alignment: wpdoc.AlignRight}
	report, err := wpdoc.Save(filepath.Join(t.TempDir(), "short.docx"), doc)
	require.NoError(t, err)
	require.Len(t, report.Dropped, 1)
	require.Contains(t, report.Dropped[0], "paragraph style 4")
}

func TestDecodeForeignDocument(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:pPr><w:jc w:val="right"/><w:rPr><w:b/></w:rPr></w:pPr><w:r><w:rPr><w:b w:val="0"/><w:sz w:val="28"/></w:rPr><w:t>Hi</w:t></w:r><w:r><w:br/><w:t>there</w:t></w:r></w:p>
<w:p><w:r><w:instrText>PAGE</w:instrText></w:r><w:del><w:r><w:t>gone</w:t></w:r></w:del><w:r><w:t>kept</w:t></w:r></w:p>
<w:sectPr/></w:body></w:document>`
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	doc, err := Codec{}.Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "Hi\nthere\nkept", doc.Text())
	require.Equal(t, wpdoc.AlignRight, doc.Styles.Get(0).Alignment)
	require.Equal(t, wpdoc.AlignRight, doc.Styles.Get(1).Alignment)
	require.Len(t, doc.Paragraphs[0].Runs, 1)
	require.Equal(t, 14, doc.Paragraphs[0].Runs[0].Attr.FontSize)
	require.False(t, doc.Paragraphs[0].Runs[0].Attr.Bold)
}

func TestDecodeRejectsNonZip(t *testing.T) {
	_, err := Codec{}.Decode([]byte(strings.Repeat("x", 64)))
	require.ErrorIs(t, err, wpdoc.ErrMalformed)
}
