// Package docx adds a WordprocessingML (.docx) codec to wpdoc. Import it for
// its side effect:
//
//	import _ "wordimp/pkg/wpdoc/docx"
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wordimp/pkg/wpdoc"
)

const (
	nsW            = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	twipsPerIndent = 720

	numBullet   = 1
	numNumbered = 2
)

type Codec struct{}

func (Codec) Name() string         { return "docx" }
func (Codec) Extensions() []string { return []string{".docx"} }

func (Codec) Native() wpdoc.Capabilities {
	return wpdoc.Capabilities{Inline: true, Alignment: true, Indent: true, List: true}
}

func init() {
	wpdoc.RegisterCodec(Codec{})
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`

const numberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="` + nsW + `">
<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="•"/></w:lvl></w:abstractNum>
<w:abstractNum w:abstractNumId="1"><w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl></w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>`

func (Codec) Encode(doc *wpdoc.Document) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="` + nsW + `"><w:body>`)
	for i, p := range doc.Paragraphs {
		body.WriteString("<w:p>")
		skip := 0
		if st, ok := doc.Styles[i]; ok {
			writeParagraphProps(&body, st)
			// numPr draws the marker, so the literal one is left out.
			skip = wpdoc.MarkerLen(p.Text, st.List)
		}
		runes := []rune(p.Text)
		for _, r := range wpdoc.Coverage(len(runes), p.Runs) {
			start := max(r.Start, skip)
			if start >= r.End {
				continue
			}
			if err := writeRun(&body, string(runes[start:r.End]), r.Attr); err != nil {
				return nil, err
			}
		}
		body.WriteString("</w:p>")
	}
	body.WriteString("</w:body></w:document>")

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/document.xml", body.Bytes()},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/numbering.xml", []byte(numberingXML)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeParagraphProps(buf *bytes.Buffer, st wpdoc.ParagraphStyle) {
	buf.WriteString("<w:pPr>")
	switch st.List {
	case wpdoc.ListBullet:
		fmt.Fprintf(buf, `<w:numPr><w:ilvl w:val="0"/><w:numId w:val="%d"/></w:numPr>`, numBullet)
	case wpdoc.ListNumbered:
		fmt.Fprintf(buf, `<w:numPr><w:ilvl w:val="0"/><w:numId w:val="%d"/></w:numPr>`, numNumbered)
	}
	if st.Indent > 0 {
		fmt.Fprintf(buf, `<w:ind w:left="%d"/>`, st.Indent*twipsPerIndent)
	}
	fmt.Fprintf(buf, `<w:jc w:val="%s"/>`, jcValue(st.Alignment))
	buf.WriteString("</w:pPr>")
}

func writeRun(buf *bytes.Buffer, text string, attr wpdoc.InlineAttr) error {
	attr = wpdoc.NormalizeAttr(attr)
	buf.WriteString("<w:r><w:rPr>")
	buf.WriteString(`<w:rFonts w:ascii="`)
	if err := xml.EscapeText(buf, []byte(attr.FontFamily)); err != nil {
		return err
	}
	buf.WriteString(`" w:hAnsi="`)
	if err := xml.EscapeText(buf, []byte(attr.FontFamily)); err != nil {
		return err
	}
	buf.WriteString(`"/>`)
	if attr.Bold {
		buf.WriteString("<w:b/>")
	}
	if attr.Italic {
		buf.WriteString("<w:i/>")
	}
	fmt.Fprintf(buf, `<w:color w:val="%s"/>`, strings.TrimPrefix(attr.Foreground.Hex(), "#"))
	fmt.Fprintf(buf, `<w:sz w:val="%d"/>`, attr.FontSize*2)
	if attr.Underline {
		buf.WriteString(`<w:u w:val="single"/>`)
	}
	buf.WriteString("</w:rPr>")

	for i, seg := range strings.Split(text, "\t") {
		if i > 0 {
			buf.WriteString("<w:tab/>")
		}
		if seg == "" {
			continue
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		if err := xml.EscapeText(buf, []byte(seg)); err != nil {
			return err
		}
		buf.WriteString("</w:t>")
	}
	buf.WriteString("</w:r>")
	return nil
}

func jcValue(a wpdoc.Alignment) string {
	switch a {
	case wpdoc.AlignCenter:
		return "center"
	case wpdoc.AlignRight:
		return "right"
	case wpdoc.AlignJustify:
		return "both"
	default:
		return "left"
	}
}

func parseJC(v string) wpdoc.Alignment {
	switch v {
	case "center":
		return wpdoc.AlignCenter
	case "right", "end":
		return wpdoc.AlignRight
	case "both", "distribute":
		return wpdoc.AlignJustify
	default:
		return wpdoc.AlignLeft
	}
}

func (Codec) Decode(b []byte) (*wpdoc.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wpdoc.ErrMalformed, err)
	}
	var docXML, numXML []byte
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			if docXML, err = readZipFile(f); err != nil {
				return nil, err
			}
		case "word/numbering.xml":
			if numXML, err = readZipFile(f); err != nil {
				return nil, err
			}
		}
	}
	if docXML == nil {
		return nil, fmt.Errorf("%w: word/document.xml missing", wpdoc.ErrMalformed)
	}
	formats := map[string]wpdoc.ListType{
		strconv.Itoa(numBullet):   wpdoc.ListBullet,
		strconv.Itoa(numNumbered): wpdoc.ListNumbered,
	}
	if numXML != nil {
		if parsed, err := parseNumbering(numXML); err == nil {
			formats = parsed
		}
	}
	return decodeBody(docXML, formats)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", wpdoc.ErrMalformed, f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func attrVal(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// onOff reads a WordprocessingML toggle such as <w:b/> or <w:b w:val="0"/>.
func onOff(se xml.StartElement) bool {
	v, ok := attrVal(se, "val")
	if !ok {
		return true
	}
	switch strings.ToLower(v) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

// parseNumbering maps numId to list type through its abstract definition's
// first level format.
func parseNumbering(b []byte) (map[string]wpdoc.ListType, error) {
	dec := xml.NewDecoder(bytes.NewReader(b))
	abstractFmt := map[string]wpdoc.ListType{}
	numToAbstract := map[string]string{}
	var curAbstract, curNum string
	inLvl0 := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "abstractNum":
				curAbstract, _ = attrVal(t, "abstractNumId")
			case "lvl":
				lvl, _ := attrVal(t, "ilvl")
				inLvl0 = lvl == "0"
			case "numFmt":
				if curAbstract != "" && inLvl0 {
					v, _ := attrVal(t, "val")
					if v == "bullet" {
						abstractFmt[curAbstract] = wpdoc.ListBullet
					} else if v != "none" {
						abstractFmt[curAbstract] = wpdoc.ListNumbered
					}
				}
			case "num":
				curNum, _ = attrVal(t, "numId")
			case "abstractNumId":
				if curNum != "" {
					numToAbstract[curNum], _ = attrVal(t, "val")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "abstractNum":
				curAbstract = ""
			case "lvl":
				inLvl0 = false
			case "num":
				curNum = ""
			}
		}
	}
	out := map[string]wpdoc.ListType{}
	for num, abs := range numToAbstract {
		if lt, ok := abstractFmt[abs]; ok {
			out[num] = lt
		}
	}
	return out, nil
}

type bodyReader struct {
	doc     *wpdoc.Document
	formats map[string]wpdoc.ListType

	inPara, inPPr, inRun, inRPr, inText bool

	text    []rune
	runs    []wpdoc.StyleRun
	style   wpdoc.ParagraphStyle
	styled  bool
	attr    wpdoc.InlineAttr
	numID   string
	skipped int
}

func decodeBody(b []byte, formats map[string]wpdoc.ListType) (*wpdoc.Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(b))
	r := &bodyReader{doc: &wpdoc.Document{Styles: wpdoc.ParagraphStyles{}}, formats: formats}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: document.xml: %v", wpdoc.ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			r.start(t)
		case xml.EndElement:
			r.end(t)
		case xml.CharData:
			if r.inText && r.skipped == 0 {
				r.emit(string(t))
			}
		}
	}
	if len(r.doc.Paragraphs) == 0 {
		r.doc.Paragraphs = []wpdoc.Paragraph{{}}
	}
	return r.doc, nil
}

func (r *bodyReader) start(t xml.StartElement) {
	if r.skipped > 0 {
		r.skipped++
		return
	}
	switch t.Name.Local {
	case "p":
		r.inPara = true
		r.text, r.runs = nil, nil
		r.style, r.styled = wpdoc.DefaultParagraphStyle(), false
		r.numID = ""
	case "pPr":
		r.inPPr = true
	case "rPr":
		r.inRPr = true
	case "r":
		r.inRun = true
		r.attr = wpdoc.DefaultInlineAttr()
	case "t":
		r.inText = true
	case "tab":
		if r.inRun {
			r.emit("\t")
		}
	case "br", "cr":
		if r.inRun {
			r.breakParagraph()
		}
	case "del", "instrText", "footnoteReference", "drawing", "pict", "object":
		r.skipped = 1
	}
	if r.inPPr && !r.inRPr {
		r.paragraphProp(t)
	}
	if r.inRun && r.inRPr {
		r.runProp(t)
	}
}

func (r *bodyReader) paragraphProp(t xml.StartElement) {
	switch t.Name.Local {
	case "jc":
		v, _ := attrVal(t, "val")
		r.style.Alignment = parseJC(v)
		r.styled = true
	case "ind":
		v, ok := attrVal(t, "left")
		if !ok {
			v, ok = attrVal(t, "start")
		}
		if ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				r.style.Indent = (n + twipsPerIndent/2) / twipsPerIndent
			}
			r.styled = true
		}
	case "numId":
		r.numID, _ = attrVal(t, "val")
		r.styled = true
	}
}

func (r *bodyReader) runProp(t xml.StartElement) {
	switch t.Name.Local {
	case "rFonts":
		if v, ok := attrVal(t, "ascii"); ok && v != "" {
			r.attr.FontFamily = v
		} else if v, ok := attrVal(t, "hAnsi"); ok && v != "" {
			r.attr.FontFamily = v
		}
	case "b":
		r.attr.Bold = onOff(t)
	case "i":
		r.attr.Italic = onOff(t)
	case "u":
		v, _ := attrVal(t, "val")
		r.attr.Underline = v != "none" && v != "0"
	case "color":
		if v, ok := attrVal(t, "val"); ok && v != "auto" {
			if c, err := wpdoc.ParseColour(v); err == nil {
				r.attr.Foreground = c
			}
		}
	case "sz":
		if v, ok := attrVal(t, "val"); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 1 {
				r.attr.FontSize = n / 2
			}
		}
	}
}

func (r *bodyReader) end(t xml.EndElement) {
	if r.skipped > 0 {
		r.skipped--
		return
	}
	switch t.Name.Local {
	case "p":
		r.finishParagraph()
		r.inPara = false
	case "pPr":
		r.inPPr = false
	case "rPr":
		r.inRPr = false
	case "r":
		r.inRun = false
	case "t":
		r.inText = false
	}
}

func (r *bodyReader) emit(s string) {
	if !r.inPara {
		return
	}
	attr := wpdoc.NormalizeAttr(r.attr)
	for _, c := range wpdoc.NormalizeNewlines(s) {
		if c == '\n' {
			r.breakParagraph()
			continue
		}
		pos := len(r.text)
		r.text = append(r.text, c)
		if n := len(r.runs); n > 0 && r.runs[n-1].End == pos && r.runs[n-1].Attr == attr {
			r.runs[n-1].End++
			continue
		}
		r.runs = append(r.runs, wpdoc.StyleRun{Start: pos, End: pos + 1, Attr: attr})
	}
}

// breakParagraph splits at a line break. The new paragraph keeps the
// paragraph properties seen so far.
func (r *bodyReader) breakParagraph() {
	style, styled, numID := r.style, r.styled, r.numID
	r.finishParagraph()
	r.style, r.styled, r.numID = style, styled, numID
}

func (r *bodyReader) finishParagraph() {
	idx := len(r.doc.Paragraphs)
	r.doc.Paragraphs = append(r.doc.Paragraphs, wpdoc.Paragraph{
		Text: string(r.text),
		Runs: wpdoc.SanitizeRuns(len(r.text), r.runs),
	})
	if r.styled {
		st := r.style
		if r.numID != "" && r.numID != "0" {
			st.List = r.formats[r.numID]
		}
		r.doc.Styles[idx] = st.Coerce()
	}
	r.text, r.runs = nil, nil
}
