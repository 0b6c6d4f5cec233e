package wpdoc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// RTF subset written by this package:
//
//	{\rtf1\ansi\ansicpg1252\deff0
//	{\fonttbl{\f0 Helvetica;}{\f1 Courier;}}
//	{\colortbl;\red0\green0\blue0;}
//	\pard\qc\li720{\f0\fs24\cf1\b\i\ul text}\par
//	\pard\ql{\f1\fs20\cf1 more text}
//	}
//
// Alignment is \ql, \qc, \qr or \qj. Indent is \li in twips, 720 per level.
// Each style run is one group carrying \f, \fs (half points), \cf and any of
// \b, \i, \ul. Text escapes are \\, \{, \}, \tab, \'hh for characters in the
// code page and \uN? for everything else. A ';' inside a font name is written
// as \'3b, and the reader never ends a font entry at an escaped one. The
// reader accepts any RTF: unknown control words are ignored and non-text
// destinations are skipped.

const twipsPerIndent = 720

type rtfCodec struct{}

func (rtfCodec) Name() string         { return "rtf" }
func (rtfCodec) Extensions() []string { return []string{".rtf"} }

func (rtfCodec) Native() Capabilities {
	return Capabilities{Inline: true, Alignment: true, Indent: true}
}

func init() {
	RegisterCodec(rtfCodec{})
}

func (rtfCodec) Encode(doc *Document) ([]byte, error) {
	fonts := []string{DefaultFontFamily}
	fontIdx := map[string]int{DefaultFontFamily: 0}
	colours := []Colour{Black}
	colourIdx := map[Colour]int{Black: 1}
	for _, p := range doc.Paragraphs {
		for _, r := range p.Runs {
			a := NormalizeAttr(r.Attr)
			if _, ok := fontIdx[a.FontFamily]; !ok {
				fontIdx[a.FontFamily] = len(fonts)
				fonts = append(fonts, a.FontFamily)
			}
			if _, ok := colourIdx[a.Foreground]; !ok {
				colours = append(colours, a.Foreground)
				colourIdx[a.Foreground] = len(colours)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(`{\rtf1\ansi\ansicpg1252\deff0` + "\n")
	sb.WriteString(`{\fonttbl`)
	for i, name := range fonts {
		fmt.Fprintf(&sb, `{\f%d `, i)
		writeRTFFontName(&sb, name)
		sb.WriteString(";}")
	}
	sb.WriteString("}\n")
	sb.WriteString(`{\colortbl;`)
	for _, c := range colours {
		fmt.Fprintf(&sb, `\red%d\green%d\blue%d;`, c.R, c.G, c.B)
	}
	sb.WriteString("}\n")

	for i, p := range doc.Paragraphs {
		st := doc.Styles.Get(i)
		sb.WriteString(`\pard`)
		sb.WriteString(rtfAlignWord(st.Alignment))
		if st.Indent > 0 {
			fmt.Fprintf(&sb, `\li%d`, st.Indent*twipsPerIndent)
		}
		runes := []rune(p.Text)
		for _, r := range Coverage(len(runes), p.Runs) {
			a := NormalizeAttr(r.Attr)
			fmt.Fprintf(&sb, `{\f%d\fs%d\cf%d`, fontIdx[a.FontFamily], a.FontSize*2, colourIdx[a.Foreground])
			if a.Bold {
				sb.WriteString(`\b`)
			}
			if a.Italic {
				sb.WriteString(`\i`)
			}
			if a.Underline {
				sb.WriteString(`\ul`)
			}
			sb.WriteByte(' ')
			writeRTFText(&sb, string(runes[r.Start:r.End]))
			sb.WriteByte('}')
		}
		if i < len(doc.Paragraphs)-1 {
			sb.WriteString(`\par`)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func rtfAlignWord(a Alignment) string {
	switch a {
	case AlignCenter:
		return `\qc`
	case AlignRight:
		return `\qr`
	case AlignJustify:
		return `\qj`
	default:
		return `\ql`
	}
}

// writeRTFFontName escapes ';' as well, since a literal one ends the font
// table entry.
func writeRTFFontName(sb *strings.Builder, name string) {
	for i, part := range strings.Split(name, ";") {
		if i > 0 {
			sb.WriteString(`\'3b`)
		}
		writeRTFText(sb, part)
	}
}

func writeRTFText(sb *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString(`\tab `)
		case r >= 0x20 && r < 0x7f:
			sb.WriteRune(r)
		default:
			if b, ok := charmap.Windows1252.EncodeRune(r); ok && r >= 0x80 {
				fmt.Fprintf(sb, `\'%02x`, b)
				continue
			}
			for _, u := range utf16.Encode([]rune{r}) {
				fmt.Fprintf(sb, `\u%d?`, int16(u))
			}
		}
	}
}

type rtfDest uint8

const (
	destText rtfDest = iota
	destSkip
	destFontTable
	destColourTable
)

var skippedDestinations = map[string]bool{
	"info": true, "stylesheet": true, "pict": true, "object": true,
	"header": true, "headerl": true, "headerr": true, "headerf": true,
	"footer": true, "footerl": true, "footerr": true, "footerf": true,
	"footnote": true, "fldinst": true, "themedata": true, "colorschememapping": true,
	"latentstyles": true, "datastore": true, "listtable": true, "listoverridetable": true,
	"rsidtbl": true, "generator": true, "xmlnstbl": true, "mmathPr": true,
	"filetbl": true, "revtbl": true, "pgdsctbl": true, "pntext": true, "pntxta": true, "pntxtb": true,
}

type rtfCharState struct {
	font      int
	halfPts   int
	colour    int
	bold      bool
	italic    bool
	underline bool
}

type rtfGroup struct {
	dest rtfDest
	char rtfCharState
	uc   int
}

type rtfReader struct {
	src   []byte
	pos   int
	stack []rtfGroup
	cur   rtfGroup

	codepage    *charmap.Charmap
	defaultFont int
	fonts       map[int]string
	fontNum     int
	fontName    strings.Builder
	colours     []Colour
	colour      [3]int
	colourSet   bool

	align     Alignment
	indent    int
	skipChars int
	highSurr  rune

	doc  *Document
	text []rune
	runs []StyleRun
}

func (rtfCodec) Decode(b []byte) (*Document, error) {
	src := b
	if len(src) >= 3 && src[0] == 0xef && src[1] == 0xbb && src[2] == 0xbf {
		src = src[3:]
	}
	trimmed := strings.TrimLeft(string(src[:min(len(src), 16)]), " \t\r\n")
	if !strings.HasPrefix(trimmed, `{\rtf`) {
		return nil, fmt.Errorf("%w: missing {\\rtf header", ErrMalformed)
	}
	r := &rtfReader{
		src:      src,
		codepage: charmap.Windows1252,
		fonts:    map[int]string{},
		doc:      &Document{Styles: ParagraphStyles{}},
	}
	r.cur = rtfGroup{dest: destText, char: r.plain(), uc: 1}
	if err := r.run(); err != nil {
		return nil, err
	}
	r.endParagraph()
	return r.doc, nil
}

func (r *rtfReader) plain() rtfCharState {
	return rtfCharState{font: r.defaultFont, halfPts: DefaultFontSize * 2}
}

func (r *rtfReader) run() error {
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch c {
		case '{':
			r.pos++
			r.stack = append(r.stack, r.cur)
		case '}':
			r.pos++
			if len(r.stack) == 0 {
				return nil
			}
			r.closeGroup()
			r.cur = r.stack[len(r.stack)-1]
			r.stack = r.stack[:len(r.stack)-1]
			if len(r.stack) == 0 {
				return nil
			}
		case '\\':
			if err := r.control(); err != nil {
				return err
			}
		case '\r', '\n':
			r.pos++
		default:
			r.pos++
			r.char(r.codepage.DecodeByte(c))
		}
	}
	return nil
}

func (r *rtfReader) closeGroup() {
	if r.cur.dest == destFontTable && r.fontName.Len() > 0 {
		r.finishFont()
	}
}

func (r *rtfReader) finishFont() {
	name := strings.TrimSpace(r.fontName.String())
	if name != "" {
		r.fonts[r.fontNum] = name
	}
	r.fontName.Reset()
}

func (r *rtfReader) control() error {
	r.pos++
	if r.pos >= len(r.src) {
		return nil
	}
	c := r.src[r.pos]
	switch {
	case c == '\\' || c == '{' || c == '}':
		r.pos++
		r.char(rune(c))
		return nil
	case c == '\'':
		if r.pos+3 > len(r.src) {
			return fmt.Errorf("%w: truncated hex escape", ErrMalformed)
		}
		v, err := strconv.ParseUint(string(r.src[r.pos+1:r.pos+3]), 16, 8)
		if err != nil {
			return fmt.Errorf("%w: bad hex escape at byte %d", ErrMalformed, r.pos)
		}
		r.pos += 3
		ch := r.codepage.DecodeByte(byte(v))
		if r.skipChars == 0 && r.fontRune(ch) {
			return nil
		}
		r.char(ch)
		return nil
	case c == '*':
		r.pos++
		r.cur.dest = destSkip
		return nil
	case c == '~':
		r.pos++
		r.char(' ')
		return nil
	case c == '_':
		r.pos++
		r.char('-')
		return nil
	case c == '-':
		r.pos++
		return nil
	case c == '\r' || c == '\n':
		r.pos++
		r.word("par", 0, false)
		return nil
	case !isASCIILetter(c):
		r.pos++
		return nil
	}

	start := r.pos
	for r.pos < len(r.src) && isASCIILetter(r.src[r.pos]) {
		r.pos++
	}
	name := string(r.src[start:r.pos])
	numStart := r.pos
	if r.pos < len(r.src) && r.src[r.pos] == '-' {
		r.pos++
	}
	for r.pos < len(r.src) && r.src[r.pos] >= '0' && r.src[r.pos] <= '9' {
		r.pos++
	}
	arg, hasArg := 0, false
	if r.pos > numStart {
		// An out of range parameter is consumed and ignored.
		if n, err := strconv.Atoi(string(r.src[numStart:r.pos])); err == nil {
			arg, hasArg = n, true
		}
	}
	if r.pos < len(r.src) && r.src[r.pos] == ' ' {
		r.pos++
	}
	if name == "bin" && hasArg && arg > 0 {
		r.pos = min(r.pos+arg, len(r.src))
		return nil
	}
	r.word(name, arg, hasArg)
	return nil
}

func (r *rtfReader) word(name string, arg int, hasArg bool) {
	if skippedDestinations[name] {
		r.cur.dest = destSkip
		return
	}
	switch name {
	case "fonttbl":
		r.cur.dest = destFontTable
		return
	case "colortbl":
		r.cur.dest = destColourTable
		r.colours = nil
		return
	}
	if r.cur.dest == destSkip {
		return
	}

	switch r.cur.dest {
	case destFontTable:
		if name == "f" {
			if r.fontName.Len() > 0 {
				r.finishFont()
			}
			r.fontNum = arg
		}
		return
	case destColourTable:
		switch name {
		case "red":
			r.colour[0], r.colourSet = arg, true
		case "green":
			r.colour[1], r.colourSet = arg, true
		case "blue":
			r.colour[2], r.colourSet = arg, true
		}
		return
	}

	flag := !hasArg || arg != 0
	switch name {
	case "ansicpg":
		r.codepage = codepageFor(arg)
	case "mac":
		r.codepage = charmap.Macintosh
	case "pc":
		r.codepage = charmap.CodePage437
	case "pca":
		r.codepage = charmap.CodePage850
	case "deff":
		r.defaultFont = arg
		r.cur.char.font = arg
	case "plain":
		r.cur.char = r.plain()
	case "f":
		r.cur.char.font = arg
	case "fs":
		if hasArg && arg > 0 {
			r.cur.char.halfPts = arg
		}
	case "cf":
		r.cur.char.colour = arg
	case "b":
		r.cur.char.bold = flag
	case "i":
		r.cur.char.italic = flag
	case "ul":
		r.cur.char.underline = flag
	case "ulnone":
		r.cur.char.underline = false
	case "pard":
		r.align = AlignLeft
		r.indent = 0
	case "ql":
		r.align = AlignLeft
	case "qc":
		r.align = AlignCenter
	case "qr":
		r.align = AlignRight
	case "qj":
		r.align = AlignJustify
	case "li":
		r.indent = 0
		if arg > 0 {
			r.indent = (arg + twipsPerIndent/2) / twipsPerIndent
		}
	case "par", "line", "row", "sect", "page":
		r.endParagraph()
	case "tab", "cell":
		r.emit('\t')
	case "uc":
		if hasArg && arg >= 0 {
			r.cur.uc = arg
		}
	case "u":
		v := rune(arg)
		if v < 0 {
			v += 0x10000
		}
		r.unicode(v)
		r.skipChars = r.cur.uc
	case "emdash":
		r.emit('—')
	case "endash":
		r.emit('–')
	case "lquote":
		r.emit('‘')
	case "rquote":
		r.emit('’')
	case "ldblquote":
		r.emit('“')
	case "rdblquote":
		r.emit('”')
	case "bullet":
		r.emit('•')
	}
}

func (r *rtfReader) unicode(v rune) {
	switch {
	case utf16.IsSurrogate(v) && v < 0xdc00:
		r.highSurr = v
		return
	case utf16.IsSurrogate(v):
		if r.highSurr == 0 {
			return
		}
		v = utf16.DecodeRune(r.highSurr, v)
	}
	r.highSurr = 0
	if !r.fontRune(v) {
		r.emit(v)
	}
}

// fontRune adds an escaped character to the font name being read. Escaped
// characters never terminate the entry.
func (r *rtfReader) fontRune(c rune) bool {
	if r.cur.dest != destFontTable {
		return false
	}
	r.fontName.WriteRune(c)
	return true
}

// char handles a literal character from the stream.
func (r *rtfReader) char(c rune) {
	if r.skipChars > 0 {
		r.skipChars--
		return
	}
	switch r.cur.dest {
	case destSkip:
	case destFontTable:
		if c == ';' {
			r.finishFont()
			return
		}
		r.fontName.WriteRune(c)
	case destColourTable:
		if c != ';' {
			return
		}
		if r.colourSet {
			r.colours = append(r.colours, Colour{R: uint8(r.colour[0]), G: uint8(r.colour[1]), B: uint8(r.colour[2])})
		} else {
			r.colours = append(r.colours, Black)
		}
		r.colour, r.colourSet = [3]int{}, false
	default:
		r.emit(c)
	}
}

func (r *rtfReader) emit(c rune) {
	if r.cur.dest != destText {
		return
	}
	attr := r.attr()
	pos := len(r.text)
	r.text = append(r.text, c)
	if n := len(r.runs); n > 0 && r.runs[n-1].End == pos && r.runs[n-1].Attr == attr {
		r.runs[n-1].End = pos + 1
		return
	}
	r.runs = append(r.runs, StyleRun{Start: pos, End: pos + 1, Attr: attr})
}

func (r *rtfReader) attr() InlineAttr {
	cs := r.cur.char
	a := InlineAttr{
		FontFamily: r.fonts[cs.font],
		FontSize:   cs.halfPts / 2,
		Bold:       cs.bold,
		Italic:     cs.italic,
		Underline:  cs.underline,
	}
	// \cf0 is the automatic colour; the table's first entry is that slot.
	if cs.colour > 0 && cs.colour < len(r.colours) {
		a.Foreground = r.colours[cs.colour]
	}
	return NormalizeAttr(a)
}

func (r *rtfReader) endParagraph() {
	idx := len(r.doc.Paragraphs)
	r.doc.Paragraphs = append(r.doc.Paragraphs, Paragraph{
		Text: string(r.text),
		Runs: SanitizeRuns(len(r.text), r.runs),
	})
	if st := (ParagraphStyle{Alignment: r.align, Indent: r.indent}); !st.IsDefault() {
		r.doc.Styles[idx] = st.Coerce()
	}
	r.text, r.runs = nil, nil
}

func codepageFor(cp int) *charmap.Charmap {
	switch cp {
	case 1250:
		return charmap.Windows1250
	case 1251:
		return charmap.Windows1251
	case 1253:
		return charmap.Windows1253
	case 1254:
		return charmap.Windows1254
	case 1255:
		return charmap.Windows1255
	case 1256:
		return charmap.Windows1256
	case 1257:
		return charmap.Windows1257
	case 1258:
		return charmap.Windows1258
	case 437:
		return charmap.CodePage437
	case 850:
		return charmap.CodePage850
	case 10000:
		return charmap.Macintosh
	default:
		return charmap.Windows1252
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
