package editor

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"wordimp/internal/styling"
	"wordimp/pkg/wpdoc"
)

type Pos = styling.Pos

type paragraph struct {
	text   []rune
	runs   []wpdoc.StyleRun
	style  wpdoc.ParagraphStyle
	styled bool
}

// Buffer is a paragraph-oriented styled text buffer with a caret and an
// optional selection. Offsets are rune columns.
type Buffer struct {
	paras   []paragraph
	caret   Pos
	version int

	selectionAnchor    Pos
	selectionAnchored  bool
	selectionIsVisible bool
}

var _ styling.Surface = (*Buffer)(nil)

func NewBuffer(doc *wpdoc.Document) *Buffer {
	b := &Buffer{}
	b.Load(doc)
	return b
}

// Load replaces the buffer contents and resets caret and selection.
func (b *Buffer) Load(doc *wpdoc.Document) {
	if doc == nil {
		doc = wpdoc.NewDocument("")
	}
	b.paras = make([]paragraph, 0, len(doc.Paragraphs))
	for i, p := range doc.Paragraphs {
		text := []rune(p.Text)
		para := paragraph{text: text, runs: wpdoc.SanitizeRuns(len(text), p.Runs), style: wpdoc.DefaultParagraphStyle()}
		if st, ok := doc.Styles[i]; ok {
			para.style, para.styled = st.Coerce(), true
		}
		b.paras = append(b.paras, para)
	}
	b.caret = Pos{}
	b.ClearSelection()
	b.normalize()
	b.version++
}

// Document snapshots the buffer. Styles holds only paragraphs whose style
// was set explicitly.
func (b *Buffer) Document() *wpdoc.Document {
	doc := &wpdoc.Document{Paragraphs: make([]wpdoc.Paragraph, len(b.paras)), Styles: b.ParagraphStyles()}
	for i, p := range b.paras {
		doc.Paragraphs[i] = wpdoc.Paragraph{Text: string(p.text), Runs: append([]wpdoc.StyleRun(nil), p.runs...)}
	}
	return doc
}

func (b *Buffer) Text() string {
	return strings.Join(b.Lines(), "\n")
}

func (b *Buffer) Lines() []string {
	out := make([]string, len(b.paras))
	for i, p := range b.paras {
		out[i] = string(p.text)
	}
	return out
}

// Version increases on every mutation.
func (b *Buffer) Version() int {
	return b.version
}

func (b *Buffer) LineCount() int {
	return len(b.paras)
}

func (b *Buffer) LineText(line int) string {
	if line < 0 || line >= len(b.paras) {
		return ""
	}
	return string(b.paras[line].text)
}

func (b *Buffer) lineLen(line int) int {
	if line < 0 || line >= len(b.paras) {
		return 0
	}
	return len(b.paras[line].text)
}

func (b *Buffer) Caret() Pos {
	return b.caret
}

func (b *Buffer) SetCaret(line, col int) {
	b.caret = b.clampPos(Pos{Line: line, Col: col})
	if b.selectionAnchored {
		b.selectionIsVisible = comparePos(b.selectionAnchor, b.caret) != 0
	}
}

// ReplaceLine swaps the text of line, keeping runs over the common prefix.
func (b *Buffer) ReplaceLine(line int, text string) {
	if line < 0 || line >= len(b.paras) {
		return
	}
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	attr := b.attrAt(line, 0)
	b.replaceInParagraph(line, 0, len(b.paras[line].text), []rune(text), attr)
	if b.caret.Line == line {
		b.caret.Col = min(b.caret.Col, len(b.paras[line].text))
	}
	b.version++
}

// SetInline assigns attr to every rune in r. The version only moves when a
// run actually changes.
func (b *Buffer) SetInline(r styling.Range, attr wpdoc.InlineAttr) {
	r = b.clampRange(r)
	attr = wpdoc.NormalizeAttr(attr)
	changed := false
	b.forEachSegment(r, func(line, start, end int) {
		if b.applyStyleToRange(line, start, end, func(a *wpdoc.InlineAttr) { *a = attr }) {
			changed = true
		}
	})
	if changed {
		b.version++
	}
}

// ToggleBold flips bold on the selection, or on the rune at the caret.
func (b *Buffer) ToggleBold() {
	b.applyStyleMutation(func(a *wpdoc.InlineAttr) { a.Bold = !a.Bold })
}

func (b *Buffer) ToggleItalic() {
	b.applyStyleMutation(func(a *wpdoc.InlineAttr) { a.Italic = !a.Italic })
}

func (b *Buffer) ToggleUnderline() {
	b.applyStyleMutation(func(a *wpdoc.InlineAttr) { a.Underline = !a.Underline })
}

func (b *Buffer) SetParagraph(line int, style wpdoc.ParagraphStyle) {
	if line < 0 || line >= len(b.paras) {
		return
	}
	style = style.Coerce()
	if p := b.paras[line]; p.styled && p.style == style {
		return
	}
	b.paras[line].style = style
	b.paras[line].styled = true
	b.version++
}

func (b *Buffer) ParagraphStyle(line int) (wpdoc.ParagraphStyle, bool) {
	if line < 0 || line >= len(b.paras) {
		return wpdoc.DefaultParagraphStyle(), false
	}
	return b.paras[line].style, b.paras[line].styled
}

func (b *Buffer) ParagraphStyles() wpdoc.ParagraphStyles {
	out := wpdoc.ParagraphStyles{}
	for i, p := range b.paras {
		if p.styled {
			out[i] = p.style
		}
	}
	return out
}

func (b *Buffer) Runs(line int) []wpdoc.StyleRun {
	if line < 0 || line >= len(b.paras) {
		return nil
	}
	return append([]wpdoc.StyleRun(nil), b.paras[line].runs...)
}

// AttrAt reports the attribute of the rune before p, or the first rune at a
// line start.
func (b *Buffer) AttrAt(p Pos) wpdoc.InlineAttr {
	p = b.clampPos(p)
	return b.attrAt(p.Line, p.Col)
}

func (b *Buffer) CurrentAttr() wpdoc.InlineAttr {
	if start, _, ok := b.SelectionRange(); ok {
		return b.attrAt(start.Line, start.Col)
	}
	return b.attrAt(b.caret.Line, b.caret.Col)
}

// PosAt converts a rune offset in Text() to a position. Newlines count as
// one rune at the end of their line.
func (b *Buffer) PosAt(offset int) (Pos, error) {
	if offset < 0 {
		return Pos{}, fmt.Errorf("editor: offset %d out of range", offset)
	}
	for i, p := range b.paras {
		if offset <= len(p.text) {
			return Pos{Line: i, Col: offset}, nil
		}
		offset -= len(p.text) + 1
	}
	return Pos{}, fmt.Errorf("editor: offset past end of text")
}

func (b *Buffer) OffsetOf(p Pos) int {
	p = b.clampPos(p)
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len(b.paras[i].text) + 1
	}
	return off + p.Col
}

func (b *Buffer) MoveCaretLeft() {
	if b.caret.Col <= 0 {
		if b.caret.Line > 0 {
			b.caret.Line--
			b.caret.Col = b.lineLen(b.caret.Line)
		}
		return
	}
	b.caret.Col--
}

func (b *Buffer) MoveCaretRight() {
	if b.caret.Col >= b.lineLen(b.caret.Line) {
		if b.caret.Line < len(b.paras)-1 {
			b.caret.Line++
			b.caret.Col = 0
		}
		return
	}
	b.caret.Col++
}

func (b *Buffer) MoveCaretWordLeft() {
	if b.caret.Col <= 0 {
		b.MoveCaretLeft()
		return
	}
	text := b.paras[b.caret.Line].text
	pos := b.caret.Col
	for pos > 0 && !isWordRune(text[pos-1]) {
		pos--
	}
	for pos > 0 && isWordRune(text[pos-1]) {
		pos--
	}
	b.caret.Col = pos
}

func (b *Buffer) MoveCaretWordRight() {
	text := b.paras[b.caret.Line].text
	if b.caret.Col >= len(text) {
		b.MoveCaretRight()
		return
	}
	pos := b.caret.Col
	for pos < len(text) && !isWordRune(text[pos]) {
		pos++
	}
	for pos < len(text) && isWordRune(text[pos]) {
		pos++
	}
	b.caret.Col = pos
}

func (b *Buffer) MoveCaretToLineStart() {
	b.caret.Col = 0
}

func (b *Buffer) MoveCaretToLineEnd() {
	b.caret.Col = b.lineLen(b.caret.Line)
}

// InsertAtCaret inserts input, replacing any selection. Newlines split the
// paragraph; new paragraphs inherit the style of the one split.
func (b *Buffer) InsertAtCaret(input string) error {
	if input == "" {
		return nil
	}
	if !utf8.ValidString(input) {
		return fmt.Errorf("input must be valid UTF-8")
	}
	b.DeleteSelection()
	attr := b.attrAt(b.caret.Line, b.caret.Col)
	b.caret = b.insertAt(b.caret, wpdoc.NormalizeNewlines(input), attr)
	b.ClearSelection()
	b.version++
	return nil
}

func (b *Buffer) SplitParagraphAtCaret() {
	_ = b.InsertAtCaret("\n")
}

// ReplaceRange replaces r with text and returns the position after the
// inserted text.
func (b *Buffer) ReplaceRange(r styling.Range, text string) Pos {
	r = b.clampRange(r)
	attr := b.attrAt(r.Start.Line, r.Start.Col)
	if r.Start != r.End {
		attr = b.attrAt(r.Start.Line, r.Start.Col+1)
	}
	b.deleteRange(r)
	end := b.insertAt(r.Start, wpdoc.NormalizeNewlines(text), attr)
	b.caret = b.clampPos(b.caret)
	b.version++
	return end
}

func (b *Buffer) Backspace() {
	if b.DeleteSelection() {
		return
	}
	if b.caret.Col > 0 {
		start := b.caret.Col - 1
		b.replaceInParagraph(b.caret.Line, start, b.caret.Col, nil, wpdoc.DefaultInlineAttr())
		b.caret.Col = start
		b.version++
		return
	}
	if b.caret.Line == 0 {
		return
	}
	prevLen := b.lineLen(b.caret.Line - 1)
	b.mergeParagraphs(b.caret.Line-1, b.caret.Line)
	b.caret = Pos{Line: b.caret.Line - 1, Col: prevLen}
	b.version++
}

func (b *Buffer) DeleteForward() {
	if b.DeleteSelection() {
		return
	}
	if b.caret.Col < b.lineLen(b.caret.Line) {
		b.replaceInParagraph(b.caret.Line, b.caret.Col, b.caret.Col+1, nil, wpdoc.DefaultInlineAttr())
		b.version++
		return
	}
	if b.caret.Line >= len(b.paras)-1 {
		return
	}
	b.mergeParagraphs(b.caret.Line, b.caret.Line+1)
	b.version++
}

func (b *Buffer) HasSelection() bool {
	return b.selectionIsVisible
}

func (b *Buffer) EnsureSelectionAnchor() {
	if b.selectionAnchored {
		return
	}
	b.selectionAnchor = b.caret
	b.selectionAnchored = true
	b.selectionIsVisible = false
}

func (b *Buffer) UpdateSelectionFromCaret() {
	if !b.selectionAnchored {
		b.selectionAnchor = b.caret
		b.selectionAnchored = true
	}
	b.selectionIsVisible = comparePos(b.selectionAnchor, b.caret) != 0
}

func (b *Buffer) ClearSelection() {
	b.selectionAnchored = false
	b.selectionIsVisible = false
}

// Select anchors the selection at r.Start and puts the caret at r.End.
func (b *Buffer) Select(r styling.Range) {
	r = b.clampRange(r)
	b.selectionAnchor = r.Start
	b.selectionAnchored = true
	b.caret = r.End
	b.selectionIsVisible = comparePos(r.Start, r.End) != 0
}

func (b *Buffer) SelectionRange() (Pos, Pos, bool) {
	if !b.selectionIsVisible {
		return Pos{}, Pos{}, false
	}
	a, c := b.clampPos(b.selectionAnchor), b.caret
	if comparePos(a, c) <= 0 {
		return a, c, true
	}
	return c, a, true
}

// Selection returns the selected range, or the caret line when nothing is
// selected.
func (b *Buffer) Selection() styling.Range {
	if start, end, ok := b.SelectionRange(); ok {
		return styling.Range{Start: start, End: end}
	}
	line := b.caret.Line
	return styling.Range{Start: Pos{Line: line}, End: Pos{Line: line, Col: b.lineLen(line)}}
}

func (b *Buffer) SelectAll() {
	last := len(b.paras) - 1
	b.Select(styling.Range{End: Pos{Line: last, Col: b.lineLen(last)}})
}

func (b *Buffer) SelectedText() string {
	start, end, ok := b.SelectionRange()
	if !ok {
		return ""
	}
	return b.textIn(styling.Range{Start: start, End: end})
}

func (b *Buffer) DeleteSelection() bool {
	start, end, ok := b.SelectionRange()
	if !ok {
		return false
	}
	b.deleteRange(styling.Range{Start: start, End: end})
	b.caret = start
	b.ClearSelection()
	b.version++
	return true
}

func (b *Buffer) textIn(r styling.Range) string {
	if r.Start.Line == r.End.Line {
		return string(b.paras[r.Start.Line].text[r.Start.Col:r.End.Col])
	}
	var out strings.Builder
	out.WriteString(string(b.paras[r.Start.Line].text[r.Start.Col:]))
	for i := r.Start.Line + 1; i < r.End.Line; i++ {
		out.WriteByte('\n')
		out.WriteString(string(b.paras[i].text))
	}
	out.WriteByte('\n')
	out.WriteString(string(b.paras[r.End.Line].text[:r.End.Col]))
	return out.String()
}

func (b *Buffer) applyStyleMutation(mut func(*wpdoc.InlineAttr)) {
	if start, end, ok := b.SelectionRange(); ok {
		b.forEachSegment(styling.Range{Start: start, End: end}, func(line, s, e int) {
			b.applyStyleToRange(line, s, e, mut)
		})
		b.version++
		return
	}
	n := b.lineLen(b.caret.Line)
	if n == 0 {
		return
	}
	pos := min(b.caret.Col, n-1)
	b.applyStyleToRange(b.caret.Line, pos, pos+1, mut)
	b.version++
}

func (b *Buffer) forEachSegment(r styling.Range, fn func(line, start, end int)) {
	for line := r.Start.Line; line <= r.End.Line; line++ {
		start, end := 0, b.lineLen(line)
		if line == r.Start.Line {
			start = r.Start.Col
		}
		if line == r.End.Line {
			end = r.End.Col
		}
		if start < end {
			fn(line, start, end)
		}
	}
}

func (b *Buffer) applyStyleToRange(line, start, end int, mut func(*wpdoc.InlineAttr)) bool {
	p := &b.paras[line]
	n := len(p.text)
	start, end = max(0, min(start, n)), max(0, min(end, n))
	if start >= end {
		return false
	}
	cov := wpdoc.Coverage(n, p.runs)
	newRuns := make([]wpdoc.StyleRun, 0, len(cov)+2)
	for _, r := range cov {
		if r.End <= start || r.Start >= end {
			newRuns = append(newRuns, r)
			continue
		}
		if r.Start < start {
			newRuns = append(newRuns, wpdoc.StyleRun{Start: r.Start, End: start, Attr: r.Attr})
		}
		attr := r.Attr
		mut(&attr)
		newRuns = append(newRuns, wpdoc.StyleRun{Start: max(r.Start, start), End: min(r.End, end), Attr: attr})
		if r.End > end {
			newRuns = append(newRuns, wpdoc.StyleRun{Start: end, End: r.End, Attr: r.Attr})
		}
	}
	newRuns = wpdoc.SanitizeRuns(n, newRuns)
	if slices.Equal(p.runs, newRuns) {
		return false
	}
	p.runs = newRuns
	return true
}

func (b *Buffer) replaceInParagraph(line, start, end int, insert []rune, insertAttr wpdoc.InlineAttr) {
	p := &b.paras[line]
	oldLen := len(p.text)
	start, end = max(0, min(start, oldLen)), max(0, min(end, oldLen))
	if start > end {
		start, end = end, start
	}
	cov := wpdoc.Coverage(oldLen, p.runs)
	delta := len(insert) - (end - start)

	newText := make([]rune, 0, oldLen+delta)
	newText = append(newText, p.text[:start]...)
	newText = append(newText, insert...)
	newText = append(newText, p.text[end:]...)

	newRuns := make([]wpdoc.StyleRun, 0, len(cov)+2)
	for _, r := range cov {
		switch {
		case r.End <= start:
			newRuns = append(newRuns, r)
		case r.Start >= end:
			newRuns = append(newRuns, wpdoc.StyleRun{Start: r.Start + delta, End: r.End + delta, Attr: r.Attr})
		default:
			if r.Start < start {
				newRuns = append(newRuns, wpdoc.StyleRun{Start: r.Start, End: start, Attr: r.Attr})
			}
			if r.End > end {
				newRuns = append(newRuns, wpdoc.StyleRun{Start: end + delta, End: r.End + delta, Attr: r.Attr})
			}
		}
	}
	if len(insert) > 0 {
		newRuns = append(newRuns, wpdoc.StyleRun{Start: start, End: start + len(insert), Attr: insertAttr})
	}
	p.text = newText
	p.runs = wpdoc.SanitizeRuns(len(newText), newRuns)
}

func (b *Buffer) clipRuns(line, from, to, shift int) []wpdoc.StyleRun {
	p := b.paras[line]
	var out []wpdoc.StyleRun
	for _, r := range p.runs {
		if r.End <= from || r.Start >= to {
			continue
		}
		out = append(out, wpdoc.StyleRun{Start: max(r.Start, from) - from + shift, End: min(r.End, to) - from + shift, Attr: r.Attr})
	}
	return out
}

func (b *Buffer) mergeParagraphs(left, right int) {
	if left < 0 || right <= left || right >= len(b.paras) {
		return
	}
	l, r := b.paras[left], b.paras[right]
	runs := append(b.clipRuns(left, 0, len(l.text), 0), b.clipRuns(right, 0, len(r.text), len(l.text))...)
	text := append(append([]rune(nil), l.text...), r.text...)
	b.paras[left].text = text
	b.paras[left].runs = wpdoc.SanitizeRuns(len(text), runs)
	b.paras = append(b.paras[:right], b.paras[right+1:]...)
}

func (b *Buffer) deleteRange(r styling.Range) {
	if r.Start.Line == r.End.Line {
		b.replaceInParagraph(r.Start.Line, r.Start.Col, r.End.Col, nil, wpdoc.DefaultInlineAttr())
		return
	}
	b.replaceInParagraph(r.End.Line, 0, r.End.Col, nil, wpdoc.DefaultInlineAttr())
	b.replaceInParagraph(r.Start.Line, r.Start.Col, b.lineLen(r.Start.Line), nil, wpdoc.DefaultInlineAttr())
	b.paras = append(b.paras[:r.Start.Line+1], b.paras[r.End.Line:]...)
	b.mergeParagraphs(r.Start.Line, r.Start.Line+1)
}

func (b *Buffer) insertAt(at Pos, text string, attr wpdoc.InlineAttr) Pos {
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		ins := []rune(parts[0])
		b.replaceInParagraph(at.Line, at.Col, at.Col, ins, attr)
		return Pos{Line: at.Line, Col: at.Col + len(ins)}
	}

	src := b.paras[at.Line]
	rightText := append([]rune(nil), src.text[at.Col:]...)
	rightRuns := b.clipRuns(at.Line, at.Col, len(src.text), 0)
	b.replaceInParagraph(at.Line, at.Col, len(src.text), []rune(parts[0]), attr)

	line := at.Line
	for i := 1; i < len(parts); i++ {
		seg := []rune(parts[i])
		runs := []wpdoc.StyleRun{{Start: 0, End: len(seg), Attr: attr}}
		if i == len(parts)-1 {
			for _, r := range rightRuns {
				runs = append(runs, wpdoc.StyleRun{Start: r.Start + len(seg), End: r.End + len(seg), Attr: r.Attr})
			}
			seg = append(seg, rightText...)
		}
		para := paragraph{text: seg, runs: wpdoc.SanitizeRuns(len(seg), runs), style: src.style, styled: src.styled}
		b.paras = append(b.paras, paragraph{})
		copy(b.paras[line+2:], b.paras[line+1:])
		b.paras[line+1] = para
		line++
	}
	return Pos{Line: line, Col: len([]rune(parts[len(parts)-1]))}
}

func (b *Buffer) attrAt(line, col int) wpdoc.InlineAttr {
	if line < 0 || line >= len(b.paras) {
		return wpdoc.DefaultInlineAttr()
	}
	p := b.paras[line]
	if col > 0 {
		col--
	}
	return wpdoc.AttrAt(len(p.text), p.runs, col)
}

func (b *Buffer) normalize() {
	if len(b.paras) == 0 {
		b.paras = []paragraph{{style: wpdoc.DefaultParagraphStyle()}}
	}
	b.caret = b.clampPos(b.caret)
}

func (b *Buffer) clampPos(p Pos) Pos {
	p.Line = max(0, min(p.Line, len(b.paras)-1))
	p.Col = max(0, min(p.Col, b.lineLen(p.Line)))
	return p
}

func (b *Buffer) clampRange(r styling.Range) styling.Range {
	r.Start, r.End = b.clampPos(r.Start), b.clampPos(r.End)
	if comparePos(r.Start, r.End) > 0 {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

func comparePos(a, b Pos) int {
	switch {
	case a.Line < b.Line:
		return -1
	case a.Line > b.Line:
		return 1
	case a.Col < b.Col:
		return -1
	case a.Col > b.Col:
		return 1
	}
	return 0
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
