package wpdoc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	DefaultFontFamily = "Helvetica"
	DefaultFontSize   = 12
	MaxIndent         = 32
)

var (
	ErrInvalidValue      = errors.New("wpdoc: invalid value")
	ErrUnsupportedFormat = errors.New("wpdoc: unsupported file format")
	ErrMissingDependency = errors.New("wpdoc: format support not linked in")
	ErrCorruptSidecar    = errors.New("wpdoc: corrupt style sidecar")
	ErrMalformed         = errors.New("wpdoc: malformed document")
)

type InlineAttr struct {
	FontFamily string
	FontSize   int
	Foreground Colour
	Bold       bool
	Italic     bool
	Underline  bool
}

func DefaultInlineAttr() InlineAttr {
	return InlineAttr{FontFamily: DefaultFontFamily, FontSize: DefaultFontSize, Foreground: Black}
}

func NormalizeAttr(a InlineAttr) InlineAttr {
	a.FontFamily = strings.TrimSpace(a.FontFamily)
	if a.FontFamily == "" {
		a.FontFamily = DefaultFontFamily
	}
	if a.FontSize <= 0 {
		a.FontSize = DefaultFontSize
	}
	return a
}

func (a InlineAttr) IsDefault() bool {
	return NormalizeAttr(a) == DefaultInlineAttr()
}

type ParagraphStyle struct {
	Alignment Alignment
	Indent    int
	List      ListType
}

func DefaultParagraphStyle() ParagraphStyle {
	return ParagraphStyle{Alignment: AlignLeft, Indent: 0, List: ListNone}
}

func (p ParagraphStyle) IsDefault() bool {
	return p == DefaultParagraphStyle()
}

// Coerce maps out-of-range values to the nearest valid ones.
func (p ParagraphStyle) Coerce() ParagraphStyle {
	if !p.Alignment.Valid() {
		p.Alignment = AlignLeft
	}
	if !p.List.Valid() {
		p.List = ListNone
	}
	if p.Indent < 0 {
		p.Indent = 0
	}
	if p.Indent > MaxIndent {
		p.Indent = MaxIndent
	}
	return p
}

func (p ParagraphStyle) validate() error {
	if !p.Alignment.Valid() {
		return fmt.Errorf("%w: alignment %d", ErrInvalidValue, uint8(p.Alignment))
	}
	if !p.List.Valid() {
		return fmt.Errorf("%w: list type %d", ErrInvalidValue, uint8(p.List))
	}
	if p.Indent < 0 || p.Indent > MaxIndent {
		return fmt.Errorf("%w: indent %d outside 0..%d", ErrInvalidValue, p.Indent, MaxIndent)
	}
	return nil
}

// ParagraphStyles maps a paragraph index to its style. Missing indices use
// DefaultParagraphStyle.
type ParagraphStyles map[int]ParagraphStyle

func (s ParagraphStyles) Clone() ParagraphStyles {
	out := make(ParagraphStyles, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (s ParagraphStyles) Indices() []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func (s ParagraphStyles) Get(index int) ParagraphStyle {
	if v, ok := s[index]; ok {
		return v
	}
	return DefaultParagraphStyle()
}

// StyleRun covers runes [Start, End) of a paragraph.
type StyleRun struct {
	Start int
	End   int
	Attr  InlineAttr
}

type Paragraph struct {
	Text string
	Runs []StyleRun
}

func (p Paragraph) Len() int {
	return utf8.RuneCountInString(p.Text)
}

type Document struct {
	Paragraphs []Paragraph
	Styles     ParagraphStyles
}

func NewDocument(text string) *Document {
	text = NormalizeNewlines(text)
	lines := strings.Split(text, "\n")
	doc := &Document{Paragraphs: make([]Paragraph, len(lines)), Styles: ParagraphStyles{}}
	for i, line := range lines {
		doc.Paragraphs[i] = Paragraph{Text: line}
	}
	return doc
}

func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, len(d.Paragraphs))
	for i, p := range d.Paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

func (d *Document) HasInlineStyles() bool {
	for _, p := range d.Paragraphs {
		if len(SanitizeRuns(p.Len(), p.Runs)) > 0 {
			return true
		}
	}
	return false
}

func CloneDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := &Document{Paragraphs: make([]Paragraph, len(doc.Paragraphs)), Styles: doc.Styles.Clone()}
	for i, p := range doc.Paragraphs {
		out.Paragraphs[i] = Paragraph{Text: p.Text, Runs: append([]StyleRun(nil), p.Runs...)}
	}
	return out
}

// Normalize sanitizes runs, coerces styles and guarantees at least one
// paragraph.
func (d *Document) Normalize() {
	if len(d.Paragraphs) == 0 {
		d.Paragraphs = []Paragraph{{}}
	}
	for i := range d.Paragraphs {
		p := &d.Paragraphs[i]
		p.Runs = SanitizeRuns(p.Len(), p.Runs)
	}
	styles := make(ParagraphStyles, len(d.Styles))
	for k, v := range d.Styles {
		if k < 0 {
			continue
		}
		styles[k] = v.Coerce()
	}
	d.Styles = styles
}

func Validate(doc *Document) error {
	if doc == nil {
		return errors.New("wpdoc: document is nil")
	}
	for i, p := range doc.Paragraphs {
		if !utf8.ValidString(p.Text) {
			return fmt.Errorf("wpdoc: paragraph %d is not valid UTF-8", i)
		}
		if strings.ContainsAny(p.Text, "\r\n") {
			return fmt.Errorf("wpdoc: paragraph %d contains a line break", i)
		}
		if err := validateRuns(p); err != nil {
			return fmt.Errorf("wpdoc: paragraph %d: %w", i, err)
		}
	}
	for _, idx := range doc.Styles.Indices() {
		if idx < 0 {
			return fmt.Errorf("%w: paragraph index %d", ErrInvalidValue, idx)
		}
		if err := doc.Styles[idx].validate(); err != nil {
			return fmt.Errorf("wpdoc: style for paragraph %d: %w", idx, err)
		}
	}
	return nil
}

func validateRuns(p Paragraph) error {
	txtLen := p.Len()
	runs := append([]StyleRun(nil), p.Runs...)
	sortRuns(runs)

	lastEnd := 0
	for i, r := range runs {
		if r.Start < 0 || r.Start >= r.End {
			return fmt.Errorf("invalid run range %d..%d", r.Start, r.End)
		}
		if r.End > txtLen {
			return fmt.Errorf("run range %d..%d outside text length %d", r.Start, r.End, txtLen)
		}
		if i > 0 && r.Start < lastEnd {
			return fmt.Errorf("overlapping style runs around offset %d", r.Start)
		}
		if r.Attr.FontSize <= 0 {
			return errors.New("font size must be positive")
		}
		if strings.TrimSpace(r.Attr.FontFamily) == "" {
			return errors.New("font family is empty")
		}
		lastEnd = r.End
	}
	return nil
}

func sortRuns(runs []StyleRun) {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Start == runs[j].Start {
			return runs[i].End < runs[j].End
		}
		return runs[i].Start < runs[j].Start
	})
}

// SanitizeRuns clamps runs to textLen and returns them sorted, non-overlapping
// and merged. Runs carrying the default attribute are dropped.
func SanitizeRuns(textLen int, runs []StyleRun) []StyleRun {
	if textLen <= 0 || len(runs) == 0 {
		return nil
	}
	clean := make([]StyleRun, 0, len(runs))
	for _, r := range runs {
		start, end := clamp(r.Start, 0, textLen), clamp(r.End, 0, textLen)
		if start > end {
			start, end = end, start
		}
		if start == end {
			continue
		}
		clean = append(clean, StyleRun{Start: start, End: end, Attr: NormalizeAttr(r.Attr)})
	}
	sortRuns(clean)

	out := make([]StyleRun, 0, len(clean))
	lastEnd := 0
	for _, r := range clean {
		if r.Start < lastEnd {
			if r.End <= lastEnd {
				continue
			}
			r.Start = lastEnd
		}
		lastEnd = r.End
		if r.Attr.IsDefault() {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == r.Start && out[n-1].Attr == r.Attr {
			out[n-1].End = r.End
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Coverage returns runs spanning [0, textLen) with gaps filled by the
// default attribute.
func Coverage(textLen int, runs []StyleRun) []StyleRun {
	if textLen <= 0 {
		return nil
	}
	sparse := SanitizeRuns(textLen, runs)
	out := make([]StyleRun, 0, len(sparse)*2+1)
	pos := 0
	for _, r := range sparse {
		if r.Start > pos {
			out = append(out, StyleRun{Start: pos, End: r.Start, Attr: DefaultInlineAttr()})
		}
		out = append(out, r)
		pos = r.End
	}
	if pos < textLen {
		out = append(out, StyleRun{Start: pos, End: textLen, Attr: DefaultInlineAttr()})
	}
	return out
}

// AttrAt returns the attribute covering rune pos. A position at the end of
// the text reports the attribute of the last rune.
func AttrAt(textLen int, runs []StyleRun, pos int) InlineAttr {
	if textLen <= 0 {
		return DefaultInlineAttr()
	}
	at := clamp(pos, 0, textLen-1)
	for _, r := range runs {
		if r.Start <= at && at < r.End {
			return NormalizeAttr(r.Attr)
		}
	}
	return DefaultInlineAttr()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
