package styling

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"wordimp/internal/formatting"
	"wordimp/pkg/wpdoc"
)

// Pos addresses a rune column within a line. Lines are paragraphs.
type Pos struct {
	Line int
	Col  int
}

type Range struct {
	Start Pos
	End   Pos
}

// Surface is the styled-text widget the Styler drives.
type Surface interface {
	LineCount() int
	LineText(line int) string
	Caret() Pos
	ReplaceLine(line int, text string)
	SetInline(r Range, attr wpdoc.InlineAttr)
	SetParagraph(line int, style wpdoc.ParagraphStyle)
	ParagraphStyle(line int) (wpdoc.ParagraphStyle, bool)
}

const (
	DefaultIndentWidth = 4
	DefaultBullet      = "•"
)

type Styler struct {
	surface     Surface
	indentWidth int
	bullet      string
}

type Option func(*Styler)

func WithIndentWidth(n int) Option {
	return func(s *Styler) {
		if n > 0 {
			s.indentWidth = n
		}
	}
}

func WithBullet(glyph string) Option {
	return func(s *Styler) {
		if g := strings.TrimSpace(glyph); g != "" {
			s.bullet = g
		}
	}
}

func New(surface Surface, opts ...Option) *Styler {
	s := &Styler{surface: surface, indentWidth: DefaultIndentWidth, bullet: DefaultBullet}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply styles the whole line under the caret.
func (s *Styler) Apply(state formatting.State) Range {
	line := s.surface.Caret().Line
	return s.ApplyTo(state, Range{Start: Pos{Line: line}, End: Pos{Line: line, Col: s.lineLen(line)}})
}

// ApplyTo styles r in a fixed order: list prefixes first, then inline
// attributes over the shifted range, then paragraph attributes for every
// touched line. Numbering continues from a numbered paragraph directly
// above r, and numbered paragraphs directly below r are renumbered, so the
// text matches what Restore produces. It returns the range after prefix
// rewriting.
func (s *Styler) ApplyTo(state formatting.State, r Range) Range {
	r = s.clampRange(r)
	ordinal := s.numberedAbove(r.Start.Line) + 1
	for line := r.Start.Line; line <= r.End.Line; line++ {
		delta := s.applyList(line, state.List, state.Indent, ordinal)
		if state.List == wpdoc.ListNumbered {
			ordinal++
		}
		if line == r.Start.Line {
			r.Start.Col = max(0, r.Start.Col+delta)
		}
		if line == r.End.Line {
			r.End.Col = max(0, r.End.Col+delta)
		}
	}
	r = s.clampRange(r)

	s.surface.SetInline(r, state.Inline())
	ps := state.ParagraphStyle()
	for line := r.Start.Line; line <= r.End.Line; line++ {
		s.surface.SetParagraph(line, ps)
	}
	s.renumberBelow(r.End.Line)
	return r
}

func (s *Styler) numbered(line int) bool {
	ps, ok := s.surface.ParagraphStyle(line)
	return ok && ps.Coerce().List == wpdoc.ListNumbered
}

// numberedAbove counts the numbered paragraphs directly above line.
func (s *Styler) numberedAbove(line int) int {
	n := 0
	for l := line - 1; l >= 0 && s.numbered(l); l-- {
		n++
	}
	return n
}

func (s *Styler) renumberBelow(line int) {
	ordinal := 0
	if s.numbered(line) {
		ordinal = s.numberedAbove(line) + 1
	}
	for l := line + 1; l < s.surface.LineCount() && s.numbered(l); l++ {
		ordinal++
		ps, _ := s.surface.ParagraphStyle(l)
		s.applyList(l, wpdoc.ListNumbered, ps.Coerce().Indent, ordinal)
	}
}

// Restore replays stored paragraph styles onto the surface after a load.
// Inline attributes are left alone. List prefixes are only written for list
// paragraphs, and numbering restarts after every non-numbered paragraph.
func (s *Styler) Restore(styles wpdoc.ParagraphStyles) {
	ordinal, prev := 0, -2
	for _, line := range styles.Indices() {
		if line < 0 || line >= s.surface.LineCount() {
			continue
		}
		ps := styles[line].Coerce()
		switch ps.List {
		case wpdoc.ListNumbered:
			if line != prev+1 {
				ordinal = 0
			}
			ordinal++
			prev = line
			s.applyList(line, ps.List, ps.Indent, ordinal)
		case wpdoc.ListBullet:
			s.applyList(line, ps.List, ps.Indent, 0)
		}
		s.surface.SetParagraph(line, ps)
	}
}

// applyList rewrites the list prefix of line and returns the change in rune
// length.
func (s *Styler) applyList(line int, list wpdoc.ListType, indent, ordinal int) int {
	old := s.surface.LineText(line)
	body := old
	if n := s.prefixLen(old); n > 0 {
		body = string([]rune(old)[n:])
	}

	var updated string
	switch list {
	case wpdoc.ListBullet:
		updated = s.prefix(indent) + s.bullet + " " + strings.TrimLeft(body, " \t")
	case wpdoc.ListNumbered:
		updated = s.prefix(indent) + strconv.Itoa(ordinal) + ". " + strings.TrimLeft(body, " \t")
	default:
		updated = body
	}
	if updated == old {
		return 0
	}
	s.surface.ReplaceLine(line, updated)
	return utf8.RuneCountInString(updated) - utf8.RuneCountInString(old)
}

func (s *Styler) prefixLen(line string) int {
	if n := wpdoc.ListPrefixLen(line); n > 0 {
		return n
	}
	rest := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(rest, s.bullet+" ") {
		return 0
	}
	lead := utf8.RuneCountInString(line) - utf8.RuneCountInString(rest)
	return lead + utf8.RuneCountInString(s.bullet) + 1
}

func (s *Styler) prefix(indent int) string {
	return strings.Repeat(" ", max(0, indent)*s.indentWidth)
}

func (s *Styler) lineLen(line int) int {
	return utf8.RuneCountInString(s.surface.LineText(line))
}

func (s *Styler) clampRange(r Range) Range {
	last := max(0, s.surface.LineCount()-1)
	clampPos := func(p Pos) Pos {
		p.Line = max(0, min(p.Line, last))
		p.Col = max(0, min(p.Col, s.lineLen(p.Line)))
		return p
	}
	r.Start, r.End = clampPos(r.Start), clampPos(r.End)
	if r.End.Line < r.Start.Line || (r.End.Line == r.Start.Line && r.End.Col < r.Start.Col) {
		r.Start, r.End = r.End, r.Start
	}
	return r
}
