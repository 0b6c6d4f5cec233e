package editor

import (
	"testing"

	"wordimp/internal/formatting"
	"wordimp/internal/styling"
	"wordimp/pkg/wpdoc"
)

func TestSplitParagraphAtCaret(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("hello world"))
	b.SetCaret(0, 5)
	b.SplitParagraphAtCaret()

	if b.LineCount() != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", b.LineCount())
	}
	if got := b.LineText(0); got != "hello" {
		t.Fatalf("unexpected first paragraph: %q", got)
	}
	if got := b.LineText(1); got != " world" {
		t.Fatalf("unexpected second paragraph: %q", got)
	}
	if got := b.Caret(); got != (Pos{Line: 1}) {
		t.Fatalf("unexpected caret: %+v", got)
	}
}

func TestBackspaceMergesWithPreviousParagraph(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("a\nb"))
	b.SetCaret(1, 0)
	b.Backspace()

	if b.LineCount() != 1 {
		t.Fatalf("expected 1 paragraph, got %d", b.LineCount())
	}
	if got := b.Text(); got != "ab" {
		t.Fatalf("unexpected merged text: %q", got)
	}
	if got := b.Caret(); got != (Pos{Col: 1}) {
		t.Fatalf("unexpected caret: %+v", got)
	}
}

func TestInsertAndDelete(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("abcd"))
	b.SetCaret(0, 2)
	if err := b.InsertAtCaret("X"); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "abXcd" {
		t.Fatalf("unexpected insert result: %q", got)
	}
	b.DeleteForward()
	if got := b.Text(); got != "abXd" {
		t.Fatalf("unexpected delete result: %q", got)
	}
	b.Backspace()
	if got := b.Text(); got != "abd" {
		t.Fatalf("unexpected backspace result: %q", got)
	}
}

func TestInsertRejectsInvalidUTF8(t *testing.T) {
	b := NewBuffer(nil)
	if err := b.InsertAtCaret("\xff"); err == nil {
		t.Fatal("expected invalid UTF-8 to be rejected")
	}
}

func TestDeleteSelectionAcrossParagraphs(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("abc\ndef\nghi"))
	b.Select(styling.Range{Start: Pos{Line: 0, Col: 1}, End: Pos{Line: 2, Col: 1}})
	if got := b.SelectedText(); got != "bc\ndef\ng" {
		t.Fatalf("unexpected selection: %q", got)
	}
	if !b.DeleteSelection() {
		t.Fatal("expected selection to be deleted")
	}
	if got := b.Text(); got != "ahi" {
		t.Fatalf("unexpected text: %q", got)
	}
	if b.HasSelection() {
		t.Fatal("selection should be cleared")
	}
}

func TestMultilineInsertKeepsParagraphStyle(t *testing.T) {
	doc := wpdoc.NewDocument("start end")
	doc.Styles[0] = wpdoc.ParagraphStyle{Alignment: wpdoc.AlignCenter}
	b := NewBuffer(doc)
	b.SetCaret(0, 6)
	if err := b.InsertAtCaret("one\r\ntwo\n"); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "start one\ntwo\nend" {
		t.Fatalf("unexpected text: %q", got)
	}
	if got := b.Caret(); got != (Pos{Line: 2}) {
		t.Fatalf("unexpected caret: %+v", got)
	}
	styles := b.ParagraphStyles()
	if len(styles) != 3 || styles[2].Alignment != wpdoc.AlignCenter {
		t.Fatalf("unexpected styles: %+v", styles)
	}
}

func TestStyleFollowsParagraphOnSplit(t *testing.T) {
	doc := wpdoc.NewDocument("a\nb")
	doc.Styles[1] = wpdoc.ParagraphStyle{Indent: 2}
	b := NewBuffer(doc)
	b.SetCaret(0, 0)
	b.SplitParagraphAtCaret()

	if _, ok := b.ParagraphStyle(2); !ok {
		t.Fatal("style should move with its paragraph")
	}
	if _, ok := b.ParagraphStyle(1); ok {
		t.Fatal("unexpected style on paragraph 1")
	}
}

func TestToggleBoldOnSelection(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("hello world"))
	b.Select(styling.Range{Start: Pos{Col: 6}, End: Pos{Col: 11}})
	b.ToggleBold()

	runs := b.Runs(0)
	if len(runs) != 1 || runs[0].Start != 6 || runs[0].End != 11 || !runs[0].Attr.Bold {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	b.ToggleBold()
	if runs := b.Runs(0); len(runs) != 0 {
		t.Fatalf("expected default runs to be dropped, got %+v", runs)
	}
}

func TestInsertInheritsAttrBeforeCaret(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("ab"))
	b.SetInline(styling.Range{Start: Pos{Col: 0}, End: Pos{Col: 1}}, wpdoc.InlineAttr{Italic: true})
	b.SetCaret(0, 1)
	if err := b.InsertAtCaret("X"); err != nil {
		t.Fatal(err)
	}
	if !b.AttrAt(Pos{Col: 2}).Italic {
		t.Fatal("inserted rune should inherit italic")
	}
	if b.AttrAt(Pos{Col: 3}).Italic {
		t.Fatal("trailing rune should stay plain")
	}
}

func TestMergeKeepsRuns(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("ab\ncd"))
	b.SetInline(styling.Range{Start: Pos{Line: 1}, End: Pos{Line: 1, Col: 2}}, wpdoc.InlineAttr{Underline: true})
	b.SetCaret(1, 0)
	b.Backspace()

	runs := b.Runs(0)
	if len(runs) != 1 || runs[0].Start != 2 || runs[0].End != 4 || !runs[0].Attr.Underline {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestReplaceRange(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("one\ntwo\nthree"))
	end := b.ReplaceRange(styling.Range{Start: Pos{Line: 0, Col: 2}, End: Pos{Line: 2, Col: 2}}, "X\nY")
	if got := b.Text(); got != "onX\nYree" {
		t.Fatalf("unexpected text: %q", got)
	}
	if end != (Pos{Line: 1, Col: 1}) {
		t.Fatalf("unexpected end: %+v", end)
	}
}

func TestWordMovement(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("alpha, beta gamma"))
	b.MoveCaretWordRight()
	if got := b.Caret().Col; got != 5 {
		t.Fatalf("word right: got %d want 5", got)
	}
	b.MoveCaretWordRight()
	if got := b.Caret().Col; got != 11 {
		t.Fatalf("word right: got %d want 11", got)
	}
	b.MoveCaretWordLeft()
	if got := b.Caret().Col; got != 7 {
		t.Fatalf("word left: got %d want 7", got)
	}
}

func TestCaretWrapsAcrossParagraphs(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("ab\ncd"))
	b.SetCaret(0, 2)
	b.MoveCaretRight()
	if got := b.Caret(); got != (Pos{Line: 1}) {
		t.Fatalf("unexpected caret: %+v", got)
	}
	b.MoveCaretLeft()
	if got := b.Caret(); got != (Pos{Col: 2}) {
		t.Fatalf("unexpected caret: %+v", got)
	}
}

func TestOffsets(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("héllo\nwörld"))
	p, err := b.PosAt(8)
	if err != nil {
		t.Fatal(err)
	}
	if p != (Pos{Line: 1, Col: 2}) {
		t.Fatalf("unexpected pos: %+v", p)
	}
	if got := b.OffsetOf(p); got != 8 {
		t.Fatalf("offset: got %d want 8", got)
	}
	if _, err := b.PosAt(12); err == nil {
		t.Fatal("expected offset past end to fail")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := wpdoc.NewDocument("a\nb")
	doc.Paragraphs[1].Runs = []wpdoc.StyleRun{{Start: 0, End: 1, Attr: wpdoc.InlineAttr{Bold: true}}}
	doc.Styles[0] = wpdoc.ParagraphStyle{List: wpdoc.ListBullet}

	got := NewBuffer(doc).Document()
	if got.Text() != "a\nb" {
		t.Fatalf("unexpected text: %q", got.Text())
	}
	if len(got.Paragraphs[1].Runs) != 1 || !got.Paragraphs[1].Runs[0].Attr.Bold {
		t.Fatalf("unexpected runs: %+v", got.Paragraphs[1].Runs)
	}
	if got.Styles[0].List != wpdoc.ListBullet {
		t.Fatalf("unexpected styles: %+v", got.Styles)
	}
}

func TestStylerDrivesBuffer(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("item"))
	s := styling.New(b)
	r := s.ApplyTo(formattingBulletBold(), styling.Range{End: Pos{Col: 4}})
	if got := b.Text(); got != "• item" {
		t.Fatalf("unexpected text: %q", got)
	}
	if r.End.Col != 6 {
		t.Fatalf("unexpected range: %+v", r)
	}
	if !b.AttrAt(Pos{Col: 6}).Bold {
		t.Fatal("expected bold after styling")
	}
	if ps, ok := b.ParagraphStyle(0); !ok || ps.List != wpdoc.ListBullet {
		t.Fatalf("unexpected paragraph style: %+v", ps)
	}
}

func TestReapplyingFormattingKeepsVersion(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("item\nnext"))
	s := styling.New(b)
	st := formattingBulletBold()
	st.Alignment = wpdoc.AlignCenter

	s.Apply(st)
	v := b.Version()
	s.Apply(st)
	if b.Version() != v {
		t.Fatalf("second application changed the buffer: version %d -> %d", v, b.Version())
	}
	if got := b.Text(); got != "• item\nnext" {
		t.Fatalf("unexpected text: %q", got)
	}

	b.SetParagraph(1, wpdoc.DefaultParagraphStyle())
	v = b.Version()
	b.SetParagraph(1, wpdoc.DefaultParagraphStyle())
	if b.Version() != v {
		t.Fatal("setting the same paragraph style twice should not count as a change")
	}
}

func TestNumberingContinuesAcrossApplications(t *testing.T) {
	b := NewBuffer(wpdoc.NewDocument("a\nb\nc"))
	s := styling.New(b)
	st := formatting.DefaultState()
	st.List = wpdoc.ListNumbered

	s.ApplyTo(st, styling.Range{End: Pos{Line: 1, Col: 1}})
	s.ApplyTo(st, styling.Range{Start: Pos{Line: 2}, End: Pos{Line: 2, Col: 1}})
	if got := b.Text(); got != "1. a\n2. b\n3. c" {
		t.Fatalf("unexpected numbering: %q", got)
	}

	st.List = wpdoc.ListNone
	s.ApplyTo(st, styling.Range{Start: Pos{Line: 1}, End: Pos{Line: 1, Col: 4}})
	if got := b.Text(); got != "1. a\nb\n1. c" {
		t.Fatalf("numbering after a gap should restart: %q", got)
	}
}

func formattingBulletBold() formatting.State {
	st := formatting.DefaultState()
	st.Bold = true
	st.List = wpdoc.ListBullet
	return st
}
