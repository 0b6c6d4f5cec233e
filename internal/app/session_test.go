package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wordimp/internal/formatting"
	"wordimp/internal/insertion"
	"wordimp/internal/recent"
	"wordimp/internal/styling"
	"wordimp/pkg/wpdoc"
	_ "wordimp/pkg/wpdoc/docx"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	s := New(Options{
		Logger:     NewLogger(&logs, slog.LevelDebug),
		Insertions: insertion.Builtins(func() time.Time { return at }),
		Recent:     recent.Open(filepath.Join(t.TempDir(), "recent"), 5),
	})
	return s, &logs
}

func TestNewSessionIsCleanAndUntitled(t *testing.T) {
	s, _ := newTestSession(t)
	require.False(t, s.Modified())
	require.Equal(t, "Untitled", s.Title())
	require.Equal(t, "", s.Buffer().Text())
	require.Len(t, s.SupportedFileTypes(), 3)
}

func TestTypingMarksModified(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("hello"))
	require.True(t, s.Modified())
	require.Equal(t, "*Untitled", s.Title())
}

func TestApplyFormattingRecordsParagraphStyles(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("one\ntwo"))
	_, err := s.Formatting().SetListType(wpdoc.ListNumbered)
	require.NoError(t, err)
	_, err = s.Formatting().SetAlignmentName("center")
	require.NoError(t, err)

	s.Select(styling.Range{End: styling.Pos{Line: 1, Col: 3}})
	s.ApplyFormatting()

	require.Equal(t, "1. one\n2. two", s.Buffer().Text())
	want := wpdoc.ParagraphStyle{Alignment: wpdoc.AlignCenter, List: wpdoc.ListNumbered}
	require.Equal(t, wpdoc.ParagraphStyles{0: want, 1: want}, s.ParagraphStyles())
}

func TestStylesFollowParagraphEdits(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("a\nb"))
	s.MoveCaret(1, 0)
	s.Formatting().SetIndent(2)
	s.ApplyFormatting()

	s.MoveCaret(0, 0)
	require.NoError(t, s.InsertText("top\n"))
	require.Equal(t, wpdoc.ParagraphStyles{2: {Indent: 2}}, s.ParagraphStyles())
}

func TestMoveCaretLoadsParagraphStyle(t *testing.T) {
	s, _ := newTestSession(t)
	doc := wpdoc.NewDocument("left\nright")
	doc.Styles[1] = wpdoc.ParagraphStyle{Alignment: wpdoc.AlignRight}
	s.Load(doc)
	require.False(t, s.Modified())

	s.MoveCaret(1, 2)
	require.Equal(t, wpdoc.AlignRight, s.Formatting().State().Alignment)
	s.MoveCaret(0, 0)
	require.Equal(t, wpdoc.AlignLeft, s.Formatting().State().Alignment)
}

func TestSaveOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "letter.txt")
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("Dear reader\nitem"))
	s.MoveCaret(1, 0)
	_, err := s.Formatting().SetListType(wpdoc.ListBullet)
	require.NoError(t, err)
	s.ApplyFormatting()

	report, err := s.SaveAs(path)
	require.NoError(t, err)
	require.Equal(t, wpdoc.SidecarPath(path), report.Sidecar)
	require.False(t, s.Modified())
	require.Equal(t, "letter.txt", s.Title())

	other, _ := newTestSession(t)
	require.NoError(t, other.Open(path))
	require.Equal(t, "Dear reader\n• item", other.Buffer().Text())
	require.Equal(t, wpdoc.ParagraphStyles{1: {List: wpdoc.ListBullet}}, other.ParagraphStyles())
	require.False(t, other.Modified())

	recents := s.RecentDocuments(context.Background())
	require.Len(t, recents, 1)
	require.Equal(t, "save", recents[0].Action)
}

func TestReapplyingFormattingIsNotAnEdit(t *testing.T) {
	s, _ := newTestSession(t)
	s.Load(wpdoc.NewDocument("apples\npears"))
	_, err := s.Formatting().SetListType(wpdoc.ListBullet)
	require.NoError(t, err)
	all := styling.Range{End: styling.Pos{Line: 1, Col: 5}}

	out := s.ApplyFormattingTo(all)
	require.True(t, s.Modified())
	_, err = s.SaveAs(filepath.Join(t.TempDir(), "fruit.txt"))
	require.NoError(t, err)
	require.True(t, s.CanUndo())
	require.True(t, s.Undo())
	require.True(t, s.Redo())
	_, err = s.Save()
	require.NoError(t, err)

	version := s.Buffer().Version()
	s.ApplyFormattingTo(out)
	require.Equal(t, version, s.Buffer().Version())
	require.False(t, s.Modified())
	require.False(t, s.CanRedo())
	require.Equal(t, "Formatting unchanged", s.Status())
	require.True(t, s.Undo(), "the earlier edit is still the top of the history")
	require.Equal(t, "apples\npears", s.Buffer().Text())
}

func TestNumberedListSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("a\nb\nc"))
	_, err := s.Formatting().SetListType(wpdoc.ListNumbered)
	require.NoError(t, err)
	s.ApplyFormattingTo(styling.Range{End: styling.Pos{Line: 1, Col: 1}})
	s.ApplyFormattingTo(styling.Range{Start: styling.Pos{Line: 2}, End: styling.Pos{Line: 2, Col: 1}})
	require.Equal(t, "1. a\n2. b\n3. c", s.Buffer().Text())
	_, err = s.SaveAs(path)
	require.NoError(t, err)

	other, _ := newTestSession(t)
	require.NoError(t, other.Open(path))
	require.Equal(t, s.Buffer().Text(), other.Buffer().Text())
	require.False(t, other.Modified())
}

func TestOpenMarksRenumberedListModified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edited.txt")
	doc := wpdoc.NewDocument("1. a\n1. b")
	doc.Styles[0] = wpdoc.ParagraphStyle{List: wpdoc.ListNumbered}
	doc.Styles[1] = wpdoc.ParagraphStyle{List: wpdoc.ListNumbered}
	_, err := wpdoc.Save(path, doc)
	require.NoError(t, err)

	s, _ := newTestSession(t)
	require.NoError(t, s.Open(path))
	require.Equal(t, "1. a\n2. b", s.Buffer().Text())
	require.True(t, s.Modified())
	require.Contains(t, s.Status(), "list markers updated")
}

func TestDocxListsOpenWithMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.docx")
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("apples\npears"))
	_, err := s.Formatting().SetListType(wpdoc.ListBullet)
	require.NoError(t, err)
	s.ApplyFormattingTo(styling.Range{End: styling.Pos{Line: 1, Col: 5}})
	require.Equal(t, "• apples\n• pears", s.Buffer().Text())
	_, err = s.SaveAs(path)
	require.NoError(t, err)

	other, _ := newTestSession(t)
	require.NoError(t, other.Open(path))
	require.Equal(t, "• apples\n• pears", other.Buffer().Text())
	require.False(t, other.Modified())
}

func TestSaveWithoutPathFails(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Save()
	require.Error(t, err)
	require.Contains(t, s.Status(), "Save failed")
}

func TestOpenFailureKeepsDocument(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("keep me"))
	err := s.Open(filepath.Join(t.TempDir(), "gone.rtf"))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, "keep me", s.Buffer().Text())

	err = s.Open("notes.odt")
	require.ErrorIs(t, err, wpdoc.ErrUnsupportedFormat)
	require.Equal(t, "keep me", s.Buffer().Text())
}

func TestDocxRoundTripThroughSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("Title\nBody"))
	s.Select(styling.Range{End: styling.Pos{Col: 5}})
	s.Formatting().ToggleBold()
	_, err := s.Formatting().SetAlignment(wpdoc.AlignCenter)
	require.NoError(t, err)
	s.ApplyFormatting()

	report, err := s.SaveAs(path)
	require.NoError(t, err)
	require.Empty(t, report.Sidecar)
	require.NoFileExists(t, wpdoc.SidecarPath(path))

	other, _ := newTestSession(t)
	require.NoError(t, other.Open(path))
	require.Equal(t, "Title\nBody", other.Buffer().Text())
	require.True(t, other.Buffer().AttrAt(styling.Pos{Col: 3}).Bold)
	require.Equal(t, wpdoc.AlignCenter, other.ParagraphStyles()[0].Alignment)
}

func TestFindNextSelectsAndWraps(t *testing.T) {
	s, _ := newTestSession(t)
	s.Load(wpdoc.NewDocument("cat\ndog cat"))

	span, ok, err := s.FindNext("CAT", false, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, span.Start)
	require.Equal(t, "cat", s.Buffer().SelectedText())

	span, ok, err = s.FindNext("cat", true, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 8, span.Start)

	_, ok, err = s.FindNext("cat", true, false)
	require.NoError(t, err)
	require.False(t, ok)

	span, ok, err = s.FindNext("cat", true, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, span.Start)
	require.Equal(t, 2, s.Find("cat", true).Count())
}

func TestReplaceNextAdvances(t *testing.T) {
	s, _ := newTestSession(t)
	s.Load(wpdoc.NewDocument("a a a"))

	res, err := s.ReplaceNext("a", "aa", true, false)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	require.Equal(t, "aa a a", s.Buffer().Text())

	_, err = s.ReplaceNext("a", "aa", true, false)
	require.NoError(t, err)
	require.Equal(t, "aa aa a", s.Buffer().Text())
	require.True(t, s.Modified())
}

func TestReplaceAllKeepsStylingOnUntouchedText(t *testing.T) {
	s, _ := newTestSession(t)
	doc := wpdoc.NewDocument("foo bar foo")
	doc.Paragraphs[0].Runs = []wpdoc.StyleRun{{Start: 4, End: 7, Attr: wpdoc.NormalizeAttr(wpdoc.InlineAttr{Italic: true})}}
	s.Load(doc)

	res, err := s.ReplaceAll("foo", "bazooka", true)
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	require.Equal(t, "bazooka bar bazooka", s.Buffer().Text())
	require.Equal(t, res.Text, s.Buffer().Text())

	runs := s.Buffer().Runs(0)
	require.Len(t, runs, 1)
	require.Equal(t, 8, runs[0].Start)
	require.Equal(t, 11, runs[0].End)
}

func TestReplaceAllAcrossParagraphs(t *testing.T) {
	s, _ := newTestSession(t)
	s.Load(wpdoc.NewDocument("end\nstart"))
	res, err := s.ReplaceAll("d\ns", "D S", true)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	require.Equal(t, "enD Start", s.Buffer().Text())
}

func TestInsertObject(t *testing.T) {
	s, _ := newTestSession(t)
	token, err := s.InsertObject("date")
	require.NoError(t, err)
	require.Equal(t, "2024-05-01", token)
	require.Equal(t, "2024-05-01", s.Buffer().Text())

	_, err = s.InsertObject("chart")
	require.ErrorIs(t, err, insertion.ErrUnknownHandler)
}

func TestUndoRedo(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("one"))
	require.NoError(t, s.InsertText(" two"))
	require.True(t, s.Undo())
	require.Equal(t, "one", s.Buffer().Text())
	require.True(t, s.Redo())
	require.Equal(t, "one two", s.Buffer().Text())
	require.False(t, s.Redo())
}

func TestStats(t *testing.T) {
	s, _ := newTestSession(t)
	s.Load(wpdoc.NewDocument("two words\nthree more words"))
	st := s.Stats()
	require.Equal(t, 5, st.Words)
	require.Equal(t, 2, st.Lines)
}

func TestCloseResetsEverything(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.InsertText("x"))
	s.Formatting().ToggleItalic()
	s.ApplyFormatting()
	s.Close()

	require.Equal(t, "", s.Buffer().Text())
	require.Empty(t, s.ParagraphStyles())
	require.False(t, s.Modified())
	require.False(t, s.CanUndo())
	require.Equal(t, formatting.DefaultState(), s.Formatting().State())
}

func TestConfiguredFormattingDefaults(t *testing.T) {
	base := formatting.DefaultState()
	base.FontFamily = "Georgia"
	s := New(Options{Formatting: base, Logger: NewLogger(&bytes.Buffer{}, slog.LevelDebug)})
	require.Equal(t, "Georgia", s.Formatting().State().FontFamily)
	s.Close()
	require.Equal(t, "Georgia", s.Formatting().State().FontFamily)
}
