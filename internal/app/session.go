package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"wordimp/internal/document"
	"wordimp/internal/editing"
	"wordimp/internal/editor"
	"wordimp/internal/formatting"
	"wordimp/internal/insertion"
	"wordimp/internal/recent"
	"wordimp/internal/styling"
	"wordimp/pkg/wpdoc"
)

type Options struct {
	Logger     *slog.Logger
	Formatting formatting.State
	Styling    []styling.Option
	Insertions *insertion.Registry
	// Recent is optional. Failures to record are logged and ignored.
	Recent     *recent.Store
	MaxHistory int
}

// Session ties one open document to its buffer, formatting state, and
// paragraph style store.
type Session struct {
	buffer  *editor.Buffer
	format  *formatting.Controller
	docs    *document.Controller
	styler  *styling.Styler
	inserts *insertion.Registry
	recent  *recent.Store
	logger  *slog.Logger

	status       string
	cleanVersion int
	undoHistory  []snapshot
	redoHistory  []snapshot
	maxHistory   int
}

func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Formatting == (formatting.State{}) {
		opts.Formatting = formatting.DefaultState()
	}
	inserts := opts.Insertions
	if inserts == nil {
		inserts = insertion.Builtins(nil)
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = 100
	}

	s := &Session{
		buffer:     editor.NewBuffer(nil),
		format:     formatting.NewControllerWithDefaults(opts.Formatting),
		docs:       document.NewController(document.WithLogger(logger)),
		inserts:    inserts,
		recent:     opts.Recent,
		logger:     logger,
		maxHistory: opts.MaxHistory,
	}
	s.styler = styling.New(s.buffer, opts.Styling...)
	s.NewDocument()
	return s
}

func (s *Session) Buffer() *editor.Buffer {
	return s.buffer
}

func (s *Session) Formatting() *formatting.Controller {
	return s.format
}

func (s *Session) Insertions() *insertion.Registry {
	return s.inserts
}

func (s *Session) Status() string {
	return s.status
}

func (s *Session) Path() string {
	return s.docs.Path()
}

func (s *Session) Modified() bool {
	return s.docs.Modified() || s.buffer.Version() != s.cleanVersion
}

// Title is the document name, prefixed with "*" when there are unsaved
// changes.
func (s *Session) Title() string {
	if s.Modified() {
		return "*" + s.docs.Title()
	}
	return s.docs.Title()
}

func (s *Session) SupportedFileTypes() []document.FileType {
	return document.SupportedFileTypes()
}

// Document snapshots the buffer together with the stored paragraph styles.
func (s *Session) Document() *wpdoc.Document {
	s.syncStyles()
	doc := s.buffer.Document()
	doc.Styles = s.docs.ParagraphStyles()
	return doc
}

func (s *Session) ParagraphStyles() wpdoc.ParagraphStyles {
	s.syncStyles()
	return s.docs.ParagraphStyles()
}

func (s *Session) NewDocument() {
	s.load(s.docs.NewDocument())
	s.status = "New document"
}

// Open replaces the session document with path. On failure the current
// document is untouched.
func (s *Session) Open(path string) error {
	doc, err := s.docs.Open(path)
	if err != nil {
		s.status = "Open failed: " + err.Error()
		return err
	}
	rewritten := s.load(doc)
	s.remember(path, "open")
	s.status = "Opened " + filepath.Base(path)
	if rewritten && listsInText(path) {
		s.docs.MarkModified()
		s.status += " (list markers updated)"
	}
	return nil
}

// Load replaces the session document with doc without touching the disk.
func (s *Session) Load(doc *wpdoc.Document) {
	s.docs.Close()
	s.docs.ReplaceParagraphStyles(doc.Styles)
	rewritten := s.load(doc)
	s.docs.MarkClean()
	if rewritten {
		s.docs.MarkModified()
	}
}

// load reports whether replaying the paragraph styles rewrote any list
// marker in the text.
func (s *Session) load(doc *wpdoc.Document) bool {
	s.buffer.Load(doc)
	loaded := s.buffer.Version()
	s.styler.Restore(s.docs.ParagraphStyles())
	s.format.Reset()
	s.undoHistory, s.redoHistory = nil, nil
	s.syncCaretFormatting()
	s.cleanVersion = s.buffer.Version()
	return s.cleanVersion != loaded
}

// listsInText reports whether the format at path stores list markers as
// plain text rather than as paragraph properties.
func listsInText(path string) bool {
	c, err := wpdoc.CodecFor(path)
	return err != nil || !c.Native().List
}

func (s *Session) Save() (*wpdoc.SaveReport, error) {
	return s.SaveAs("")
}

// SaveAs writes to path, or to the current path when path is empty.
func (s *Session) SaveAs(path string) (*wpdoc.SaveReport, error) {
	s.syncStyles()
	report, err := s.docs.Save(s.buffer.Document(), path)
	if err != nil {
		s.status = "Save failed: " + err.Error()
		return nil, err
	}
	s.cleanVersion = s.buffer.Version()
	s.remember(report.Path, "save")
	s.status = "Saved " + filepath.Base(report.Path)
	if len(report.Dropped) > 0 {
		s.status += " (dropped " + strings.Join(report.Dropped, ", ") + ")"
	}
	return report, nil
}

func (s *Session) Close() {
	s.docs.Close()
	s.load(wpdoc.NewDocument(""))
	s.status = "Closed"
}

func (s *Session) remember(path, action string) {
	if s.recent == nil {
		return
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := s.recent.Add(path, format, action); err != nil {
		s.logger.Warn("could not record recent document", "path", path, "err", err)
	}
}

func (s *Session) RecentDocuments(ctx context.Context) []recent.Entry {
	if s.recent == nil {
		return nil
	}
	return s.recent.List(ctx)
}

// syncStyles mirrors the buffer's paragraph styles into the store. Styles
// travel with their paragraphs in the buffer, so splits and merges are
// reflected here.
func (s *Session) syncStyles() {
	s.docs.ReplaceParagraphStyles(s.buffer.ParagraphStyles())
}

func (s *Session) Stats() editing.Summary {
	return editing.Summarize(s.buffer.Text())
}

// MoveCaret places the caret and loads the formatting of its position into
// the formatting controller.
func (s *Session) MoveCaret(line, col int) styling.Pos {
	s.buffer.ClearSelection()
	s.buffer.SetCaret(line, col)
	s.syncCaretFormatting()
	return s.buffer.Caret()
}

func (s *Session) Select(r styling.Range) {
	s.buffer.Select(r)
	s.syncCaretFormatting()
}

func (s *Session) syncCaretFormatting() {
	caret := s.buffer.Caret()
	ps, _ := s.buffer.ParagraphStyle(caret.Line)
	s.format.LoadParagraphStyle(ps)
	if s.buffer.LineText(caret.Line) != "" {
		s.format.LoadInline(s.buffer.CurrentAttr())
	}
}

// ApplyFormatting styles the selection, or the caret line when nothing is
// selected, with the current formatting state.
func (s *Session) ApplyFormatting() styling.Range {
	return s.ApplyFormattingTo(s.buffer.Selection())
}

func (s *Session) ApplyFormattingTo(r styling.Range) styling.Range {
	before, version := s.capture(), s.buffer.Version()
	st := s.format.State()
	out := s.styler.ApplyTo(st, r)
	if s.buffer.Version() == version {
		s.status = "Formatting unchanged"
		return out
	}
	s.pushSnapshot(before)
	ps := st.ParagraphStyle()
	for line := out.Start.Line; line <= out.End.Line; line++ {
		if cur, ok := s.docs.ParagraphStyle(line); ok && cur == ps {
			continue
		}
		if err := s.docs.RecordParagraphStyle(line, ps); err != nil {
			s.logger.Warn("could not record paragraph style", "line", line, "err", err)
		}
	}
	s.syncStyles()
	s.status = fmt.Sprintf("Formatted %d paragraph(s)", out.End.Line-out.Start.Line+1)
	return out
}

// InsertText types text at the caret, replacing any selection.
func (s *Session) InsertText(text string) error {
	s.pushUndoSnapshot()
	if err := s.buffer.InsertAtCaret(text); err != nil {
		s.dropUndoSnapshot()
		return err
	}
	s.syncStyles()
	return nil
}

// InsertObject runs the insertion handler for label and types its token at
// the caret.
func (s *Session) InsertObject(label string, args ...string) (string, error) {
	token, err := s.inserts.Insert(label, args...)
	if err != nil {
		return "", err
	}
	if err := s.InsertText(token); err != nil {
		return "", err
	}
	s.status = "Inserted " + label
	return token, nil
}

func (s *Session) Find(query string, caseSensitive bool) editing.Matches {
	return editing.FindMatches(s.buffer.Text(), query, caseSensitive)
}

// FindNext selects the next match after the caret.
func (s *Session) FindNext(query string, caseSensitive, wrap bool) (editing.Span, bool, error) {
	from := s.buffer.OffsetOf(s.buffer.Caret())
	start, ok, err := editing.NextOccurrence(s.buffer.Text(), query, from, caseSensitive, wrap)
	if err != nil || !ok {
		if err == nil {
			s.status = fmt.Sprintf("%q not found", query)
		}
		return editing.Span{}, false, err
	}
	span := editing.Span{Start: start, End: start + utf8.RuneCountInString(query)}
	if err := s.selectSpan(span); err != nil {
		return editing.Span{}, false, err
	}
	return span, true, nil
}

// ReplaceNext replaces the first match at or after the selection start (or
// the caret) and leaves the caret after the inserted text.
func (s *Session) ReplaceNext(query, replacement string, caseSensitive, wrap bool) (editing.ReplacementSummary, error) {
	from := s.buffer.OffsetOf(s.buffer.Caret())
	if start, _, ok := s.buffer.SelectionRange(); ok {
		from = s.buffer.OffsetOf(start)
	}
	text := s.buffer.Text()
	res, err := editing.Replace(text, query, replacement, editing.ReplaceOptions{CaseSensitive: caseSensitive, Start: from, Wrap: wrap})
	if err != nil || res.Count == 0 {
		return res, err
	}
	s.pushUndoSnapshot()
	old := editing.Span{Start: res.First.Start, End: res.First.Start + utf8.RuneCountInString(query)}
	end, err := s.replaceSpan(old, replacement)
	if err != nil {
		return res, err
	}
	s.buffer.ClearSelection()
	s.buffer.SetCaret(end.Line, end.Col)
	s.syncStyles()
	s.status = "Replaced 1 occurrence"
	return res, nil
}

// ReplaceAll replaces every match. Edits run back to front so earlier
// offsets stay valid and styling on untouched text survives.
func (s *Session) ReplaceAll(query, replacement string, caseSensitive bool) (editing.ReplacementSummary, error) {
	text := s.buffer.Text()
	matches := editing.FindMatches(text, query, caseSensitive)
	res, err := editing.Replace(text, query, replacement, editing.ReplaceOptions{CaseSensitive: caseSensitive, All: true})
	if err != nil || res.Count == 0 {
		return res, err
	}
	s.pushUndoSnapshot()
	for i := len(matches.Spans) - 1; i >= 0; i-- {
		if _, err := s.replaceSpan(matches.Spans[i], replacement); err != nil {
			return res, err
		}
	}
	s.buffer.ClearSelection()
	s.syncStyles()
	s.status = fmt.Sprintf("Replaced %d occurrence(s)", res.Count)
	return res, nil
}

func (s *Session) replaceSpan(span editing.Span, text string) (styling.Pos, error) {
	start, err := s.buffer.PosAt(span.Start)
	if err != nil {
		return styling.Pos{}, err
	}
	end, err := s.buffer.PosAt(span.End)
	if err != nil {
		return styling.Pos{}, err
	}
	return s.buffer.ReplaceRange(styling.Range{Start: start, End: end}, text), nil
}

func (s *Session) selectSpan(span editing.Span) error {
	start, err := s.buffer.PosAt(span.Start)
	if err != nil {
		return err
	}
	end, err := s.buffer.PosAt(span.End)
	if err != nil {
		return err
	}
	s.buffer.Select(styling.Range{Start: start, End: end})
	return nil
}
