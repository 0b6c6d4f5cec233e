package app

import "wordimp/internal/styling"

// CaretMove names a caret motion for Move.
type CaretMove int

const (
	MoveLeft CaretMove = iota
	MoveRight
	MoveWordLeft
	MoveWordRight
	MoveLineStart
	MoveLineEnd
)

// Move moves the caret. With extend the selection grows from its anchor;
// otherwise any selection is dropped.
func (s *Session) Move(m CaretMove, extend bool) styling.Pos {
	if extend {
		s.buffer.EnsureSelectionAnchor()
	} else {
		s.buffer.ClearSelection()
	}
	switch m {
	case MoveLeft:
		s.buffer.MoveCaretLeft()
	case MoveRight:
		s.buffer.MoveCaretRight()
	case MoveWordLeft:
		s.buffer.MoveCaretWordLeft()
	case MoveWordRight:
		s.buffer.MoveCaretWordRight()
	case MoveLineStart:
		s.buffer.MoveCaretToLineStart()
	case MoveLineEnd:
		s.buffer.MoveCaretToLineEnd()
	}
	if extend {
		s.buffer.UpdateSelectionFromCaret()
	}
	s.syncCaretFormatting()
	return s.buffer.Caret()
}

func (s *Session) SelectAll() {
	s.buffer.SelectAll()
	s.syncCaretFormatting()
}

// Backspace deletes the selection, or the rune before the caret, joining
// paragraphs at a line start. It reports whether anything was deleted.
func (s *Session) Backspace() bool {
	return s.edit(s.buffer.Backspace)
}

func (s *Session) DeleteForward() bool {
	return s.edit(s.buffer.DeleteForward)
}

// NewParagraph splits the paragraph at the caret. The new paragraph keeps
// the style of the one split.
func (s *Session) NewParagraph() {
	s.edit(s.buffer.SplitParagraphAtCaret)
}

func (s *Session) edit(fn func()) bool {
	before, version := s.capture(), s.buffer.Version()
	fn()
	if s.buffer.Version() == version {
		return false
	}
	s.pushSnapshot(before)
	s.syncStyles()
	s.syncCaretFormatting()
	return true
}
