package app

import (
	"wordimp/internal/styling"
	"wordimp/pkg/wpdoc"
)

type snapshot struct {
	doc   *wpdoc.Document
	caret styling.Pos
}

func (s *Session) capture() snapshot {
	return snapshot{doc: s.buffer.Document(), caret: s.buffer.Caret()}
}

func (s *Session) pushUndoSnapshot() {
	s.pushSnapshot(s.capture())
}

func (s *Session) pushSnapshot(snap snapshot) {
	s.undoHistory = append(s.undoHistory, snap)
	if len(s.undoHistory) > s.maxHistory {
		s.undoHistory = s.undoHistory[1:]
	}
	s.redoHistory = nil
}

func (s *Session) dropUndoSnapshot() {
	if n := len(s.undoHistory); n > 0 {
		s.undoHistory = s.undoHistory[:n-1]
	}
}

func (s *Session) CanUndo() bool { return len(s.undoHistory) > 0 }
func (s *Session) CanRedo() bool { return len(s.redoHistory) > 0 }

func (s *Session) Undo() bool {
	if len(s.undoHistory) == 0 {
		return false
	}
	last := s.undoHistory[len(s.undoHistory)-1]
	s.undoHistory = s.undoHistory[:len(s.undoHistory)-1]
	s.redoHistory = append(s.redoHistory, s.capture())
	s.restore(last)
	s.status = "Undo"
	return true
}

func (s *Session) Redo() bool {
	if len(s.redoHistory) == 0 {
		return false
	}
	last := s.redoHistory[len(s.redoHistory)-1]
	s.redoHistory = s.redoHistory[:len(s.redoHistory)-1]
	s.undoHistory = append(s.undoHistory, s.capture())
	s.restore(last)
	s.status = "Redo"
	return true
}

func (s *Session) restore(snap snapshot) {
	s.buffer.Load(snap.doc)
	s.buffer.SetCaret(snap.caret.Line, snap.caret.Col)
	s.syncStyles()
	s.syncCaretFormatting()
}
