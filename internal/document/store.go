package document

import (
	"fmt"

	"wordimp/pkg/wpdoc"
)

// StyleStore maps paragraph indices to paragraph styles. Values go in and
// out as copies.
type StyleStore struct {
	styles wpdoc.ParagraphStyles
}

func NewStyleStore() *StyleStore {
	return &StyleStore{styles: wpdoc.ParagraphStyles{}}
}

func (s *StyleStore) Set(index int, style wpdoc.ParagraphStyle) error {
	if index < 0 {
		return fmt.Errorf("%w: paragraph index %d", wpdoc.ErrInvalidValue, index)
	}
	s.styles[index] = style.Coerce()
	return nil
}

// Get returns the stored style, or the default style and false.
func (s *StyleStore) Get(index int) (wpdoc.ParagraphStyle, bool) {
	st, ok := s.styles[index]
	if !ok {
		return wpdoc.DefaultParagraphStyle(), false
	}
	return st, true
}

func (s *StyleStore) Delete(index int) bool {
	if _, ok := s.styles[index]; !ok {
		return false
	}
	delete(s.styles, index)
	return true
}

func (s *StyleStore) Snapshot() wpdoc.ParagraphStyles {
	return s.styles.Clone()
}

// Replace swaps the whole mapping. Negative indices are dropped.
func (s *StyleStore) Replace(styles wpdoc.ParagraphStyles) {
	s.styles = wpdoc.ParagraphStyles{}
	for idx, st := range styles {
		if idx >= 0 {
			s.styles[idx] = st.Coerce()
		}
	}
}

func (s *StyleStore) Clear() {
	s.styles = wpdoc.ParagraphStyles{}
}

func (s *StyleStore) Len() int {
	return len(s.styles)
}
