package formatting

import "wordimp/pkg/wpdoc"

// State is the formatting intent for the next styling pass. It is always
// fully populated and is copied by value.
type State struct {
	FontFamily string
	FontSize   int
	Foreground wpdoc.Colour
	Bold       bool
	Italic     bool
	Underline  bool
	Alignment  wpdoc.Alignment
	Indent     int
	List       wpdoc.ListType
}

func DefaultState() State {
	return State{
		FontFamily: wpdoc.DefaultFontFamily,
		FontSize:   wpdoc.DefaultFontSize,
		Foreground: wpdoc.Black,
		Alignment:  wpdoc.AlignLeft,
		List:       wpdoc.ListNone,
	}
}

func (s State) Inline() wpdoc.InlineAttr {
	return wpdoc.InlineAttr{
		FontFamily: s.FontFamily,
		FontSize:   s.FontSize,
		Foreground: s.Foreground,
		Bold:       s.Bold,
		Italic:     s.Italic,
		Underline:  s.Underline,
	}
}

func (s State) ParagraphStyle() wpdoc.ParagraphStyle {
	return wpdoc.ParagraphStyle{Alignment: s.Alignment, Indent: s.Indent, List: s.List}
}
