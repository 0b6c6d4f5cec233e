package formatting

import (
	"fmt"
	"strings"

	"wordimp/pkg/wpdoc"
)

// Controller owns a State and validates every change to it. A rejected call
// leaves the state untouched.
type Controller struct {
	state    State
	defaults State
}

func NewController() *Controller {
	return NewControllerWithDefaults(DefaultState())
}

// NewControllerWithDefaults uses base as the reset target. Invalid fields in
// base fall back to DefaultState.
func NewControllerWithDefaults(base State) *Controller {
	def := DefaultState()
	if strings.TrimSpace(base.FontFamily) != "" {
		def.FontFamily = strings.TrimSpace(base.FontFamily)
	}
	if base.FontSize > 0 {
		def.FontSize = base.FontSize
	}
	def.Foreground = base.Foreground
	def.Bold, def.Italic, def.Underline = base.Bold, base.Italic, base.Underline
	if base.Alignment.Valid() {
		def.Alignment = base.Alignment
	}
	if base.Indent > 0 {
		def.Indent = min(base.Indent, wpdoc.MaxIndent)
	}
	if base.List.Valid() {
		def.List = base.List
	}
	return &Controller{state: def, defaults: def}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) ParagraphStyle() wpdoc.ParagraphStyle {
	return c.state.ParagraphStyle()
}

func (c *Controller) Reset() {
	c.state = c.defaults
}

func (c *Controller) ToggleBold() bool {
	c.state.Bold = !c.state.Bold
	return c.state.Bold
}

func (c *Controller) ToggleItalic() bool {
	c.state.Italic = !c.state.Italic
	return c.state.Italic
}

func (c *Controller) ToggleUnderline() bool {
	c.state.Underline = !c.state.Underline
	return c.state.Underline
}

func (c *Controller) SetFontFamily(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c.state.FontFamily, fmt.Errorf("%w: empty font family", wpdoc.ErrInvalidValue)
	}
	c.state.FontFamily = name
	return name, nil
}

func (c *Controller) SetFontSize(points int) (int, error) {
	if points <= 0 {
		return c.state.FontSize, fmt.Errorf("%w: font size %d", wpdoc.ErrInvalidValue, points)
	}
	c.state.FontSize = points
	return points, nil
}

func (c *Controller) SetForeground(colour string) (wpdoc.Colour, error) {
	v, err := wpdoc.ParseColour(colour)
	if err != nil {
		return c.state.Foreground, err
	}
	c.state.Foreground = v
	return v, nil
}

func (c *Controller) SetForegroundColour(v wpdoc.Colour) wpdoc.Colour {
	c.state.Foreground = v
	return v
}

func (c *Controller) SetAlignment(a wpdoc.Alignment) (wpdoc.Alignment, error) {
	if !a.Valid() {
		return c.state.Alignment, fmt.Errorf("%w: alignment %d", wpdoc.ErrInvalidValue, uint8(a))
	}
	c.state.Alignment = a
	return a, nil
}

func (c *Controller) SetAlignmentName(name string) (wpdoc.Alignment, error) {
	a, err := wpdoc.ParseAlignment(name)
	if err != nil {
		return c.state.Alignment, err
	}
	c.state.Alignment = a
	return a, nil
}

func (c *Controller) CycleAlignment() wpdoc.Alignment {
	c.state.Alignment = c.state.Alignment.Next()
	return c.state.Alignment
}

// SetIndent clamps level into [0, wpdoc.MaxIndent].
func (c *Controller) SetIndent(level int) int {
	c.state.Indent = max(0, min(level, wpdoc.MaxIndent))
	return c.state.Indent
}

func (c *Controller) IncreaseIndent() int {
	return c.SetIndent(c.state.Indent + 1)
}

func (c *Controller) DecreaseIndent() int {
	return c.SetIndent(c.state.Indent - 1)
}

// SetListType selects kind. Selecting the active kind again keeps it.
func (c *Controller) SetListType(kind wpdoc.ListType) (wpdoc.ListType, error) {
	if !kind.Valid() {
		return c.state.List, fmt.Errorf("%w: list type %d", wpdoc.ErrInvalidValue, uint8(kind))
	}
	c.state.List = kind
	return kind, nil
}

func (c *Controller) SetListTypeName(name string) (wpdoc.ListType, error) {
	kind, err := wpdoc.ParseListType(name)
	if err != nil {
		return c.state.List, err
	}
	return c.SetListType(kind)
}

func (c *Controller) ClearListType() {
	c.state.List = wpdoc.ListNone
}

// LoadParagraphStyle adopts the stored style of the paragraph under the
// caret. Inline fields are kept.
func (c *Controller) LoadParagraphStyle(ps wpdoc.ParagraphStyle) {
	ps = ps.Coerce()
	c.state.Alignment = ps.Alignment
	c.state.Indent = ps.Indent
	c.state.List = ps.List
}

// LoadInline adopts the attributes under the caret. Paragraph fields are
// kept.
func (c *Controller) LoadInline(a wpdoc.InlineAttr) {
	a = wpdoc.NormalizeAttr(a)
	c.state.FontFamily = a.FontFamily
	c.state.FontSize = a.FontSize
	c.state.Foreground = a.Foreground
	c.state.Bold, c.state.Italic, c.state.Underline = a.Bold, a.Italic, a.Underline
}
