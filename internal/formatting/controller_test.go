package formatting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wordimp/pkg/wpdoc"
)

func TestDefaults(t *testing.T) {
	s := NewController().State()
	require.Equal(t, "Helvetica", s.FontFamily)
	require.Equal(t, 12, s.FontSize)
	require.Equal(t, wpdoc.Black, s.Foreground)
	require.Equal(t, wpdoc.AlignLeft, s.Alignment)
	require.Equal(t, 0, s.Indent)
	require.Equal(t, wpdoc.ListNone, s.List)
	require.False(t, s.Bold || s.Italic || s.Underline)
}

func TestToggleTwiceRestores(t *testing.T) {
	c := NewController()
	before := c.State()
	require.True(t, c.ToggleBold())
	require.True(t, c.ToggleItalic())
	require.True(t, c.ToggleUnderline())
	require.False(t, c.ToggleBold())
	require.False(t, c.ToggleItalic())
	require.False(t, c.ToggleUnderline())
	require.Equal(t, before, c.State())
}

func TestIndentClampsAtZero(t *testing.T) {
	c := NewController()
	require.Equal(t, 0, c.DecreaseIndent())
	require.Equal(t, 1, c.IncreaseIndent())
	require.Equal(t, 2, c.IncreaseIndent())
	require.Equal(t, 1, c.DecreaseIndent())
	require.Equal(t, 0, c.SetIndent(-3))
	require.Equal(t, wpdoc.MaxIndent, c.SetIndent(1000))
}

func TestRejectedCallsLeaveStateUnchanged(t *testing.T) {
	c := NewController()
	c.ToggleBold()
	before := c.State()

	_, err := c.SetFontSize(0)
	require.ErrorIs(t, err, wpdoc.ErrInvalidValue)
	_, err = c.SetFontSize(-4)
	require.ErrorIs(t, err, wpdoc.ErrInvalidValue)
	_, err = c.SetFontFamily("   ")
	require.ErrorIs(t, err, wpdoc.ErrInvalidValue)
	_, err = c.SetForeground("#zzzzzz")
	require.ErrorIs(t, err, wpdoc.ErrInvalidValue)
	_, err = c.SetAlignmentName("sideways")
	require.ErrorIs(t, err, wpdoc.ErrInvalidValue)
	_, err = c.SetAlignment(wpdoc.Alignment(42))
	require.ErrorIs(t, err, wpdoc.ErrInvalidValue)
	_, err = c.SetListType(wpdoc.ListType(9))
	require.ErrorIs(t, err, wpdoc.ErrInvalidValue)

	require.Equal(t, before, c.State())
}

func TestSettersReturnResolvedValues(t *testing.T) {
	c := NewController()
	name, err := c.SetFontFamily("  Courier New ")
	require.NoError(t, err)
	require.Equal(t, "Courier New", name)

	size, err := c.SetFontSize(18)
	require.NoError(t, err)
	require.Equal(t, 18, size)

	col, err := c.SetForeground("#f00")
	require.NoError(t, err)
	require.Equal(t, wpdoc.Colour{R: 0xff}, col)

	a, err := c.SetAlignmentName("RIGHT")
	require.NoError(t, err)
	require.Equal(t, wpdoc.AlignRight, a)
	require.Equal(t, wpdoc.AlignJustify, c.CycleAlignment())
	require.Equal(t, wpdoc.AlignLeft, c.CycleAlignment())
}

func TestSetListTypeIsIdempotent(t *testing.T) {
	c := NewController()
	for i := 0; i < 2; i++ {
		got, err := c.SetListType(wpdoc.ListBullet)
		require.NoError(t, err)
		require.Equal(t, wpdoc.ListBullet, got)
		require.Equal(t, wpdoc.ListBullet, c.State().List)
	}
	c.ClearListType()
	require.Equal(t, wpdoc.ListNone, c.State().List)
}

func TestStateIsACopy(t *testing.T) {
	c := NewController()
	s := c.State()
	s.Bold = true
	s.FontSize = 99
	require.False(t, c.State().Bold)
	require.Equal(t, 12, c.State().FontSize)
}

func TestCustomDefaultsAndReset(t *testing.T) {
	c := NewControllerWithDefaults(State{FontFamily: "Georgia", FontSize: 14, Foreground: wpdoc.Colour{B: 0x80}, Alignment: wpdoc.Alignment(77)})
	c.ToggleBold()
	_, _ = c.SetFontSize(30)
	c.Reset()
	s := c.State()
	require.Equal(t, "Georgia", s.FontFamily)
	require.Equal(t, 14, s.FontSize)
	require.Equal(t, wpdoc.Colour{B: 0x80}, s.Foreground)
	require.Equal(t, wpdoc.AlignLeft, s.Alignment)
	require.False(t, s.Bold)
}

func TestLoadParagraphStyleKeepsInline(t *testing.T) {
	c := NewController()
	c.ToggleItalic()
	c.LoadParagraphStyle(wpdoc.ParagraphStyle{Alignment: wpdoc.AlignCenter, Indent: -2, List: wpdoc.ListNumbered})
	s := c.State()
	require.True(t, s.Italic)
	require.Equal(t, wpdoc.ParagraphStyle{Alignment: wpdoc.AlignCenter, Indent: 0, List: wpdoc.ListNumbered}, c.ParagraphStyle())
}
