package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"wordimp/pkg/wpdoc"
)

type Options struct {
	// Width of the page in pixels.
	Width  int
	Margin int
	DPI    float64
	// IndentStep is the horizontal offset per indent level, in pixels.
	IndentStep int
	Theme      Theme
}

func DefaultOptions() Options {
	return Options{Width: 816, Margin: 72, DPI: 72, IndentStep: 36, Theme: DefaultTheme()}
}

type piece struct {
	text  string
	attr  wpdoc.InlineAttr
	face  font.Face
	width int
	space bool
}

type line struct {
	pieces  []piece
	width   int
	ascent  int
	descent int
	// last marks the final line of a paragraph, which justify leaves ragged.
	last bool
}

type paragraphLayout struct {
	lines []line
	style wpdoc.ParagraphStyle
}

// Render lays doc out on a single page tall enough to hold every
// paragraph.
func Render(doc *wpdoc.Document, opts Options) (*image.RGBA, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: nil document")
	}
	if opts.Width <= 2*opts.Margin {
		return nil, fmt.Errorf("%w: page width %d leaves no room inside margin %d", wpdoc.ErrInvalidValue, opts.Width, opts.Margin)
	}
	if opts.DPI <= 0 {
		opts.DPI = 72
	}
	if opts.IndentStep <= 0 {
		opts.IndentStep = int(opts.DPI / 2)
	}

	bank := newFontBank(opts.DPI)
	defer bank.Close()

	avail := opts.Width - 2*opts.Margin
	layouts := make([]paragraphLayout, len(doc.Paragraphs))
	height := 2 * opts.Margin
	for i, p := range doc.Paragraphs {
		style := doc.Styles.Get(i)
		width := max(1, avail-style.Indent*opts.IndentStep)
		layouts[i] = paragraphLayout{lines: wrap(bank, p, width), style: style}
		for _, ln := range layouts[i].lines {
			height += lineHeight(ln)
		}
	}

	fb := NewFrameBuffer(opts.Width, height)
	th := opts.Theme
	fb.Clear(th.Canvas)
	fb.FillRect(th.ShadowOffset, th.ShadowOffset, fb.W-th.ShadowOffset, fb.H-th.ShadowOffset, th.Shadow)
	fb.FillRect(0, 0, fb.W-th.ShadowOffset, fb.H-th.ShadowOffset, th.Page)
	fb.StrokeRect(0, 0, fb.W-th.ShadowOffset, fb.H-th.ShadowOffset, 1, th.Border)
	fb.FillRect(0, 0, fb.W-th.ShadowOffset, max(1, th.AccentHeight), th.Accent)

	y := opts.Margin
	for _, pl := range layouts {
		left := opts.Margin + pl.style.Indent*opts.IndentStep
		width := opts.Width - opts.Margin - left
		for _, ln := range pl.lines {
			drawLine(fb, ln, left, y+ln.ascent, width, pl.style.Alignment)
			y += lineHeight(ln)
		}
	}
	return fb.Image(), nil
}

func WritePNG(w io.Writer, doc *wpdoc.Document, opts Options) error {
	img, err := Render(doc, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func lineHeight(ln line) int {
	return ln.ascent + ln.descent + max(2, (ln.ascent+ln.descent)/4)
}

// wrap breaks p into lines no wider than width. Words wider than a whole
// line overflow rather than split.
func wrap(bank *fontBank, p wpdoc.Paragraph, width int) []line {
	pieces := tokenize(bank, p)
	var lines []line
	cur := line{}
	flush := func() {
		for len(cur.pieces) > 0 && cur.pieces[len(cur.pieces)-1].space {
			cur.width -= cur.pieces[len(cur.pieces)-1].width
			cur.pieces = cur.pieces[:len(cur.pieces)-1]
		}
		lines = append(lines, cur)
		cur = line{}
	}
	for _, pc := range pieces {
		if pc.space && len(cur.pieces) == 0 && len(lines) > 0 {
			continue
		}
		if !pc.space && len(cur.pieces) > 0 && cur.width+pc.width > width {
			flush()
		}
		cur.pieces = append(cur.pieces, pc)
		cur.width += pc.width
		m := pc.face.Metrics()
		cur.ascent = max(cur.ascent, m.Ascent.Ceil())
		cur.descent = max(cur.descent, m.Descent.Ceil())
	}
	if len(cur.pieces) == 0 && len(lines) == 0 {
		m := bank.face(wpdoc.DefaultFontFamily, wpdoc.DefaultFontSize, false, false).Metrics()
		cur.ascent, cur.descent = m.Ascent.Ceil(), m.Descent.Ceil()
	}
	if len(cur.pieces) > 0 || len(lines) == 0 {
		flush()
	}
	lines[len(lines)-1].last = true
	return lines
}

// tokenize splits p into alternating word and whitespace pieces, each with
// a single attribute.
func tokenize(bank *fontBank, p wpdoc.Paragraph) []piece {
	runes := []rune(p.Text)
	var out []piece
	for _, r := range wpdoc.Coverage(len(runes), p.Runs) {
		attr := wpdoc.NormalizeAttr(r.Attr)
		face := bank.face(attr.FontFamily, attr.FontSize, attr.Bold, attr.Italic)
		start := r.Start
		for start < r.End {
			space := unicode.IsSpace(runes[start])
			end := start + 1
			for end < r.End && unicode.IsSpace(runes[end]) == space {
				end++
			}
			text := string(runes[start:end])
			if space {
				text = strings.ReplaceAll(text, "\t", "    ")
			}
			out = append(out, piece{text: text, attr: attr, face: face, width: measure(face, text), space: space})
			start = end
		}
	}
	return out
}

func drawLine(fb *FrameBuffer, ln line, left, baseline, width int, align wpdoc.Alignment) {
	x := left
	extra := 0
	spaces := 0
	switch align {
	case wpdoc.AlignCenter:
		x += max(0, (width-ln.width)/2)
	case wpdoc.AlignRight:
		x += max(0, width-ln.width)
	case wpdoc.AlignJustify:
		if !ln.last {
			for _, pc := range ln.pieces {
				if pc.space {
					spaces++
				}
			}
			extra = max(0, width-ln.width)
		}
	}

	for _, pc := range ln.pieces {
		w := pc.width
		if pc.space && spaces > 0 {
			share := extra / spaces
			extra -= share
			spaces--
			w += share
		}
		if !pc.space {
			d := font.Drawer{
				Dst:  fb.Image(),
				Src:  image.NewUniform(rgba(pc.attr.Foreground)),
				Face: pc.face,
				Dot:  fixed.P(x, baseline),
			}
			d.DrawString(pc.text)
		}
		if pc.attr.Underline {
			thick := max(1, pc.face.Metrics().Height.Ceil()/14)
			fb.FillRect(x, baseline+max(1, thick), w, thick, rgba(pc.attr.Foreground))
		}
		x += w
	}
}

func rgba(c wpdoc.Colour) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}
