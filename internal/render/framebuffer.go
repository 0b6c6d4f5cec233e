package render

import (
	"image"
	"image/color"
	"image/draw"
)

// FrameBuffer is an RGBA page canvas. Every fill is clipped to its bounds.
type FrameBuffer struct {
	W   int
	H   int
	img *image.RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	w, h = max(w, 1), max(h, 1)
	return &FrameBuffer{W: w, H: h, img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (fb *FrameBuffer) Image() *image.RGBA {
	return fb.img
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	draw.Draw(fb.img, fb.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(fb.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(fb.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// StrokeRect draws a border of the given thickness just inside the
// rectangle.
func (fb *FrameBuffer) StrokeRect(x, y, w, h, thickness int, c color.RGBA) {
	t := max(thickness, 1)
	for _, edge := range [...]image.Rectangle{
		image.Rect(x, y, x+w, y+t),
		image.Rect(x, y+h-t, x+w, y+h),
		image.Rect(x, y, x+t, y+h),
		image.Rect(x+w-t, y, x+w, y+h),
	} {
		fb.FillRect(edge.Min.X, edge.Min.Y, edge.Dx(), edge.Dy(), c)
	}
}
