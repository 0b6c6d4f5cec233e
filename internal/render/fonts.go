package render

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontKey struct {
	mono   bool
	size   int
	bold   bool
	italic bool
}

type fontSet struct {
	regular    *opentype.Font
	bold       *opentype.Font
	italic     *opentype.Font
	boldItalic *opentype.Font
}

// fontBank maps inline attributes to Go font faces. Every family renders
// with Go Regular except monospace families, which use Go Mono.
type fontBank struct {
	sans  fontSet
	mono  fontSet
	dpi   float64
	cache map[fontKey]font.Face
}

func newFontBank(dpi float64) *fontBank {
	return &fontBank{
		sans:  parseSet(goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF),
		mono:  parseSet(gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF),
		dpi:   dpi,
		cache: map[fontKey]font.Face{},
	}
}

func parseSet(reg, bold, italic, boldItalic []byte) fontSet {
	var set fontSet
	set.regular, _ = opentype.Parse(reg)
	set.bold, _ = opentype.Parse(bold)
	set.italic, _ = opentype.Parse(italic)
	set.boldItalic, _ = opentype.Parse(boldItalic)
	return set
}

func isMonoFamily(family string) bool {
	f := strings.ToLower(family)
	return strings.Contains(f, "mono") || strings.Contains(f, "courier") || strings.Contains(f, "consolas")
}

func (b *fontBank) face(family string, size int, bold, italic bool) font.Face {
	key := fontKey{mono: isMonoFamily(family), size: size, bold: bold, italic: italic}
	if f, ok := b.cache[key]; ok {
		return f
	}
	set := b.sans
	if key.mono {
		set = b.mono
	}
	var base *opentype.Font
	switch {
	case bold && italic:
		base = set.boldItalic
	case bold:
		base = set.bold
	case italic:
		base = set.italic
	default:
		base = set.regular
	}
	if base == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(base, &opentype.FaceOptions{Size: float64(size), DPI: b.dpi, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[key] = face
	return face
}

func (b *fontBank) Close() {
	for k, f := range b.cache {
		_ = f.Close()
		delete(b.cache, k)
	}
}

// measure returns the advance width of s in whole pixels.
func measure(face font.Face, s string) int {
	if face == nil || s == "" {
		return 0
	}
	adv := font.MeasureString(face, s)
	return max(0, (int(adv)+32)>>6)
}
