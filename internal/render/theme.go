package render

import "image/color"

type Theme struct {
	Canvas color.RGBA
	Page   color.RGBA
	Border color.RGBA
	Accent color.RGBA
	Shadow color.RGBA
	// AccentHeight is the height of the bar along the top edge of the page.
	AccentHeight int
	ShadowOffset int
}

func DefaultTheme() Theme {
	return Theme{
		Canvas:       color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Page:         color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Border:       color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Accent:       color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Shadow:       color.RGBA{0xC8, 0xCF, 0xDB, 0xFF},
		AccentHeight: 3,
		ShadowOffset: 2,
	}
}
