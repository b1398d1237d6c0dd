package export

import (
	"image/color"
	"strings"
)

// Theme carries the palette used when rasterizing report panels. It is passed
// explicitly to every renderer.
type Theme struct {
	Name       string
	Background color.RGBA
	Surface    color.RGBA
	Text       color.RGBA
	Muted      color.RGBA
	Accent     color.RGBA
	Positive   color.RGBA
	Negative   color.RGBA
	Series     []color.RGBA
}

var (
	// LightTheme matches the default console palette.
	LightTheme = Theme{
		Name:       "light",
		Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Surface:    color.RGBA{R: 249, G: 250, B: 251, A: 255},
		Text:       color.RGBA{R: 17, G: 24, B: 39, A: 255},
		Muted:      color.RGBA{R: 107, G: 114, B: 128, A: 255},
		Accent:     color.RGBA{R: 124, G: 58, B: 237, A: 255},
		Positive:   color.RGBA{R: 16, G: 185, B: 129, A: 255},
		Negative:   color.RGBA{R: 239, G: 68, B: 68, A: 255},
		Series: []color.RGBA{
			{R: 124, G: 58, B: 237, A: 255},
			{R: 236, G: 72, B: 153, A: 255},
			{R: 156, G: 163, B: 175, A: 255},
			{R: 59, G: 130, B: 246, A: 255},
		},
	}

	// DarkTheme is the dark-mode palette.
	DarkTheme = Theme{
		Name:       "dark",
		Background: color.RGBA{R: 17, G: 24, B: 39, A: 255},
		Surface:    color.RGBA{R: 31, G: 41, B: 55, A: 255},
		Text:       color.RGBA{R: 243, G: 244, B: 246, A: 255},
		Muted:      color.RGBA{R: 156, G: 163, B: 175, A: 255},
		Accent:     color.RGBA{R: 167, G: 139, B: 250, A: 255},
		Positive:   color.RGBA{R: 52, G: 211, B: 153, A: 255},
		Negative:   color.RGBA{R: 248, G: 113, B: 113, A: 255},
		Series: []color.RGBA{
			{R: 167, G: 139, B: 250, A: 255},
			{R: 244, G: 114, B: 182, A: 255},
			{R: 209, G: 213, B: 219, A: 255},
			{R: 96, G: 165, B: 250, A: 255},
		},
	}
)

// ThemeByName resolves a configured theme name, defaulting to light.
func ThemeByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), DarkTheme.Name) {
		return DarkTheme
	}
	return LightTheme
}

// SeriesColor cycles through the theme's series palette.
func (t Theme) SeriesColor(i int) color.RGBA {
	if len(t.Series) == 0 {
		return t.Accent
	}
	return t.Series[i%len(t.Series)]
}
