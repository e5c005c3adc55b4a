package core

import (
	"fmt"
	"image/color"
)

// Color is a terminal colour in "#rrggbb" form. The zero value means the
// terminal's default colour.
type Color string

// Palette used when an image asset is unavailable.
const (
	ColorDefault Color = ""
	ColorSky     Color = "#1b2a3a"
	ColorStone   Color = "#6b8e23"
	ColorMoss    Color = "#556b2f"
	ColorMud     Color = "#d2b48c"
	ColorGold    Color = "#ffd700"
	ColorAmber   Color = "#daa520"
	ColorFrost   Color = "#dfe9f3"
	ColorBlood   Color = "#b22222"
	ColorRune    Color = "#9fc5e8"
)

// RGB builds a Color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// FromColor converts any image/color value, ignoring alpha.
func FromColor(c color.Color) Color {
	if c == nil {
		return ColorDefault
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB(n.R, n.G, n.B)
}

// Or returns c, or fallback when c is the default colour.
func (c Color) Or(fallback Color) Color {
	if c == ColorDefault {
		return fallback
	}
	return c
}
