package raven

import "github.com/vovakirdan/raven-flight/internal/core"

// Ground is the scrolling band at the bottom of the field.
// Offset always stays in [0, TileWidth).
type Ground struct {
	Offset    float64
	Height    float64
	TileWidth float64
}

// Scroll moves the ground left by speed.
func (g *Ground) Scroll(speed float64) {
	g.Offset = core.Wrap(g.Offset-speed, g.TileWidth)
}

// Top returns the y-coordinate where the ground band starts.
func (g Ground) Top(fieldH float64) float64 {
	return fieldH - g.Height
}
