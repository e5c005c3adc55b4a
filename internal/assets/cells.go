package assets

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/vovakirdan/raven-flight/internal/core"
)

// Cells is an image reduced to one colour per terminal cell. Transparent
// cells hold core.ColorDefault.
type Cells struct {
	W, H   int
	colors []core.Color
}

// At returns the colour of cell (x, y), or the default colour outside.
func (c Cells) At(x, y int) core.Color {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return core.ColorDefault
	}
	return c.colors[y*c.W+x]
}

// ToCells downsamples img to w×h cells.
func ToCells(img image.Image, w, h int) Cells {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	c := Cells{W: w, H: h, colors: make([]core.Color, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := dst.NRGBAAt(x, y)
			if px.A < 0x80 {
				continue
			}
			c.colors[y*w+x] = core.RGB(px.R, px.G, px.B)
		}
	}
	return c
}

// AverageColor returns the mean colour of the mostly opaque pixels of img.
func AverageColor(img image.Image) core.Color {
	var r, g, b, n uint64
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if px.A < 0x80 {
				continue
			}
			r += uint64(px.R)
			g += uint64(px.G)
			b += uint64(px.B)
			n++
		}
	}
	if n == 0 {
		return core.ColorDefault
	}
	return core.RGB(uint8(r/n), uint8(g/n), uint8(b/n))
}
