package raven

import (
	"fmt"
	"math"

	"github.com/vovakirdan/raven-flight/internal/assets"
	"github.com/vovakirdan/raven-flight/internal/core"
)

// Art supplies scaled sprites. *assets.Gate implements it.
type Art interface {
	Cells(name assets.Name, w, h int) (assets.Cells, bool)
}

// RenderOptions tune the terminal projection.
type RenderOptions struct {
	Title  string
	Hitbox bool // outline the collision box
}

const (
	mudDark   core.Color = "#a0845c"
	panelFill core.Color = "#10161f"
)

// viewport maps the logical field onto the screen. Every cell holds two
// vertically stacked pixels, drawn with a half block.
type viewport struct {
	ox, oy     int // screen offset of the top-left cell
	cols, rows int
	pw, ph     int // pixel size
	sx, sy     float64
}

func fit(screenW, screenH int, fieldW, fieldH float64) viewport {
	ph := screenH * 2
	pw := int(math.Round(float64(ph) * fieldW / fieldH))
	if pw > screenW {
		pw = screenW
		ph = int(math.Round(float64(pw) * fieldH / fieldW))
	}
	pw, ph = core.Max(pw, 1), core.Max(ph, 2)
	rows := (ph + 1) / 2
	return viewport{
		ox:   (screenW - pw) / 2,
		oy:   (screenH - rows) / 2,
		cols: pw,
		rows: rows,
		pw:   pw,
		ph:   ph,
		sx:   float64(pw) / fieldW,
		sy:   float64(ph) / fieldH,
	}
}

// project converts a field rectangle to pixel coordinates.
func (v viewport) project(r core.RectF) core.Rect {
	x0 := int(math.Round(r.Left() * v.sx))
	y0 := int(math.Round(r.Top() * v.sy))
	x1 := int(math.Round(r.Right() * v.sx))
	y1 := int(math.Round(r.Bottom() * v.sy))
	return core.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

type canvas struct {
	w, h int
	px   []core.Color
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, px: make([]core.Color, w*h)}
}

func (c *canvas) set(x, y int, col core.Color) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h || col == core.ColorDefault {
		return
	}
	c.px[y*c.w+x] = col
}

func (c *canvas) at(x, y int) core.Color {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return core.ColorDefault
	}
	return c.px[y*c.w+x]
}

func (c *canvas) fill(r core.Rect, col core.Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.set(x, y, col)
		}
	}
}

// blit copies the opaque cells of src into r.
func (c *canvas) blit(r core.Rect, src assets.Cells) {
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			c.set(r.X+x, r.Y+y, src.At(x, y))
		}
	}
}

func (c *canvas) outline(r core.Rect, col core.Color) {
	for x := r.X; x < r.Right(); x++ {
		c.set(x, r.Y, col)
		c.set(x, r.Bottom()-1, col)
	}
	for y := r.Y; y < r.Bottom(); y++ {
		c.set(r.X, y, col)
		c.set(r.Right()-1, y, col)
	}
}

// flush writes pixel pairs to dst as upper half blocks.
func (c *canvas) flush(dst *core.Screen, ox, oy int) {
	for row := 0; row*2 < c.h; row++ {
		for x := 0; x < c.w; x++ {
			top, bottom := c.at(x, row*2), c.at(x, row*2+1)
			cell := core.Cell{Rune: '▀', Fg: top, Bg: bottom}
			switch {
			case top == core.ColorDefault && bottom == core.ColorDefault:
				cell = core.Cell{Rune: ' '}
			case top == core.ColorDefault:
				cell = core.Cell{Rune: '▄', Fg: bottom}
			}
			dst.SetCell(ox+x, oy+row, cell)
		}
	}
}

// Render draws the session into dst: background, obstacles, ground band,
// raven, then the HUD. art may be nil.
func Render(dst *core.Screen, s *Session, art Art, opts RenderOptions) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	cfg := s.Config()
	v := fit(dst.Width(), dst.Height(), cfg.Field.Width, cfg.Field.Height)
	cv := newCanvas(v.pw, v.ph)
	sprite := func(name assets.Name, r core.Rect) bool {
		if art == nil {
			return false
		}
		cells, ok := art.Cells(name, r.W, r.H)
		if ok {
			cv.blit(r, cells)
		}
		return ok
	}

	full := core.Rect{W: v.pw, H: v.ph}
	if !sprite(assets.Background, full) {
		cv.fill(full, core.ColorSky)
	}

	ground := s.Ground()
	floor := ground.Top(cfg.Field.Height)
	for _, o := range s.Obstacles() {
		top := v.project(o.TopRect())
		if !sprite(assets.PipeTop, top) {
			cv.fill(top, core.ColorStone)
			cv.outline(top, core.ColorMoss)
		}
		bottom := v.project(o.BottomRect(floor))
		if !sprite(assets.PipeBottom, bottom) {
			cv.fill(bottom, core.ColorStone)
			cv.outline(bottom, core.ColorMoss)
		}
	}

	drawGround(cv, v, ground, cfg.Field.Width, cfg.Field.Height, sprite)

	a := s.Actor()
	name := assets.Raven
	if a.Frame == FrameFlapping {
		name = assets.RavenFlap
	}
	if !sprite(name, v.project(a.Sprite())) {
		drawDisc(cv, v, a)
	}
	if opts.Hitbox {
		cv.outline(v.project(a.Hitbox()), core.ColorBlood)
	}

	cv.flush(dst, v.ox, v.oy)
	drawHUD(dst, v, s, opts)
}

func drawGround(cv *canvas, v viewport, g Ground, fieldW, fieldH float64, sprite func(assets.Name, core.Rect) bool) {
	band := v.project(core.RectF{Y: g.Top(fieldH), W: fieldW, H: g.Height})
	if g.TileWidth > 0 {
		tiled := true
		for x := g.Offset - g.TileWidth; x < fieldW && tiled; x += g.TileWidth {
			tile := v.project(core.RectF{X: x, Y: g.Top(fieldH), W: g.TileWidth, H: g.Height})
			tiled = sprite(assets.Ground, tile)
		}
		if tiled {
			return
		}
	}

	cv.fill(band, core.ColorMud)
	if g.TileWidth <= 0 {
		return
	}
	// Darker stripes every half tile make the scroll visible.
	half := g.TileWidth / 2
	for px := 0; px < v.pw; px++ {
		fx := (float64(px) + 0.5) / v.sx
		if int(math.Floor((fx-g.Offset)/half))%2 == 0 {
			continue
		}
		for py := band.Y + 1; py < band.Bottom(); py++ {
			cv.set(px, py, mudDark)
		}
	}
}

func drawDisc(cv *canvas, v viewport, a Actor) {
	box := v.project(a.Hitbox())
	for py := box.Y; py < box.Bottom(); py++ {
		for px := box.X; px < box.Right(); px++ {
			dx := (float64(px)+0.5)/v.sx - a.X
			dy := (float64(py)+0.5)/v.sy - a.Y
			if dx*dx+dy*dy <= a.Radius*a.Radius {
				cv.set(px, py, core.ColorGold)
			}
		}
	}
	// Keep the raven visible on tiny screens.
	cv.set(int(a.X*v.sx), int(a.Y*v.sy), core.ColorGold)
}

func drawHUD(dst *core.Screen, v viewport, s *Session, opts RenderOptions) {
	dst.DrawText(v.ox+1, v.oy, fmt.Sprintf("Score: %d", s.Score()), core.ColorGold)

	if w := s.Whisper(); w != "" {
		centerText(dst, v, v.oy+v.rows/4, w, core.ColorFrost)
	}

	switch s.Phase() {
	case PhaseIdle:
		title := opts.Title
		if title == "" {
			title = "Raven Flight"
		}
		prompt := "Press Enter to take flight"
		if !s.Ready() {
			prompt = "Gathering runes..."
		}
		drawPanel(dst, v, core.ColorRune, title,
			"Fly between the roots of Yggdrasil.",
			"",
			prompt)
	case PhaseOver:
		drawPanel(dst, v, core.ColorBlood, s.Cause().Title(),
			fmt.Sprintf("Your flight ended at a rune value of: %d", s.Score()),
			"",
			"Press Space to fly again")
	}
}

func centerText(dst *core.Screen, v viewport, y int, text string, fg core.Color) {
	n := len([]rune(text))
	x := v.ox + (v.cols-n)/2
	if n > v.cols {
		x = (dst.Width() - n) / 2
	}
	dst.DrawText(core.Max(x, 0), y, text, fg)
}

func drawPanel(dst *core.Screen, v viewport, accent core.Color, title string, lines ...string) {
	width := len([]rune(title))
	for _, l := range lines {
		width = core.Max(width, len([]rune(l)))
	}
	w := width + 4
	h := len(lines) + 4
	x := v.ox + (v.cols-w)/2
	if w > v.cols {
		x = (dst.Width() - w) / 2
	}
	y := v.oy + (v.rows-h)/2
	box := core.NewRect(core.Max(x, 0), core.Max(y, 0), w, h)

	dst.FillRect(box, core.Cell{Rune: ' ', Bg: panelFill})
	dst.DrawBox(box, accent)
	dst.DrawText(box.X+(w-len([]rune(title)))/2, box.Y+1, title, accent)
	for i, l := range lines {
		dst.DrawText(box.X+(w-len([]rune(l)))/2, box.Y+3+i, l, core.ColorFrost)
	}
}
