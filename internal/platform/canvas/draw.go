package canvas

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/raven-flight/internal/assets"
	"github.com/vovakirdan/raven-flight/internal/core"
	"github.com/vovakirdan/raven-flight/internal/raven"
)

// Debug font cell size.
const (
	glyphW = 6
	glyphH = 16
)

var panelFill = color.NRGBA{R: 0x10, G: 0x16, B: 0x20, A: 0xd8}

// syncImages rebuilds the GPU images once a new asset load has settled.
func (w *Window) syncImages() {
	gate := w.game.Gate()
	if gate == w.gate || gate == nil || !gate.Ready() {
		return
	}
	w.gate = gate
	w.images = make(map[assets.Name]*ebiten.Image, len(assets.Names))
	for _, name := range assets.Names {
		if img, ok := gate.Image(name); ok {
			w.images[name] = ebiten.NewImageFromImage(img)
		}
	}
}

// sprite draws the named image stretched over r. It reports false when
// the image is missing so the caller can draw a fallback.
func (w *Window) sprite(dst *ebiten.Image, name assets.Name, r core.RectF) bool {
	img, ok := w.images[name]
	if !ok || r.W <= 0 || r.H <= 0 {
		return false
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.W/float64(b.Dx()), r.H/float64(b.Dy()))
	op.GeoM.Translate(r.X, r.Y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
	return true
}

func fillRect(dst *ebiten.Image, r core.RectF, c core.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), toColor(c), false)
}

func strokeRect(dst *ebiten.Image, r core.RectF, c core.Color) {
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, toColor(c), false)
}

// Draw renders background, obstacles, ground, raven and HUD.
func (w *Window) Draw(screen *ebiten.Image) {
	w.syncImages()
	s := w.game.Session()
	cfg := s.Config()
	fw, fh := cfg.Field.Width, cfg.Field.Height

	if !w.sprite(screen, assets.Background, core.RectF{W: fw, H: fh}) {
		screen.Fill(toColor(core.ColorSky))
	}

	ground := s.Ground()
	floor := ground.Top(fh)
	for _, o := range s.Obstacles() {
		for _, part := range []struct {
			name assets.Name
			r    core.RectF
		}{
			{assets.PipeTop, o.TopRect()},
			{assets.PipeBottom, o.BottomRect(floor)},
		} {
			if !w.sprite(screen, part.name, part.r) {
				fillRect(screen, part.r, core.ColorStone)
				strokeRect(screen, part.r, core.ColorMoss)
			}
		}
	}

	w.drawGround(screen, ground, fw, fh)

	a := s.Actor()
	name := assets.Raven
	if a.Frame == raven.FrameFlapping {
		name = assets.RavenFlap
	}
	if !w.sprite(screen, name, a.Sprite()) {
		vector.DrawFilledCircle(screen, float32(a.X), float32(a.Y), float32(a.Radius), toColor(core.ColorGold), true)
	}
	if w.game.Hitbox() {
		strokeRect(screen, a.Hitbox(), core.ColorBlood)
	}

	w.drawHUD(screen, s, fw, fh)
}

func (w *Window) drawGround(dst *ebiten.Image, g raven.Ground, fw, fh float64) {
	top := g.Top(fh)
	if g.TileWidth > 0 {
		if _, ok := w.images[assets.Ground]; ok {
			for x := g.Offset - g.TileWidth; x < fw; x += g.TileWidth {
				w.sprite(dst, assets.Ground, core.RectF{X: x, Y: top, W: g.TileWidth, H: g.Height})
			}
			return
		}
	}

	fillRect(dst, core.RectF{Y: top, W: fw, H: g.Height}, core.ColorMud)
	if g.TileWidth <= 0 {
		return
	}
	half := g.TileWidth / 2
	for x := g.Offset - g.TileWidth; x < fw; x += g.TileWidth {
		fillRect(dst, core.RectF{X: x + half, Y: top + 2, W: half, H: g.Height - 2}, core.ColorAmber)
	}
}

func (w *Window) drawHUD(dst *ebiten.Image, s *raven.Session, fw, fh float64) {
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("Score: %d", s.Score()), 8, 6)

	if msg := s.Whisper(); msg != "" {
		printCentered(dst, msg, fw, fh/4)
	}

	switch s.Phase() {
	case raven.PhaseIdle:
		prompt := "Press Enter to take flight"
		if !s.Ready() {
			prompt = "Gathering runes..."
		}
		drawPanel(dst, fw, fh, core.ColorRune, w.game.Title(),
			"Fly between the roots of Yggdrasil.", "", prompt)
	case raven.PhaseOver:
		lines := []string{
			fmt.Sprintf("Your flight ended at a rune value of: %d", s.Score()),
			"",
			"Press Space to fly again",
		}
		if w.status != "" {
			lines = append(lines, "", w.status)
		}
		for i, e := range w.list {
			lines = append(lines, fmt.Sprintf("%d. %s %d", i+1, e.Name, e.Score))
		}
		drawPanel(dst, fw, fh, core.ColorBlood, s.Cause().Title(), lines...)
	}
}

func printCentered(dst *ebiten.Image, text string, fw, y float64) {
	x := (fw - float64(len(text)*glyphW)) / 2
	ebitenutil.DebugPrintAt(dst, text, int(max(x, 0)), int(y))
}

func drawPanel(dst *ebiten.Image, fw, fh float64, accent core.Color, title string, lines ...string) {
	width := len(title)
	for _, l := range lines {
		width = max(width, len(l))
	}
	pw := float64(width*glyphW + 24)
	ph := float64((len(lines)+2)*glyphH + 16)
	box := core.RectF{X: (fw - pw) / 2, Y: (fh - ph) / 2, W: pw, H: ph}

	vector.DrawFilledRect(dst, float32(box.X), float32(box.Y), float32(box.W), float32(box.H), panelFill, false)
	strokeRect(dst, box, accent)

	y := box.Y + 8
	printCentered(dst, title, fw, y)
	for _, l := range lines {
		y += glyphH
		printCentered(dst, l, fw, y)
	}
}
