package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"testing/fstest"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/raven-flight/internal/config"
	"github.com/vovakirdan/raven-flight/internal/core"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func waitGate(t *testing.T, g *Gate) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.Wait(ctx); err != nil {
		t.Fatalf("gate never settled: %v", err)
	}
}

func TestManifestFromConfig(t *testing.T) {
	m := ManifestFromConfig(config.DefaultRavenConfig().Assets)
	if len(m) != len(Names) {
		t.Fatalf("manifest has %d entries, expected %d", len(m), len(Names))
	}
	if m[Ground] != "ground_strip.png" {
		t.Errorf("ground = %q", m[Ground])
	}

	partial := ManifestFromConfig(config.AssetConfig{Files: map[string]string{"raven": "./a/../raven.png"}})
	if len(partial) != 1 || partial[Raven] != "raven.png" {
		t.Errorf("partial manifest = %v", partial)
	}
}

func TestLoaderSettlesWithFailures(t *testing.T) {
	fsys := fstest.MapFS{
		"ground.png": {Data: solidPNG(t, 48, 20, color.NRGBA{R: 0xd2, G: 0xb4, B: 0x8c, A: 0xff})},
		"raven.png":  {Data: solidPNG(t, 8, 6, color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff})},
		"broken.png": {Data: []byte("not an image")},
	}
	manifest := Manifest{
		Ground:     "ground.png",
		Raven:      "raven.png",
		Background: "broken.png",
		PipeTop:    "missing.png",
	}

	g := NewLoader(fsys, manifest, quietLogger()).Load(context.Background())
	waitGate(t, g)

	if !g.Ready() {
		t.Fatal("gate should be ready after Wait")
	}
	if w, h, ok := g.Size(Ground); !ok || w != 48 || h != 20 {
		t.Errorf("ground size = %dx%d ok=%v", w, h, ok)
	}
	if got := g.Tint(Ground, core.ColorGold); got != core.ColorMud {
		t.Errorf("ground tint = %q, expected %q", got, core.ColorMud)
	}
	if got := g.Tint(Background, core.ColorSky); got != core.ColorSky {
		t.Errorf("broken background should fall back, got %q", got)
	}

	failed := g.Failed()
	want := []Name{Background, PipeTop, PipeBottom, RavenFlap}
	if len(failed) != len(want) {
		t.Fatalf("Failed() = %v, expected %v", failed, want)
	}
	for i := range want {
		if failed[i] != want[i] {
			t.Errorf("Failed()[%d] = %s, expected %s", i, failed[i], want[i])
		}
	}
}

func TestLoaderCancelledContext(t *testing.T) {
	fsys := fstest.MapFS{"raven.png": {Data: solidPNG(t, 2, 2, color.Black)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewLoader(fsys, Manifest{Raven: "raven.png"}, quietLogger()).Load(ctx)
	waitGate(t, g)

	if _, ok := g.Image(Raven); ok {
		t.Error("cancelled load should not produce an image")
	}
}

func TestGateNotReadyHidesAssets(t *testing.T) {
	g := newGate()
	g.put(Asset{Name: Raven, Image: image.NewNRGBA(image.Rect(0, 0, 1, 1))})

	if g.Ready() {
		t.Fatal("unsettled gate reported ready")
	}
	if _, ok := g.Get(Raven); ok {
		t.Error("assets should be hidden until the gate settles")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := g.Wait(ctx); err == nil {
		t.Error("Wait should time out on an unsettled gate")
	}

	g.settle()
	g.settle() // idempotent
	if _, ok := g.Get(Raven); !ok {
		t.Error("asset should be visible after settle")
	}
}

func TestSettledWithoutAssets(t *testing.T) {
	g := Settled()
	if !g.Ready() {
		t.Fatal("Settled() should be ready")
	}
	if _, _, ok := g.Size(Ground); ok {
		t.Error("empty gate should have no ground")
	}
	if got := g.Tint(Raven, core.ColorGold); got != core.ColorGold {
		t.Errorf("Tint fallback = %q", got)
	}
}

func TestCells(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				img.Set(x, y, color.NRGBA{R: 0xff, A: 0xff})
			}
		}
	}
	g := Settled(Asset{Name: Raven, Image: img, Tint: AverageColor(img)})

	cells, ok := g.Cells(Raven, 2, 2)
	if !ok {
		t.Fatal("Cells() should succeed")
	}
	if cells.At(0, 0) != core.RGB(0xff, 0, 0) {
		t.Errorf("left cell = %q, expected red", cells.At(0, 0))
	}
	if cells.At(1, 1) != core.ColorDefault {
		t.Errorf("right cell = %q, expected transparent", cells.At(1, 1))
	}
	if cells.At(5, 5) != core.ColorDefault {
		t.Error("out of range cell should be default")
	}

	again, _ := g.Cells(Raven, 2, 2)
	if &again.colors[0] != &cells.colors[0] {
		t.Error("Cells() should reuse the cached grid")
	}

	if got := AverageColor(img); got != core.RGB(0xff, 0, 0) {
		t.Errorf("AverageColor() = %q, transparent pixels should be ignored", got)
	}
}
