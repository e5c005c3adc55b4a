package assets

import (
	"context"
	"image"
	"sync"

	"github.com/vovakirdan/raven-flight/internal/core"
)

// Asset is the settled result of loading one image.
type Asset struct {
	Name  Name
	Path  string
	Image image.Image // nil when loading failed
	Err   error
	Tint  core.Color // average opaque colour, default when failed
}

// OK reports whether the image is usable.
func (a Asset) OK() bool {
	return a.Err == nil && a.Image != nil
}

// Size returns the natural size of the image, or zero when it failed.
func (a Asset) Size() (w, h int) {
	if !a.OK() {
		return 0, 0
	}
	b := a.Image.Bounds()
	return b.Dx(), b.Dy()
}

type cellKey struct {
	name Name
	w, h int
}

// Gate is the all-settled result of a Load call. Done is closed once every
// asset request finished, successfully or not.
type Gate struct {
	done   chan struct{}
	once   sync.Once
	mu     sync.RWMutex
	assets map[Name]Asset
	cells  map[cellKey]Cells
}

func newGate() *Gate {
	return &Gate{
		done:   make(chan struct{}),
		assets: make(map[Name]Asset),
		cells:  make(map[cellKey]Cells),
	}
}

// Settled returns a gate that is already open and holds the given assets.
// With no arguments every lookup falls back to primitives.
func Settled(loaded ...Asset) *Gate {
	g := newGate()
	for _, a := range loaded {
		g.assets[a.Name] = a
	}
	g.settle()
	return g
}

func (g *Gate) put(a Asset) {
	g.mu.Lock()
	g.assets[a.Name] = a
	g.mu.Unlock()
}

func (g *Gate) settle() {
	g.once.Do(func() { close(g.done) })
}

// Done returns a channel closed when every asset has settled.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Ready reports whether every asset has settled.
func (g *Gate) Ready() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the gate opens or ctx ends.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns the asset if it settled successfully.
func (g *Gate) Get(name Name) (Asset, bool) {
	if !g.Ready() {
		return Asset{}, false
	}
	g.mu.RLock()
	a, ok := g.assets[name]
	g.mu.RUnlock()
	if !ok || !a.OK() {
		return a, false
	}
	return a, true
}

// Image returns the decoded image, if available.
func (g *Gate) Image(name Name) (image.Image, bool) {
	a, ok := g.Get(name)
	if !ok {
		return nil, false
	}
	return a.Image, true
}

// Tint returns the asset's average colour or fallback.
func (g *Gate) Tint(name Name, fallback core.Color) core.Color {
	a, ok := g.Get(name)
	if !ok {
		return fallback
	}
	return a.Tint.Or(fallback)
}

// Size returns the natural size of the asset.
func (g *Gate) Size(name Name) (w, h int, ok bool) {
	a, ok := g.Get(name)
	if !ok {
		return 0, 0, false
	}
	w, h = a.Size()
	return w, h, true
}

// Failed lists the assets that settled with an error, in manifest order.
func (g *Gate) Failed() []Name {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var failed []Name
	for _, name := range Names {
		if a, ok := g.assets[name]; ok && !a.OK() {
			failed = append(failed, name)
		}
	}
	return failed
}

// Cells returns the asset scaled to a w×h cell grid, cached per size.
func (g *Gate) Cells(name Name, w, h int) (Cells, bool) {
	img, ok := g.Image(name)
	if !ok || w <= 0 || h <= 0 {
		return Cells{}, false
	}
	key := cellKey{name: name, w: w, h: h}

	g.mu.RLock()
	c, hit := g.cells[key]
	g.mu.RUnlock()
	if hit {
		return c, true
	}

	c = ToCells(img, w, h)
	g.mu.Lock()
	g.cells[key] = c
	g.mu.Unlock()
	return c, true
}
