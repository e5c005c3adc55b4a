package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io/fs"
	"sync"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Loader requests every asset of a manifest concurrently.
type Loader struct {
	fsys     fs.FS
	manifest Manifest
	logger   *log.Logger
}

// NewLoader creates a loader reading from fsys.
func NewLoader(fsys fs.FS, manifest Manifest, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{fsys: fsys, manifest: manifest, logger: logger}
}

// Load starts loading and returns immediately. The returned gate opens when
// every request has settled; failures are logged and recorded, never
// returned.
func (l *Loader) Load(ctx context.Context) *Gate {
	g := newGate()

	var wg sync.WaitGroup
	for _, name := range Names {
		p, ok := l.manifest[name]
		if !ok {
			g.put(Asset{Name: name, Err: fmt.Errorf("assets: %s: not in manifest", name)})
			l.logger.Warn("asset missing from manifest", "asset", name)
			continue
		}

		wg.Add(1)
		go func(name Name, p string) {
			defer wg.Done()
			a := l.loadOne(ctx, name, p)
			if a.OK() {
				w, h := a.Size()
				l.logger.Debug("asset loaded", "asset", name, "path", p, "width", w, "height", h)
			} else {
				l.logger.Error("asset failed, using fallback", "asset", name, "path", p, "error", a.Err)
			}
			g.put(a)
		}(name, p)
	}

	go func() {
		wg.Wait()
		g.settle()
	}()

	return g
}

func (l *Loader) loadOne(ctx context.Context, name Name, p string) Asset {
	a := Asset{Name: name, Path: p}
	if err := ctx.Err(); err != nil {
		a.Err = fmt.Errorf("assets: %s: %w", name, err)
		return a
	}
	if l.fsys == nil {
		a.Err = fmt.Errorf("assets: %s: no asset directory", name)
		return a
	}

	f, err := l.fsys.Open(p)
	if err != nil {
		a.Err = fmt.Errorf("assets: %s: %w", name, err)
		return a
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		a.Err = fmt.Errorf("assets: %s: decode %s: %w", name, p, err)
		return a
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		a.Err = fmt.Errorf("assets: %s: %s has no pixels", name, p)
		return a
	}

	a.Image = img
	a.Tint = AverageColor(img)
	return a
}
