// Package assets loads the game's image assets and gates the start of a run
// on every load having settled. A missing or broken image is never fatal:
// callers ask for a tint or a scaled sprite and fall back to a plain colour.
package assets

import (
	"path"

	"github.com/vovakirdan/raven-flight/internal/config"
)

// Name is the logical name of an image asset.
type Name string

const (
	Background Name = "background"
	PipeTop    Name = "pipeTop"
	PipeBottom Name = "pipeBottom"
	Raven      Name = "raven"
	RavenFlap  Name = "ravenFlap"
	Ground     Name = "ground"
)

// Names lists every asset the game draws, in draw order.
var Names = []Name{Background, PipeTop, PipeBottom, Ground, Raven, RavenFlap}

// Manifest maps logical names to slash-separated paths inside the asset
// filesystem.
type Manifest map[Name]string

// ManifestFromConfig builds a manifest from the assets section of the config.
// Names missing from the config are left out and load as failed.
func ManifestFromConfig(cfg config.AssetConfig) Manifest {
	m := make(Manifest, len(Names))
	for _, name := range Names {
		file, ok := cfg.Files[string(name)]
		if !ok || file == "" {
			continue
		}
		m[name] = path.Clean(file)
	}
	return m
}
