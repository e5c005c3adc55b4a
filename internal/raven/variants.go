package raven

import (
	"github.com/vovakirdan/raven-flight/internal/config"
	"github.com/vovakirdan/raven-flight/internal/registry"
)

// Variant is a named rule set on top of the shared configuration.
type Variant struct {
	ID    string
	Title string
	Apply func(cfg *config.RavenConfig)
}

// Variants lists the built-in rule sets. The first one is the default.
var Variants = []Variant{
	{
		ID:    "raven",
		Title: "Raven Flight",
		Apply: func(cfg *config.RavenConfig) {
			cfg.Rules.Ceiling = config.CeilingFatal
			cfg.Whispers.Enabled = true
			cfg.Ground.Mode = config.GroundFixed
			cfg.Scores.Enabled = true
		},
	},
	{
		ID:    "raven-classic",
		Title: "Raven Flight Classic",
		Apply: func(cfg *config.RavenConfig) {
			cfg.Rules.Ceiling = config.CeilingClamp
			cfg.Whispers.Enabled = false
			cfg.Ground.Mode = config.GroundAsset
			cfg.Scores.Enabled = false
		},
	},
	{
		ID:    "raven-saga",
		Title: "Raven Flight Saga",
		Apply: func(cfg *config.RavenConfig) {
			cfg.Rules.Ceiling = config.CeilingClamp
			cfg.Whispers.Enabled = false
			cfg.Ground.Mode = config.GroundFixed
			cfg.Scores.Enabled = true
		},
	},
}

// DefaultVariant is the ID used when none is given.
const DefaultVariant = "raven"

func init() {
	for _, v := range Variants {
		v := v
		registry.Register(v.ID, func() registry.Game { return New(v) })
	}
}
