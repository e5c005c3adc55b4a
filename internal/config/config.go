// Package config provides YAML-based game configuration loading and
// difficulty presets.
package config

import (
	"errors"
	"fmt"
)

// CeilingRule decides what touching the top of the field does.
type CeilingRule string

const (
	CeilingFatal CeilingRule = "fatal" // crushed by the sky wind
	CeilingClamp CeilingRule = "clamp" // stopped, the run continues
)

// GroundMode decides where the ground band height comes from.
type GroundMode string

const (
	GroundFixed GroundMode = "fixed" // ground.height
	GroundAsset GroundMode = "asset" // natural height of the ground image
)

// RavenConfig contains all configuration for the game.
type RavenConfig struct {
	Field     FieldConfig     `yaml:"field"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Obstacles ObstacleConfig  `yaml:"obstacles"`
	Actor     ActorConfig     `yaml:"actor"`
	Ground    GroundConfig    `yaml:"ground"`
	Rules     RulesConfig     `yaml:"rules"`
	Whispers  WhisperConfig   `yaml:"whispers"`
	Assets    AssetConfig     `yaml:"assets"`
	Scores    ScoreListConfig `yaml:"scores"`
}

// FieldConfig is the logical size of the play field in pixels.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds per-tick constants. There is no delta-time scaling.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	FlapImpulse float64 `yaml:"flap_impulse"`
	ScrollSpeed float64 `yaml:"scroll_speed"`
}

// ObstacleConfig defines the gated columns.
type ObstacleConfig struct {
	Width            float64 `yaml:"width"`
	GapHeight        float64 `yaml:"gap_height"`
	MinGateHeight    float64 `yaml:"min_gate_height"`
	Margin           float64 `yaml:"margin"`
	SpawnIntervalMS  int     `yaml:"spawn_interval_ms"`
	FirstSpawnLeadMS int     `yaml:"first_spawn_lead_ms"`
}

// ActorConfig defines the raven.
type ActorConfig struct {
	X           float64 `yaml:"x"`
	Radius      float64 `yaml:"radius"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	FlapFrameMS int     `yaml:"flap_frame_ms"`
}

// GroundConfig defines the scrolling ground band.
type GroundConfig struct {
	Mode      GroundMode `yaml:"mode"`
	Height    float64    `yaml:"height"`
	TileWidth float64    `yaml:"tile_width"` // used when the ground image is missing
}

// RulesConfig holds the variant-dependent rules.
type RulesConfig struct {
	Ceiling CeilingRule `yaml:"ceiling"`
}

// WhisperConfig controls the flavour messages shown at score milestones.
type WhisperConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Every      int      `yaml:"every"`
	DurationMS int      `yaml:"duration_ms"`
	Messages   []string `yaml:"messages"`
}

// AssetConfig locates the image files.
type AssetConfig struct {
	Dir   string            `yaml:"dir"`
	Files map[string]string `yaml:"files"`
}

// ScoreListConfig controls the persisted high-score list.
type ScoreListConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Key      string `yaml:"key"`
	Capacity int    `yaml:"capacity"`
}

// Validate checks that the configuration describes a playable field.
func (c RavenConfig) Validate() error {
	var errs []error
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		errs = append(errs, fmt.Errorf("field size must be positive, got %gx%g", c.Field.Width, c.Field.Height))
	}
	if c.Physics.Gravity <= 0 {
		errs = append(errs, fmt.Errorf("physics.gravity must be positive, got %g", c.Physics.Gravity))
	}
	if c.Physics.FlapImpulse >= 0 {
		errs = append(errs, fmt.Errorf("physics.flap_impulse must be negative (up), got %g", c.Physics.FlapImpulse))
	}
	if c.Obstacles.Width <= 0 || c.Obstacles.GapHeight <= 0 {
		errs = append(errs, errors.New("obstacles.width and obstacles.gap_height must be positive"))
	}
	if c.Obstacles.SpawnIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("obstacles.spawn_interval_ms must be positive, got %d", c.Obstacles.SpawnIntervalMS))
	}
	if c.Actor.Radius <= 0 {
		errs = append(errs, fmt.Errorf("actor.radius must be positive, got %g", c.Actor.Radius))
	}
	switch c.Rules.Ceiling {
	case CeilingFatal, CeilingClamp:
	default:
		errs = append(errs, fmt.Errorf("rules.ceiling must be %q or %q, got %q", CeilingFatal, CeilingClamp, c.Rules.Ceiling))
	}
	switch c.Ground.Mode {
	case GroundFixed, GroundAsset:
	default:
		errs = append(errs, fmt.Errorf("ground.mode must be %q or %q, got %q", GroundFixed, GroundAsset, c.Ground.Mode))
	}
	if c.Whispers.Enabled && (c.Whispers.Every <= 0 || len(c.Whispers.Messages) == 0) {
		errs = append(errs, errors.New("whispers need a positive interval and at least one message"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
