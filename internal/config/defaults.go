package config

import (
	_ "embed"
)

//go:embed defaults/raven.yaml
var defaultRavenYAML []byte

// DefaultWhispers are the milestone messages of the default configuration.
var DefaultWhispers = []string{
	"The shadows are calling you...",
	"Only the strongest reach Valhalla.",
	"Loki is watching your flight.",
	"The wind carries old voices.",
	"Your feathers whisper runes.",
	"Hugin sees, Munin does not forget.",
	"The mists of Helheim draw near.",
	"Your flight echoes through the worlds.",
	"One mistake, and you fall forever.",
	"Yggdrasil leans with you.",
}

// DefaultRavenConfig returns the built-in configuration. It mirrors
// defaults/raven.yaml and is used when the embedded file cannot be parsed.
func DefaultRavenConfig() RavenConfig {
	return RavenConfig{
		Field: FieldConfig{
			Width:  400,
			Height: 600,
		},
		Physics: PhysicsConfig{
			Gravity:     0.15,
			FlapImpulse: -5,
			ScrollSpeed: 1.0,
		},
		Obstacles: ObstacleConfig{
			Width:            50,
			GapHeight:        160,
			MinGateHeight:    50,
			Margin:           50,
			SpawnIntervalMS:  3000,
			FirstSpawnLeadMS: 500,
		},
		Actor: ActorConfig{
			X:           50,
			Radius:      15,
			Width:       40,
			Height:      30,
			FlapFrameMS: 100,
		},
		Ground: GroundConfig{
			Mode:      GroundFixed,
			Height:    50,
			TileWidth: 48,
		},
		Rules: RulesConfig{
			Ceiling: CeilingFatal,
		},
		Whispers: WhisperConfig{
			Enabled:    true,
			Every:      5,
			DurationMS: 2000,
			Messages:   append([]string(nil), DefaultWhispers...),
		},
		Assets: AssetConfig{
			Dir: "assets",
			Files: map[string]string{
				"background": "nordic_background_generated.png",
				"pipeBottom": "obstacle_bottom_roots.png",
				"pipeTop":    "obstacle_top_column.png",
				"raven":      "raven_generated.png",
				"ravenFlap":  "raven_generated_flap.png",
				"ground":     "ground_strip.png",
			},
		},
		Scores: ScoreListConfig{
			Enabled:  true,
			Key:      "flappyRavenScores",
			Capacity: 5,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRavenYAML
}
