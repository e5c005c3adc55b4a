package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	got := embeddedDefault()
	want := DefaultRavenConfig()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("embedded raven.yaml and DefaultRavenConfig() differ:\n got %+v\nwant %+v", got, want)
	}
	if err := want.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadRavenFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadRaven("")
	if err != nil {
		t.Fatalf("LoadRaven() failed: %v", err)
	}
	if cfg.Physics.Gravity != 0.15 || cfg.Obstacles.GapHeight != 160 {
		t.Errorf("unexpected defaults: %+v", cfg.Physics)
	}
}

func TestLoadRavenCustomOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raven.yaml")
	overlay := "rules:\n  ceiling: clamp\nassets:\n  files:\n    raven: black_raven.png\n"
	if err := os.WriteFile(path, []byte(overlay), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRaven(path)
	if err != nil {
		t.Fatalf("LoadRaven() failed: %v", err)
	}
	if cfg.Rules.Ceiling != CeilingClamp {
		t.Errorf("ceiling = %q, expected clamp", cfg.Rules.Ceiling)
	}
	if cfg.Assets.Files["raven"] != "black_raven.png" {
		t.Errorf("raven asset = %q", cfg.Assets.Files["raven"])
	}
	if cfg.Assets.Files["ground"] != "ground_strip.png" {
		t.Error("keys missing from the overlay should keep their defaults")
	}
	if cfg.Physics.FlapImpulse != -5 {
		t.Errorf("flap impulse = %g, expected default -5", cfg.Physics.FlapImpulse)
	}
}

func TestLoadRavenUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".raven", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "raven.yaml"), []byte("physics:\n  gravity: 0.2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRaven("")
	if err != nil {
		t.Fatalf("LoadRaven() failed: %v", err)
	}
	if cfg.Physics.Gravity != 0.2 {
		t.Errorf("gravity = %g, expected user value 0.2", cfg.Physics.Gravity)
	}
}

func TestLoadRavenErrors(t *testing.T) {
	if _, err := LoadRaven(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  ceiling: bounce\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadRaven(path)
	if err == nil || !strings.Contains(err.Error(), "rules.ceiling") {
		t.Errorf("expected ceiling validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RavenConfig)
	}{
		{"zero field", func(c *RavenConfig) { c.Field.Height = 0 }},
		{"upward gravity", func(c *RavenConfig) { c.Physics.Gravity = -1 }},
		{"downward flap", func(c *RavenConfig) { c.Physics.FlapImpulse = 3 }},
		{"no spawn interval", func(c *RavenConfig) { c.Obstacles.SpawnIntervalMS = 0 }},
		{"unknown ground mode", func(c *RavenConfig) { c.Ground.Mode = "lava" }},
		{"whispers without messages", func(c *RavenConfig) { c.Whispers.Messages = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRavenConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	easy := DefaultRavenConfig()
	ApplyPreset(&easy, ParseDifficulty("easy"))
	if easy.Obstacles.GapHeight != 200 || easy.Obstacles.SpawnIntervalMS != 3600 {
		t.Errorf("easy preset: gap %g interval %d", easy.Obstacles.GapHeight, easy.Obstacles.SpawnIntervalMS)
	}

	hard := DefaultRavenConfig()
	ApplyPreset(&hard, DifficultyHard)
	if hard.Obstacles.GapHeight != 128 || hard.Physics.ScrollSpeed != 1.5 {
		t.Errorf("hard preset: gap %g speed %g", hard.Obstacles.GapHeight, hard.Physics.ScrollSpeed)
	}

	normal := DefaultRavenConfig()
	ApplyPreset(&normal, ParseDifficulty("bogus"))
	if !reflect.DeepEqual(normal, DefaultRavenConfig()) {
		t.Error("unknown preset should leave the config unchanged")
	}
}
