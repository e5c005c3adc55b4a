package raven

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/raven-flight/internal/assets"
	"github.com/vovakirdan/raven-flight/internal/config"
	"github.com/vovakirdan/raven-flight/internal/core"
)

// Package-level options set by the CLI before games are created.
var (
	optMu      sync.RWMutex
	configPath string
	difficulty config.DifficultyPreset
	assetDir   string
	showHitbox bool
	logger     = log.Default()
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	optMu.Lock()
	configPath = path
	optMu.Unlock()
}

// SetDifficulty sets the preset applied on every Reset.
func SetDifficulty(p config.DifficultyPreset) {
	optMu.Lock()
	difficulty = p
	optMu.Unlock()
}

// SetAssetDir overrides the configured asset directory.
func SetAssetDir(dir string) {
	optMu.Lock()
	assetDir = dir
	optMu.Unlock()
}

// SetHitbox toggles the collision box overlay.
func SetHitbox(on bool) {
	optMu.Lock()
	showHitbox = on
	optMu.Unlock()
}

// SetLogger replaces the logger used for config and asset messages.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	optMu.Lock()
	logger = l
	optMu.Unlock()
}

func currentLogger() *log.Logger {
	optMu.RLock()
	defer optMu.RUnlock()
	return logger
}

// LoadConfig resolves the configuration for a variant: file or defaults,
// then the variant rules, then the difficulty preset.
func LoadConfig(v Variant) config.RavenConfig {
	optMu.RLock()
	path, preset, dir := configPath, difficulty, assetDir
	optMu.RUnlock()

	cfg, err := config.LoadRaven(path)
	if err != nil {
		currentLogger().Warn("config rejected, using defaults", "path", path, "error", err)
		cfg = config.DefaultRavenConfig()
	}
	if v.Apply != nil {
		v.Apply(&cfg)
	}
	config.ApplyPreset(&cfg, preset)
	if dir != "" {
		cfg.Assets.Dir = dir
	}
	return cfg
}

// LoadAssets starts loading the images named by cfg.
func LoadAssets(ctx context.Context, cfg config.RavenConfig) *assets.Gate {
	return assets.NewLoader(os.DirFS(cfg.Assets.Dir), assets.ManifestFromConfig(cfg.Assets), currentLogger()).Load(ctx)
}

// Game adapts a Session to the registry.Game interface.
type Game struct {
	variant Variant
	cfg     config.RavenConfig
	session *Session
	gate    *assets.Gate
	hitbox  bool
}

// New creates a game for the variant. Nothing is loaded until Reset.
func New(v Variant) *Game {
	return &Game{variant: v}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the variant's display name.
func (g *Game) Title() string {
	return g.variant.Title
}

// Reset loads config and assets and creates a fresh session.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.cfg = LoadConfig(g.variant)
	g.gate = LoadAssets(context.Background(), g.cfg)
	g.session = NewSession(g.cfg, rc.Seed, g.gate)

	optMu.RLock()
	g.hitbox = showHitbox
	optMu.RUnlock()
}

// Step applies the frame's input and advances the session.
func (g *Game) Step(in core.InputFrame, now time.Duration) core.StepResult {
	var res core.StepResult
	s := g.session

	if in.Has(core.ActionStart) {
		if err := s.Start(now); err != nil && !errors.Is(err, ErrNotIdle) {
			currentLogger().Debug("start refused", "error", err)
		}
	}
	if in.Has(core.ActionTrigger) {
		switch s.Trigger(now) {
		case TriggerFlapped:
			res.Flapped = true
		case TriggerRestart:
			g.Restart()
		}
	}

	r := s.Step(now)
	res.Scored = r.Scored
	res.Whisper = r.Whisper
	res.Died = r.Died
	res.State = g.State()
	return res
}

// Restart reloads the assets and returns a finished run to idle.
func (g *Game) Restart() {
	g.gate = LoadAssets(context.Background(), g.cfg)
	if err := g.session.Restart(g.gate); err != nil {
		currentLogger().Debug("restart refused", "error", err)
	}
}

// Render draws the session into dst.
func (g *Game) Render(dst *core.Screen) {
	Render(dst, g.session, g.gate, RenderOptions{Title: g.variant.Title, Hitbox: g.hitbox})
}

// State returns the platform-facing summary.
func (g *Game) State() core.GameState {
	s := g.session
	return core.GameState{
		Score:    s.Score(),
		Running:  s.Phase() == PhaseRunning,
		GameOver: s.Phase() == PhaseOver,
		Cause:    s.Cause().String(),
		Elapsed:  s.Duration(),
	}
}

// ScoreList reports the high-score list settings.
func (g *Game) ScoreList() (key string, capacity int, enabled bool) {
	sc := g.cfg.Scores
	if g.session == nil {
		sc = LoadConfig(g.variant).Scores
	}
	return sc.Key, sc.Capacity, sc.Enabled
}

// Session returns the underlying session.
func (g *Game) Session() *Session {
	return g.session
}

// Gate returns the readiness gate of the current asset load.
func (g *Game) Gate() *assets.Gate {
	return g.gate
}

// Hitbox reports whether the collision box overlay is on.
func (g *Game) Hitbox() bool {
	return g.hitbox
}

// Config returns the resolved configuration.
func (g *Game) Config() config.RavenConfig {
	return g.cfg
}
