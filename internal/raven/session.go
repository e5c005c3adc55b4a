// Package raven implements the Raven Flight game: a raven falls under
// constant gravity, the player flaps to climb, and the run ends on contact
// with the ground band, the ceiling or a gated column.
//
// Session is the pure frame-loop core. It owns all run state and is
// advanced by Step; scheduling, drawing and input decoding live in the
// platform adapters.
package raven

import (
	"errors"
	"math/rand"
	"time"

	"github.com/vovakirdan/raven-flight/internal/assets"
	"github.com/vovakirdan/raven-flight/internal/config"
)

var (
	// ErrAssetsNotReady is returned by Start while asset requests are pending.
	ErrAssetsNotReady = errors.New("raven: assets not ready")
	// ErrNotIdle is returned by Start outside the idle phase.
	ErrNotIdle = errors.New("raven: session is not idle")
	// ErrNotOver is returned by Restart before the run has ended.
	ErrNotOver = errors.New("raven: session is not over")
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Readiness reports whether every asset request has settled.
// *assets.Gate implements it.
type Readiness interface {
	Ready() bool
}

// sizer is implemented by gates that know the natural size of an image.
type sizer interface {
	Size(name assets.Name) (w, h int, ok bool)
}

// StepResult reports what happened during one Step.
type StepResult struct {
	Scored  int    // obstacles passed this step
	Whisper string // whisper fired this step, if any
	Died    bool   // the run ended this step
	Cause   Cause
}

// TriggerResult says what a trigger did.
type TriggerResult int

const (
	TriggerIgnored TriggerResult = iota
	TriggerFlapped
	TriggerRestart // the run is over; the caller should restart
)

// Session is the state of a single play session.
type Session struct {
	cfg  config.RavenConfig
	rng  *rand.Rand
	gate Readiness

	phase     Phase
	cause     Cause
	score     int
	actor     Actor
	obstacles ObstacleQueue
	ground    Ground

	lastSpawn time.Duration
	flapUntil time.Duration
	startedAt time.Duration
	endedAt   time.Duration
	now       time.Duration
	whispers  whisperState
}

// NewSession creates an idle session. gate may be nil when there is
// nothing to load.
func NewSession(cfg config.RavenConfig, seed int64, gate Readiness) *Session {
	s := &Session{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		whispers: whisperState{
			enabled:  cfg.Whispers.Enabled,
			every:    cfg.Whispers.Every,
			duration: time.Duration(cfg.Whispers.DurationMS) * time.Millisecond,
			messages: cfg.Whispers.Messages,
		},
	}
	s.Reset(gate)
	return s
}

// Reset returns the session to a fresh idle state and stores gate as the
// readiness check for the next Start.
func (s *Session) Reset(gate Readiness) {
	s.gate = gate
	s.phase = PhaseIdle
	s.cause = CauseNone
	s.score = 0
	s.obstacles.Clear()
	s.lastSpawn = 0
	s.flapUntil = 0
	s.startedAt = 0
	s.endedAt = 0
	s.whispers.reset()

	s.ground = s.groundFor(gate)
	s.actor = Actor{
		X:      s.cfg.Actor.X,
		Radius: s.cfg.Actor.Radius,
		Width:  s.cfg.Actor.Width,
		Height: s.cfg.Actor.Height,
		Frame:  FrameResting,
	}
	s.centerActor()
}

// Restart resets a finished run.
func (s *Session) Restart(gate Readiness) error {
	if s.phase != PhaseOver {
		return ErrNotOver
	}
	s.Reset(gate)
	return nil
}

// Start begins the run. The first obstacle appears FirstSpawnLead after now.
func (s *Session) Start(now time.Duration) error {
	if s.phase != PhaseIdle {
		return ErrNotIdle
	}
	if s.gate != nil && !s.gate.Ready() {
		return ErrAssetsNotReady
	}

	// Image sizes are only known once the gate settled.
	if g := s.groundFor(s.gate); g != s.ground {
		s.ground = g
		s.centerActor()
	}

	interval := s.spawnInterval()
	lead := time.Duration(s.cfg.Obstacles.FirstSpawnLeadMS) * time.Millisecond
	s.lastSpawn = now - (interval - lead)
	s.startedAt = now
	s.now = now
	s.phase = PhaseRunning
	return nil
}

// Trigger applies the shared flap/click action.
func (s *Session) Trigger(now time.Duration) TriggerResult {
	switch s.phase {
	case PhaseRunning:
		s.actor.Velocity = s.cfg.Physics.FlapImpulse
		s.actor.Frame = FrameFlapping
		s.flapUntil = now + time.Duration(s.cfg.Actor.FlapFrameMS)*time.Millisecond
		return TriggerFlapped
	case PhaseOver:
		return TriggerRestart
	default:
		return TriggerIgnored
	}
}

// Step advances the run by one tick. It does nothing outside PhaseRunning
// apart from expiring visual deadlines.
func (s *Session) Step(now time.Duration) StepResult {
	s.now = now
	s.expire(now)
	if s.phase != PhaseRunning {
		return StepResult{}
	}

	a := &s.actor
	a.Velocity += s.cfg.Physics.Gravity
	a.Y += a.Velocity

	box := a.Hitbox()
	if box.Top() <= 0 {
		if s.cfg.Rules.Ceiling == config.CeilingFatal {
			return s.end(CauseSkyWind, now)
		}
		a.Y = a.Radius
		a.Velocity = 0
		box = a.Hitbox()
	}
	if box.Bottom() >= s.ground.Top(s.cfg.Field.Height) {
		return s.end(CauseMud, now)
	}
	if cause, hit := s.obstacles.Collide(box); hit {
		return s.end(cause, now)
	}

	speed := s.cfg.Physics.ScrollSpeed
	s.ground.Scroll(speed)

	if now-s.lastSpawn > s.spawnInterval() {
		s.spawn()
		s.lastSpawn = now
	}

	var res StepResult
	s.obstacles.Advance(speed)
	res.Scored = s.obstacles.MarkPassed(box.Left())
	for i := 0; i < res.Scored; i++ {
		s.score++
		if s.whispers.due(s.score) {
			res.Whisper = s.whispers.fire(s.rng, s.score, now)
		}
	}
	s.obstacles.Expire()
	return res
}

func (s *Session) end(cause Cause, now time.Duration) StepResult {
	s.phase = PhaseOver
	s.cause = cause
	s.endedAt = now
	return StepResult{Died: true, Cause: cause}
}

func (s *Session) expire(now time.Duration) {
	if s.actor.Frame == FrameFlapping && now >= s.flapUntil {
		s.actor.Frame = FrameResting
	}
	s.whispers.expire(now)
}

func (s *Session) spawn() {
	o := s.cfg.Obstacles
	lo, hi := gateRange(s.cfg.Field.Height, o.GapHeight, s.ground.Height, o.MinGateHeight, o.Margin)
	s.obstacles.Push(Obstacle{
		X:         s.cfg.Field.Width,
		GapTop:    randomGapTop(s.rng, lo, hi),
		GapHeight: o.GapHeight,
		Width:     o.Width,
	})
}

func (s *Session) spawnInterval() time.Duration {
	return time.Duration(s.cfg.Obstacles.SpawnIntervalMS) * time.Millisecond
}

func (s *Session) centerActor() {
	s.actor.Y = s.cfg.Field.Height/2 - s.ground.Height/2
	s.actor.Velocity = 0
}

// groundFor derives the ground band from the config and, when gate knows
// it, the natural size of the ground image.
func (s *Session) groundFor(gate Readiness) Ground {
	g := Ground{Height: s.cfg.Ground.Height, TileWidth: s.cfg.Ground.TileWidth}
	sz, ok := gate.(sizer)
	if !ok || !gate.Ready() {
		return g
	}
	if w, h, ok := sz.Size(assets.Ground); ok {
		g.TileWidth = float64(w)
		if s.cfg.Ground.Mode == config.GroundAsset {
			g.Height = float64(h)
		}
	}
	return g
}

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the number of obstacles passed this run.
func (s *Session) Score() int { return s.score }

// Cause returns how the run ended, or CauseNone.
func (s *Session) Cause() Cause { return s.cause }

// Actor returns a copy of the raven.
func (s *Session) Actor() Actor { return s.actor }

// Obstacles returns a copy of the active obstacles, left to right.
func (s *Session) Obstacles() []Obstacle { return s.obstacles.All() }

// Ground returns the ground band.
func (s *Session) Ground() Ground { return s.ground }

// Whisper returns the visible whisper, or "".
func (s *Session) Whisper() string { return s.whispers.text }

// Ready reports whether Start would pass the readiness check.
func (s *Session) Ready() bool { return s.gate == nil || s.gate.Ready() }

// Config returns the configuration the session was built with.
func (s *Session) Config() config.RavenConfig { return s.cfg }

// Duration returns how long the current or last run lasted.
func (s *Session) Duration() time.Duration {
	switch s.phase {
	case PhaseRunning:
		return s.now - s.startedAt
	case PhaseOver:
		return s.endedAt - s.startedAt
	default:
		return 0
	}
}
