package raven

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/raven-flight/internal/assets"
	"github.com/vovakirdan/raven-flight/internal/config"
)

const eps = 1e-9

type fakeGate struct {
	ready bool
	w, h  int
}

func (f *fakeGate) Ready() bool { return f.ready }

func (f *fakeGate) Size(name assets.Name) (int, int, bool) {
	if name != assets.Ground || f.w == 0 {
		return 0, 0, false
	}
	return f.w, f.h, true
}

func newTestSession(t *testing.T, mutate func(*config.RavenConfig)) *Session {
	t.Helper()
	cfg := config.DefaultRavenConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewSession(cfg, 1, nil)
}

func startedSession(t *testing.T, mutate func(*config.RavenConfig)) *Session {
	t.Helper()
	s := newTestSession(t, mutate)
	if err := s.Start(0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return s
}

func TestNewSessionIdle(t *testing.T) {
	s := newTestSession(t, nil)

	if s.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", s.Phase())
	}
	a := s.Actor()
	if a.X != 50 || a.Y != 275 || a.Velocity != 0 {
		t.Errorf("actor = %+v, want x=50 y=275 v=0", a)
	}
	if a.Frame != FrameResting {
		t.Errorf("Frame = %v, want resting", a.Frame)
	}
}

func TestGravityScenario(t *testing.T) {
	s := startedSession(t, nil)

	s.Step(0)
	a := s.Actor()
	if math.Abs(a.Velocity-0.15) > eps {
		t.Errorf("velocity after one step = %v, want 0.15", a.Velocity)
	}
	if math.Abs(a.Y-275.15) > eps {
		t.Errorf("y after one step = %v, want 275.15", a.Y)
	}
}

func TestGravityAccumulates(t *testing.T) {
	s := startedSession(t, nil)

	prev := s.Actor().Velocity
	for i := 1; i <= 40; i++ {
		s.Step(0)
		v := s.Actor().Velocity
		if math.Abs(v-prev-0.15) > eps {
			t.Fatalf("step %d: velocity %v -> %v, want +0.15", i, prev, v)
		}
		if math.Abs(v-0.15*float64(i)) > 1e-6 {
			t.Fatalf("step %d: velocity = %v, want %v", i, v, 0.15*float64(i))
		}
		prev = v
	}
	if s.Phase() != PhaseRunning {
		t.Errorf("Phase() = %v, want running", s.Phase())
	}
}

func TestTriggerSetsImpulse(t *testing.T) {
	s := startedSession(t, nil)
	for i := 0; i < 10; i++ {
		s.Step(0)
	}

	if got := s.Trigger(0); got != TriggerFlapped {
		t.Fatalf("Trigger() = %v, want flapped", got)
	}
	if v := s.Actor().Velocity; v != -5 {
		t.Errorf("velocity = %v, want exactly -5", v)
	}
	if s.Actor().Frame != FrameFlapping {
		t.Error("frame should be flapping right after a trigger")
	}

	s.Step(50 * time.Millisecond)
	if s.Actor().Frame != FrameFlapping {
		t.Error("frame reverted before its deadline")
	}
	if v := s.Actor().Velocity; math.Abs(v+4.85) > eps {
		t.Errorf("velocity = %v, want -4.85", v)
	}

	s.Step(100 * time.Millisecond)
	if s.Actor().Frame != FrameResting {
		t.Error("frame should revert 100ms after the trigger")
	}
}

func TestTriggerByPhase(t *testing.T) {
	s := newTestSession(t, nil)
	if got := s.Trigger(0); got != TriggerIgnored {
		t.Errorf("idle Trigger() = %v, want ignored", got)
	}
	if s.Actor().Velocity != 0 {
		t.Error("idle trigger must not move the raven")
	}

	s.end(CauseMud, 0)
	if got := s.Trigger(0); got != TriggerRestart {
		t.Errorf("over Trigger() = %v, want restart", got)
	}
}

func TestStartErrors(t *testing.T) {
	gate := &fakeGate{}
	s := NewSession(config.DefaultRavenConfig(), 1, gate)

	if err := s.Start(0); !errors.Is(err, ErrAssetsNotReady) {
		t.Errorf("Start() with pending gate = %v, want ErrAssetsNotReady", err)
	}
	if s.Phase() != PhaseIdle {
		t.Fatal("refused start changed the phase")
	}

	gate.ready = true
	if err := s.Start(0); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := s.Start(0); !errors.Is(err, ErrNotIdle) {
		t.Errorf("second Start() = %v, want ErrNotIdle", err)
	}
}

func TestStepOutsideRunningIsNoop(t *testing.T) {
	s := newTestSession(t, nil)
	before := s.Actor()
	if res := s.Step(time.Second); res != (StepResult{}) {
		t.Errorf("idle Step() = %+v, want zero", res)
	}
	if s.Actor() != before {
		t.Error("idle step moved the raven")
	}
}

func TestCeiling(t *testing.T) {
	tests := []struct {
		name      string
		rule      config.CeilingRule
		wantPhase Phase
		wantCause Cause
	}{
		{"fatal", config.CeilingFatal, PhaseOver, CauseSkyWind},
		{"clamp", config.CeilingClamp, PhaseRunning, CauseNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startedSession(t, func(c *config.RavenConfig) { c.Rules.Ceiling = tt.rule })
			s.actor.Y = 16
			s.actor.Velocity = -5

			res := s.Step(0)
			if s.Phase() != tt.wantPhase || s.Cause() != tt.wantCause {
				t.Fatalf("phase=%v cause=%v, want %v %v", s.Phase(), s.Cause(), tt.wantPhase, tt.wantCause)
			}
			if res.Died != (tt.wantPhase == PhaseOver) {
				t.Errorf("Died = %v", res.Died)
			}
			if tt.rule == config.CeilingClamp {
				a := s.Actor()
				if a.Y != a.Radius || a.Velocity != 0 {
					t.Errorf("clamped actor = %+v, want y=r v=0", a)
				}
			}
		})
	}
}

func TestGroundCollision(t *testing.T) {
	s := startedSession(t, nil)
	s.actor.Y = 534
	s.actor.Velocity = 1

	res := s.Step(0)
	if !res.Died || res.Cause != CauseMud {
		t.Fatalf("Step() = %+v, want death by mud", res)
	}
	if s.Cause().String() != "Sunk in the mud of Niflheim." {
		t.Errorf("cause text = %q", s.Cause())
	}

	y := s.Actor().Y
	s.Step(0)
	if s.Actor().Y != y {
		t.Error("raven kept moving after the run ended")
	}
}

func TestObstacleScenario(t *testing.T) {
	tests := []struct {
		name      string
		y         float64
		wantCause Cause
	}{
		{"inside gap", 280, CauseNone},
		{"upper gate", 150, CauseSkyWind},
		{"lower gate", 380, CauseRoots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startedSession(t, nil)
			s.obstacles.Push(Obstacle{X: 40, GapTop: 200, GapHeight: 160, Width: 50})
			s.actor.Y = tt.y
			s.actor.Velocity = -0.15 // net zero movement this step

			res := s.Step(0)
			if res.Cause != tt.wantCause || res.Died != (tt.wantCause != CauseNone) {
				t.Errorf("Step() = %+v, want cause %v", res, tt.wantCause)
			}
			if tt.wantCause == CauseNone && s.Phase() != PhaseRunning {
				t.Errorf("Phase() = %v, want running", s.Phase())
			}
		})
	}
}

func TestScoreOncePerObstacle(t *testing.T) {
	s := startedSession(t, nil)
	s.obstacles.Push(Obstacle{X: -14, GapTop: 200, GapHeight: 160, Width: 50})

	want := []int{0, 1, 1, 1, 1, 1}
	for i, w := range want {
		s.Step(0)
		if s.Score() != w {
			t.Fatalf("step %d: score = %d, want %d", i+1, s.Score(), w)
		}
	}

	for i := 0; i < 40 && s.obstacles.Len() > 0; i++ {
		s.Step(0)
	}
	if s.obstacles.Len() != 0 {
		t.Errorf("obstacle not expired, queue = %+v", s.Obstacles())
	}
	if s.Score() != 1 {
		t.Errorf("score = %d after expiry, want 1", s.Score())
	}
}

func TestSpawnTiming(t *testing.T) {
	s := startedSession(t, nil)

	s.Step(500 * time.Millisecond)
	if s.obstacles.Len() != 0 {
		t.Fatal("obstacle spawned before the first lead elapsed")
	}
	s.Step(501 * time.Millisecond)
	if s.obstacles.Len() != 1 {
		t.Fatalf("queue length = %d, want 1", s.obstacles.Len())
	}

	o := s.Obstacles()[0]
	if o.X != 399 {
		t.Errorf("X = %v, want 399 (spawned at 400 then advanced)", o.X)
	}
	if o.GapTop < 50 || o.GapTop > 340 || o.GapTop != math.Floor(o.GapTop) {
		t.Errorf("GapTop = %v, want integer in [50, 340]", o.GapTop)
	}

	s.Step(3501 * time.Millisecond)
	if s.obstacles.Len() != 1 {
		t.Error("second obstacle spawned before the interval elapsed")
	}
	s.Step(3502 * time.Millisecond)
	if s.obstacles.Len() != 2 {
		t.Errorf("queue length = %d, want 2", s.obstacles.Len())
	}
}

func TestWhispers(t *testing.T) {
	s := startedSession(t, nil)
	s.score = 4
	s.obstacles.Push(Obstacle{X: -15, GapTop: 200, GapHeight: 160, Width: 50})

	res := s.Step(time.Second)
	if s.Score() != 5 {
		t.Fatalf("score = %d, want 5", s.Score())
	}
	if !slices.Contains(config.DefaultWhispers, res.Whisper) {
		t.Fatalf("whisper %q is not a known message", res.Whisper)
	}
	if s.Whisper() != res.Whisper {
		t.Errorf("Whisper() = %q, want %q", s.Whisper(), res.Whisper)
	}
	if s.whispers.due(5) {
		t.Error("milestone 5 fired twice")
	}

	s.Step(2999 * time.Millisecond)
	if s.Whisper() == "" {
		t.Error("whisper hidden before its deadline")
	}
	s.Step(3 * time.Second)
	if s.Whisper() != "" {
		t.Error("whisper still visible after 2s")
	}
}

func TestWhispersDisabled(t *testing.T) {
	s := startedSession(t, func(c *config.RavenConfig) { c.Whispers.Enabled = false })
	s.score = 4
	s.obstacles.Push(Obstacle{X: -15, GapTop: 200, GapHeight: 160, Width: 50})

	if res := s.Step(0); res.Whisper != "" || res.Scored != 1 {
		t.Errorf("Step() = %+v, want a point and no whisper", res)
	}
}

func TestResetIdempotent(t *testing.T) {
	s := startedSession(t, nil)
	s.obstacles.Push(Obstacle{X: 100, GapTop: 100, GapHeight: 160, Width: 50})
	for i := 0; i < 20; i++ {
		s.Step(time.Duration(i) * 16 * time.Millisecond)
	}
	s.Trigger(0)
	s.score = 7

	s.Reset(nil)
	first := *s
	s.Reset(nil)
	second := *s

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second Reset changed state:\n%+v\n%+v", first, second)
	}
	fresh := newTestSession(t, nil)
	if s.Phase() != PhaseIdle || s.Score() != 0 || s.obstacles.Len() != 0 ||
		s.Actor() != fresh.Actor() || s.Ground() != fresh.Ground() || s.Whisper() != "" {
		t.Errorf("reset state differs from a fresh session")
	}
}

func TestRestart(t *testing.T) {
	s := startedSession(t, nil)
	if err := s.Restart(nil); !errors.Is(err, ErrNotOver) {
		t.Errorf("Restart() while running = %v, want ErrNotOver", err)
	}
	s.end(CauseRoots, time.Second)
	if err := s.Restart(nil); err != nil {
		t.Fatalf("Restart() = %v", err)
	}
	if s.Phase() != PhaseIdle || s.Cause() != CauseNone {
		t.Errorf("after restart phase=%v cause=%v", s.Phase(), s.Cause())
	}
}

func TestGroundFromGate(t *testing.T) {
	tests := []struct {
		name       string
		mode       config.GroundMode
		wantHeight float64
		wantY      float64
	}{
		{"fixed", config.GroundFixed, 50, 275},
		{"asset", config.GroundAsset, 80, 260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultRavenConfig()
			cfg.Ground.Mode = tt.mode
			gate := &fakeGate{w: 64, h: 80}
			s := NewSession(cfg, 1, gate)
			if s.Ground().TileWidth != 48 {
				t.Errorf("pending gate tile width = %v, want configured 48", s.Ground().TileWidth)
			}

			gate.ready = true
			if err := s.Start(0); err != nil {
				t.Fatal(err)
			}
			g := s.Ground()
			if g.TileWidth != 64 || g.Height != tt.wantHeight {
				t.Errorf("ground = %+v, want tile 64 height %v", g, tt.wantHeight)
			}
			if s.Actor().Y != tt.wantY {
				t.Errorf("actor y = %v, want %v", s.Actor().Y, tt.wantY)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.Start(time.Second); err != nil {
		t.Fatal(err)
	}
	s.Step(3 * time.Second)
	if d := s.Duration(); d != 2*time.Second {
		t.Errorf("running Duration() = %v, want 2s", d)
	}
	s.end(CauseMud, 4*time.Second)
	s.Step(10 * time.Second)
	if d := s.Duration(); d != 3*time.Second {
		t.Errorf("over Duration() = %v, want 3s", d)
	}
}

func TestCauseTitle(t *testing.T) {
	if CauseNone.Title() != DefaultDeathTitle {
		t.Errorf("CauseNone.Title() = %q", CauseNone.Title())
	}
	if CauseRoots.Title() != "Slain by Midgard's roots." {
		t.Errorf("CauseRoots.Title() = %q", CauseRoots.Title())
	}
}
