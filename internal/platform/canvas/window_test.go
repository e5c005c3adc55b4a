package canvas

import (
	"context"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/raven-flight/internal/core"
	"github.com/vovakirdan/raven-flight/internal/raven"
	"github.com/vovakirdan/raven-flight/internal/registry"
	"github.com/vovakirdan/raven-flight/internal/scores"
	"github.com/vovakirdan/raven-flight/internal/storage"
)

type runLog struct{ runs []storage.Run }

func (r *runLog) RecordRun(_ context.Context, run storage.Run) (storage.Run, error) {
	r.runs = append(r.runs, run)
	return run, nil
}

type counter struct{ flaps, points, deaths int }

func (c *counter) Flap()  { c.flaps++ }
func (c *counter) Score() { c.points++ }
func (c *counter) Death() { c.deaths++ }

func newTestWindow(t *testing.T, id string, deps Deps) *Window {
	t.Helper()
	raven.SetLogger(log.New(io.Discard))
	raven.SetAssetDir(t.TempDir())
	t.Cleanup(func() { raven.SetAssetDir("") })

	g, err := registry.Create(id)
	if err != nil {
		t.Fatal(err)
	}
	deps.Logger = log.New(io.Discard)
	w := NewWindow(g.(*raven.Game), deps, core.RuntimeConfig{TickRate: 60, Seed: 7})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.game.Gate().Wait(ctx); err != nil {
		t.Fatalf("assets never settled: %v", err)
	}
	return w
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// flyUntilDeath starts a run and lets the raven fall.
func flyUntilDeath(t *testing.T, w *Window) core.StepResult {
	t.Helper()
	const tick = 16 * time.Millisecond
	now := time.Duration(0)
	w.advance(input(core.ActionStart), now)
	for i := 0; i < 2000; i++ {
		now += tick
		if res := w.advance(core.NewInputFrame(), now); res.Died {
			return res
		}
	}
	t.Fatal("raven never died")
	return core.StepResult{}
}

func TestWindowDeathSavesScore(t *testing.T) {
	board := scores.NewBoard(scores.NewMemory(), "", 5, log.New(io.Discard))
	runs := &runLog{}
	cues := &counter{}
	w := newTestWindow(t, "raven", Deps{Board: board, History: runs, Cues: cues, Player: "Hugin"})

	res := flyUntilDeath(t, w)
	if !res.State.GameOver {
		t.Fatal("death did not end the run")
	}
	if cues.deaths != 1 {
		t.Errorf("death cues = %d, want 1", cues.deaths)
	}
	if len(runs.runs) != 1 || runs.runs[0].Name != "Hugin" || runs.runs[0].Variant != "raven" {
		t.Errorf("runs = %+v", runs.runs)
	}
	got := board.Load(context.Background())
	if len(got) != 1 || got[0].Name != "Hugin" || got[0].Score != res.State.Score {
		t.Errorf("board = %v", got)
	}
	if len(w.list) != 1 || w.status == "" {
		t.Errorf("game-over panel state: list=%v status=%q", w.list, w.status)
	}

	// Space restarts and clears the panel.
	w.advance(input(core.ActionTrigger), 40*time.Second)
	if w.game.State().GameOver || w.list != nil || w.status != "" {
		t.Error("restart left the game-over panel behind")
	}
}

func TestWindowScoresDisabled(t *testing.T) {
	board := scores.NewBoard(scores.NewMemory(), "", 5, log.New(io.Discard))
	w := newTestWindow(t, "raven-classic", Deps{Board: board, Player: "Munin"})

	flyUntilDeath(t, w)
	if got := board.Load(context.Background()); len(got) != 0 {
		t.Errorf("classic variant saved %v", got)
	}
}

func TestWindowFlapCue(t *testing.T) {
	cues := &counter{}
	w := newTestWindow(t, "raven", Deps{Cues: cues})

	w.advance(input(core.ActionTrigger), 0)
	if cues.flaps != 0 {
		t.Error("trigger before start should not flap")
	}
	w.advance(input(core.ActionStart), 0)
	w.advance(input(core.ActionTrigger), 16*time.Millisecond)
	if cues.flaps != 1 {
		t.Errorf("flaps = %d, want 1", cues.flaps)
	}
}

func TestWindowUpdateQuits(t *testing.T) {
	w := newTestWindow(t, "raven", Deps{})
	w.poll = func() (core.InputFrame, bool) { return core.NewInputFrame(), true }
	if err := w.Update(); err == nil {
		t.Error("escape should end the game loop")
	}
}

func TestLayoutUsesField(t *testing.T) {
	w := newTestWindow(t, "raven", Deps{})
	cfg := w.game.Config()
	gw, gh := w.Layout(1920, 1080)
	if gw != int(cfg.Field.Width) || gh != int(cfg.Field.Height) {
		t.Errorf("Layout = %dx%d, want %vx%v", gw, gh, cfg.Field.Width, cfg.Field.Height)
	}
}

func TestToColor(t *testing.T) {
	tests := []struct {
		in   core.Color
		want color.NRGBA
	}{
		{core.ColorGold, color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}},
		{core.RGB(1, 2, 3), color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}},
		{core.ColorDefault, color.NRGBA{A: 0xff}},
		{"not a colour", color.NRGBA{A: 0xff}},
	}
	for _, tt := range tests {
		got := color.NRGBAModel.Convert(toColor(tt.in)).(color.NRGBA)
		if got != tt.want {
			t.Errorf("toColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
