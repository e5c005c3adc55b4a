// Package canvas runs the game in a desktop window with Ebitengine. The
// field is drawn at its logical pixel size and the window scales it.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/raven-flight/internal/assets"
	"github.com/vovakirdan/raven-flight/internal/audio"
	"github.com/vovakirdan/raven-flight/internal/core"
	"github.com/vovakirdan/raven-flight/internal/raven"
	"github.com/vovakirdan/raven-flight/internal/scores"
	"github.com/vovakirdan/raven-flight/internal/storage"
)

// Recorder stores finished runs. *storage.Store implements it.
type Recorder interface {
	RecordRun(ctx context.Context, r storage.Run) (storage.Run, error)
}

// Deps are the services the window reports to. Every field is optional.
type Deps struct {
	Board   *scores.Board
	History Recorder
	Cues    audio.Cues
	Logger  *log.Logger
	Player  string // name saved with a score; there is no prompt in the window
}

// Window implements ebiten.Game for one raven variant.
type Window struct {
	game  *raven.Game
	deps  Deps
	clock func() time.Duration
	poll  func() (core.InputFrame, bool)

	gate   *assets.Gate // gate the images below were built from
	images map[assets.Name]*ebiten.Image

	list   []scores.Entry
	status string
}

// NewWindow resets game and prepares a window for it.
func NewWindow(game *raven.Game, deps Deps, cfg core.RuntimeConfig) *Window {
	if deps.Cues == nil {
		deps.Cues = audio.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	game.Reset(cfg)

	start := time.Now()
	return &Window{
		game:  game,
		deps:  deps,
		clock: func() time.Duration { return time.Since(start) },
		poll:  pollInput,
	}
}

// pollInput reads this frame's presses. The second result asks to close.
func pollInput() (core.InputFrame, bool) {
	in := core.NewInputFrame()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return in, true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Set(core.ActionTrigger)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyS) {
		in.Set(core.ActionStart)
	}
	return in, false
}

// Update advances the game by one tick.
func (w *Window) Update() error {
	in, quit := w.poll()
	if quit {
		return ebiten.Termination
	}
	w.advance(in, w.clock())
	return nil
}

// advance steps the game and reacts to what happened.
func (w *Window) advance(in core.InputFrame, now time.Duration) core.StepResult {
	wasOver := w.game.State().GameOver
	res := w.game.Step(in, now)

	if res.Flapped {
		w.deps.Cues.Flap()
	}
	if res.Scored > 0 {
		w.deps.Cues.Score()
	}
	if res.Died {
		w.deps.Cues.Death()
		w.finish(res.State)
	}
	if wasOver && !res.State.GameOver {
		w.list = nil
		w.status = ""
	}
	return res
}

// finish records the run and saves the score under the player's name.
func (w *Window) finish(st core.GameState) {
	ctx := context.Background()
	w.deps.Logger.Info("run ended", "variant", w.game.ID(), "score", st.Score, "cause", st.Cause, "flight", st.Elapsed)

	name := scores.NormalizeName(w.deps.Player)
	if w.deps.History != nil {
		run := storage.Run{Variant: w.game.ID(), Name: name, Score: st.Score, Cause: st.Cause, Duration: st.Elapsed}
		if _, err := w.deps.History.RecordRun(ctx, run); err != nil {
			w.deps.Logger.Error("cannot record run", "error", err)
		}
	}

	if _, _, enabled := w.game.ScoreList(); !enabled || w.deps.Board == nil {
		return
	}
	if !w.deps.Board.Qualifies(ctx, st.Score) {
		w.status = "Not enough runes for the Hall of Ravens."
		return
	}
	list, err := w.deps.Board.Save(ctx, name, st.Score)
	if err != nil {
		w.deps.Logger.Error("cannot save score", "error", err)
		w.status = "Could not save the score."
		return
	}
	w.list = list
	w.status = fmt.Sprintf("Saved as %s.", name)
}

// Layout keeps the logical field size; Ebitengine scales it to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.fieldSize()
}

func (w *Window) fieldSize() (int, int) {
	cfg := w.game.Config()
	return int(cfg.Field.Width), int(cfg.Field.Height)
}

// toColor converts a palette colour. Unparsable values draw black.
func toColor(c core.Color) color.Color {
	cf, err := colorful.Hex(string(c))
	if err != nil {
		return color.Black
	}
	return cf
}

// Run opens the window and blocks until it is closed.
func Run(game *raven.Game, deps Deps, cfg core.RuntimeConfig) error {
	w := NewWindow(game, deps, cfg)

	fw, fh := w.fieldSize()
	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowSize(fw*2, fh*2)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.TickRate > 0 {
		ebiten.SetTPS(cfg.TickRate)
	}

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
