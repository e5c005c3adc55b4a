package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/raven-flight/internal/audio"
	"github.com/vovakirdan/raven-flight/internal/core"
	"github.com/vovakirdan/raven-flight/internal/registry"
	"github.com/vovakirdan/raven-flight/internal/scores"
	"github.com/vovakirdan/raven-flight/internal/storage"
)

// Deps are the services a game model reports to. Every field is optional.
type Deps struct {
	Board   *scores.Board // high-score list
	History History       // run history
	Cues    audio.Cues
	Logger  *log.Logger
	Player  string // initial name for the score prompt
}

func (d Deps) withDefaults() Deps {
	if d.Cues == nil {
		d.Cues = audio.Nop{}
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	return d
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd700")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#b22222"))
)

// Model is the Bubble Tea model that runs one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	deps       Deps
	keys       *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	epoch      time.Time // clock origin, set on the first tick
	gen        uint64
	name       textinput.Model
	board      ScoreboardModel
	showBoard  bool
	embedded   bool // Esc returns to a menu instead of quitting
	saved      bool // score handled for the current game over
	lastList   []scores.Entry
	status     string
	statusErr  bool
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, deps Deps, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	deps = deps.withDefaults()

	ti := textinput.New()
	ti.Placeholder = scores.UnknownName
	ti.CharLimit = 24
	ti.Width = 24
	ti.Prompt = ""

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		config:     cfg,
		deps:       deps,
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		name:       ti,
		gen:        nextTickGen(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.gen)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.showBoard && !m.editingName() {
			if a := m.keys.MapMouse(msg); a != core.ActionNone {
				m.inputFrame.Set(a)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick(msg.Time)
	}

	return m, nil
}

// scoresEnabled reports whether this game keeps a high-score list.
func (m Model) scoresEnabled() bool {
	if m.deps.Board == nil {
		return false
	}
	if sk, ok := m.game.(registry.ScoreKeeper); ok {
		_, _, enabled := sk.ScoreList()
		return enabled
	}
	return true
}

// editingName reports whether keys go to the name prompt.
func (m Model) editingName() bool {
	return m.gameState.GameOver && m.scoresEnabled() && !m.saved
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showBoard {
		updated, cmd := m.board.Update(msg)
		m.board = updated.(ScoreboardModel)
		if m.board.IsQuitting() {
			m.quitting = true
			return m, tea.Quit
		}
		if m.board.IsGoingBack() {
			m.showBoard = false
		}
		return m, cmd
	}

	if m.editingName() {
		switch msg.Type {
		case tea.KeyEnter:
			m.saveScore()
			return m, nil
		case tea.KeyEsc:
			m.saved = true
			m.name.Blur()
			m.setStatus("Score not saved.", false)
			return m, nil
		}
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}

	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionScoreboard:
		m.board = NewScoreboardModel(m.deps.Board, m.deps.History, m.game.ID(), m.config.ScreenW, m.config.ScreenH)
		m.showBoard = true
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events. The field is projected
// onto whatever size the terminal has, so the run continues.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))

	if m.showBoard {
		updated, _ := m.board.Update(msg)
		m.board = updated.(ScoreboardModel)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	if m.epoch.IsZero() {
		m.epoch = t
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame, t.Sub(m.epoch))
	m.gameState = result.State
	m.inputFrame.Clear()

	if result.Flapped {
		m.deps.Cues.Flap()
	}
	if result.Scored > 0 {
		m.deps.Cues.Score()
	}
	if result.Died {
		m.deps.Cues.Death()
		m.onDeath()
	}
	if wasOver && !m.gameState.GameOver {
		m.saved = false
		m.lastList = nil
		m.status = ""
		m.name.Blur()
	}

	return m, tickCmd(m.config.TickRate, m.gen)
}

// onDeath records the run and opens the name prompt.
func (m *Model) onDeath() {
	st := m.gameState
	m.deps.Logger.Info("run ended", "variant", m.game.ID(), "score", st.Score, "cause", st.Cause, "flight", st.Elapsed)

	if m.deps.History != nil {
		run := storage.Run{
			Variant:  m.game.ID(),
			Name:     m.deps.Player,
			Score:    st.Score,
			Cause:    st.Cause,
			Duration: st.Elapsed,
		}
		if _, err := m.deps.History.RecordRun(context.Background(), run); err != nil {
			m.deps.Logger.Error("cannot record run", "error", err)
		}
	}

	if m.scoresEnabled() {
		m.saved = false
		m.name.SetValue(m.deps.Player)
		m.name.CursorEnd()
		m.name.Focus()
	}
}

// saveScore writes the current score under the entered name.
func (m *Model) saveScore() {
	name := scores.NormalizeName(m.name.Value())
	m.saved = true
	m.name.Blur()

	list, err := m.deps.Board.Save(context.Background(), name, m.gameState.Score)
	if err != nil {
		m.deps.Logger.Error("cannot save score", "error", err)
		m.setStatus("Could not save the score.", true)
		return
	}
	m.deps.Player = name
	m.lastList = list
	m.setStatus("Saved to the Hall of Ravens.", false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// statusLine is the bottom row below the field.
func (m Model) statusLine() string {
	switch {
	case m.editingName():
		return promptStyle.Render("Name: ") + m.name.View() + statusStyle.Render("  enter save · esc skip")
	case m.gameState.GameOver:
		parts := []string{}
		if m.status != "" {
			if m.statusErr {
				parts = append(parts, errorStyle.Render(m.status))
			} else {
				parts = append(parts, promptStyle.Render(m.status))
			}
		}
		if len(m.lastList) > 0 {
			parts = append(parts, statusStyle.Render(formatList(m.lastList)))
		}
		parts = append(parts, statusStyle.Render("space fly again · tab scores · esc quit"))
		return strings.Join(parts, "  ")
	default:
		return statusStyle.Render("space/click flap · enter start · tab scores · esc quit")
	}
}

// formatList renders a score list on one line.
func formatList(list []scores.Entry) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = fmt.Sprintf("%d. %s %d", i+1, e.Name, e.Score)
	}
	return strings.Join(parts, " · ")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showBoard {
		return m.board.View()
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.statusLine()
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, deps Deps, cfg core.RuntimeConfig) error {
	model := NewModel(game, deps, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
