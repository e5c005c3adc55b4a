package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/raven-flight/internal/scores"
	"github.com/vovakirdan/raven-flight/internal/storage"
)

// History stores and lists finished runs. *storage.Store implements it.
type History interface {
	RecordRun(ctx context.Context, r storage.Run) (storage.Run, error)
	RecentRuns(ctx context.Context, variant string, limit int) ([]storage.Run, error)
}

const (
	maxRecentRuns = 50
	tabTop        = 0
	tabRecent     = 1
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "top five"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "recent flights"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "tab", "b"),
			key.WithHelp("esc/tab", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the high-score list and the recent run history.
type ScoreboardModel struct {
	board      *scores.Board
	history    History
	variant    string
	tab        int
	entries    []scores.Entry
	runs       []storage.Run
	top        table.Model
	recent     table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	standalone bool // quit the program on back
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel creates a scoreboard. board and history may be nil.
func NewScoreboardModel(board *scores.Board, history History, variant string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := ScoreboardModel{
		board:   board,
		history: history,
		variant: variant,
		keys:    DefaultScoreboardKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.top, m.recent = m.createTables()
	m.Reload(context.Background())
	return m
}

func styledTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// createTables builds both tables sized for the current window.
func (m *ScoreboardModel) createTables() (table.Model, table.Model) {
	nameWidth := 16
	if m.width > 70 {
		nameWidth = 24
	}
	height := m.height - 9 // title, tabs, borders, help

	top := styledTable([]table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Name", Width: nameWidth},
		{Title: "Score", Width: 8},
	}, height)
	recent := styledTable([]table.Column{
		{Title: "When", Width: 16},
		{Title: "Name", Width: nameWidth},
		{Title: "Score", Width: 7},
		{Title: "Flight", Width: 8},
		{Title: "Fate", Width: 30},
	}, height)
	return top, recent
}

// Reload reads the list and the history again.
func (m *ScoreboardModel) Reload(ctx context.Context) {
	m.entries = nil
	if m.board != nil {
		m.entries = m.board.Load(ctx)
	}
	m.runs = nil
	if m.history != nil {
		if runs, err := m.history.RecentRuns(ctx, m.variant, maxRecentRuns); err == nil {
			m.runs = runs
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the tables with current data.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{fmt.Sprintf("#%d", i+1), e.Name, fmt.Sprintf("%d", e.Score)}
	}
	m.top.SetRows(rows)
	m.top.GotoTop()

	rows = make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		name := r.Name
		if name == "" {
			name = "-"
		}
		rows[i] = table.Row{
			humanize.Time(r.CreatedAt),
			name,
			fmt.Sprintf("%d", r.Score),
			r.Duration.Round(100 * time.Millisecond).String(),
			r.Cause,
		}
	}
	m.recent.SetRows(rows)
	m.recent.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Left):
			m.tab = tabTop
			return m, nil

		case key.Matches(msg, m.keys.Right):
			m.tab = tabRecent
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			if m.tab == tabTop {
				m.top, cmd = m.top.Update(msg)
			} else {
				m.recent, cmd = m.recent.Update(msg)
			}
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.top, m.recent = m.createTables()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	title := "HALL OF RAVENS"
	if m.variant != "" {
		title = fmt.Sprintf("HALL OF RAVENS - %s", m.variant)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	tabs := []string{"Top five", "Recent flights"}
	for i := range tabs {
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(tabs[i])
		} else {
			tabs[i] = tabStyle.Render(tabs[i])
		}
	}
	b.WriteString(centerText(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the active table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.tab == tabRecent {
		if len(m.runs) == 0 {
			return emptyStyle.Render("No flights recorded yet.")
		}
		return m.recent.View()
	}
	if len(m.entries) == 0 {
		return emptyStyle.Render("No scores recorded yet.\nFly to earn a place in the hall!")
	}
	return m.top.View()
}

// IsGoingBack returns true if the user closed the scoreboard.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard as its own program.
func RunScoreboard(board *scores.Board, history History, variant string, width, height int) error {
	model := NewScoreboardModel(board, history, variant, width, height)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
