package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/raven-flight/internal/core"
)

type colorPair struct {
	fg, bg core.Color
}

var (
	styleMu    sync.Mutex
	styleCache = map[colorPair]lipgloss.Style{}
)

// styleFor returns the cached lipgloss style for a colour pair.
func styleFor(p colorPair) lipgloss.Style {
	styleMu.Lock()
	defer styleMu.Unlock()

	if s, ok := styleCache[p]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if p.fg != core.ColorDefault {
		s = s.Foreground(lipgloss.Color(string(p.fg)))
	}
	if p.bg != core.ColorDefault {
		s = s.Background(lipgloss.Color(string(p.bg)))
	}
	styleCache[p] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)
			pair := colorPair{fg: start.Fg, bg: start.Bg}

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Fg != pair.fg || cell.Bg != pair.bg {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if pair == (colorPair{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(pair).Render(run.String()))
		}
	}
	return sb.String()
}
