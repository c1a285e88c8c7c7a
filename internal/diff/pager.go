package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// Show displays diff content. Short diffs print inline; anything longer
// than a screenful opens a scrollable full-screen pager.
func Show(path, content string) error {
	if strings.Count(content, "\n") <= 20 {
		fmt.Println(content)
		return nil
	}

	p := tea.NewProgram(pagerModel{path: path, content: content}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("showing diff for %s: %w", path, err)
	}
	return nil
}

// pagerModel is the bubbletea model for the full-screen diff pager.
type pagerModel struct {
	path     string
	content  string
	viewport viewport.Model
	ready    bool
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.viewport.ScrollUp(1)
		case "down", "j":
			m.viewport.ScrollDown(1)
		case "pgup", "b":
			m.viewport.PageUp()
		case "pgdown", "f", "space":
			m.viewport.PageDown()
		}

	case tea.WindowSizeMsg:
		margin := 4 // header + footer
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-margin)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - margin
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading diff..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Diff: "+m.path) + "\n")
	b.WriteString(borderStyle.Render(strings.Repeat("─", m.viewport.Width)) + "\n")
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(borderStyle.Render("[↑/↓] scroll  [q] close"))
	return b.String()
}
