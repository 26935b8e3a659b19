package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MenuModel lets the operator pick one option from a list
type MenuModel struct {
	title   string
	options []string
	cursor  int
	offset  int
	width   int
	height  int

	chosen  int
	done    bool
	aborted bool

	keys menuKeyMap
	help help.Model
}

// NewMenu creates a menu with the cursor on the first option
func NewMenu(title string, options []string) MenuModel {
	return MenuModel{
		title:   title,
		options: options,
		chosen:  -1,
		height:  24,
		keys:    newMenuKeyMap(),
		help:    help.New(),
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Abort):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = len(m.options) - 1
		case key.Matches(msg, m.keys.Select):
			if len(m.options) == 0 {
				return m, nil
			}
			m.chosen = m.cursor
			m.done = true
			return m, tea.Quit
		}
		m.scroll()
	}
	return m, nil
}

// visibleRows is how many options fit under the title and above the help
func (m MenuModel) visibleRows() int {
	rows := m.height - 6
	if rows < 3 {
		rows = 3
	}
	return rows
}

// scroll keeps the cursor inside the visible window
func (m *MenuModel) scroll() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = clamp(m.offset, 0, max(len(m.options)-rows, 0))
}

func (m MenuModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title) + "\n\n")

	rows := m.visibleRows()
	end := min(m.offset+rows, len(m.options))
	width := m.width - 4
	if width < 20 {
		width = 80
	}
	for i := m.offset; i < end; i++ {
		label := truncate(m.options[i], width)
		switch {
		case i == m.cursor:
			s.WriteString(selectedStyle.Render("> "+label) + "\n")
		case strings.HasSuffix(label, "/"):
			s.WriteString("  " + subLevelStyle.Render(label) + "\n")
		case strings.HasPrefix(label, "←"):
			s.WriteString("  " + backStyle.Render(label) + "\n")
		default:
			s.WriteString("  " + label + "\n")
		}
	}
	if len(m.options) > rows {
		s.WriteString(statusStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.options))) + "\n")
	}

	s.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return s.String()
}

// Chosen returns the selected index, or false when the menu was aborted
func (m MenuModel) Chosen() (int, bool) {
	return m.chosen, m.done
}
