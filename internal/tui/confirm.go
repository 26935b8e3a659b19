package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel asks a yes/no question
type ConfirmModel struct {
	question string
	yes      bool
	done     bool
	aborted  bool
}

func NewConfirm(question string, defaultYes bool) ConfirmModel {
	return ConfirmModel{question: question, yes: defaultYes}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y":
		m.yes = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "q":
		m.yes = false
		m.done = true
		return m, tea.Quit
	case "left", "right", "h", "l", "tab":
		m.yes = !m.yes
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	yes, no := "  Yes  ", "  No  "
	if m.yes {
		yes = selectedStyle.Render(yes)
	} else {
		no = selectedStyle.Render(no)
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.question) + "\n\n")
	s.WriteString(yes + "  " + no + "\n")
	s.WriteString(helpStyle.Render("y/n • ←/→ to toggle • enter to confirm • esc to quit"))
	return s.String()
}

// Answer reports the choice; ok is false when the prompt was aborted
func (m ConfirmModel) Answer() (yes, ok bool) {
	return m.yes, m.done
}
