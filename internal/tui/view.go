package tui

import (
	"fmt"
	"strings"
)

// View renders the tail screen
func (m TailModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.spinner.View() + " connecting to " + m.opts.Group
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(m.opts.Group) + " " + titleStyle.Render(m.opts.Stream) + "\n")
	s.WriteString(m.viewport.View() + "\n")
	s.WriteString(m.statusLine() + "\n")
	s.WriteString(m.help.View(m.keys))
	return s.String()
}

func (m TailModel) statusLine() string {
	var parts []string
	if m.fetching {
		parts = append(parts, m.spinner.View()+" fetching")
	}
	parts = append(parts, fmt.Sprintf("%d events", m.state.Events()))
	if !m.lastFetch.IsZero() {
		parts = append(parts, "last poll "+m.lastFetch.Format("15:04:05"))
	}
	if !m.follow {
		parts = append(parts, "paused, G to follow")
	}
	return statusStyle.Render(strings.Join(parts, " • "))
}
