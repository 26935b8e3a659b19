package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/cwtail/internal/clierr"
)

// header and footer rows around the viewport
const chromeHeight = 5

// Update handles messages and updates the tail state
func (m TailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Bottom):
			m.follow = true
			m.viewport.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.follow = m.viewport.AtBottom()
		return m, cmd

	case tickMsg:
		if m.quitting || m.fetching {
			return m, nil
		}
		m.fetching = true
		return m, fetchEvents(m.ctx, m.source, m.opts, m.state.Watermark())

	case eventsMsg:
		m.fetching = false
		if m.quitting {
			return m, nil
		}
		if msg.err != nil {
			if clierr.IsExpiredToken(msg.err) {
				m.expired = true
			} else {
				m.err = msg.err
			}
			return m, tea.Quit
		}

		m.state.Apply(msg.events)
		m.fetches++
		m.lastFetch = time.Now()
		m.refresh()
		return m, tickCmd(m.opts.PollInterval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// refresh repaints the whole buffer into the viewport
func (m *TailModel) refresh() {
	lines := m.state.Lines()
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = styleLine(l, m.viewport.Width)
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}
