package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickCmd schedules the next poll
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchEvents fetches events at or after since. The watermark is captured
// when the command is created, not when it runs.
func fetchEvents(ctx context.Context, source EventSource, opts TailOptions, since int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()

		events, err := source.FilterLogEvents(ctx, opts.Group, opts.Stream, since, opts.Limit)
		return eventsMsg{events: events, err: err}
	}
}
