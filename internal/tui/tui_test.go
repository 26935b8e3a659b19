package tui

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/rusenback/cwtail/internal/clierr"
	"github.com/rusenback/cwtail/internal/model"
	"github.com/rusenback/cwtail/internal/tail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenu("Log groups in /aws/", []string{"lambda/", "rds/", "← Back"})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("rds/"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(keyRunes("j"))
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(MenuModel)
	chosen, ok := final.Chosen()
	assert.True(t, ok)
	assert.Equal(t, 1, chosen)
}

func TestMenuAbort(t *testing.T) {
	m := NewMenu("pick", []string{"a", "b"})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	_, ok := updated.(MenuModel).Chosen()
	assert.False(t, ok)
}

func TestMenuCursorStaysInBounds(t *testing.T) {
	var m tea.Model = NewMenu("pick", []string{"a", "b", "c"})
	for i := 0; i < 5; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 2, m.(MenuModel).cursor)

	for i := 0; i < 5; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Equal(t, 0, m.(MenuModel).cursor)
}

func TestMenuScrollsLongLists(t *testing.T) {
	options := make([]string, 50)
	for i := range options {
		options[i] = string(rune('a'+i%26)) + "-group"
	}
	var m tea.Model = NewMenu("pick", options)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m, _ = m.Update(keyRunes("G"))

	menu := m.(MenuModel)
	assert.Equal(t, 49, menu.cursor)
	assert.Equal(t, 50-menu.visibleRows(), menu.offset)
	assert.Contains(t, menu.View(), "50/50")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		yes  bool
		ok   bool
	}{
		{"y", []tea.KeyMsg{keyRunes("y")}, true, true},
		{"n", []tea.KeyMsg{keyRunes("n")}, false, true},
		{"enter keeps default", []tea.KeyMsg{{Type: tea.KeyEnter}}, true, true},
		{"toggle then enter", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, false, true},
		{"esc aborts", []tea.KeyMsg{{Type: tea.KeyEsc}}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = NewConfirm("Return to stream selection?", true)
			for _, k := range tt.keys {
				m, _ = m.Update(k)
			}
			yes, ok := m.(ConfirmModel).Answer()
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.yes, yes)
			}
		})
	}
}

func TestCredentialsForm(t *testing.T) {
	f := NewCredentialsForm(model.Credentials{Region: "eu-north-1"})
	tm := teatest.NewTestModel(t, f, teatest.WithInitialTermSize(120, 40))

	tm.Type("AKIAEXAMPLE")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("secret")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(CredentialsForm)
	require.True(t, final.Submitted())
	c := final.Credentials()
	assert.Equal(t, "AKIAEXAMPLE", c.AccessKeyID)
	assert.Equal(t, "secret", c.SecretAccessKey)
	assert.Empty(t, c.SessionToken)
	assert.Equal(t, "eu-north-1", c.Region)
}

func TestCredentialsFormRejectsBlankSecret(t *testing.T) {
	var m tea.Model = NewCredentialsForm(model.Credentials{AccessKeyID: "AKIA", Region: "eu-north-1"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	form := m.(CredentialsForm)
	assert.False(t, form.Submitted())
	assert.Nil(t, cmd)
	require.Error(t, form.err)
	assert.Contains(t, form.View(), "secret access key is required")
}

func TestCredentialsFormHidesSecret(t *testing.T) {
	var m tea.Model = NewCredentialsForm(model.Credentials{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(keyRunes("topsecret"))

	assert.NotContains(t, m.View(), "topsecret")
	assert.Equal(t, "topsecret", m.(CredentialsForm).Credentials().SecretAccessKey)
}

// fakeSource serves scripted fetch results and records watermarks.
type fakeSource struct {
	mu      sync.Mutex
	results []fetchResult
	since   []int64
}

type fetchResult struct {
	events []model.LogEvent
	err    error
}

func (f *fakeSource) FilterLogEvents(ctx context.Context, group, stream string, since int64, limit int32) ([]model.LogEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = append(f.since, since)
	if len(f.results) == 0 {
		return nil, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.events, r.err
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.since)
}

func newTestTail(source EventSource) TailModel {
	state := tail.NewState(time.UnixMilli(10_000), 0, 100)
	return NewTailModel(context.Background(), source, state, TailOptions{
		Group:        "/aws/lambda/fn",
		Stream:       "2026/10/19/[$LATEST]abc",
		PollInterval: 20 * time.Millisecond,
		Limit:        100,
		Timeout:      time.Second,
	})
}

func TestTailRendersEventsAndQuits(t *testing.T) {
	source := &fakeSource{results: []fetchResult{
		{events: []model.LogEvent{{Timestamp: 10_100, Message: "hello from lambda"}}},
	}}
	tm := teatest.NewTestModel(t, newTestTail(source), teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("hello from lambda"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(keyRunes("q"))
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(TailModel)

	assert.True(t, final.Quitting())
	assert.False(t, final.Expired())
	assert.NoError(t, final.Err())
	assert.GreaterOrEqual(t, final.Fetches(), 1)
	assert.Equal(t, int64(10_101), final.State().Watermark())
}

func TestTailStopsOnExpiredToken(t *testing.T) {
	source := &fakeSource{results: []fetchResult{
		{err: clierr.ExpiredToken("FilterLogEvents", errors.New("token expired"))},
	}}
	tm := teatest.NewTestModel(t, newTestTail(source), teatest.WithInitialTermSize(120, 40))

	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(TailModel)
	assert.True(t, final.Expired())
	assert.NoError(t, final.Err())
	assert.False(t, final.Quitting())
}

func TestTailStopsOnFatalError(t *testing.T) {
	boom := errors.New("throttled")
	source := &fakeSource{results: []fetchResult{{err: boom}}}
	tm := teatest.NewTestModel(t, newTestTail(source), teatest.WithInitialTermSize(120, 40))

	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(TailModel)
	assert.False(t, final.Expired())
	assert.ErrorIs(t, final.Err(), boom)
}

func TestTailNoFetchAfterQuit(t *testing.T) {
	m := newTestTail(&fakeSource{})

	updated, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	m = updated.(TailModel)
	m.fetching = false

	updated, cmd = m.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd, "a tick after quit must not start a fetch")

	// a fetch already in flight is discarded
	updated, cmd = updated.Update(eventsMsg{events: []model.LogEvent{{Timestamp: 20_000, Message: "late"}}})
	assert.Nil(t, cmd)
	assert.Empty(t, updated.(TailModel).State().Lines())
}

func TestTailSchedulesNextTickOnlyAfterApply(t *testing.T) {
	m := newTestTail(&fakeSource{})
	require.True(t, m.fetching)

	// ticks while a fetch is in flight are ignored
	_, cmd := m.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd)

	updated, cmd := m.Update(eventsMsg{})
	assert.NotNil(t, cmd)
	tm := updated.(TailModel)
	assert.False(t, tm.fetching)
	assert.Equal(t, 1, tm.Fetches())
	require.Len(t, tm.State().Lines(), 1)
	assert.Equal(t, tail.NoEventsNotice, tm.State().Lines()[0].Message)
}

func TestTailWaitsForWindowSize(t *testing.T) {
	m := newTestTail(&fakeSource{})

	assert.Contains(t, m.View(), "connecting to /aws/lambda/fn")
	assert.NotContains(t, m.View(), "events")

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := updated.(TailModel).View()
	assert.Contains(t, view, "2026/10/19/[$LATEST]abc")
	assert.Contains(t, view, "0 events")
}

func TestTailFetchUsesWatermark(t *testing.T) {
	source := &fakeSource{}
	m := newTestTail(source)
	m.state.Apply([]model.LogEvent{{Timestamp: 12_345, Message: "x"}})

	msg := fetchEvents(context.Background(), source, m.opts, m.state.Watermark())()
	_, ok := msg.(eventsMsg)
	require.True(t, ok)
	require.Equal(t, 1, source.calls())
	assert.Equal(t, int64(12_346), source.since[0])
}

func TestStyleLine(t *testing.T) {
	ts := time.Date(2026, 10, 19, 8, 30, 0, 0, time.Local)
	out := styleLine(tail.Line{Timestamp: ts, Message: "ERROR something broke"}, 120)
	assert.Contains(t, out, "2026-10-19 08:30:00.000")
	assert.Contains(t, out, "something broke")

	notice := styleLine(tail.Line{Message: tail.NoEventsNotice, Notice: true}, 120)
	assert.Contains(t, notice, "-- No new log events --")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
