// Package tail holds the polling state of a tail session: the watermark
// and the bounded scrollback buffer.
package tail

import (
	"time"

	"github.com/rusenback/cwtail/internal/model"
)

// NoEventsNotice is appended when a fetch comes back empty after a
// non-empty one.
const NoEventsNotice = "No new log events"

const timeLayout = "2006-01-02 15:04:05.000"

// Line is one entry of the scrollback buffer.
type Line struct {
	Timestamp time.Time
	Message   string
	// Notice lines are produced by cwtail, not by the log stream
	Notice bool
}

// String renders the line as plain text.
func (l Line) String() string {
	if l.Notice {
		return "-- " + l.Message + " --"
	}
	return l.Timestamp.Format(timeLayout) + "  " + l.Message
}

// State is not safe for concurrent use; the tail view mutates it only from
// its update loop.
type State struct {
	watermark int64
	lines     []Line
	maxLines  int
	lastEmpty bool
	events    int
}

// NewState starts the watermark lookback before now.
func NewState(now time.Time, lookback time.Duration, maxLines int) *State {
	if maxLines < 1 {
		maxLines = 1
	}
	return &State{
		watermark: now.Add(-lookback).UnixMilli(),
		maxLines:  maxLines,
	}
}

// Watermark is the start time, in milliseconds, for the next fetch.
func (s *State) Watermark() int64 { return s.watermark }

// LastEmpty reports whether the most recent fetch returned no events.
func (s *State) LastEmpty() bool { return s.lastEmpty }

// Events counts every event applied so far.
func (s *State) Events() int { return s.events }

// Lines returns the buffer, oldest first. The slice must not be modified.
func (s *State) Lines() []Line { return s.lines }

// Apply records the result of one fetch. Events are rendered in the order
// given; the watermark moves to the newest timestamp plus one and never
// moves backwards.
func (s *State) Apply(events []model.LogEvent) {
	if len(events) == 0 {
		if !s.lastEmpty {
			s.append(Line{Timestamp: time.Now(), Message: NoEventsNotice, Notice: true})
		}
		s.lastEmpty = true
		return
	}

	newest := events[0].Timestamp
	for _, e := range events {
		s.append(Line{Timestamp: e.Time(), Message: e.Message})
		if e.Timestamp > newest {
			newest = e.Timestamp
		}
	}
	if newest+1 > s.watermark {
		s.watermark = newest + 1
	}
	s.events += len(events)
	s.lastEmpty = false
}

func (s *State) append(l Line) {
	s.lines = append(s.lines, l)
	if len(s.lines) > s.maxLines {
		s.lines = s.lines[len(s.lines)-s.maxLines:]
	}
}
