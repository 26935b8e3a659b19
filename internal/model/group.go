package model

import "time"

// LogGroup represents a CloudWatch log group
type LogGroup struct {
	Name         string
	CreationTime time.Time
}

// LogStream represents a stream inside a log group
type LogStream struct {
	Name string
	// LastEventTime is zero when the stream has never received an event
	LastEventTime time.Time
}

// HasEvents reports whether the stream has a recorded last event
func (s LogStream) HasEvents() bool {
	return !s.LastEventTime.IsZero()
}
