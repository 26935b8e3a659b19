// internal/model/logs.go
package model

import "time"

// LogEvent represents a single event returned by FilterLogEvents
type LogEvent struct {
	EventID    string
	StreamName string
	Timestamp  int64 // milliseconds since epoch
	Message    string
}

// Time returns the event timestamp as local time
func (e LogEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}
