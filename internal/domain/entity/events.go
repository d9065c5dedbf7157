package entity

import "time"

// EventType names a state change broadcast to listeners.
type EventType string

const (
	EventTabsChanged      EventType = "tabs-changed"
	EventSessionsChanged  EventType = "sessions-changed"
	EventSuspendedChanged EventType = "suspended-changed"
)

// StateChangedEvent is the lightweight notification sent after a mutation.
type StateChangedEvent struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}
