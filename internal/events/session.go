// Package events defines typed payloads published on the pubsub brokers.
package events

import "time"

// SessionEventType represents session-specific event types.
type SessionEventType string

// Session event type constants.
const (
	SessionCreated      SessionEventType = "created"
	SessionSwitched     SessionEventType = "switched"
	SessionDeleted      SessionEventType = "deleted"
	SessionCleared      SessionEventType = "cleared"
	SessionRenamed      SessionEventType = "renamed"
	SessionMessageAdded SessionEventType = "message_added"
)

// SessionEvent represents a session lifecycle event.
type SessionEvent struct {
	SessionID string
	Title     string
	Type      SessionEventType
	Timestamp time.Time

	// Set for MessageAdded events.
	MessageRole string
	MessageText string
}

// NewSessionCreatedEvent creates a session created event.
func NewSessionCreatedEvent(id, title string) SessionEvent {
	return SessionEvent{SessionID: id, Title: title, Type: SessionCreated, Timestamp: time.Now()}
}

// NewSessionSwitchedEvent creates a session switched event.
func NewSessionSwitchedEvent(id string) SessionEvent {
	return SessionEvent{SessionID: id, Type: SessionSwitched, Timestamp: time.Now()}
}

// NewSessionDeletedEvent creates a session deleted event.
func NewSessionDeletedEvent(id string) SessionEvent {
	return SessionEvent{SessionID: id, Type: SessionDeleted, Timestamp: time.Now()}
}

// NewSessionClearedEvent creates a session cleared event.
func NewSessionClearedEvent(id string) SessionEvent {
	return SessionEvent{SessionID: id, Type: SessionCleared, Timestamp: time.Now()}
}

// NewSessionRenamedEvent creates a session renamed event.
func NewSessionRenamedEvent(id, title string) SessionEvent {
	return SessionEvent{SessionID: id, Title: title, Type: SessionRenamed, Timestamp: time.Now()}
}

// NewSessionMessageAddedEvent creates a message added event.
func NewSessionMessageAddedEvent(sessionID, role, text string) SessionEvent {
	return SessionEvent{
		SessionID:   sessionID,
		Type:        SessionMessageAdded,
		MessageRole: role,
		MessageText: text,
		Timestamp:   time.Now(),
	}
}
