package events

import "time"

// AuthEventType represents authentication event types.
type AuthEventType string

// Auth event type constants.
const (
	AuthLoggedIn       AuthEventType = "logged_in"
	AuthLoggedOut      AuthEventType = "logged_out"
	AuthTokenRefreshed AuthEventType = "token_refreshed"
)

// AuthEvent represents an authentication lifecycle event.
type AuthEvent struct {
	Username  string
	Type      AuthEventType
	Timestamp time.Time
}

// NewAuthLoggedInEvent creates a logged-in event.
func NewAuthLoggedInEvent(username string) AuthEvent {
	return AuthEvent{Username: username, Type: AuthLoggedIn, Timestamp: time.Now()}
}

// NewAuthLoggedOutEvent creates a logged-out event.
func NewAuthLoggedOutEvent(username string) AuthEvent {
	return AuthEvent{Username: username, Type: AuthLoggedOut, Timestamp: time.Now()}
}

// NewAuthTokenRefreshedEvent creates a token refreshed event.
func NewAuthTokenRefreshedEvent() AuthEvent {
	return AuthEvent{Type: AuthTokenRefreshed, Timestamp: time.Now()}
}
