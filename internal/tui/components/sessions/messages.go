package sessions

// SessionSelectedMsg is emitted when the user picks a session.
type SessionSelectedMsg struct {
	SessionID string
}

// NewSessionMsg requests a fresh session.
type NewSessionMsg struct{}

// RenameSessionMsg requests a rename of the given session.
type RenameSessionMsg struct {
	SessionID string
	Title     string
}

// DeleteSessionMsg requests deletion of the given session.
type DeleteSessionMsg struct {
	SessionID string
}

// ClearSessionMsg requests wiping the given session's messages.
type ClearSessionMsg struct {
	SessionID string
}

// ClearAllSessionsMsg requests deleting every session.
type ClearAllSessionsMsg struct{}

// CloseMsg asks the chat page to hide the session panel.
type CloseMsg struct{}
