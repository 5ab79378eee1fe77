// Package session provides local chat sessions mirrored against remote
// MurphAI conversations.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the title given to freshly created sessions.
const DefaultTitle = "New chat"

// ErrNotFound is returned when a session id does not exist locally.
var ErrNotFound = errors.New("session not found")

// ErrLastSession is returned when an operation would leave the store empty.
var ErrLastSession = errors.New("cannot delete the last session")

// ErrConflict is returned when the on-disk store was modified by another
// process since it was loaded.
var ErrConflict = errors.New("session store modified concurrently")

// Role identifies the sender of a message.
type Role string

// Role constants.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one turn in a conversation.
type Message struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	TS      time.Time `json:"ts"`
}

// Session is one chat conversation. Its id doubles as the remote
// conversation key.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates a fresh default session with a unique id and no
// messages.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewMessage creates a message with a unique id and the current timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: content,
		TS:      time.Now().UTC(),
	}
}

// touch bumps the modification timestamp.
func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}

// Store defines the interface for local session persistence. Load never
// yields an empty collection; Save replaces the whole collection.
type Store interface {
	// Load returns the persisted sessions, seeding a single default
	// session when none exist.
	Load() ([]*Session, error)

	// Save persists the full collection, overwriting prior contents.
	// It returns ErrConflict when another process wrote the store since
	// the last Load.
	Save(sessions []*Session) error

	// Refresh re-reads the persisted sessions, resynchronizing after a
	// conflict.
	Refresh() ([]*Session, error)
}
