package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/astroworld-labs/murph/internal/debug"
	"github.com/astroworld-labs/murph/internal/events"
	"github.com/astroworld-labs/murph/internal/pubsub"
)

// SendErrorReply is the assistant reply shown when the chat request fails.
const SendErrorReply = "Sorry, I encountered an error. Please try again."

// Remote is the subset of the MurphAI API the service mirrors sessions
// against.
type Remote interface {
	CreateConversation(ctx context.Context, id, title string) error
	DeleteConversation(ctx context.Context, id string) error
	ClearConversation(ctx context.Context, id string) error
	ClearAllConversations(ctx context.Context) error
	RenameConversation(ctx context.Context, id, title string) error
	SendChat(ctx context.Context, prompt, conversationID string) (string, error)
}

// Service keeps the local session collection and the remote conversation
// state in step. The local store is the source of truth for display;
// remote calls either run best-effort (create, send) or gate the local
// mutation (delete, clear, rename).
//
// All methods are safe for concurrent use. The collection is never empty
// and the active pointer always names a session in it.
type Service struct {
	store  Store
	remote Remote
	broker pubsub.Publisher[events.SessionEvent]

	mu       sync.RWMutex
	sessions []*Session
	active   string
}

// NewService loads the store and returns a service with the most recent
// session active.
func NewService(store Store, remote Remote, broker pubsub.Publisher[events.SessionEvent]) (*Service, error) {
	sessions, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}

	return &Service{
		store:    store,
		remote:   remote,
		broker:   broker,
		sessions: sessions,
		active:   sessions[0].ID,
	}, nil
}

// Sessions returns a snapshot of all sessions, newest first.
func (s *Service) Sessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Active returns a snapshot of the active session.
func (s *Service) Active() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(s.active).Clone()
}

// ActiveID returns the active session's id.
func (s *Service) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Get returns a snapshot of the session with the given id.
func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.find(id)
	if sess == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sess.Clone(), nil
}

// New creates a session locally, makes it active, and registers the
// conversation remotely. The remote call is best-effort: a failure is
// logged and the local session stands.
func (s *Service) New(ctx context.Context) (*Session, error) {
	sess := NewSession()

	if err := s.remote.CreateConversation(ctx, sess.ID, sess.Title); err != nil {
		debug.Error("session", err, "remote create for "+sess.ID)
	}

	s.mu.Lock()
	s.sessions = append([]*Session{sess}, s.sessions...)
	s.active = sess.ID
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(pubsub.EventCreated, events.NewSessionCreatedEvent(sess.ID, sess.Title))
	return sess.Clone(), nil
}

// Select makes the session with the given id active.
func (s *Service) Select(id string) error {
	s.mu.Lock()
	if s.find(id) == nil {
		s.mu.Unlock()
		return fmt.Errorf("selecting session %s: %w", id, ErrNotFound)
	}
	s.active = id
	s.mu.Unlock()

	s.publish(pubsub.EventUpdated, events.NewSessionSwitchedEvent(id))
	return nil
}

// UpdateActive applies fn to the active session and persists the result.
// fn receives the live session and may mutate it freely.
func (s *Service) UpdateActive(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(s.active)
	fn(sess)
	sess.touch()
	return s.persist()
}

// Delete removes the session with the given id, remote first. Deleting
// the last remaining session returns ErrLastSession. When the active
// session is deleted, the first remaining one becomes active.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()

	if s.find(id) == nil {
		s.mu.Unlock()
		return fmt.Errorf("deleting session %s: %w", id, ErrNotFound)
	}
	if len(s.sessions) == 1 {
		s.mu.Unlock()
		return fmt.Errorf("deleting session %s: %w", id, ErrLastSession)
	}
	s.mu.Unlock()

	if err := s.remote.DeleteConversation(ctx, id); err != nil {
		return fmt.Errorf("deleting remote conversation: %w", err)
	}

	s.mu.Lock()
	// The lock was dropped for the remote call; another caller may have
	// removed this session or shrunk the collection in the meantime.
	if s.find(id) == nil {
		s.mu.Unlock()
		return fmt.Errorf("deleting session %s: %w", id, ErrNotFound)
	}
	if len(s.sessions) == 1 {
		s.mu.Unlock()
		return fmt.Errorf("deleting session %s: %w", id, ErrLastSession)
	}
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept
	if s.active == id {
		s.active = s.sessions[0].ID
	}
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(pubsub.EventDeleted, events.NewSessionDeletedEvent(id))
	return nil
}

// Clear removes all messages from the session with the given id, remote
// first. The session itself and its title survive.
func (s *Service) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.find(id) == nil {
		s.mu.Unlock()
		return fmt.Errorf("clearing session %s: %w", id, ErrNotFound)
	}
	s.mu.Unlock()

	if err := s.remote.ClearConversation(ctx, id); err != nil {
		return fmt.Errorf("clearing remote conversation: %w", err)
	}

	s.mu.Lock()
	sess := s.find(id)
	if sess == nil {
		// Deleted while the remote call was in flight.
		s.mu.Unlock()
		return fmt.Errorf("clearing session %s: %w", id, ErrNotFound)
	}
	sess.Messages = []Message{}
	sess.touch()
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(pubsub.EventUpdated, events.NewSessionClearedEvent(id))
	return nil
}

// ClearAll deletes every session, remote first, then reseeds the store
// with a single fresh session which becomes active. The replacement gets
// a remote counterpart on the same best-effort terms as New.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.remote.ClearAllConversations(ctx); err != nil {
		return fmt.Errorf("clearing all remote conversations: %w", err)
	}

	sess := NewSession()
	if err := s.remote.CreateConversation(ctx, sess.ID, sess.Title); err != nil {
		debug.Error("session", err, "remote create for "+sess.ID)
	}

	s.mu.Lock()
	s.sessions = []*Session{sess}
	s.active = sess.ID
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(pubsub.EventDeleted, events.NewSessionClearedEvent(""))
	s.publish(pubsub.EventCreated, events.NewSessionCreatedEvent(sess.ID, sess.Title))
	return nil
}

// Rename changes a session's title, remote first. On remote failure the
// local title is untouched and the error is returned.
func (s *Service) Rename(ctx context.Context, id, title string) error {
	s.mu.Lock()
	if s.find(id) == nil {
		s.mu.Unlock()
		return fmt.Errorf("renaming session %s: %w", id, ErrNotFound)
	}
	s.mu.Unlock()

	if err := s.remote.RenameConversation(ctx, id, title); err != nil {
		return fmt.Errorf("renaming remote conversation: %w", err)
	}

	s.mu.Lock()
	sess := s.find(id)
	if sess == nil {
		// Deleted while the remote call was in flight.
		s.mu.Unlock()
		return fmt.Errorf("renaming session %s: %w", id, ErrNotFound)
	}
	sess.Title = title
	sess.touch()
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(pubsub.EventUpdated, events.NewSessionRenamedEvent(id, title))
	return nil
}

// Send appends the user prompt and an empty assistant placeholder to the
// active session, sends the prompt to the remote, then fills the
// placeholder with the reply. When the remote call fails the placeholder
// is filled with a fixed error reply instead, so the transcript always
// gains exactly one user and one assistant message. The returned session
// reflects the final state.
func (s *Service) Send(ctx context.Context, prompt string) (*Session, error) {
	userMsg := NewMessage(RoleUser, prompt)
	placeholder := NewMessage(RoleAssistant, "")

	s.mu.Lock()
	sess := s.find(s.active)
	sessionID := sess.ID
	sess.Messages = append(sess.Messages, userMsg, placeholder)
	sess.touch()
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(pubsub.EventUpdated,
		events.NewSessionMessageAddedEvent(sessionID, string(RoleUser), prompt))

	reply, sendErr := s.remote.SendChat(ctx, prompt, sessionID)
	if sendErr != nil {
		debug.Error("session", sendErr, "chat request for "+sessionID)
		reply = SendErrorReply
	}

	s.mu.Lock()
	sess = s.find(sessionID)
	if sess == nil {
		// Session deleted while the request was in flight.
		s.mu.Unlock()
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	for i := range sess.Messages {
		if sess.Messages[i].ID == placeholder.ID {
			sess.Messages[i].Content = reply
			break
		}
	}
	sess.touch()
	err = s.persist()
	result := sess.Clone()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	replyEvent := pubsub.EventUpdated
	if sendErr != nil {
		replyEvent = pubsub.EventFailed
	}
	s.publish(replyEvent,
		events.NewSessionMessageAddedEvent(sessionID, string(RoleAssistant), reply))
	return result, nil
}

// find returns the live session with the given id, or nil. Callers hold
// s.mu.
func (s *Service) find(id string) *Session {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// persist writes the collection through the store. On a version conflict
// it refreshes from disk, reapplies this service's collection, and tries
// once more. Callers hold s.mu.
func (s *Service) persist() error {
	err := s.store.Save(s.sessions)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrConflict) {
		return err
	}

	debug.Event("session", "conflict", "store modified externally, resyncing")
	if _, err := s.store.Refresh(); err != nil {
		return fmt.Errorf("resyncing session store: %w", err)
	}
	return s.store.Save(s.sessions)
}

func (s *Service) publish(eventType pubsub.EventType, event events.SessionEvent) {
	if s.broker != nil {
		s.broker.Publish(eventType, event)
	}
}
