package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/astroworld-labs/murph/internal/events"
	"github.com/astroworld-labs/murph/internal/pubsub"
)

// fakeRemote records conversation calls and fails on demand.
type fakeRemote struct {
	created    []string
	deleted    []string
	cleared    []string
	clearedAll int
	renamed    map[string]string
	prompts    []string

	reply string
	fail  error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{renamed: make(map[string]string), reply: "pong"}
}

func (f *fakeRemote) CreateConversation(_ context.Context, id, _ string) error {
	f.created = append(f.created, id)
	return f.fail
}

func (f *fakeRemote) DeleteConversation(_ context.Context, id string) error {
	if f.fail != nil {
		return f.fail
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRemote) ClearConversation(_ context.Context, id string) error {
	if f.fail != nil {
		return f.fail
	}
	f.cleared = append(f.cleared, id)
	return nil
}

func (f *fakeRemote) ClearAllConversations(_ context.Context) error {
	if f.fail != nil {
		return f.fail
	}
	f.clearedAll++
	return nil
}

func (f *fakeRemote) RenameConversation(_ context.Context, id, title string) error {
	if f.fail != nil {
		return f.fail
	}
	f.renamed[id] = title
	return nil
}

func (f *fakeRemote) SendChat(_ context.Context, prompt, _ string) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.prompts = append(f.prompts, prompt)
	return f.reply, nil
}

func newTestService(t *testing.T) (*Service, *fakeRemote) {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	remote := newFakeRemote()
	svc, err := NewService(store, remote, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, remote
}

func TestServiceStartState(t *testing.T) {
	svc, _ := newTestService(t)

	sessions := svc.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session on first run, got %d", len(sessions))
	}
	if svc.ActiveID() != sessions[0].ID {
		t.Error("active pointer should name the seeded session")
	}
	if svc.Active().Title != DefaultTitle {
		t.Errorf("expected default title, got %q", svc.Active().Title)
	}
}

func TestServiceNew(t *testing.T) {
	t.Run("new session is prepended and active", func(t *testing.T) {
		svc, remote := newTestService(t)
		seeded := svc.ActiveID()

		sess, err := svc.New(context.Background())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		if svc.ActiveID() != sess.ID {
			t.Error("new session should become active")
		}
		sessions := svc.Sessions()
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
		if sessions[0].ID != sess.ID {
			t.Error("new session should be first")
		}
		if sessions[1].ID != seeded {
			t.Error("seeded session should be kept")
		}
		if len(remote.created) != 1 || remote.created[0] != sess.ID {
			t.Errorf("expected remote create for %s, got %v", sess.ID, remote.created)
		}
	})

	t.Run("remote failure does not block local creation", func(t *testing.T) {
		svc, remote := newTestService(t)
		remote.fail = errors.New("backend down")

		sess, err := svc.New(context.Background())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if svc.ActiveID() != sess.ID {
			t.Error("new session should become active despite remote failure")
		}
		if len(svc.Sessions()) != 2 {
			t.Errorf("expected 2 sessions, got %d", len(svc.Sessions()))
		}
	})
}

func TestServiceSelect(t *testing.T) {
	svc, _ := newTestService(t)
	seeded := svc.ActiveID()
	if _, err := svc.New(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := svc.Select(seeded); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if svc.ActiveID() != seeded {
		t.Error("active pointer not moved")
	}

	err := svc.Select("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if svc.ActiveID() != seeded {
		t.Error("failed select should leave active pointer untouched")
	}
}

func TestServiceDelete(t *testing.T) {
	t.Run("last session cannot be deleted", func(t *testing.T) {
		svc, remote := newTestService(t)

		err := svc.Delete(context.Background(), svc.ActiveID())
		if !errors.Is(err, ErrLastSession) {
			t.Fatalf("expected ErrLastSession, got %v", err)
		}
		if len(svc.Sessions()) != 1 {
			t.Error("session should survive")
		}
		if len(remote.deleted) != 0 {
			t.Error("remote delete should not have been attempted")
		}
	})

	t.Run("deleting the active session reassigns the pointer", func(t *testing.T) {
		svc, remote := newTestService(t)
		sess, err := svc.New(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		if err := svc.Delete(context.Background(), sess.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		sessions := svc.Sessions()
		if len(sessions) != 1 {
			t.Fatalf("expected 1 session, got %d", len(sessions))
		}
		if svc.ActiveID() != sessions[0].ID {
			t.Error("active pointer should move to a surviving session")
		}
		if len(remote.deleted) != 1 || remote.deleted[0] != sess.ID {
			t.Errorf("expected remote delete for %s, got %v", sess.ID, remote.deleted)
		}
	})

	t.Run("deleting an inactive session keeps the active one", func(t *testing.T) {
		svc, _ := newTestService(t)
		seeded := svc.Sessions()[0].ID
		sess, err := svc.New(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		if err := svc.Delete(context.Background(), seeded); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if svc.ActiveID() != sess.ID {
			t.Error("active pointer should be untouched")
		}
	})

	t.Run("remote failure leaves local state untouched", func(t *testing.T) {
		svc, remote := newTestService(t)
		if _, err := svc.New(context.Background()); err != nil {
			t.Fatal(err)
		}
		remote.fail = errors.New("backend down")

		err := svc.Delete(context.Background(), svc.ActiveID())
		if err == nil {
			t.Fatal("expected error")
		}
		if len(svc.Sessions()) != 2 {
			t.Error("local sessions should survive a failed remote delete")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.New(context.Background()); err != nil {
			t.Fatal(err)
		}
		if err := svc.Delete(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestServiceClear(t *testing.T) {
	t.Run("messages are removed, session survives", func(t *testing.T) {
		svc, remote := newTestService(t)
		id := svc.ActiveID()
		if err := svc.Rename(context.Background(), id, "Saturn rings"); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Send(context.Background(), "hello"); err != nil {
			t.Fatal(err)
		}

		if err := svc.Clear(context.Background(), id); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		sess := svc.Active()
		if sess.ID != id {
			t.Error("session should survive a clear")
		}
		if sess.Title != "Saturn rings" {
			t.Errorf("title should survive a clear, got %q", sess.Title)
		}
		if len(sess.Messages) != 0 {
			t.Errorf("expected no messages, got %d", len(sess.Messages))
		}
		if len(remote.cleared) != 1 || remote.cleared[0] != id {
			t.Errorf("expected remote clear for %s, got %v", id, remote.cleared)
		}
	})

	t.Run("remote failure leaves messages in place", func(t *testing.T) {
		svc, remote := newTestService(t)
		if _, err := svc.Send(context.Background(), "hello"); err != nil {
			t.Fatal(err)
		}
		remote.fail = errors.New("backend down")

		if err := svc.Clear(context.Background(), svc.ActiveID()); err == nil {
			t.Fatal("expected error")
		}
		if len(svc.Active().Messages) != 2 {
			t.Error("messages should survive a failed remote clear")
		}
	})
}

func TestServiceClearAll(t *testing.T) {
	t.Run("reseeds a single fresh session", func(t *testing.T) {
		svc, remote := newTestService(t)
		for i := 0; i < 3; i++ {
			if _, err := svc.New(context.Background()); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := svc.Send(context.Background(), "hello"); err != nil {
			t.Fatal(err)
		}

		if err := svc.ClearAll(context.Background()); err != nil {
			t.Fatalf("ClearAll failed: %v", err)
		}

		sessions := svc.Sessions()
		if len(sessions) != 1 {
			t.Fatalf("expected exactly 1 session, got %d", len(sessions))
		}
		if len(sessions[0].Messages) != 0 {
			t.Error("reseeded session should be empty")
		}
		if sessions[0].Title != DefaultTitle {
			t.Errorf("expected default title, got %q", sessions[0].Title)
		}
		if svc.ActiveID() != sessions[0].ID {
			t.Error("reseeded session should be active")
		}
		if remote.clearedAll != 1 {
			t.Errorf("expected one remote clear-all, got %d", remote.clearedAll)
		}
		if last := remote.created[len(remote.created)-1]; last != sessions[0].ID {
			t.Errorf("expected remote create for the reseeded session, got %s", last)
		}
	})

	t.Run("remote failure leaves everything in place", func(t *testing.T) {
		svc, remote := newTestService(t)
		if _, err := svc.New(context.Background()); err != nil {
			t.Fatal(err)
		}
		remote.fail = errors.New("backend down")

		if err := svc.ClearAll(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if len(svc.Sessions()) != 2 {
			t.Error("sessions should survive a failed remote clear-all")
		}
	})
}

func TestServiceRename(t *testing.T) {
	t.Run("title updates on remote success", func(t *testing.T) {
		svc, remote := newTestService(t)
		id := svc.ActiveID()

		if err := svc.Rename(context.Background(), id, "Perseid meteor shower"); err != nil {
			t.Fatalf("Rename failed: %v", err)
		}
		if got := svc.Active().Title; got != "Perseid meteor shower" {
			t.Errorf("expected renamed title, got %q", got)
		}
		if remote.renamed[id] != "Perseid meteor shower" {
			t.Error("rename not propagated to remote")
		}
	})

	t.Run("remote failure leaves title untouched", func(t *testing.T) {
		svc, remote := newTestService(t)
		remote.fail = errors.New("backend down")

		err := svc.Rename(context.Background(), svc.ActiveID(), "New name")
		if err == nil {
			t.Fatal("expected error")
		}
		if got := svc.Active().Title; got != DefaultTitle {
			t.Errorf("title should be untouched, got %q", got)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestService(t)
		err := svc.Rename(context.Background(), "no-such-id", "x")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestServiceSend(t *testing.T) {
	t.Run("prompt and reply are appended in order", func(t *testing.T) {
		svc, remote := newTestService(t)
		remote.reply = "pong"

		sess, err := svc.Send(context.Background(), "ping")
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}

		if len(sess.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(sess.Messages))
		}
		if sess.Messages[0].Role != RoleUser || sess.Messages[0].Content != "ping" {
			t.Errorf("unexpected user message: %+v", sess.Messages[0])
		}
		if sess.Messages[1].Role != RoleAssistant || sess.Messages[1].Content != "pong" {
			t.Errorf("unexpected assistant message: %+v", sess.Messages[1])
		}
	})

	t.Run("failure fills the placeholder with the error reply", func(t *testing.T) {
		svc, remote := newTestService(t)
		remote.fail = errors.New("backend down")

		sess, err := svc.Send(context.Background(), "ping")
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}

		if len(sess.Messages) != 2 {
			t.Fatalf("expected 2 messages even on failure, got %d", len(sess.Messages))
		}
		if sess.Messages[0].Content != "ping" {
			t.Errorf("unexpected user message: %+v", sess.Messages[0])
		}
		if sess.Messages[1].Content != SendErrorReply {
			t.Errorf("expected error reply, got %q", sess.Messages[1].Content)
		}
	})

	t.Run("consecutive sends accumulate", func(t *testing.T) {
		svc, _ := newTestService(t)

		if _, err := svc.Send(context.Background(), "first"); err != nil {
			t.Fatal(err)
		}
		sess, err := svc.Send(context.Background(), "second")
		if err != nil {
			t.Fatal(err)
		}

		if len(sess.Messages) != 4 {
			t.Fatalf("expected 4 messages, got %d", len(sess.Messages))
		}
		if sess.Messages[2].Content != "second" {
			t.Errorf("unexpected third message: %+v", sess.Messages[2])
		}
	})

	t.Run("transcript persists across restarts", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileStore(filepath.Join(dir, "sessions.json"))
		svc, err := NewService(store, newFakeRemote(), nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Send(context.Background(), "ping"); err != nil {
			t.Fatal(err)
		}

		restarted, err := NewService(NewFileStore(filepath.Join(dir, "sessions.json")), newFakeRemote(), nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := len(restarted.Active().Messages); got != 2 {
			t.Errorf("expected 2 persisted messages, got %d", got)
		}
	})
}

func TestServiceUpdateActive(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpdateActive(func(s *Session) {
		s.Messages = append(s.Messages, NewMessage(RoleSystem, "observing conditions loaded"))
	})
	if err != nil {
		t.Fatalf("UpdateActive failed: %v", err)
	}

	if got := len(svc.Active().Messages); got != 1 {
		t.Errorf("expected 1 message, got %d", got)
	}
}

// gatedRemote blocks one named operation until released, so tests can
// interleave a second caller while the first is mid remote call.
type gatedRemote struct {
	*fakeRemote
	method  string
	entered chan struct{}
	release chan struct{}
}

func newGatedRemote(method string) *gatedRemote {
	return &gatedRemote{
		fakeRemote: newFakeRemote(),
		method:     method,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (g *gatedRemote) hold(method string) {
	if g.method == method {
		g.entered <- struct{}{}
		<-g.release
	}
}

func (g *gatedRemote) DeleteConversation(ctx context.Context, id string) error {
	g.hold("delete")
	return g.fakeRemote.DeleteConversation(ctx, id)
}

func (g *gatedRemote) ClearConversation(ctx context.Context, id string) error {
	g.hold("clear")
	return g.fakeRemote.ClearConversation(ctx, id)
}

func (g *gatedRemote) RenameConversation(ctx context.Context, id, title string) error {
	g.hold("rename")
	return g.fakeRemote.RenameConversation(ctx, id, title)
}

func newGatedService(t *testing.T, method string) (*Service, *gatedRemote) {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	remote := newGatedRemote(method)
	svc, err := NewService(store, remote, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, remote
}

func TestServiceClearOfSessionDeletedMidFlight(t *testing.T) {
	svc, remote := newGatedService(t, "clear")
	victim, err := svc.New(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Clear(context.Background(), victim.ID) }()
	<-remote.entered

	if err := svc.Delete(context.Background(), victim.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	close(remote.release)

	if err := <-errCh; !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from Clear, got %v", err)
	}
	if len(svc.Sessions()) != 1 {
		t.Errorf("expected 1 session, got %d", len(svc.Sessions()))
	}
}

func TestServiceRenameOfSessionDeletedMidFlight(t *testing.T) {
	svc, remote := newGatedService(t, "rename")
	victim, err := svc.New(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Rename(context.Background(), victim.ID, "Andromeda notes") }()
	<-remote.entered

	if err := svc.Delete(context.Background(), victim.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	close(remote.release)

	if err := <-errCh; !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from Rename, got %v", err)
	}
	for _, sess := range svc.Sessions() {
		if sess.Title == "Andromeda notes" {
			t.Error("rename should not apply to a deleted session")
		}
	}
}

func TestServiceConcurrentDeleteOfLastTwoSessions(t *testing.T) {
	svc, remote := newGatedService(t, "delete")
	second, err := svc.New(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	first := svc.Sessions()[1]

	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go func() { errA <- svc.Delete(context.Background(), first.ID) }()
	<-remote.entered
	go func() { errB <- svc.Delete(context.Background(), second.ID) }()
	<-remote.entered

	// Both callers passed the last-session guard before either removed
	// anything locally. Releasing them must still leave one session.
	close(remote.release)
	a, b := <-errA, <-errB

	if a == nil && b == nil {
		t.Fatal("both deletes succeeded; the store was emptied")
	}
	failed := a
	if failed == nil {
		failed = b
	}
	if !errors.Is(failed, ErrLastSession) {
		t.Errorf("expected ErrLastSession from the losing delete, got %v", failed)
	}

	sessions := svc.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected exactly 1 surviving session, got %d", len(sessions))
	}
	if svc.ActiveID() != sessions[0].ID {
		t.Error("active pointer should name the surviving session")
	}
}

// eventRecorder collects published session events in call order.
type eventRecorder struct {
	types    []pubsub.EventType
	payloads []events.SessionEvent
}

func (r *eventRecorder) Publish(eventType pubsub.EventType, event events.SessionEvent) {
	r.types = append(r.types, eventType)
	r.payloads = append(r.payloads, event)
}

func (r *eventRecorder) last() (pubsub.EventType, events.SessionEvent) {
	return r.types[len(r.types)-1], r.payloads[len(r.payloads)-1]
}

func TestServiceSendEventTypes(t *testing.T) {
	t.Run("successful reply publishes an update", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
		remote := newFakeRemote()
		recorder := &eventRecorder{}
		svc, err := NewService(store, remote, recorder)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := svc.Send(context.Background(), "ping"); err != nil {
			t.Fatalf("Send failed: %v", err)
		}

		eventType, payload := recorder.last()
		if eventType != pubsub.EventUpdated {
			t.Errorf("expected EventUpdated, got %s", eventType)
		}
		if payload.Type != events.SessionMessageAdded {
			t.Errorf("expected message added payload, got %s", payload.Type)
		}
	})

	t.Run("failed reply publishes a failure", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
		remote := newFakeRemote()
		remote.fail = errors.New("backend down")
		recorder := &eventRecorder{}
		svc, err := NewService(store, remote, recorder)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := svc.Send(context.Background(), "ping"); err != nil {
			t.Fatalf("Send should not error on a remote failure: %v", err)
		}

		eventType, payload := recorder.last()
		if eventType != pubsub.EventFailed {
			t.Errorf("expected EventFailed, got %s", eventType)
		}
		if payload.MessageText != SendErrorReply {
			t.Errorf("expected error reply in payload, got %q", payload.MessageText)
		}
	})
}
