package chat

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/astroworld-labs/murph/internal/events"
	"github.com/astroworld-labs/murph/internal/session"
)

// Message types produced by the chat page's async commands.
type (
	// SendResultMsg carries the session state after a prompt round trip.
	SendResultMsg struct {
		Session *session.Session
		Err     error
	}

	// SessionsChangedMsg signals that the session collection changed and
	// the page should re-read it from the service.
	SessionsChangedMsg struct{}

	// AuthChangedMsg carries an auth lifecycle event from the broker.
	AuthChangedMsg struct {
		Event events.AuthEvent
	}

	// ReplyCopiedMsg is sent after the last reply was copied.
	ReplyCopiedMsg struct {
		Err error
	}

	// ClearInfoMsg removes a transient status message.
	ClearInfoMsg struct{}
)

const sendTimeout = 2 * time.Minute

// sendCmd submits the prompt within the active session.
func sendCmd(svc *session.Service, prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		sess, err := svc.Send(ctx, prompt)
		return SendResultMsg{Session: sess, Err: err}
	}
}

// copyReplyCmd puts the text on the system clipboard.
func copyReplyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if text == "" {
			return ReplyCopiedMsg{Err: errors.New("nothing to copy")}
		}
		return ReplyCopiedMsg{Err: clipboard.WriteAll(text)}
	}
}

// clearInfoCmd removes the status message after a short delay.
func clearInfoCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return ClearInfoMsg{}
	})
}
