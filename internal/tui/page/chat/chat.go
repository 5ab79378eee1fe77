// Package chat provides the main chat page for murph.
package chat

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/astroworld-labs/murph/internal/debug"
	"github.com/astroworld-labs/murph/internal/events"
	"github.com/astroworld-labs/murph/internal/session"
	"github.com/astroworld-labs/murph/internal/tui/components/sessions"
	"github.com/astroworld-labs/murph/internal/tui/util"
)

const sidebarWidth = 36

// Model is the chat page model.
type Model struct {
	svc      *session.Service
	messages *MessageList
	input    *Input
	status   *StatusBar
	sidebar  *sessions.SessionList

	showSidebar bool
	sending     bool
	width       int
	height      int
}

// New creates a new chat page.
func New(svc *session.Service) *Model {
	return &Model{
		svc:      svc,
		messages: NewMessageList(),
		input:    NewInput(),
		status:   NewStatusBar(),
		sidebar:  sessions.NewSessionList(),
	}
}

// Init initializes the chat page.
func (m *Model) Init() tea.Cmd {
	m.refresh()
	return m.input.Init()
}

// refresh re-reads the session collection from the service.
func (m *Model) refresh() {
	active := m.svc.Active()
	m.messages.SetMessages(active.Messages)
	m.status.SetTitle(active.Title)
	m.sidebar.SetSessions(m.svc.Sessions(), active.ID)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		if msg.Button == tea.MouseWheelUp {
			m.messages.ScrollUp()
		} else if msg.Button == tea.MouseWheelDown {
			m.messages.ScrollDown()
		}
		return m, nil

	case SendResultMsg:
		m.sending = false
		m.messages.SetWaiting(false)
		m.input.Enable()
		if msg.Err != nil {
			debug.Error("chat", msg.Err, "send failed")
			m.status.SetError(msg.Err.Error())
		} else {
			m.status.SetStatus(StatusReady)
		}
		m.refresh()
		m.messages.ScrollToBottom()
		return m, m.input.Focus()

	case SessionsChangedMsg:
		m.refresh()
		return m, nil

	case AuthChangedMsg:
		switch msg.Event.Type {
		case events.AuthLoggedOut:
			m.status.SetError("Session expired. Run murph login")
		case events.AuthTokenRefreshed:
			m.status.SetInfo("Session refreshed")
			return m, clearInfoCmd()
		}
		return m, nil

	case ReplyCopiedMsg:
		if msg.Err != nil {
			m.status.SetInfo(fmt.Sprintf("Copy failed: %v", msg.Err))
		} else {
			m.status.SetInfo("Reply copied to clipboard")
		}
		return m, clearInfoCmd()

	case ClearInfoMsg:
		m.status.ClearInfo()
		return m, nil

	case sessions.SessionSelectedMsg:
		if err := m.svc.Select(msg.SessionID); err != nil {
			m.status.SetError(err.Error())
			return m, nil
		}
		m.showSidebar = false
		m.status.SetStatus(StatusReady)
		m.refresh()
		return m, m.input.Focus()

	case sessions.NewSessionMsg:
		if _, err := m.svc.New(context.Background()); err != nil {
			m.status.SetError(err.Error())
			return m, nil
		}
		m.showSidebar = false
		m.status.SetStatus(StatusReady)
		m.refresh()
		return m, m.input.Focus()

	case sessions.RenameSessionMsg:
		if err := m.svc.Rename(context.Background(), msg.SessionID, msg.Title); err != nil {
			m.status.SetError(err.Error())
		} else {
			m.status.SetStatus(StatusReady)
		}
		m.refresh()
		return m, nil

	case sessions.DeleteSessionMsg:
		if err := m.svc.Delete(context.Background(), msg.SessionID); err != nil {
			if errors.Is(err, session.ErrLastSession) {
				m.status.SetInfo("Cannot delete the last session")
				m.refresh()
				return m, clearInfoCmd()
			}
			m.status.SetError(err.Error())
		} else {
			m.status.SetStatus(StatusReady)
		}
		m.refresh()
		return m, nil

	case sessions.ClearSessionMsg:
		if err := m.svc.Clear(context.Background(), msg.SessionID); err != nil {
			m.status.SetError(err.Error())
		} else {
			m.status.SetStatus(StatusReady)
		}
		m.refresh()
		return m, nil

	case sessions.ClearAllSessionsMsg:
		if err := m.svc.ClearAll(context.Background()); err != nil {
			m.status.SetError(err.Error())
		} else {
			m.showSidebar = false
			m.status.SetStatus(StatusReady)
		}
		m.refresh()
		return m, m.input.Focus()

	case sessions.CloseMsg:
		m.showSidebar = false
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	// Text entry in the rename field takes priority over panel keys.
	if m.showSidebar {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+s":
			if !m.sidebar.IsRenaming() {
				m.showSidebar = false
				return m, m.input.Focus()
			}
		}
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+s":
		m.showSidebar = true
		m.input.Blur()
		m.refresh()
		return m, nil

	case "ctrl+n":
		return m.Update(sessions.NewSessionMsg{})

	case "ctrl+y":
		return m, copyReplyCmd(m.messages.LastAssistantReply())

	case "pgup":
		m.messages.ScrollUp()
		return m, nil

	case "pgdown":
		m.messages.ScrollDown()
		return m, nil

	case "enter":
		if m.sending {
			return m, nil
		}
		value := m.input.Value()
		if value == "" {
			return m, nil
		}

		m.input.Clear()
		m.input.Disable()
		m.sending = true
		m.status.SetStatus(StatusThinking)
		m.messages.SetWaiting(true)
		m.messages.ScrollToBottom()

		return m, sendCmd(m.svc, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// SetSize sets the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	contentWidth := width
	if m.showSidebar {
		contentWidth = width - sidebarWidth
	}

	m.messages.SetSize(contentWidth, m.messagesHeight())
	m.input.SetWidth(contentWidth)
	m.status.SetWidth(width)
	m.sidebar.SetSize(sidebarWidth, height-1)
}

func (m *Model) messagesHeight() int {
	// Input takes 3 lines, status bar 1.
	return max(1, m.height-4)
}

// View renders the chat page.
func (m *Model) View() string {
	m.SetSize(m.width, m.height)

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.messages.View(),
		m.input.View(),
	)

	if m.showSidebar {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, m.status.View())
}

// Cursor returns the active text cursor.
func (m *Model) Cursor() *tea.Cursor {
	if m.showSidebar {
		return m.sidebar.Cursor()
	}
	if m.input.IsEnabled() {
		return m.input.Cursor()
	}
	return nil
}
