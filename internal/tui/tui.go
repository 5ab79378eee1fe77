// Package tui provides the terminal user interface for murph.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/astroworld-labs/murph/internal/config"
	"github.com/astroworld-labs/murph/internal/debug"
	"github.com/astroworld-labs/murph/internal/events"
	"github.com/astroworld-labs/murph/internal/pubsub"
	"github.com/astroworld-labs/murph/internal/session"
	"github.com/astroworld-labs/murph/internal/tui/page/chat"
	"github.com/astroworld-labs/murph/internal/tui/styles"
)

// Model is the top-level TUI model.
type Model struct {
	chatPage *chat.Model
	cfg      *config.Config
	width    int
	height   int
	ready    bool
}

// New creates the top-level model.
func New(cfg *config.Config, svc *session.Service) *Model {
	return &Model{
		cfg:      cfg,
		chatPage: chat.New(svc),
	}
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	return m.chatPage.Init()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.chatPage.SetSize(msg.Width, msg.Height)
		return m, nil
	}

	_, cmd := m.chatPage.Update(msg)
	return m, cmd
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	view.Content = m.chatPage.View()
	view.Cursor = m.chatPage.Cursor()
	return view
}

// Run starts the TUI program.
func Run(cfg *config.Config, svc *session.Service, hub *pubsub.Hub) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("murph requires an interactive terminal: stdin must be a TTY")
	}

	// Initialize theme before any component renders.
	styles.SetTheme(styles.NewDefaultTheme())

	model := New(cfg, svc)
	p := tea.NewProgram(model)

	// Forward broker events so the page re-reads service state whenever
	// any code path mutates it, and surfaces auth lifecycle changes.
	if hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		forwardEvents(ctx, hub.Session, p, func(pubsub.Event[events.SessionEvent]) tea.Msg {
			return chat.SessionsChangedMsg{}
		})
		forwardEvents(ctx, hub.Auth, p, func(ev pubsub.Event[events.AuthEvent]) tea.Msg {
			return chat.AuthChangedMsg{Event: ev.Payload}
		})
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// forwardEvents pumps broker events into the program as messages until
// ctx is cancelled.
func forwardEvents[T any](ctx context.Context, sub pubsub.Subscriber[T], p *tea.Program, msg func(pubsub.Event[T]) tea.Msg) {
	ch := sub.Subscribe(ctx)
	go func() {
		for ev := range ch {
			p.Send(msg(ev))
		}
	}()
}
