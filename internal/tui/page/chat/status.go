package chat

import (
	"charm.land/lipgloss/v2"

	"github.com/astroworld-labs/murph/internal/tui/styles"
)

// Status represents the current chat status.
type Status int

// Status states.
const (
	StatusReady Status = iota
	StatusThinking
	StatusError
)

// StatusBar displays the session title, the current status, and key hints.
type StatusBar struct {
	status   Status
	title    string
	infoMsg  string
	errorMsg string
	width    int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{status: StatusReady}
}

// SetStatus sets the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.status = status
	if status == StatusReady {
		s.errorMsg = ""
	}
}

// SetTitle sets the active session title.
func (s *StatusBar) SetTitle(title string) {
	s.title = title
}

// SetInfo shows a transient info message.
func (s *StatusBar) SetInfo(msg string) {
	s.infoMsg = msg
}

// ClearInfo removes the transient info message.
func (s *StatusBar) ClearInfo() {
	s.infoMsg = ""
}

// SetError sets an error message.
func (s *StatusBar) SetError(msg string) {
	s.status = StatusError
	s.errorMsg = msg
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	var statusText string
	var statusStyle lipgloss.Style

	switch s.status {
	case StatusReady:
		statusText = "Ready"
		statusStyle = t.S().Success
	case StatusThinking:
		statusText = "Thinking..."
		statusStyle = t.S().Info
	case StatusError:
		statusText = "Error: " + s.errorMsg
		statusStyle = t.S().Error
	}
	if s.infoMsg != "" {
		statusText = s.infoMsg
		statusStyle = t.S().Info
	}

	left := statusStyle.Render(statusText)
	if s.title != "" {
		left = t.S().Accent.Render(s.title) + "  " + left
	}

	right := t.S().Muted.Render("Enter send • Ctrl+S sessions • Ctrl+Y copy • Ctrl+C quit")

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	content := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return lipgloss.NewStyle().
		Width(s.width).
		Padding(0, 1).
		Background(t.BgSubtle).
		Render(content)
}
