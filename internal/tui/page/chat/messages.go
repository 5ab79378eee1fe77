package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/astroworld-labs/murph/internal/session"
	"github.com/astroworld-labs/murph/internal/tui/styles"
)

// MessageList displays the conversation transcript.
type MessageList struct {
	messages []session.Message
	markdown *MarkdownRenderer
	width    int
	height   int
	offset   int
	waiting  bool
}

// NewMessageList creates a new message list component.
func NewMessageList() *MessageList {
	return &MessageList{
		markdown: NewMarkdownRenderer(),
	}
}

// SetMessages sets the messages to display and snaps to the bottom.
func (m *MessageList) SetMessages(messages []session.Message) {
	m.messages = messages
	m.offset = 0
}

// SetWaiting toggles the pending-reply indicator shown while a prompt is
// in flight.
func (m *MessageList) SetWaiting(waiting bool) {
	m.waiting = waiting
}

// LastAssistantReply returns the most recent non-empty assistant message.
func (m *MessageList) LastAssistantReply() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == session.RoleAssistant && m.messages[i].Content != "" {
			return m.messages[i].Content
		}
	}
	return ""
}

// SetSize sets the component size.
func (m *MessageList) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ScrollUp scrolls toward older messages.
func (m *MessageList) ScrollUp() {
	m.offset++
}

// ScrollDown scrolls toward the latest messages.
func (m *MessageList) ScrollDown() {
	if m.offset > 0 {
		m.offset--
	}
}

// ScrollToBottom snaps to the latest message.
func (m *MessageList) ScrollToBottom() {
	m.offset = 0
}

// View renders the transcript, bottom-aligned and clipped to the
// component height.
func (m *MessageList) View() string {
	t := styles.CurrentTheme()

	if len(m.messages) == 0 {
		empty := t.S().Muted.Render("No messages yet. Ask Murph about the night sky.")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, empty)
	}

	var rendered []string
	for _, msg := range m.messages {
		rendered = append(rendered, m.renderMessage(msg))
	}
	if m.waiting {
		rendered = append(rendered, t.S().Muted.Render("Murph is thinking..."))
	}

	lines := strings.Split(strings.Join(rendered, "\n\n"), "\n")

	// Clip to the visible window, keeping the bottom in view. offset counts
	// lines scrolled up from the bottom.
	maxOffset := max(0, len(lines)-m.height)
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	end := len(lines) - m.offset
	start := max(0, end-m.height)
	visible := strings.Join(lines[start:end], "\n")

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 1).
		Render(visible)
}

func (m *MessageList) renderMessage(msg session.Message) string {
	t := styles.CurrentTheme()

	contentWidth := m.width - 4 // Account for padding

	switch msg.Role {
	case session.RoleUser:
		header := t.S().Text.Bold(true).Render("You")
		content := t.S().Text.Width(contentWidth).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Left, header, content)

	case session.RoleAssistant:
		header := t.S().Primary.Bold(true).Render("Murph")
		body := msg.Content
		if body == "" {
			body = t.S().Muted.Render("...")
			return lipgloss.JoinVertical(lipgloss.Left, header, body)
		}
		if rendered, err := m.markdown.Render(body, contentWidth); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, body)

	default:
		return t.S().Muted.Width(contentWidth).Render(msg.Content)
	}
}
