// Package sessions provides the session picker panel.
package sessions

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/astroworld-labs/murph/internal/session"
	"github.com/astroworld-labs/murph/internal/tui/styles"
	"github.com/astroworld-labs/murph/internal/tui/util"
)

// SessionList displays the sessions with cursor navigation.
type SessionList struct {
	sessions []*session.Session
	activeID string
	cursor   int
	width    int
	height   int
	offset   int

	rename *RenameInput
}

// NewSessionList creates a new session list.
func NewSessionList() *SessionList {
	return &SessionList{}
}

// SetSessions replaces the listed sessions and marks the active one.
func (l *SessionList) SetSessions(sessions []*session.Session, activeID string) {
	l.sessions = sessions
	l.activeID = activeID

	if l.cursor >= len(l.sessions) {
		l.cursor = max(0, len(l.sessions)-1)
	}
}

// SetSize sets the list dimensions.
func (l *SessionList) SetSize(width, height int) {
	l.width = width
	l.height = height
	if l.rename != nil {
		l.rename.SetWidth(width)
	}
}

// Selected returns the session under the cursor.
func (l *SessionList) Selected() *session.Session {
	if l.cursor >= 0 && l.cursor < len(l.sessions) {
		return l.sessions[l.cursor]
	}
	return nil
}

// IsRenaming reports whether the inline rename input is open.
func (l *SessionList) IsRenaming() bool {
	return l.rename != nil
}

// Cursor returns the rename input cursor when renaming.
func (l *SessionList) Cursor() *tea.Cursor {
	if l.rename != nil {
		return l.rename.Cursor()
	}
	return nil
}

// Update handles messages.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	if l.rename != nil {
		return l.updateRename(keyMsg)
	}

	switch keyMsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case "down", "j":
		if l.cursor < len(l.sessions)-1 {
			l.cursor++
			l.ensureVisible()
		}
	case "home", "g":
		l.cursor = 0
		l.offset = 0
	case "end", "G":
		l.cursor = max(0, len(l.sessions)-1)
		l.ensureVisible()
	case "enter":
		if selected := l.Selected(); selected != nil {
			return l, util.CmdHandler(SessionSelectedMsg{SessionID: selected.ID})
		}
	case "n":
		return l, util.CmdHandler(NewSessionMsg{})
	case "r":
		if selected := l.Selected(); selected != nil {
			l.rename = NewRenameInput(selected.ID, selected.Title, l.width)
			return l, l.rename.Init()
		}
	case "d":
		if selected := l.Selected(); selected != nil {
			return l, util.CmdHandler(DeleteSessionMsg{SessionID: selected.ID})
		}
	case "c":
		if selected := l.Selected(); selected != nil {
			return l, util.CmdHandler(ClearSessionMsg{SessionID: selected.ID})
		}
	case "x":
		return l, util.CmdHandler(ClearAllSessionsMsg{})
	case "esc", "q":
		return l, util.CmdHandler(CloseMsg{})
	}

	return l, nil
}

func (l *SessionList) updateRename(msg tea.KeyMsg) (*SessionList, tea.Cmd) {
	switch msg.String() {
	case "enter":
		id, title := l.rename.Result()
		l.rename = nil
		if strings.TrimSpace(title) == "" {
			return l, nil
		}
		return l, util.CmdHandler(RenameSessionMsg{SessionID: id, Title: strings.TrimSpace(title)})
	case "esc":
		l.rename = nil
		return l, nil
	}

	var cmd tea.Cmd
	l.rename, cmd = l.rename.Update(msg)
	return l, cmd
}

func (l *SessionList) ensureVisible() {
	visibleRows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+visibleRows {
		l.offset = l.cursor - visibleRows + 1
	}
}

func (l *SessionList) visibleRows() int {
	// Each session takes 2 lines (title + meta)
	return max(1, (l.height-4)/2)
}

// View renders the session list.
func (l *SessionList) View() string {
	t := styles.CurrentTheme()

	title := t.S().Title.Render("Sessions")
	hints := t.S().Subtle.Render("[n]ew [r]ename [d]elete [c]lear [x] clear all")

	var rows []string
	visibleRows := l.visibleRows()
	endIdx := min(l.offset+visibleRows, len(l.sessions))

	for i := l.offset; i < endIdx; i++ {
		rows = append(rows, l.renderSession(l.sessions[i], i == l.cursor))
	}

	var footer string
	if remaining := len(l.sessions) - endIdx; remaining > 0 {
		footer = t.S().Muted.Render(fmt.Sprintf("  ↓ %d more", remaining))
	}

	parts := []string{title, ""}
	parts = append(parts, rows...)
	if footer != "" {
		parts = append(parts, footer)
	}
	if l.rename != nil {
		parts = append(parts, "", l.rename.View())
	}
	parts = append(parts, "", hints)

	return lipgloss.NewStyle().
		Width(l.width).
		Height(l.height).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Render(strings.Join(parts, "\n"))
}

func (l *SessionList) renderSession(sess *session.Session, selected bool) string {
	t := styles.CurrentTheme()

	marker := "  "
	if sess.ID == l.activeID {
		marker = "· "
	}
	if selected {
		marker = "> "
	}

	maxTitle := max(4, l.width-6)
	title := ansi.Truncate(sess.Title, maxTitle, "...")

	meta := fmt.Sprintf("%d msgs · %s", len(sess.Messages), formatRelativeTime(sess.UpdatedAt))
	pad := max(0, maxTitle-uniseg.StringWidth(meta))
	metaLine := strings.Repeat(" ", 2+pad/2) + meta

	var sb strings.Builder
	if selected {
		sb.WriteString(t.S().Primary.Bold(true).Render(marker + title))
	} else {
		sb.WriteString(t.S().Text.Render(marker + title))
	}
	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render(metaLine))
	return sb.String()
}

// formatRelativeTime formats a time as a relative string.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
