package sessions

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/astroworld-labs/murph/internal/tui/styles"
)

// RenameInput is the inline rename field for a session.
type RenameInput struct {
	textInput textinput.Model
	sessionID string
	width     int
}

// NewRenameInput creates a rename field pre-filled with the current title.
func NewRenameInput(sessionID, currentTitle string, width int) *RenameInput {
	ti := textinput.New()
	ti.Placeholder = "Session title"
	ti.CharLimit = 120
	ti.SetValue(currentTitle)
	ti.Focus()

	r := &RenameInput{
		textInput: ti,
		sessionID: sessionID,
	}
	r.SetWidth(width)
	return r
}

// Init initializes the rename field.
func (r *RenameInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input events.
func (r *RenameInput) Update(msg tea.Msg) (*RenameInput, tea.Cmd) {
	var cmd tea.Cmd
	r.textInput, cmd = r.textInput.Update(msg)
	return r, cmd
}

// View renders the rename field.
func (r *RenameInput) View() string {
	t := styles.CurrentTheme()
	label := t.S().Info.Render("Rename: ")
	return lipgloss.JoinHorizontal(lipgloss.Left, label, r.textInput.View())
}

// SetWidth sets the field width.
func (r *RenameInput) SetWidth(width int) {
	r.width = width
	r.textInput.SetWidth(max(10, width-14))
}

// Result returns the session id and the edited title.
func (r *RenameInput) Result() (string, string) {
	return r.sessionID, r.textInput.Value()
}

// Cursor returns the text cursor.
func (r *RenameInput) Cursor() *tea.Cursor {
	return r.textInput.Cursor()
}
