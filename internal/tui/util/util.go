// Package util provides shared helpers for TUI components.
package util

import (
	tea "charm.land/bubbletea/v2"
)

// Model is the interface page components implement.
type Model interface {
	Init() tea.Cmd
	Update(tea.Msg) (Model, tea.Cmd)
	View() string
}

// CmdHandler wraps a message in a command.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// InfoMsg carries a transient status line for the user.
type InfoMsg struct {
	Msg string
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ReportError wraps an error into a command.
func ReportError(err error) tea.Cmd {
	return CmdHandler(ErrorMsg{Err: err})
}
