// Package styles defines the murph color theme and derived lipgloss styles.
package styles

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles *Styles
	once   sync.Once
}

// Styles are the ready-to-use lipgloss styles derived from a theme.
type Styles struct {
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Primary lipgloss.Style
	Accent  lipgloss.Style
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// S returns the styles for this theme, building them on first use.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		t.styles = &Styles{
			Text:    lipgloss.NewStyle().Foreground(t.FgBase),
			Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
			Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
			Primary: lipgloss.NewStyle().Foreground(t.Primary),
			Accent:  lipgloss.NewStyle().Foreground(t.Accent),
			Title:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
			Success: lipgloss.NewStyle().Foreground(t.Success),
			Error:   lipgloss.NewStyle().Foreground(t.Error),
			Warning: lipgloss.NewStyle().Foreground(t.Warning),
			Info:    lipgloss.NewStyle().Foreground(t.Info),
		}
	})
	return t.styles
}

// ParseHex converts a hex string like "#61afef" to a color. Invalid input
// yields black rather than an error; palettes are compile-time constants.
func ParseHex(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	return c
}

var (
	currentTheme *Theme
	themeMu      sync.RWMutex
)

// CurrentTheme returns the active theme, initializing the default on first
// use.
func CurrentTheme() *Theme {
	themeMu.RLock()
	t := currentTheme
	themeMu.RUnlock()
	if t != nil {
		return t
	}

	themeMu.Lock()
	defer themeMu.Unlock()
	if currentTheme == nil {
		currentTheme = NewDefaultTheme()
	}
	return currentTheme
}

// SetTheme replaces the active theme.
func SetTheme(t *Theme) {
	themeMu.Lock()
	currentTheme = t
	themeMu.Unlock()
}
