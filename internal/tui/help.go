package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var (
	// HelpOverlayStyle defines the style for the help overlay container.
	HelpOverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		MarginTop(1)
)

// HelpModel wraps the bubbles help component.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a new help overlay model.
func NewHelpModel(keymap KeyMap) HelpModel {
	h := help.New()
	h.ShowAll = true

	return HelpModel{
		help:   h,
		keymap: keymap,
	}
}

// View renders the help overlay with the planner link underneath, so the
// user can see where their state lives.
func (m HelpModel) View(width int, href string) string {
	m.help.Width = width - 8 // Account for padding and border
	body := m.help.View(m.keymap)
	if href != "" {
		body += "\n\n" + HelpStyle.Render("Everything is saved in the planner link:") +
			"\n" + truncate(href, width-8)
	}
	return HelpOverlayStyle.Render(body)
}

// ShortView renders the one-line key hint.
func (m HelpModel) ShortView(width int) string {
	m.help.Width = width
	m.help.ShowAll = false
	return m.help.View(m.keymap)
}

// truncate shortens s to width runes, ending with an ellipsis.
func truncate(s string, width int) string {
	if width < 2 {
		width = 2
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
