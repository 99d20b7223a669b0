package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/h0rv/weekplan/internal/dates"
)

// CustomFormatModel prompts for a free-form date pattern and previews it
// against today's date while typing.
type CustomFormatModel struct {
	input textinput.Model
	now   time.Time
	err   error
}

// NewCustomFormatModel creates the prompt, prefilled with the current pattern.
func NewCustomFormatModel(current string, now time.Time) CustomFormatModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. EEE d MMM"
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.SetValue(current)
	ti.CursorEnd()
	ti.Focus()

	return CustomFormatModel{input: ti, now: now}
}

// Init initializes the model.
func (m CustomFormatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m CustomFormatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return closeOverlayMsg{} }
		case "enter":
			pattern := strings.TrimSpace(m.input.Value())
			if pattern == "" {
				m.err = fmt.Errorf("pattern is empty")
				return m, nil
			}
			return m, func() tea.Msg { return FormatSelectedMsg{Pattern: pattern} }
		}
		m.err = nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the model.
func (m CustomFormatModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Custom Date Format"))
	b.WriteString("\n")
	b.WriteString(PromptStyle.Render("Tokens: yyyy yy MMMM MMM MM M d dd cccc ccc EEE W kkkk; quote literals with '...'"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if pattern := strings.TrimSpace(m.input.Value()); pattern != "" {
		b.WriteString("Preview: " + SelectedItemStyle.Render(dates.Format(m.now, pattern)))
	}
	if m.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter: save • esc: cancel"))
	return b.String()
}
