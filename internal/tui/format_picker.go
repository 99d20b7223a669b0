package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/h0rv/weekplan/internal/dates"
	"github.com/h0rv/weekplan/internal/domain"
)

// formatItem wraps a date format preset for use in bubbles/list. An empty
// pattern stands for the "custom" entry.
type formatItem struct {
	preset domain.DateFormatPreset
	sample string
}

func (i formatItem) FilterValue() string {
	return i.preset.Label + " " + i.preset.Pattern
}

func (i formatItem) Title() string {
	return i.preset.Label
}

func (i formatItem) Description() string {
	if i.preset.Pattern == "" {
		return "Type your own pattern"
	}
	return fmt.Sprintf("%s  →  %s", i.preset.Pattern, i.sample)
}

// formatDelegate is a custom item delegate for format items.
type formatDelegate struct {
	current string
}

func (d formatDelegate) Height() int                             { return 2 }
func (d formatDelegate) Spacing() int                            { return 1 }
func (d formatDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d formatDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(formatItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())
	if i.preset.Pattern != "" && i.preset.Pattern == d.current {
		str += " (current)"
	}
	desc := i.Description()

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+str))
		fmt.Fprint(w, "\n  "+NormalItemStyle.Render(desc))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+str))
		fmt.Fprint(w, "\n  "+lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(desc))
	}
}

// FormatPickerModel lists the date format presets, each with today's date
// rendered in it, plus an entry for a custom pattern.
type FormatPickerModel struct {
	list list.Model
}

// NewFormatPickerModel creates a picker with the current pattern preselected.
func NewFormatPickerModel(current string, now time.Time) FormatPickerModel {
	items := make([]list.Item, 0, len(domain.DateFormatPresets)+1)
	selected := -1
	for i, p := range domain.DateFormatPresets {
		items = append(items, formatItem{preset: p, sample: dates.Format(now, p.Pattern)})
		if p.Pattern == current {
			selected = i
		}
	}
	items = append(items, formatItem{preset: domain.DateFormatPreset{Label: "Custom…"}})
	if selected < 0 {
		// A custom pattern is in use.
		selected = len(items) - 1
	}

	l := list.New(items, formatDelegate{current: current}, 80, 20)
	l.Title = "Select a Date Format"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.Select(selected)

	return FormatPickerModel{list: l}
}

// Init initializes the model.
func (m FormatPickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages and updates the model state.
func (m FormatPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if m.list.SettingFilter() {
			break
		}
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return closeOverlayMsg{} }
		case "enter":
			if item, ok := m.list.SelectedItem().(formatItem); ok {
				if item.preset.Pattern == "" {
					return m, func() tea.Msg { return CustomFormatMsg{} }
				}
				return m, func() tea.Msg {
					return FormatSelectedMsg{Pattern: item.preset.Pattern}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m FormatPickerModel) View() string {
	return m.list.View()
}
