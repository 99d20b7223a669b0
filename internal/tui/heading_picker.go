package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/h0rv/weekplan/internal/domain"
)

// headingItem represents a heading level in the list.
type headingItem struct {
	level string
}

func (i headingItem) FilterValue() string { return i.level }

func (i headingItem) label() string {
	if i.level == "p" {
		return "p  (paragraph, no heading)"
	}
	return fmt.Sprintf("%s (heading %s)", i.level, i.level[1:])
}

// headingItemDelegate handles rendering of heading items.
type headingItemDelegate struct {
	current string
}

func (d headingItemDelegate) Height() int                             { return 1 }
func (d headingItemDelegate) Spacing() int                            { return 0 }
func (d headingItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d headingItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(headingItem)
	if !ok {
		return
	}

	str := i.label()
	if i.level == d.current {
		str += " ✓"
	}

	fn := NormalItemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return SelectedItemStyle.Render("> " + s[0])
		}
	}

	fmt.Fprint(w, fn(str))
}

// HeadingPickerModel lets the user choose the tag wrapping day names in
// the rich-text export.
type HeadingPickerModel struct {
	list list.Model
}

// NewHeadingPickerModel creates a heading picker with current preselected.
func NewHeadingPickerModel(current string) HeadingPickerModel {
	items := make([]list.Item, len(domain.HeadingLevels))
	selected := 0
	for i, level := range domain.HeadingLevels {
		items[i] = headingItem{level: level}
		if level == current {
			selected = i
		}
	}

	// Start with a reasonable default - will be resized by WindowSizeMsg
	l := list.New(items, headingItemDelegate{current: current}, 80, 20)
	l.Title = "Select Export Heading Level"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle
	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	l.Styles.HelpStyle = HelpStyle
	l.Select(selected)

	return HeadingPickerModel{list: l}
}

// Init initializes the model.
func (m HeadingPickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages.
func (m HeadingPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(headingItem); ok {
				return m, func() tea.Msg {
					return HeadingSelectedMsg{Level: item.level}
				}
			}
		case "q", "esc":
			return m, func() tea.Msg { return closeOverlayMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width - 2)
		m.list.SetHeight(msg.Height - 2)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m HeadingPickerModel) View() string {
	return m.list.View()
}
