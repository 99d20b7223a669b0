package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/h0rv/weekplan/internal/domain"
	"github.com/h0rv/weekplan/internal/richtext"
)

// exportView is what the export screen currently shows.
type exportView int

const (
	exportPreview exportView = iota
	exportHTML
	exportMarkdown
)

func (v exportView) String() string {
	switch v {
	case exportHTML:
		return "HTML"
	case exportMarkdown:
		return "Markdown"
	default:
		return "Preview"
	}
}

var (
	exportTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("241"))

	activeExportTabStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	exportBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))
)

// ExportModel shows the week as the rich text that "copy" puts on the
// clipboard, its Markdown equivalent, and a rendered preview.
type ExportModel struct {
	title    string
	html     string
	markdown string
	style    string

	view     exportView
	viewport viewport.Model
	status   string
	isErr    bool

	width  int
	height int
}

// NewExportModel renders the export formats for the given days.
func NewExportModel(title string, days []domain.DayData, prefs domain.Preferences, opts Options) ExportModel {
	opts = opts.withDefaults()

	vp := viewport.New(80, 20) // Will be resized in WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := ExportModel{
		title: title,
		html: richtext.HTML(days, richtext.Options{
			HeadingLevel: prefs.HeadingLevel,
			Markdown:     opts.Markdown,
		}),
		markdown: richtext.Markdown(days, prefs.HeadingLevel),
		style:    opts.PreviewStyle,
		viewport: vp,
	}
	m.updateViewportContent()
	return m
}

// Init initializes the model.
func (m ExportModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(3, msg.Height-5) // tabs, border, footer
		m.updateViewportContent()
		return m, nil

	case copiedMsg:
		m.status, m.isErr = "Copied "+msg.what, false
		return m, nil

	case ErrorMsg:
		m.status, m.isErr = msg.Err.Error(), true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return closeOverlayMsg{} }
		case "tab", "right", "l":
			m.view = (m.view + 1) % 3
			m.updateViewportContent()
			return m, nil
		case "shift+tab", "left", "h":
			m.view = (m.view + 2) % 3
			m.updateViewportContent()
			return m, nil
		case "y":
			return m, m.copy()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// copy puts the HTML on the clipboard, or the Markdown when that tab is open.
func (m ExportModel) copy() tea.Cmd {
	text, what := m.html, "HTML"
	if m.view == exportMarkdown {
		text, what = m.markdown, "Markdown"
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrorMsg{Err: fmt.Errorf("copy failed: %w", err)}
		}
		return copiedMsg{what: what}
	}
}

func (m *ExportModel) updateViewportContent() {
	var content string
	switch m.view {
	case exportHTML:
		content = m.html
	case exportMarkdown:
		content = m.markdown
	default:
		content = richtext.Preview(m.markdown, m.viewport.Width, m.style)
	}
	m.viewport.SetContent(strings.TrimRight(content, "\n"))
	m.viewport.GotoTop()
}

// View renders the export screen.
func (m ExportModel) View() string {
	tabs := make([]string, 0, 3)
	for v := exportPreview; v <= exportMarkdown; v++ {
		style := exportTabStyle
		if v == m.view {
			style = activeExportTabStyle
		}
		tabs = append(tabs, style.Render(v.String()))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "  " + dimStyle.Render(m.title)

	body := exportBorderStyle.Render(m.viewport.View())

	footer := dimStyle.Render("tab: switch view • y: copy • j/k: scroll • esc: back")
	if m.status != "" {
		if m.isErr {
			footer += "  " + ErrorStyle.Render(m.status)
		} else {
			footer += "  " + SuccessStyle.Render(m.status)
		}
	}
	if pct := m.viewport.ScrollPercent(); m.viewport.TotalLineCount() > m.viewport.Height {
		footer += dimStyle.Render(fmt.Sprintf("  %3.f%%", pct*100))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
