package tui

import "github.com/charmbracelet/lipgloss"

// Shared palette
var (
	accentColor = lipgloss.Color("205") // Pink
	mutedColor  = lipgloss.Color("241") // Dark gray
	textColor   = lipgloss.Color("252") // Light gray
)

var (
	// TitleStyle is used for screen titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")). // Purple
			MarginBottom(1)

	// SelectedItemStyle is used for the highlighted entry of a picker.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true)

	// NormalItemStyle is used for the other picker entries.
	NormalItemStyle = lipgloss.NewStyle().Foreground(textColor)

	// ErrorStyle is used for error messages and failed actions.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// SuccessStyle is used for confirmations such as "copied".
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	// PromptStyle is used for input hints.
	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	// HelpStyle is used for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// TodayStyle marks today's day header.
	TodayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("212")).
			Bold(true).
			Padding(0, 1)

	// WeekendStyle dims Saturday and Sunday headers.
	WeekendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)
)

// Planner view styles - base styles without width/height (set dynamically)
var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor)

	itemStyle = lipgloss.NewStyle().Foreground(textColor)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(mutedColor)

	titleStyle = lipgloss.NewStyle().Bold(true)

	modeStyle = lipgloss.NewStyle().
			Background(accentColor).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)
)
