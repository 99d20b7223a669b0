// Package tui provides Bubble Tea models for the interactive planner.
package tui

// FormatSelectedMsg is emitted when the user picks a date format.
type FormatSelectedMsg struct {
	Pattern string
}

// CustomFormatMsg is emitted when the user asks to type their own date format.
type CustomFormatMsg struct{}

// HeadingSelectedMsg is emitted when the user picks an export heading level.
type HeadingSelectedMsg struct {
	Level string
}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// Screen transitions requested by the planner view.
type (
	openFormatPickerMsg  struct{}
	openHeadingPickerMsg struct{}
	openExportMsg        struct{}
	closeOverlayMsg      struct{}
	copiedMsg            struct{ what string }
)
