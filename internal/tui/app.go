package tui

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/h0rv/weekplan/internal/planner"
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenPlanner
	ScreenFormatPicker
	ScreenCustomFormat
	ScreenHeadingPicker
	ScreenExport
)

// Options tune the interactive planner.
type Options struct {
	Markdown     bool   // Render item text as Markdown in the HTML export
	PreviewStyle string // glamour style for the export preview
	Now          func() time.Time
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PreviewStyle == "" {
		o.PreviewStyle = "dark"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// AppModel is the root Bubble Tea model that manages screen transitions.
// It opens the session, then shows the planner and the settings and export
// screens on top of it.
type AppModel struct {
	// Dependencies
	session *planner.Session
	opts    Options

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	err           error
	loadingMsg    string

	// Cached planner to preserve selection across screen transitions
	plannerModel *PlannerModel
}

// NewAppModel creates a new app model over a session that has not been
// opened yet.
func NewAppModel(s *planner.Session, opts Options) AppModel {
	return AppModel{
		session:       s,
		opts:          opts.withDefaults(),
		currentScreen: ScreenLoading,
		loadingMsg:    "Opening planner...",
	}
}

// Init initializes the app model.
func (m AppModel) Init() tea.Cmd {
	return m.openSession()
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" && m.currentScreen != ScreenPlanner {
			return m, tea.Quit
		}

	case ErrorMsg:
		if m.currentScreen == ScreenLoading {
			m.err = msg.Err
			return m, nil
		}

	case sessionOpenedMsg:
		pm := NewPlannerModel(m.session, m.opts)
		m.plannerModel = &pm
		return m.showPlanner("")

	case openFormatPickerMsg:
		m.currentScreen = ScreenFormatPicker
		picker := NewFormatPickerModel(m.session.Preferences().DateFormat, m.opts.Now())
		m.currentModel = picker
		return m, picker.Init()

	case CustomFormatMsg:
		m.currentScreen = ScreenCustomFormat
		prompt := NewCustomFormatModel(m.session.Preferences().DateFormat, m.opts.Now())
		m.currentModel = prompt
		return m, prompt.Init()

	case FormatSelectedMsg:
		if err := m.session.SetDateFormat(msg.Pattern); err != nil {
			return m.showPlannerError(err)
		}
		return m.showPlanner("Date format set to " + msg.Pattern)

	case openHeadingPickerMsg:
		m.currentScreen = ScreenHeadingPicker
		picker := NewHeadingPickerModel(m.session.Preferences().HeadingLevel)
		m.currentModel = picker
		return m, picker.Init()

	case HeadingSelectedMsg:
		if err := m.session.SetHeadingLevel(msg.Level); err != nil {
			return m.showPlannerError(err)
		}
		return m.showPlanner("Heading level set to " + msg.Level)

	case openExportMsg:
		m.currentScreen = ScreenExport
		week := m.session.Week(m.opts.Now())
		export := NewExportModel(week.Title(), week.Days, m.session.Preferences(), m.opts)
		m.currentModel = export
		return m, export.Init()

	case closeOverlayMsg:
		return m.showPlanner("")
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		// Keep plannerModel in sync when on planner screen
		if m.currentScreen == ScreenPlanner {
			if pm, ok := m.currentModel.(PlannerModel); ok {
				m.plannerModel = &pm
			}
		}
		return m, cmd
	}

	return m, nil
}

// showPlanner returns to the cached planner, refreshed from the session.
func (m AppModel) showPlanner(toast string) (tea.Model, tea.Cmd) {
	m.plannerModel.refresh()
	m.plannerModel.toast = toast
	m.plannerModel.toastErr = false
	m.currentScreen = ScreenPlanner
	m.currentModel = *m.plannerModel
	// Request window size to ensure proper rendering
	return m, tea.WindowSize()
}

func (m AppModel) showPlannerError(err error) (tea.Model, tea.Cmd) {
	next, cmd := m.showPlanner("")
	app := next.(AppModel)
	app.plannerModel.setToast(err.Error(), true)
	app.currentModel = *app.plannerModel
	return app, cmd
}

// View renders the current screen.
func (m AppModel) View() string {
	// Show error if present
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err))
	}

	// Delegate to current screen
	if m.currentModel != nil {
		return m.currentModel.View()
	}

	// Show loading state
	return m.loadingMsg + "\n\nPress Ctrl+C to quit"
}

// openSession creates a command that resolves the link and loads its state.
func (m AppModel) openSession() tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Open(m.opts.Now()); err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to open planner: %w", err)}
		}
		return sessionOpenedMsg{}
	}
}

// Custom messages for app transitions.
type sessionOpenedMsg struct{}
