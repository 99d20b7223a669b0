package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/pkg/browser"

	"github.com/h0rv/weekplan/internal/domain"
	"github.com/h0rv/weekplan/internal/planner"
	"github.com/h0rv/weekplan/internal/richtext"
)

// Layout constants
const (
	minColumnWidth = 22
	maxColumnWidth = 40
	headerLines    = 2 // Title line + hint line
)

// inputMode is what the planner is currently waiting for.
type inputMode int

const (
	modeNormal inputMode = iota
	modeAdd
	modeEdit
	modeMoveDay
)

// PlannerModel is the main week view: one column per day.
type PlannerModel struct {
	// Dependencies
	session *planner.Session
	opts    Options

	// UI components
	keymap KeyMap
	help   HelpModel
	input  textinput.Model

	// Week state
	week         planner.Week
	selectedDay  int            // Index into week.Days
	dayOffset    int            // First visible day column
	selectedItem map[string]int // ISO date -> selected item index
	scrollOffset map[string]int // ISO date -> first visible item

	// View state
	width    int
	height   int
	showHelp bool
	mode     inputMode
	editID   string
	toast    string
	toastErr bool
}

// NewPlannerModel creates a planner view over an opened session.
func NewPlannerModel(s *planner.Session, opts Options) PlannerModel {
	opts = opts.withDefaults()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	m := PlannerModel{
		session:      s,
		opts:         opts,
		keymap:       DefaultKeyMap(),
		help:         NewHelpModel(DefaultKeyMap()),
		input:        ti,
		selectedItem: make(map[string]int),
		scrollOffset: make(map[string]int),
	}
	m.refresh()
	m.selectToday()
	return m
}

// Init initializes the planner.
func (m PlannerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m PlannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-20)
		m.adjustDayScroll()
		return m, nil

	case copiedMsg:
		m.setToast("Copied "+msg.what, false)
		return m, nil

	case ErrorMsg:
		m.setToast(msg.Err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	if m.mode == modeAdd || m.mode == modeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m PlannerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Quit, m.keymap.Cancel) {
			m.showHelp = false
		}
		return m, nil
	}

	switch m.mode {
	case modeAdd, modeEdit:
		return m.handleInput(msg)
	case modeMoveDay:
		return m.handleMoveDay(msg)
	}

	m.toast = ""

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true

	case key.Matches(msg, m.keymap.Left):
		if m.selectedDay > 0 {
			m.selectedDay--
			m.adjustDayScroll()
		}
	case key.Matches(msg, m.keymap.Right):
		if m.selectedDay < len(m.week.Days)-1 {
			m.selectedDay++
			m.adjustDayScroll()
		}
	case key.Matches(msg, m.keymap.Down):
		m.moveItemSelection(1)
	case key.Matches(msg, m.keymap.Up):
		m.moveItemSelection(-1)
	case msg.String() == "g":
		m.jumpToItem(0)
	case msg.String() == "G":
		m.jumpToItem(-1)

	case key.Matches(msg, m.keymap.PrevWeek):
		m.navigate(m.session.PrevWeek())
	case key.Matches(msg, m.keymap.NextWeek):
		m.navigate(m.session.NextWeek())
	case key.Matches(msg, m.keymap.Today):
		m.navigate(m.session.ThisWeek(m.opts.Now()))

	case key.Matches(msg, m.keymap.Add):
		if day, ok := m.selectedDayData(); ok {
			m.mode = modeAdd
			m.input.Placeholder = "New item for " + day.DayName
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keymap.Edit):
		if it, ok := m.selectedItemData(); ok {
			m.mode = modeEdit
			m.editID = it.ID
			m.input.Placeholder = ""
			m.input.SetValue(it.Text)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keymap.Delete):
		m.deleteSelected()
	case key.Matches(msg, m.keymap.MoveUp):
		m.reorderSelected(-1)
	case key.Matches(msg, m.keymap.MoveDown):
		m.reorderSelected(1)
	case key.Matches(msg, m.keymap.MoveDay):
		if _, ok := m.selectedItemData(); ok {
			m.mode = modeMoveDay
		}

	case key.Matches(msg, m.keymap.Weekends):
		if err := m.session.ToggleWeekends(); err != nil {
			m.setToast(err.Error(), true)
		}
		m.refresh()
	case key.Matches(msg, m.keymap.Format):
		return m, func() tea.Msg { return openFormatPickerMsg{} }
	case key.Matches(msg, m.keymap.Heading):
		return m, func() tea.Msg { return openHeadingPickerMsg{} }
	case key.Matches(msg, m.keymap.Export):
		return m, func() tea.Msg { return openExportMsg{} }
	case key.Matches(msg, m.keymap.Copy):
		return m, m.copyWeek()
	case key.Matches(msg, m.keymap.Open):
		m.openInBrowser()
	}

	return m, nil
}

// handleInput routes keys to the text input while adding or editing.
func (m PlannerModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.mode = modeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		day, ok := m.selectedDayData()
		if !ok {
			m.mode = modeNormal
			return m, nil
		}
		text := m.input.Value()

		if m.mode == modeAdd {
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			if _, err := m.session.Store().AddItem(day.Date, text); err != nil {
				m.setToast(err.Error(), true)
				return m, nil
			}
			m.refresh()
			m.jumpToItem(-1)
			// Stay in add mode for the next item.
			m.input.SetValue("")
			return m, nil
		}

		if err := m.session.Store().EditItem(day.Date, m.editID, text); err != nil {
			m.setToast(err.Error(), true)
			return m, nil
		}
		m.mode = modeNormal
		m.input.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleMoveDay handles key presses in move mode
func (m PlannerModel) handleMoveDay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeNormal
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7":
		idx := int(msg.Runes[0] - '1')
		if idx >= len(m.week.Days) {
			return m, nil
		}
		m.mode = modeNormal
		day, _ := m.selectedDayData()
		it, ok := m.selectedItemData()
		if !ok {
			return m, nil
		}
		target := m.week.Days[idx].Date
		if err := m.session.Store().MoveToDay(day.Date, it.ID, target); err != nil {
			m.setToast(err.Error(), true)
			return m, nil
		}
		m.refresh()
		m.selectedDay = idx
		m.jumpToItem(-1)
		m.adjustDayScroll()
	}
	return m, nil
}

// View renders the planner - fills entire terminal exactly
func (m PlannerModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	var sections []string
	sections = append(sections, m.renderHeader(width))
	sections = append(sections, m.renderSecondHeader(width))

	switch m.mode {
	case modeAdd, modeEdit:
		sections = append(sections, m.input.View())
	case modeMoveDay:
		bar := modeStyle.Render("MOVE") + fmt.Sprintf(" Press 1-%d to pick a day, ESC to cancel", len(m.week.Days))
		sections = append(sections, bar)
	}

	boardHeight := height - headerLines
	if m.mode != modeNormal {
		boardHeight--
	}
	if boardHeight < 5 {
		boardHeight = 5
	}

	var main string
	if m.showHelp {
		href, _ := m.session.Href()
		lines := strings.Split(m.help.View(width, href), "\n")
		if len(lines) > boardHeight {
			lines = lines[:boardHeight]
		}
		main = strings.Join(lines, "\n")
	} else {
		main = m.renderWeek(width, boardHeight)
	}
	sections = append(sections, main)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the week title on the left and status on the right
func (m PlannerModel) renderHeader(width int) string {
	title := m.week.Title()

	total := 0
	for _, d := range m.week.Days {
		total += len(d.Items)
	}
	parts := []string{fmt.Sprintf("%d items", total)}
	if m.session.Preferences().ShowWeekends {
		parts = append(parts, "weekends")
	}
	parts = append(parts, "<"+m.session.Preferences().HeadingLevel+">", "[?]help")
	status := strings.Join(parts, " | ")

	padding := width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if padding < 1 {
		padding = 1
	}
	return titleStyle.Render(title) + strings.Repeat(" ", padding) + dimStyle.Render(status)
}

// renderSecondHeader renders key hints and position or the latest toast
func (m PlannerModel) renderSecondHeader(width int) string {
	left := m.help.ShortView(width * 2 / 3)

	right := ""
	switch {
	case m.toast != "" && m.toastErr:
		right = ErrorStyle.Render(m.toast)
	case m.toast != "":
		right = SuccessStyle.Render(m.toast)
	case len(m.week.Days) > 0:
		day := m.week.Days[m.selectedDay]
		right = fmt.Sprintf("day %d/%d", m.selectedDay+1, len(m.week.Days))
		if n := len(day.Items); n > 0 {
			right += fmt.Sprintf(" | item %d/%d", m.selectedItem[day.Date]+1, n)
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

// visibleDayCount returns how many day columns fit in width.
func (m PlannerModel) visibleDayCount(width int) int {
	n := width / minColumnWidth
	if n < 1 {
		n = 1
	}
	if n > len(m.week.Days) {
		n = len(m.week.Days)
	}
	return n
}

// renderWeek renders the day columns within the given dimensions, scrolling
// horizontally when they do not all fit.
func (m PlannerModel) renderWeek(totalWidth, totalHeight int) string {
	numDays := len(m.week.Days)
	if numDays == 0 {
		return ""
	}

	// lipgloss Border adds 2 lines to the content height.
	contentHeight := totalHeight - 2
	if contentHeight < 3 {
		contentHeight = 3
	}

	visible := m.visibleDayCount(totalWidth)
	colWidth := totalWidth / visible
	if colWidth > maxColumnWidth {
		colWidth = maxColumnWidth
	}
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	innerWidth := colWidth - 4 // border + padding
	if innerWidth < 10 {
		innerWidth = 10
	}

	start := m.dayOffset
	end := start + visible
	if end > numDays {
		end = numDays
		start = max(0, end-visible)
	}

	views := make([]string, 0, visible+2)
	if start > 0 {
		views = append(views, scrollArrow("◀", contentHeight+2))
	}
	for i := start; i < end; i++ {
		views = append(views, m.renderDay(i, colWidth, contentHeight, innerWidth))
	}
	if end < numDays {
		views = append(views, scrollArrow("▶", contentHeight+2))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

func scrollArrow(arrow string, height int) string {
	return lipgloss.NewStyle().
		Width(2).
		Height(height).
		Foreground(lipgloss.Color("205")).
		Align(lipgloss.Center, lipgloss.Center).
		Render(arrow)
}

// renderDay renders one day column. innerHeight excludes the border.
func (m PlannerModel) renderDay(idx, width, innerHeight, innerWidth int) string {
	day := m.week.Days[idx]
	selected := idx == m.selectedDay

	headerText := truncate(fmt.Sprintf("[%d] %s (%d)", idx+1, day.DayName, len(day.Items)), innerWidth)
	var header string
	switch {
	case day.IsToday:
		header = TodayStyle.Render(truncate(headerText, innerWidth-2))
	case day.Weekend:
		header = WeekendStyle.Render(headerText)
	default:
		header = columnHeaderStyle.Render(headerText)
	}

	lines := []string{header}
	budget := innerHeight - 1

	offset := m.scrollOffset[day.Date]
	if offset > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↑ %d more", offset)))
		budget--
	}

	shown := offset
	for i := offset; i < len(day.Items); i++ {
		wrapped := wrapText(day.Items[i].Text, innerWidth-2)
		// Keep one line for the "more" indicator unless this is the last item.
		need := len(wrapped)
		if i < len(day.Items)-1 {
			need++
		}
		if need > budget && i > offset {
			break
		}

		style, prefix := itemStyle, "  "
		if selected && i == m.selectedItem[day.Date] {
			style, prefix = selectedItemStyle, "> "
		}
		for j, line := range wrapped {
			if j > 0 {
				prefix = "  "
			}
			lines = append(lines, style.Render(prefix+line))
		}
		budget -= len(wrapped)
		shown = i + 1
	}

	if remaining := len(day.Items) - shown; remaining > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↓ %d more", remaining)))
	}
	if len(day.Items) == 0 {
		lines = append(lines, dimStyle.Render("(nothing planned)"))
	}

	borderColor := lipgloss.Color("240")
	if selected {
		borderColor = lipgloss.Color("205")
	}

	// Height sets the content height; the border adds 2 more lines.
	return lipgloss.NewStyle().
		Width(width-2).
		Height(innerHeight).
		MaxHeight(innerHeight+2).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(strings.Join(lines, "\n"))
}

// wrapText word-wraps text to width, hard-wrapping words that are longer
// than a line.
func wrapText(text string, width int) []string {
	if width < 4 {
		width = 4
	}
	text = strings.ReplaceAll(text, "\t", " ")
	return strings.Split(wrap.String(wordwrap.String(text, width), width), "\n")
}

// refresh re-derives the week from the session and clamps the selection.
func (m *PlannerModel) refresh() {
	m.week = m.session.Week(m.opts.Now())
	if m.selectedDay >= len(m.week.Days) {
		m.selectedDay = max(0, len(m.week.Days)-1)
	}
	for _, d := range m.week.Days {
		if m.selectedItem[d.Date] >= len(d.Items) {
			m.selectedItem[d.Date] = max(0, len(d.Items)-1)
		}
		if m.scrollOffset[d.Date] > m.selectedItem[d.Date] {
			m.scrollOffset[d.Date] = m.selectedItem[d.Date]
		}
	}
}

// selectToday moves the selection to today's column when it is shown.
func (m *PlannerModel) selectToday() {
	if i := m.week.TodayIndex(); i >= 0 {
		m.selectedDay = i
	} else {
		m.selectedDay = 0
	}
	m.dayOffset = 0
	m.adjustDayScroll()
}

// navigate applies the result of a week change.
func (m *PlannerModel) navigate(err error) {
	if err != nil {
		m.setToast(err.Error(), true)
		return
	}
	m.refresh()
	m.selectToday()
}

func (m *PlannerModel) setToast(msg string, isErr bool) {
	m.toast = msg
	m.toastErr = isErr
	if isErr {
		m.opts.Logger.Warn("planner action failed", "error", msg)
	}
}

func (m PlannerModel) selectedDayData() (domain.DayData, bool) {
	if m.selectedDay < 0 || m.selectedDay >= len(m.week.Days) {
		return domain.DayData{}, false
	}
	return m.week.Days[m.selectedDay], true
}

func (m PlannerModel) selectedItemData() (domain.Item, bool) {
	day, ok := m.selectedDayData()
	if !ok || len(day.Items) == 0 {
		return domain.Item{}, false
	}
	idx := m.selectedItem[day.Date]
	if idx >= len(day.Items) {
		idx = 0
	}
	return day.Items[idx], true
}

// moveItemSelection moves the item selection up or down by delta
func (m *PlannerModel) moveItemSelection(delta int) {
	day, ok := m.selectedDayData()
	if !ok || len(day.Items) == 0 {
		return
	}
	idx := m.selectedItem[day.Date] + delta
	idx = max(0, min(idx, len(day.Items)-1))
	m.selectedItem[day.Date] = idx
	m.adjustScroll(day.Date)
}

// jumpToItem jumps to a specific item index. Use -1 to jump to the last item.
func (m *PlannerModel) jumpToItem(idx int) {
	day, ok := m.selectedDayData()
	if !ok || len(day.Items) == 0 {
		return
	}
	if idx < 0 || idx >= len(day.Items) {
		idx = len(day.Items) - 1
	}
	m.selectedItem[day.Date] = idx
	m.adjustScroll(day.Date)
}

// adjustScroll keeps the selected item visible, assuming one line per item.
func (m *PlannerModel) adjustScroll(date string) {
	visible := m.height - headerLines - 2 - 3 // borders, day header, indicators
	if m.mode != modeNormal {
		visible--
	}
	if visible < 3 {
		visible = 3
	}

	selected := m.selectedItem[date]
	if selected < m.scrollOffset[date] {
		m.scrollOffset[date] = selected
	}
	if selected >= m.scrollOffset[date]+visible {
		m.scrollOffset[date] = selected - visible + 1
	}
}

// adjustDayScroll keeps the selected day column visible.
func (m *PlannerModel) adjustDayScroll() {
	if len(m.week.Days) == 0 || m.width == 0 {
		return
	}
	visible := m.visibleDayCount(m.width)
	if m.selectedDay < m.dayOffset {
		m.dayOffset = m.selectedDay
	}
	if m.selectedDay >= m.dayOffset+visible {
		m.dayOffset = m.selectedDay - visible + 1
	}
}

func (m *PlannerModel) deleteSelected() {
	day, _ := m.selectedDayData()
	it, ok := m.selectedItemData()
	if !ok {
		return
	}
	if err := m.session.Store().DeleteItem(day.Date, it.ID); err != nil {
		m.setToast(err.Error(), true)
		return
	}
	m.refresh()
}

// reorderSelected moves the selected item by delta positions within its day.
func (m *PlannerModel) reorderSelected(delta int) {
	day, _ := m.selectedDayData()
	it, ok := m.selectedItemData()
	if !ok {
		return
	}
	to := m.selectedItem[day.Date] + delta
	if to < 0 || to >= len(day.Items) {
		return
	}
	if err := m.session.Store().MoveItem(day.Date, it.ID, to); err != nil {
		m.setToast(err.Error(), true)
		return
	}
	m.refresh()
	m.selectedItem[day.Date] = to
	m.adjustScroll(day.Date)
}

// copyWeek copies the week as rich text (HTML) to the clipboard.
func (m PlannerModel) copyWeek() tea.Cmd {
	html := richtext.HTML(m.week.Days, richtext.Options{
		HeadingLevel: m.session.Preferences().HeadingLevel,
		Markdown:     m.opts.Markdown,
	})
	return func() tea.Msg {
		if err := clipboard.WriteAll(html); err != nil {
			return ErrorMsg{Err: fmt.Errorf("copy failed: %w", err)}
		}
		return copiedMsg{what: "week as HTML"}
	}
}

func (m *PlannerModel) openInBrowser() {
	href, err := m.session.Href()
	if err == nil {
		err = browser.OpenURL(href)
	}
	if err != nil {
		m.setToast(fmt.Sprintf("open failed: %v", err), true)
	}
}

// selectionAt reports the selected day and item index.
func (m PlannerModel) selectionAt() (string, int) {
	day, ok := m.selectedDayData()
	if !ok {
		return "", -1
	}
	return day.Date, m.selectedItem[day.Date]
}
