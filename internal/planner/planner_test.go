package planner

import (
	"testing"
	"time"

	"github.com/h0rv/weekplan/internal/codec"
	"github.com/h0rv/weekplan/internal/domain"
	"github.com/h0rv/weekplan/internal/urlstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// thursday is 2025-08-14 in week 33.
func thursday() time.Time {
	return time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC)
}

func monday() time.Time {
	return time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)
}

func createTestItems() domain.ItemsMap {
	return domain.ItemsMap{
		"2025-08-11": {{ID: "1", Text: "Standup"}},
		"2025-08-14": {{ID: "2", Text: "Ship"}, {ID: "3", Text: "Review"}},
		"2025-08-16": {{ID: "4", Text: "Hike"}},
		"2025-08-25": {{ID: "5", Text: "Later"}},
	}
}

func dayDates(w Week) []string {
	result := make([]string, len(w.Days))
	for i, d := range w.Days {
		result[i] = d.Date
	}
	return result
}

func newTestSession(t *testing.T, href string) (*Session, *urlstate.MemoryLocation) {
	t.Helper()
	loc := urlstate.NewMemoryLocation(href)
	s := NewSession(loc, domain.DefaultPreferences(), nil)
	require.NoError(t, s.Open(thursday()))
	return s, loc
}

func hrefWithItems(t *testing.T, base string, items domain.ItemsMap) string {
	t.Helper()
	frag, err := codec.Encode(items)
	require.NoError(t, err)
	return base + "#" + frag
}

func TestBuildWeek_Weekdays(t *testing.T) {
	w := BuildWeek(monday(), createTestItems(), domain.DefaultPreferences(), thursday())

	assert.Equal(t, 33, w.Number)
	assert.Equal(t, []string{"2025-08-11", "2025-08-12", "2025-08-13", "2025-08-14", "2025-08-15"}, dayDates(w))
	assert.Equal(t, "2025-08-11", w.Days[0].DayName)
	assert.Equal(t, 3, w.TodayIndex())
	assert.True(t, w.Days[3].IsToday)
	assert.Len(t, w.Days[3].Items, 2)
	assert.NotNil(t, w.Days[1].Items)
	assert.Empty(t, w.Days[1].Items)
	assert.Equal(t, "Week 33 · 2025-08-11", w.Title())
}

func TestBuildWeek_Weekends(t *testing.T) {
	prefs := domain.Preferences{DateFormat: "EEE, MMM d", ShowWeekends: true}
	w := BuildWeek(monday(), createTestItems(), prefs, thursday())

	require.Len(t, w.Days, 7)
	assert.Equal(t, "Mon, Aug 11", w.Days[0].DayName)
	assert.Equal(t, "Sun, Aug 17", w.Days[6].DayName)
	assert.True(t, w.Days[5].Weekend)
	assert.True(t, w.Days[6].Weekend)
	assert.False(t, w.Days[4].Weekend)
	assert.Equal(t, "Hike", w.Days[5].Items[0].Text)
}

func TestBuildWeek_CopiesItems(t *testing.T) {
	items := createTestItems()
	w := BuildWeek(monday(), items, domain.DefaultPreferences(), thursday())
	w.Days[0].Items[0].Text = "changed"

	assert.Equal(t, "Standup", items["2025-08-11"][0].Text)
}

func TestBuildWeek_NotCurrentWeek(t *testing.T) {
	w := BuildWeek(monday().AddDate(0, 0, 14), createTestItems(), domain.DefaultPreferences(), thursday())
	assert.Equal(t, -1, w.TodayIndex())
	assert.Equal(t, 35, w.Number)
	assert.Equal(t, "Later", w.Days[0].Items[0].Text)
}

func TestSession_Open(t *testing.T) {
	s, loc := newTestSession(t, hrefWithItems(t, "https://weekplan.local/2025-08-11", createTestItems()))

	assert.Equal(t, createTestItems(), s.Store().Snapshot())
	assert.Equal(t, "2025-08-11", s.Route().Week.Format("2006-01-02"))
	assert.Equal(t, 0, loc.Replacements())
}

func TestSession_Open_CorrectsWeekAndKeepsItems(t *testing.T) {
	s, loc := newTestSession(t, hrefWithItems(t, "https://weekplan.local/2025-08-16", createTestItems()))

	assert.Equal(t, "2025-08-11", s.Route().Week.Format("2006-01-02"))
	assert.Equal(t, 1, loc.Replacements())

	href, err := s.Href()
	require.NoError(t, err)
	assert.Contains(t, href, "https://weekplan.local/2025-08-11#")
	assert.Equal(t, createTestItems(), s.Store().Snapshot())
}

func TestSession_Open_CorruptFragment(t *testing.T) {
	s, _ := newTestSession(t, "https://weekplan.local/2025-08-11#%%%broken")

	assert.Equal(t, 0, s.Store().Count())
	assert.Len(t, s.Week(thursday()).Days, 5)
}

func TestSession_Navigation(t *testing.T) {
	s, _ := newTestSession(t, hrefWithItems(t, "https://weekplan.local/2025-08-11", createTestItems()))

	require.NoError(t, s.NextWeek())
	assert.Equal(t, "2025-08-18", s.Route().Week.Format("2006-01-02"))

	require.NoError(t, s.NextWeek())
	w := s.Week(thursday())
	assert.Equal(t, "Later", w.Days[0].Items[0].Text)

	require.NoError(t, s.PrevWeek())
	require.NoError(t, s.PrevWeek())
	require.NoError(t, s.PrevWeek())
	assert.Equal(t, "2025-08-04", s.Route().Week.Format("2006-01-02"))

	require.NoError(t, s.ThisWeek(thursday()))
	assert.Equal(t, "2025-08-11", s.Route().Week.Format("2006-01-02"))

	href, err := s.Href()
	require.NoError(t, err)
	_, frag := urlstate.SplitFragment(href)
	got, err := codec.Decode(frag)
	require.NoError(t, err)
	assert.Equal(t, createTestItems(), got, "navigation never touches items")
}

func TestSession_Preferences(t *testing.T) {
	s, loc := newTestSession(t, "https://weekplan.local/2025-08-11")

	require.NoError(t, s.ToggleWeekends())
	require.NoError(t, s.SetDateFormat("dd.MM.yyyy"))
	require.NoError(t, s.SetHeadingLevel("h2"))

	href, _ := loc.Href()
	assert.Equal(t, "https://weekplan.local/2025-08-11?dateFormat=dd.MM.yyyy&headingLevel=h2&weekends=1", href)

	w := s.Week(thursday())
	assert.Len(t, w.Days, 7)
	assert.Equal(t, "11.08.2025", w.Days[0].DayName)

	assert.Error(t, s.SetHeadingLevel("h7"))
	assert.Equal(t, "h2", s.Preferences().HeadingLevel)

	require.NoError(t, s.SetDateFormat("   "))
	assert.Equal(t, domain.DefaultDateFormat, s.Preferences().DateFormat)
}

func TestSession_PreferencesSurviveReopen(t *testing.T) {
	s, loc := newTestSession(t, "https://weekplan.local/2025-08-11")
	require.NoError(t, s.SetDateFormat("cccc"))
	require.NoError(t, s.ToggleWeekends())

	reopened := NewSession(loc, domain.DefaultPreferences(), nil)
	require.NoError(t, reopened.Open(thursday()))
	assert.Equal(t, "cccc", reopened.Preferences().DateFormat)
	assert.True(t, reopened.Preferences().ShowWeekends)
	assert.Equal(t, "Monday", reopened.Week(thursday()).Days[0].DayName)
}

func TestSession_MutationsPersistToFragment(t *testing.T) {
	s, loc := newTestSession(t, "https://weekplan.local/2025-08-11?dateFormat=cccc")

	_, err := s.Store().AddItem("2025-08-12", "Dentist")
	require.NoError(t, err)

	href, _ := loc.Href()
	base, frag := urlstate.SplitFragment(href)
	assert.Equal(t, "https://weekplan.local/2025-08-11?dateFormat=cccc", base)

	got, err := codec.Decode(frag)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", got["2025-08-12"][0].Text)
}

func TestSession_Import(t *testing.T) {
	s, loc := newTestSession(t, "https://weekplan.local/2025-08-11?dateFormat=cccc")

	shared := hrefWithItems(t, "https://elsewhere.example/2025-01-06?weekends=1", createTestItems())
	n, err := s.Import(shared)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, createTestItems(), s.Store().Snapshot())

	href, _ := loc.Href()
	base, _ := urlstate.SplitFragment(href)
	assert.Equal(t, "https://weekplan.local/2025-08-11?dateFormat=cccc", base, "only items are imported")

	_, frag := urlstate.SplitFragment(shared)
	n, err = s.Import(frag)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = s.Import("https://x/#not-base64!!")
	assert.Error(t, err)
	assert.Equal(t, createTestItems(), s.Store().Snapshot())
}
