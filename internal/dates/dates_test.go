package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// behindUTC is a fixed zone west of UTC, where naive UTC formatting would
// push late-evening times onto the next calendar day.
var behindUTC = time.FixedZone("UTC-5", -5*60*60)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestMondayOf_Sunday(t *testing.T) {
	sunday := date(2025, time.August, 17)

	assert.Equal(t, "2025-08-11", ISODate(MondayOf(sunday, 0)), "Sunday belongs to the week that started six days earlier")
	assert.Equal(t, "2025-08-18", ISODate(MondayOf(sunday, 1)))
	assert.Equal(t, "2025-08-04", ISODate(MondayOf(sunday, -1)))
}

func TestMondayOf_EveryWeekday(t *testing.T) {
	for d := 11; d <= 17; d++ {
		got := MondayOf(date(2025, time.August, d), 0)
		assert.Equal(t, "2025-08-11", ISODate(got), "day %d", d)
	}
}

func TestMondayOf_ZeroesTimeOfDay(t *testing.T) {
	evening := time.Date(2025, time.August, 13, 21, 45, 12, 500, behindUTC)

	got := MondayOf(evening, 0)

	assert.Equal(t, time.Date(2025, time.August, 11, 0, 0, 0, 0, behindUTC), got)
	assert.Equal(t, behindUTC, got.Location())
}

func TestMondayOf_CrossesYearBoundary(t *testing.T) {
	got := MondayOf(date(2026, time.January, 1), 0) // Thursday
	assert.Equal(t, "2025-12-29", ISODate(got))

	got = MondayOf(date(2025, time.December, 29), 1)
	assert.Equal(t, "2026-01-05", ISODate(got))
}

func TestISODate_LocalCalendarDate(t *testing.T) {
	lateEvening := time.Date(2025, time.August, 11, 23, 30, 0, 0, behindUTC)

	// In UTC this instant is already 2025-08-12.
	assert.Equal(t, "2025-08-12", lateEvening.UTC().Format(ISOLayout))
	assert.Equal(t, "2025-08-11", ISODate(lateEvening))
}

func TestIsTodayAt(t *testing.T) {
	now := time.Date(2025, time.August, 11, 23, 30, 0, 0, behindUTC)

	assert.True(t, isTodayAt("2025-08-11", now))
	assert.False(t, isTodayAt("2025-08-12", now))
	assert.False(t, isTodayAt("not-a-date", now))
}

func TestIsToday(t *testing.T) {
	assert.True(t, IsToday(ISODate(time.Now())))
	assert.False(t, IsToday("1999-01-01"))
}

func TestWeekNumber_ISOBoundaries(t *testing.T) {
	tests := []struct {
		day  time.Time
		want int
	}{
		{date(2025, time.August, 11), 33},
		{date(2021, time.January, 1), 53}, // Friday, still week 53 of 2020
		{date(2021, time.January, 4), 1},
		{date(2024, time.December, 30), 1}, // Monday, week 1 of 2025
		{date(2026, time.December, 31), 53},
		{date(2027, time.January, 3), 53},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeekNumber(tt.day), ISODate(tt.day))
	}
}

func TestWeekNumber_MonotonicWithinYear(t *testing.T) {
	for _, year := range []int{2012, 2020, 2021, 2025, 2026} {
		day := date(year, time.January, 1)
		prev := WeekNumber(day)
		for day.Year() == year {
			w := WeekNumber(day)
			if w < prev {
				// Decreases only happen where the ISO year and the calendar
				// year disagree: the first Monday of January or the last
				// Monday of December.
				assert.Equal(t, 1, w, ISODate(day))
				inJanuary := day.Month() == time.January && day.Day() <= 4
				inDecember := day.Month() == time.December && day.Day() >= 29
				assert.True(t, inJanuary || inDecember, "unexpected wrap at %s", ISODate(day))
				assert.Equal(t, time.Monday, day.Weekday())
			}
			prev = w
			day = day.AddDate(0, 0, 1)
		}
	}
}

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate("2025-08-11", behindUTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.August, 11, 0, 0, 0, 0, behindUTC), got)

	for _, bad := range []string{"", "2025-8-11", "2025-02-30", "11-08-2025", "2025-08-11T00:00:00Z", "garbage!!"} {
		_, err := ParseISODate(bad, behindUTC)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestNormalizeWeekStart(t *testing.T) {
	now := time.Date(2025, time.August, 14, 9, 0, 0, 0, behindUTC)

	monday, changed := NormalizeWeekStart("2025-08-18", now)
	assert.False(t, changed)
	assert.Equal(t, "2025-08-18", ISODate(monday))

	monday, changed = NormalizeWeekStart("2025-08-20", now)
	assert.True(t, changed, "a Wednesday snaps back to its Monday")
	assert.Equal(t, "2025-08-18", ISODate(monday))
	assert.Equal(t, 0, monday.Hour())

	monday, changed = NormalizeWeekStart("2025-08-24", now)
	assert.True(t, changed)
	assert.Equal(t, "2025-08-18", ISODate(monday))

	monday, changed = NormalizeWeekStart("corrupted", now)
	assert.True(t, changed, "malformed input fails closed to the current week")
	assert.Equal(t, "2025-08-11", ISODate(monday))
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(date(2025, time.August, 11))

	require.Len(t, days, 7)
	assert.Equal(t, "2025-08-11", ISODate(days[0]))
	assert.Equal(t, "2025-08-17", ISODate(days[6]))
	assert.True(t, IsWeekend(days[5]))
	assert.True(t, IsWeekend(days[6]))
	assert.False(t, IsWeekend(days[4]))
}

func TestResolveDay(t *testing.T) {
	monday := date(2025, time.August, 11)
	now := date(2025, time.August, 13)

	tests := map[string]string{
		"today":      "2025-08-13",
		"Tomorrow":   "2025-08-14",
		"yesterday":  "2025-08-12",
		"mon":        "2025-08-11",
		"Friday":     "2025-08-15",
		"sun":        "2025-08-17",
		"2025-12-25": "2025-12-25",
	}
	for arg, want := range tests {
		got, err := ResolveDay(arg, monday, now)
		require.NoError(t, err, arg)
		assert.Equal(t, want, got, arg)
	}

	_, err := ResolveDay("someday", monday, now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
