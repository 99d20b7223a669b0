// Package dates provides the date arithmetic behind the Monday-first week
// model. Every function works on the local calendar date carried by the
// time.Time it is given, so no result shifts across midnight when the local
// zone is behind or ahead of UTC.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the Go layout for ISO calendar dates (YYYY-MM-DD).
const ISOLayout = "2006-01-02"

// ErrInvalidDate indicates a string that is not a valid ISO calendar date.
var ErrInvalidDate = errors.New("invalid ISO date")

// StartOfDay returns local midnight of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MondayOf returns midnight of the Monday on or before t, shifted by
// weekOffset whole weeks (positive = future, negative = past).
// Sunday counts as the last day of the week, so its delta is -6, never +1.
func MondayOf(t time.Time, weekOffset int) time.Time {
	day := int(t.Weekday()) // Sunday=0 .. Saturday=6
	delta := 1 - day
	if day == 0 {
		delta = -6
	}
	y, m, d := t.Date()
	return time.Date(y, m, d+delta+weekOffset*7, 0, 0, 0, 0, t.Location())
}

// ISODate formats t as YYYY-MM-DD using t's own (local) calendar date.
func ISODate(t time.Time) string {
	return t.Format(ISOLayout)
}

// IsToday reports whether iso is today's local ISO date.
func IsToday(iso string) bool {
	return isTodayAt(iso, time.Now())
}

func isTodayAt(iso string, now time.Time) bool {
	return iso == ISODate(now)
}

// WeekNumber returns the ISO-8601 week number (1-53) of t's calendar date.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseISODate parses a strict YYYY-MM-DD string as local midnight in loc.
// Impossible dates such as 2025-02-30 are rejected.
func ParseISODate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if len(s) != len(ISOLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.ParseInLocation(ISOLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ValidISODate reports whether s is a valid ISO calendar date.
func ValidISODate(s string) bool {
	_, err := ParseISODate(s, time.UTC)
	return err == nil
}

// NormalizeWeekStart snaps an externally supplied week-start string to the
// Monday of its week, at midnight in now's location. Malformed input fails
// closed to the Monday of now's week. changed reports whether the
// normalized ISO date differs from s, i.e. whether the caller should
// correct the source it came from.
func NormalizeWeekStart(s string, now time.Time) (monday time.Time, changed bool) {
	t, err := ParseISODate(s, now.Location())
	if err != nil {
		return MondayOf(now, 0), true
	}
	monday = MondayOf(t, 0)
	return monday, ISODate(monday) != s
}

// WeekDays returns the seven consecutive dates starting at monday.
func WeekDays(monday time.Time) []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// weekdayIndex maps accepted weekday names to their offset from Monday.
var weekdayIndex = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tues": 1, "tuesday": 1,
	"wed": 2, "wednesday": 2,
	"thu": 3, "thur": 3, "thurs": 3, "thursday": 3,
	"fri": 4, "friday": 4,
	"sat": 5, "saturday": 5,
	"sun": 6, "sunday": 6,
}

// ResolveDay turns a command-line day argument into an ISO date.
// Accepted forms are today, tomorrow, yesterday, a weekday name (resolved
// within the week starting at monday) or an ISO date.
func ResolveDay(arg string, monday, now time.Time) (string, error) {
	a := strings.ToLower(strings.TrimSpace(arg))
	switch a {
	case "today":
		return ISODate(now), nil
	case "tomorrow":
		return ISODate(now.AddDate(0, 0, 1)), nil
	case "yesterday":
		return ISODate(now.AddDate(0, 0, -1)), nil
	}
	if idx, ok := weekdayIndex[a]; ok {
		return ISODate(monday.AddDate(0, 0, idx)), nil
	}
	t, err := ParseISODate(a, now.Location())
	if err != nil {
		return "", err
	}
	return ISODate(t), nil
}
