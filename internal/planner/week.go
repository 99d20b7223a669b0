// Package planner derives the displayed week from the URL route and the
// items map, and exposes the navigation and preference actions the views
// call.
package planner

import (
	"fmt"
	"time"

	"github.com/h0rv/weekplan/internal/dates"
	"github.com/h0rv/weekplan/internal/domain"
)

// Week is the derived view of one planner week.
type Week struct {
	Monday time.Time
	Number int
	Days   []domain.DayData
}

// Title renders the week heading, e.g. "Week 33 · 2025-08-11".
func (w Week) Title() string {
	return fmt.Sprintf("Week %d · %s", w.Number, dates.ISODate(w.Monday))
}

// BuildWeek derives the day cards of the week starting at monday.
// Days run Monday first; Saturday and Sunday are left out unless
// prefs.ShowWeekends is set.
func BuildWeek(monday time.Time, items domain.ItemsMap, prefs domain.Preferences, now time.Time) Week {
	format := prefs.DateFormat
	if format == "" {
		format = domain.DefaultDateFormat
	}
	today := dates.ISODate(now)

	w := Week{
		Monday: monday,
		Number: dates.WeekNumber(monday),
		Days:   make([]domain.DayData, 0, 7),
	}
	for _, day := range dates.WeekDays(monday) {
		weekend := dates.IsWeekend(day)
		if weekend && !prefs.ShowWeekends {
			continue
		}
		iso := dates.ISODate(day)
		dayItems := make([]domain.Item, len(items[iso]))
		copy(dayItems, items[iso])

		w.Days = append(w.Days, domain.DayData{
			Date:    iso,
			DayName: dates.Format(day, format),
			Items:   dayItems,
			IsToday: iso == today,
			Weekend: weekend,
		})
	}
	return w
}

// TodayIndex returns the index of today's card, or -1.
func (w Week) TodayIndex() int {
	for i, d := range w.Days {
		if d.IsToday {
			return i
		}
	}
	return -1
}
