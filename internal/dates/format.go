package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format renders t with a date-format token pattern such as "yyyy-MM-dd" or
// "cccc, d LLLL yyyy". A token is a run of one repeated letter; text inside
// single quotes is copied verbatim and a doubled quote yields one quote. Letters
// that are not a known token are copied as-is.
//
// Supported tokens:
//
//	y yy yyyy      year (yy = two digits)
//	M MM MMM MMMM  month number, padded, short name, full name (L is the same)
//	d dd           day of month
//	o ooo          day of year
//	c ccc cccc     weekday number (Monday=1), short name, full name (E is the same)
//	W WW           ISO week number
//	kk kkkk        ISO week-numbering year
func Format(t time.Time, pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '\'' {
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				j++
			}
			if j == i+1 && j < len(runes) {
				b.WriteRune('\'')
			} else if j > i+1 {
				b.WriteString(string(runes[i+1 : min(j, len(runes))]))
			}
			i = j + 1
			continue
		}

		j := i
		for j < len(runes) && runes[j] == r {
			j++
		}
		if tok, ok := formatToken(t, r, j-i); ok {
			b.WriteString(tok)
		} else {
			b.WriteString(string(runes[i:j]))
		}
		i = j
	}
	return b.String()
}

// formatToken renders a single token of letter r repeated n times.
func formatToken(t time.Time, r rune, n int) (string, bool) {
	switch r {
	case 'y':
		year := t.Year()
		switch n {
		case 1:
			return strconv.Itoa(year), true
		case 2:
			return fmt.Sprintf("%02d", year%100), true
		default:
			return fmt.Sprintf("%0*d", n, year), true
		}

	case 'M', 'L':
		switch n {
		case 1:
			return strconv.Itoa(int(t.Month())), true
		case 2:
			return fmt.Sprintf("%02d", int(t.Month())), true
		case 3:
			return t.Month().String()[:3], true
		case 4:
			return t.Month().String(), true
		case 5:
			return t.Month().String()[:1], true
		}

	case 'd':
		switch n {
		case 1:
			return strconv.Itoa(t.Day()), true
		case 2:
			return fmt.Sprintf("%02d", t.Day()), true
		}

	case 'o':
		switch n {
		case 1:
			return strconv.Itoa(t.YearDay()), true
		case 3:
			return fmt.Sprintf("%03d", t.YearDay()), true
		}

	case 'c', 'E':
		switch n {
		case 1:
			return strconv.Itoa(isoWeekday(t)), true
		case 3:
			return t.Weekday().String()[:3], true
		case 4:
			return t.Weekday().String(), true
		case 5:
			return t.Weekday().String()[:1], true
		}

	case 'W':
		switch n {
		case 1:
			return strconv.Itoa(WeekNumber(t)), true
		case 2:
			return fmt.Sprintf("%02d", WeekNumber(t)), true
		}

	case 'k':
		year, _ := t.ISOWeek()
		switch n {
		case 2:
			return fmt.Sprintf("%02d", year%100), true
		case 4:
			return fmt.Sprintf("%04d", year), true
		}
	}
	return "", false
}

// isoWeekday numbers weekdays Monday=1 .. Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
