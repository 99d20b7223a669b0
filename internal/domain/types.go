// Package domain defines the normalized planner types shared by the codec,
// the store and the views. These types describe the canonical in-memory
// shape independent of any wire format.
package domain

// Item is a single todo entry inside a day bucket.
type Item struct {
	ID   string `json:"id"`   // Opaque, unique within its bucket, generation-ordered
	Text string `json:"text"` // Freeform text as typed by the user
}

// ItemsMap maps an ISO date (YYYY-MM-DD) to the ordered items of that day.
// It is the entire persisted planner state.
type ItemsMap map[string][]Item

// Unwrap returns the map itself so an ItemsMap can be handed to the codec
// wherever a payload is expected.
func (m ItemsMap) Unwrap() ItemsMap {
	return m
}

// Clone returns a deep copy. Empty buckets stay empty (non-nil) buckets.
func (m ItemsMap) Clone() ItemsMap {
	if m == nil {
		return nil
	}
	out := make(ItemsMap, len(m))
	for date, items := range m {
		cp := make([]Item, len(items))
		copy(cp, items)
		out[date] = cp
	}
	return out
}

// Count returns the total number of items across all days.
func (m ItemsMap) Count() int {
	n := 0
	for _, items := range m {
		n += len(items)
	}
	return n
}

// LegacyState is the older persisted shape that wrapped the items map
// together with view state. Only Items survives into the canonical form.
type LegacyState struct {
	Items        ItemsMap          `json:"items"`
	WeekOffset   int               `json:"weekOffset,omitempty"`
	ShowWeekends bool              `json:"showWeekends,omitempty"`
	NewItems     map[string]string `json:"newItems,omitempty"`
}

// Unwrap returns the wrapped items map.
func (s LegacyState) Unwrap() ItemsMap {
	return s.Items
}

// DayData is one derived day-card as handed to views and the exporter.
type DayData struct {
	Date    string // ISO date (YYYY-MM-DD)
	DayName string // Date rendered with the current date format
	Items   []Item // Items of the day, in display order
	IsToday bool   // True when Date is today's local date
	Weekend bool   // True for Saturday and Sunday
}

// Preferences are transient display settings. They travel in the URL query,
// never in the items fragment.
type Preferences struct {
	DateFormat   string // Date-format token pattern (e.g. "yyyy-MM-dd")
	HeadingLevel string // One of HeadingLevels
	ShowWeekends bool   // Whether Saturday and Sunday are displayed
}

// Default preference values.
const (
	DefaultDateFormat   = "yyyy-MM-dd"
	DefaultHeadingLevel = "h3"
)

// DefaultPreferences returns the built-in display preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		DateFormat:   DefaultDateFormat,
		HeadingLevel: DefaultHeadingLevel,
	}
}

// HeadingLevels lists the accepted heading levels for the rich-text export.
var HeadingLevels = []string{"h1", "h2", "h3", "h4", "h5", "h6", "p"}

// ValidHeadingLevel reports whether level is one of HeadingLevels.
func ValidHeadingLevel(level string) bool {
	for _, l := range HeadingLevels {
		if l == level {
			return true
		}
	}
	return false
}

// DateFormatPreset is a named date-format pattern offered by the settings picker.
type DateFormatPreset struct {
	Pattern string
	Label   string
}

// DateFormatPresets are the patterns offered before falling back to a custom one.
var DateFormatPresets = []DateFormatPreset{
	{Pattern: "yyyy-MM-dd", Label: "YYYY-MM-DD"},
	{Pattern: "MM/dd/yyyy", Label: "MM/DD/YYYY"},
	{Pattern: "dd MMM, yyyy", Label: "DD MMM, YYYY"},
	{Pattern: "cccc, d LLLL yyyy", Label: "Full (Monday, 7 August 2025)"},
	{Pattern: "d/M/yyyy", Label: "7/8/2025"},
	{Pattern: "EEE, MMM d", Label: "Wed, Aug 7"},
	{Pattern: "MMM d, yyyy", Label: "Aug 7, 2025"},
	{Pattern: "dd.MM.yyyy", Label: "07.08.2025"},
	{Pattern: "MMMM d, yyyy", Label: "August 7, 2025"},
}
