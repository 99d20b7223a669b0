package planner

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/h0rv/weekplan/internal/codec"
	"github.com/h0rv/weekplan/internal/domain"
	"github.com/h0rv/weekplan/internal/store"
	"github.com/h0rv/weekplan/internal/urlstate"
)

// Session is one open planner: a location, the route read from it and the
// items store persisted back into it.
type Session struct {
	loc     urlstate.Location
	adapter *urlstate.Adapter
	nav     *urlstate.Navigator
	store   *store.Store
	route   urlstate.Route
	logger  *slog.Logger
}

// NewSession creates a Session over loc. Call Open before using it.
func NewSession(loc urlstate.Location, defaults domain.Preferences, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	adapter := urlstate.NewAdapter(loc, logger)
	return &Session{
		loc:     loc,
		adapter: adapter,
		nav:     urlstate.NewNavigator(loc, defaults, logger),
		store:   store.New(adapter),
		route:   urlstate.Route{Prefs: defaults},
		logger:  logger,
	}
}

// Open resolves the route, correcting the location in place when needed,
// and loads the items from the fragment. A broken fragment opens an empty
// planner.
func (s *Session) Open(now time.Time) error {
	r, err := s.nav.Resolve(now)
	s.route = r
	if err != nil {
		return fmt.Errorf("resolve route: %w", err)
	}

	items := s.adapter.ReadState()
	if repaired := s.store.Load(items); repaired > 0 {
		s.logger.Warn("repaired item ids", "count", repaired)
	}
	s.logger.Debug("planner opened", "week", r.Week.Format("2006-01-02"), "items", s.store.Count())
	return nil
}

// Store returns the items store.
func (s *Session) Store() *store.Store {
	return s.store
}

// Route returns the current route.
func (s *Session) Route() urlstate.Route {
	return s.route
}

// Preferences returns the current display preferences.
func (s *Session) Preferences() domain.Preferences {
	return s.route.Prefs
}

// Week derives the displayed week.
func (s *Session) Week(now time.Time) Week {
	return BuildWeek(s.route.Week, s.store.Snapshot(), s.route.Prefs, now)
}

// NextWeek moves one week forward.
func (s *Session) NextWeek() error {
	return s.goToWeek(s.route.Week.AddDate(0, 0, 7))
}

// PrevWeek moves one week back.
func (s *Session) PrevWeek() error {
	return s.goToWeek(s.route.Week.AddDate(0, 0, -7))
}

// ThisWeek moves to the week containing now.
func (s *Session) ThisWeek(now time.Time) error {
	return s.goToWeek(now)
}

// GoToWeek moves to the week containing day.
func (s *Session) GoToWeek(day time.Time) error {
	return s.goToWeek(day)
}

func (s *Session) goToWeek(day time.Time) error {
	if err := s.nav.SetWeek(day); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	r, err := s.nav.Resolve(day)
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	s.route = r
	s.logger.Debug("week changed", "week", r.Week.Format("2006-01-02"))
	return nil
}

// ToggleWeekends flips whether Saturday and Sunday are shown.
func (s *Session) ToggleWeekends() error {
	p := s.route.Prefs
	p.ShowWeekends = !p.ShowWeekends
	return s.setPreferences(p)
}

// SetDateFormat changes the day-name pattern. An empty pattern restores the
// default.
func (s *Session) SetDateFormat(pattern string) error {
	p := s.route.Prefs
	p.DateFormat = strings.TrimSpace(pattern)
	if p.DateFormat == "" {
		p.DateFormat = s.nav.Defaults().DateFormat
	}
	return s.setPreferences(p)
}

// SetHeadingLevel changes the heading level of the rich-text export.
func (s *Session) SetHeadingLevel(level string) error {
	if !domain.ValidHeadingLevel(level) {
		return fmt.Errorf("unknown heading level %q (want one of %s)", level, strings.Join(domain.HeadingLevels, ", "))
	}
	p := s.route.Prefs
	p.HeadingLevel = level
	return s.setPreferences(p)
}

func (s *Session) setPreferences(p domain.Preferences) error {
	if err := s.nav.SetPreferences(p); err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	s.route.Prefs = p
	return nil
}

// Href returns the current planner link.
func (s *Session) Href() (string, error) {
	return s.loc.Href()
}

// Import replaces all items with the state carried by href, which may be a
// full planner link or a bare fragment. It returns the number of items
// imported.
func (s *Session) Import(href string) (int, error) {
	fragment := strings.TrimSpace(href)
	if strings.Contains(fragment, "#") {
		_, fragment = urlstate.SplitFragment(fragment)
	}

	items, err := codec.Decode(fragment)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}

	prev := s.store.Snapshot()
	s.store.Load(items)
	if err := s.adapter.WriteState(s.store.Snapshot()); err != nil {
		s.store.Load(prev)
		return 0, fmt.Errorf("import: %w", err)
	}
	return s.store.Count(), nil
}
