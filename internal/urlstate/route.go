package urlstate

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/h0rv/weekplan/internal/dates"
	"github.com/h0rv/weekplan/internal/domain"
)

// Query parameter names carrying display preferences.
const (
	ParamDateFormat   = "dateFormat"
	ParamHeadingLevel = "headingLevel"
	ParamWeekends     = "weekends"
)

// Route is the addressable view state: which week is shown and how.
type Route struct {
	// Week is the Monday of the displayed week.
	Week time.Time
	// Pinned is true when the week came from the path rather than the clock.
	Pinned bool
	Prefs  domain.Preferences
}

// ParseRoute reads the route from href. The second return value is false
// when href needs correcting: the week segment is not a valid Monday or the
// heading level is unknown. The returned route is always usable.
func ParseRoute(href string, now time.Time, defaults domain.Preferences) (Route, bool, error) {
	r := Route{Week: dates.MondayOf(now, 0), Prefs: defaults}

	base, _ := SplitFragment(href)
	u, err := url.Parse(base)
	if err != nil {
		return r, true, fmt.Errorf("parse location: %w", err)
	}

	canonical := true
	if segs := pathSegments(u.Path); len(segs) > 0 {
		monday, changed := dates.NormalizeWeekStart(segs[0], now)
		r.Week = monday
		r.Pinned = true
		canonical = !changed
	}

	q := u.Query()
	if v := q.Get(ParamDateFormat); v != "" {
		r.Prefs.DateFormat = v
	}
	if v := q.Get(ParamHeadingLevel); v != "" {
		if domain.ValidHeadingLevel(v) {
			r.Prefs.HeadingLevel = v
		} else {
			canonical = false
		}
	}
	if q.Has(ParamWeekends) {
		r.Prefs.ShowWeekends = q.Get(ParamWeekends) == "1" || q.Get(ParamWeekends) == "true"
	}
	return r, canonical, nil
}

// BuildHref writes r into href's path and query. The fragment and any other
// path segments or query parameters are kept. Preferences equal to the
// defaults are left out of the query.
func BuildHref(href string, r Route, defaults domain.Preferences) (string, error) {
	base, fragment := SplitFragment(href)
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse location: %w", err)
	}

	segs := pathSegments(u.Path)
	if r.Pinned {
		iso := dates.ISODate(r.Week)
		if len(segs) == 0 {
			segs = []string{iso}
		} else {
			segs[0] = iso
		}
	}
	u.Path = "/" + strings.Join(segs, "/")
	u.RawPath = ""

	q := u.Query()
	setParam(q, ParamDateFormat, r.Prefs.DateFormat, defaults.DateFormat)
	setParam(q, ParamHeadingLevel, r.Prefs.HeadingLevel, defaults.HeadingLevel)
	if r.Prefs.ShowWeekends != defaults.ShowWeekends {
		if r.Prefs.ShowWeekends {
			q.Set(ParamWeekends, "1")
		} else {
			q.Set(ParamWeekends, "0")
		}
	} else {
		q.Del(ParamWeekends)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	u.RawFragment = ""

	return WithFragment(u.String(), fragment), nil
}

func setParam(q url.Values, key, value, def string) {
	if value == "" || value == def {
		q.Del(key)
		return
	}
	q.Set(key, value)
}

func pathSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Navigator owns the path and query of a Location. It never touches the
// fragment, which belongs to the Adapter.
type Navigator struct {
	loc      Location
	defaults domain.Preferences
	logger   *slog.Logger
}

// NewNavigator creates a Navigator. A nil logger discards output.
func NewNavigator(loc Location, defaults domain.Preferences, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Navigator{loc: loc, defaults: defaults, logger: logger}
}

// Defaults returns the preferences used when the query omits one.
func (n *Navigator) Defaults() domain.Preferences {
	return n.defaults
}

// Resolve returns the current route. A week segment that is not a valid
// Monday, or an unknown heading level, is corrected in place.
func (n *Navigator) Resolve(now time.Time) (Route, error) {
	href, err := n.loc.Href()
	if err != nil {
		return Route{Week: dates.MondayOf(now, 0), Prefs: n.defaults}, fmt.Errorf("read location: %w", err)
	}

	r, canonical, err := ParseRoute(href, now, n.defaults)
	if err != nil {
		return r, err
	}
	if canonical {
		return r, nil
	}

	corrected, err := BuildHref(href, r, n.defaults)
	if err != nil {
		return r, err
	}
	if err := n.loc.Replace(corrected); err != nil {
		return r, fmt.Errorf("replace location: %w", err)
	}
	n.logger.Info("corrected planner location", "from", stripFragment(href), "to", stripFragment(corrected))
	return r, nil
}

// SetWeek moves the path to the week containing day.
func (n *Navigator) SetWeek(day time.Time) error {
	return n.update(func(r *Route) {
		r.Week = dates.MondayOf(day, 0)
		r.Pinned = true
	})
}

// SetPreferences rewrites the query for p.
func (n *Navigator) SetPreferences(p domain.Preferences) error {
	return n.update(func(r *Route) {
		r.Prefs = p
	})
}

func (n *Navigator) update(fn func(r *Route)) error {
	href, err := n.loc.Href()
	if err != nil {
		return fmt.Errorf("read location: %w", err)
	}
	r, _, err := ParseRoute(href, time.Now(), n.defaults)
	if err != nil {
		return err
	}
	fn(&r)

	next, err := BuildHref(href, r, n.defaults)
	if err != nil {
		return err
	}
	if next == href {
		return nil
	}
	if err := n.loc.Replace(next); err != nil {
		return fmt.Errorf("replace location: %w", err)
	}
	return nil
}

func stripFragment(href string) string {
	base, _ := SplitFragment(href)
	return base
}
