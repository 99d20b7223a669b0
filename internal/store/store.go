// Package store holds the planner's items map in memory and pushes every
// change through a Persister. Callers see a small set of day-level
// operations; id generation, ordering rules and rollback stay inside.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/h0rv/weekplan/internal/dates"
	"github.com/h0rv/weekplan/internal/domain"
)

var (
	// ErrInvalidDate indicates a day key that is not an ISO date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrEmptyText indicates an item with blank text.
	ErrEmptyText = errors.New("item text is empty")
	// ErrItemNotFound indicates the requested item does not exist on that day.
	ErrItemNotFound = errors.New("item not found")
)

// Persister saves a full snapshot of the items map.
type Persister interface {
	WriteState(m domain.ItemsMap) error
}

// Store manages the in-memory items map.
type Store struct {
	items     domain.ItemsMap
	persister Persister

	// newID generates item ids; replaced in tests.
	newID func() string
}

// New creates an empty Store. A nil persister keeps changes in memory only.
func New(p Persister) *Store {
	return &Store{
		items:     make(domain.ItemsMap),
		persister: p,
		newID:     newItemID,
	}
}

// newItemID returns a time-ordered UUIDv7, so ids sort in creation order.
func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Load replaces the state without persisting it. Items with an empty id or
// an id already used on the same day get a fresh id. It returns how many
// ids were repaired.
func (s *Store) Load(m domain.ItemsMap) int {
	s.items = make(domain.ItemsMap, len(m))
	repaired := 0
	for date, items := range m {
		seen := make(map[string]bool, len(items))
		bucket := make([]domain.Item, len(items))
		for i, it := range items {
			if it.ID == "" || seen[it.ID] {
				it.ID = s.newID()
				repaired++
			}
			seen[it.ID] = true
			bucket[i] = it
		}
		s.items[date] = bucket
	}
	return repaired
}

// Items returns a copy of the items of date, in display order.
func (s *Store) Items(date string) []domain.Item {
	items := s.items[date]
	result := make([]domain.Item, len(items))
	copy(result, items)
	return result
}

// Snapshot returns a deep copy of the whole map.
func (s *Store) Snapshot() domain.ItemsMap {
	return s.items.Clone()
}

// Count returns the total number of items.
func (s *Store) Count() int {
	return s.items.Count()
}

// Dates returns the days that have at least one item, sorted.
func (s *Store) Dates() []string {
	result := make([]string, 0, len(s.items))
	for date, items := range s.items {
		if len(items) > 0 {
			result = append(result, date)
		}
	}
	sort.Strings(result)
	return result
}

// AddItem appends a new item to date and returns it.
func (s *Store) AddItem(date, text string) (domain.Item, error) {
	if err := validate(date, text); err != nil {
		return domain.Item{}, err
	}

	item := domain.Item{ID: s.newID(), Text: text}
	err := s.mutate(func(m domain.ItemsMap) error {
		m[date] = append(m[date], item)
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// EditItem replaces the text of an item.
func (s *Store) EditItem(date, id, text string) error {
	if err := validate(date, text); err != nil {
		return err
	}
	return s.mutate(func(m domain.ItemsMap) error {
		i, err := indexOf(m, date, id)
		if err != nil {
			return err
		}
		m[date][i].Text = text
		return nil
	})
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(date, id string) error {
	return s.mutate(func(m domain.ItemsMap) error {
		i, err := indexOf(m, date, id)
		if err != nil {
			return err
		}
		m[date] = slices.Delete(m[date], i, i+1)
		return nil
	})
}

// MoveItem moves an item to position toIndex within its day. Out-of-range
// indices are clamped.
func (s *Store) MoveItem(date, id string, toIndex int) error {
	return s.mutate(func(m domain.ItemsMap) error {
		from, err := indexOf(m, date, id)
		if err != nil {
			return err
		}
		items := m[date]
		moved := items[from]
		items = slices.Delete(items, from, from+1)
		to := max(0, min(toIndex, len(items)))
		m[date] = slices.Insert(items, to, moved)
		return nil
	})
}

// DropItem applies drag-and-drop semantics: the item is dropped before the
// item currently at targetIndex, and a targetIndex at or past the end
// appends it.
func (s *Store) DropItem(date, id string, targetIndex int) error {
	return s.mutate(func(m domain.ItemsMap) error {
		from, err := indexOf(m, date, id)
		if err != nil {
			return err
		}
		items := m[date]
		n := len(items)
		moved := items[from]
		items = slices.Delete(items, from, from+1)

		var to int
		if targetIndex >= n {
			to = len(items)
		} else {
			to = targetIndex
			if from < targetIndex {
				to--
			}
		}
		to = max(0, min(to, len(items)))
		m[date] = slices.Insert(items, to, moved)
		return nil
	})
}

// MoveToDay moves an item from one day to the end of another.
func (s *Store) MoveToDay(from, id, to string) error {
	if !dates.ValidISODate(to) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, to)
	}
	return s.mutate(func(m domain.ItemsMap) error {
		i, err := indexOf(m, from, id)
		if err != nil {
			return err
		}
		if from == to {
			return nil
		}
		item := m[from][i]
		m[from] = slices.Delete(m[from], i, i+1)
		m[to] = append(m[to], item)
		return nil
	})
}

// Reset removes every item.
func (s *Store) Reset() error {
	return s.mutate(func(m domain.ItemsMap) error {
		clear(m)
		return nil
	})
}

// mutate applies fn to a copy of the state, persists the copy and only then
// swaps it in. On any error the previous state stays in place.
func (s *Store) mutate(fn func(m domain.ItemsMap) error) error {
	next := s.items.Clone()
	if next == nil {
		next = make(domain.ItemsMap)
	}
	if err := fn(next); err != nil {
		return err
	}

	for date, items := range next {
		if len(items) == 0 {
			delete(next, date)
		}
	}

	if s.persister != nil {
		if err := s.persister.WriteState(next); err != nil {
			return fmt.Errorf("persist state: %w", err)
		}
	}
	s.items = next
	return nil
}

func validate(date, text string) error {
	if !dates.ValidISODate(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

func indexOf(m domain.ItemsMap, date, id string) (int, error) {
	i := slices.IndexFunc(m[date], func(it domain.Item) bool { return it.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: %s on %s", ErrItemNotFound, id, date)
	}
	return i, nil
}
