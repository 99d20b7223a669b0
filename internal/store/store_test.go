package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/h0rv/weekplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPersister keeps every snapshot it is given and can be told to fail.
type recordingPersister struct {
	writes []domain.ItemsMap
	fail   bool
}

func (p *recordingPersister) WriteState(m domain.ItemsMap) error {
	if p.fail {
		return errors.New("location unavailable")
	}
	p.writes = append(p.writes, m.Clone())
	return nil
}

func (p *recordingPersister) last() domain.ItemsMap {
	if len(p.writes) == 0 {
		return nil
	}
	return p.writes[len(p.writes)-1]
}

// Test fixtures
func newTestStore(p Persister) *Store {
	s := New(p)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("gen_%d", n)
	}
	return s
}

func createTestItems() domain.ItemsMap {
	return domain.ItemsMap{
		"2025-08-11": {
			{ID: "1", Text: "First"},
			{ID: "2", Text: "Second"},
			{ID: "3", Text: "Third"},
		},
		"2025-08-12": {
			{ID: "4", Text: "Groceries"},
		},
	}
}

func ids(items []domain.Item) []string {
	result := make([]string, len(items))
	for i, it := range items {
		result[i] = it.ID
	}
	return result
}

// TestNew verifies store initialization
func TestNew(t *testing.T) {
	s := New(nil)
	assert.NotNil(t, s)
	assert.NotNil(t, s.items)
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Dates())
}

// TestLoad verifies state replacement without persisting
func TestLoad(t *testing.T) {
	p := &recordingPersister{}
	s := newTestStore(p)

	repaired := s.Load(createTestItems())
	assert.Equal(t, 0, repaired)
	assert.Equal(t, createTestItems(), s.Snapshot())
	assert.Empty(t, p.writes, "loading never persists")
}

// TestLoad_RepairsIDs verifies empty and duplicate ids are replaced
func TestLoad_RepairsIDs(t *testing.T) {
	s := newTestStore(nil)

	repaired := s.Load(domain.ItemsMap{
		"2025-08-11": {{ID: "1", Text: "a"}, {ID: "1", Text: "b"}, {ID: "", Text: "c"}},
		"2025-08-12": {{ID: "1", Text: "other day"}},
	})

	assert.Equal(t, 2, repaired)
	assert.Equal(t, []string{"1", "gen_1", "gen_2"}, ids(s.Items("2025-08-11")))
	assert.Equal(t, []string{"1"}, ids(s.Items("2025-08-12")), "ids only need to be unique per day")
}

// TestItems_ReturnsCopy verifies callers cannot mutate store state
func TestItems_ReturnsCopy(t *testing.T) {
	s := newTestStore(nil)
	s.Load(createTestItems())

	items := s.Items("2025-08-11")
	items[0].Text = "changed"

	snap := s.Snapshot()
	snap["2025-08-11"][1].Text = "changed"

	assert.Equal(t, "First", s.Items("2025-08-11")[0].Text)
	assert.Equal(t, "Second", s.Items("2025-08-11")[1].Text)
	assert.Empty(t, s.Items("2030-01-01"))
	assert.NotNil(t, s.Items("2030-01-01"))
}

// TestAddItem verifies append order, id generation and persistence
func TestAddItem(t *testing.T) {
	p := &recordingPersister{}
	s := newTestStore(p)

	first, err := s.AddItem("2025-08-11", "Standup")
	require.NoError(t, err)
	second, err := s.AddItem("2025-08-11", "  Review PR #42  ")
	require.NoError(t, err)

	assert.Equal(t, domain.Item{ID: "gen_1", Text: "Standup"}, first)
	assert.Equal(t, "  Review PR #42  ", second.Text, "text is kept as typed")
	assert.Equal(t, []string{"gen_1", "gen_2"}, ids(s.Items("2025-08-11")))

	require.Len(t, p.writes, 2, "one write per mutation")
	assert.Equal(t, s.Snapshot(), p.last())
}

// TestAddItem_DefaultIDs verifies generated ids are unique and ordered
func TestAddItem_DefaultIDs(t *testing.T) {
	s := New(nil)

	var prev string
	for i := 0; i < 20; i++ {
		it, err := s.AddItem("2025-08-11", "task")
		require.NoError(t, err)
		assert.NotEmpty(t, it.ID)
		assert.Greater(t, it.ID, prev)
		prev = it.ID
	}
}

// TestAddItem_Validation verifies blank text and bad dates are rejected
func TestAddItem_Validation(t *testing.T) {
	p := &recordingPersister{}
	s := newTestStore(p)

	_, err := s.AddItem("2025-08-11", "   \t")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = s.AddItem("2025-02-30", "task")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = s.AddItem("tomorrow", "task")
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.Empty(t, p.writes)
	assert.Equal(t, 0, s.Count())
}

// TestEditItem verifies text replacement in place
func TestEditItem(t *testing.T) {
	p := &recordingPersister{}
	s := newTestStore(p)
	s.Load(createTestItems())

	require.NoError(t, s.EditItem("2025-08-11", "2", "Second (edited)"))
	assert.Equal(t, "Second (edited)", s.Items("2025-08-11")[1].Text)
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Items("2025-08-11")))

	err := s.EditItem("2025-08-11", "missing", "x")
	assert.ErrorIs(t, err, ErrItemNotFound)

	err = s.EditItem("2025-08-11", "2", "")
	assert.ErrorIs(t, err, ErrEmptyText)

	assert.Len(t, p.writes, 1)
}

// TestDeleteItem verifies removal and pruning of empty days
func TestDeleteItem(t *testing.T) {
	p := &recordingPersister{}
	s := newTestStore(p)
	s.Load(createTestItems())

	require.NoError(t, s.DeleteItem("2025-08-11", "2"))
	assert.Equal(t, []string{"1", "3"}, ids(s.Items("2025-08-11")))

	require.NoError(t, s.DeleteItem("2025-08-12", "4"))
	assert.NotContains(t, s.Snapshot(), "2025-08-12", "empty days are pruned")
	assert.NotContains(t, p.last(), "2025-08-12")

	err := s.DeleteItem("2025-08-12", "4")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

// TestMoveItem verifies positional moves with clamping
func TestMoveItem(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		toIndex int
		want    []string
	}{
		{"first to last", "1", 2, []string{"2", "3", "1"}},
		{"last to first", "3", 0, []string{"3", "1", "2"}},
		{"same position", "2", 1, []string{"1", "2", "3"}},
		{"clamped high", "1", 99, []string{"2", "3", "1"}},
		{"clamped low", "3", -5, []string{"3", "1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(nil)
			s.Load(createTestItems())

			require.NoError(t, s.MoveItem("2025-08-11", tt.id, tt.toIndex))
			assert.Equal(t, tt.want, ids(s.Items("2025-08-11")))
		})
	}
}

// TestDropItem verifies drag-and-drop index semantics
func TestDropItem(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		target int
		want   []string
	}{
		{"first onto third", "1", 2, []string{"2", "1", "3"}},
		{"first past end", "1", 3, []string{"2", "3", "1"}},
		{"third onto first", "3", 0, []string{"3", "1", "2"}},
		{"onto itself", "2", 1, []string{"1", "2", "3"}},
		{"onto next", "1", 1, []string{"1", "2", "3"}},
		{"far past end", "2", 42, []string{"1", "3", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(nil)
			s.Load(createTestItems())

			require.NoError(t, s.DropItem("2025-08-11", tt.id, tt.target))
			assert.Equal(t, tt.want, ids(s.Items("2025-08-11")))
		})
	}
}

// TestMoveToDay verifies items move to the end of another day
func TestMoveToDay(t *testing.T) {
	p := &recordingPersister{}
	s := newTestStore(p)
	s.Load(createTestItems())

	require.NoError(t, s.MoveToDay("2025-08-12", "4", "2025-08-11"))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(s.Items("2025-08-11")))
	assert.NotContains(t, s.Snapshot(), "2025-08-12")

	require.NoError(t, s.MoveToDay("2025-08-11", "1", "2025-08-15"))
	assert.Equal(t, []string{"1"}, ids(s.Items("2025-08-15")))

	assert.ErrorIs(t, s.MoveToDay("2025-08-11", "1", "2025-08-16"), ErrItemNotFound)
	assert.ErrorIs(t, s.MoveToDay("2025-08-11", "2", "someday"), ErrInvalidDate)
	assert.Len(t, p.writes, 2)
}

// TestReset verifies all items are removed
func TestReset(t *testing.T) {
	p := &recordingPersister{}
	s := newTestStore(p)
	s.Load(createTestItems())

	require.NoError(t, s.Reset())
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, p.last())
}

// TestMutations_RollbackOnPersistFailure verifies state is unchanged when
// the persister fails
func TestMutations_RollbackOnPersistFailure(t *testing.T) {
	p := &recordingPersister{fail: true}
	s := newTestStore(p)
	s.Load(createTestItems())

	_, err := s.AddItem("2025-08-11", "new")
	assert.Error(t, err)
	assert.Error(t, s.EditItem("2025-08-11", "1", "edited"))
	assert.Error(t, s.DeleteItem("2025-08-11", "1"))
	assert.Error(t, s.MoveItem("2025-08-11", "1", 2))
	assert.Error(t, s.DropItem("2025-08-11", "1", 3))
	assert.Error(t, s.MoveToDay("2025-08-11", "1", "2025-08-12"))
	assert.Error(t, s.Reset())

	assert.Equal(t, createTestItems(), s.Snapshot())

	// Recovery: the next successful write carries the unchanged state plus the new change.
	p.fail = false
	_, err = s.AddItem("2025-08-12", "after recovery")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "gen_2"}, ids(p.last()["2025-08-12"]))
}

// TestDates verifies only non-empty days are listed, sorted
func TestDates(t *testing.T) {
	s := newTestStore(nil)
	s.Load(domain.ItemsMap{
		"2025-08-13": {{ID: "1", Text: "x"}},
		"2025-08-11": {{ID: "2", Text: "y"}},
		"2025-08-12": {},
	})

	assert.Equal(t, []string{"2025-08-11", "2025-08-13"}, s.Dates())
	assert.Equal(t, 2, s.Count())
}
