package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/h0rv/weekplan/internal/dates"
	"github.com/h0rv/weekplan/internal/domain"
)

// Shape identifies which historical wire shape a decoded state uses.
type Shape int

const (
	// ShapeEmpty is an object without any day buckets.
	ShapeEmpty Shape = iota
	// ShapeCompact is the current form: {date: [[id, text], ...]}.
	ShapeCompact
	// ShapeLegacyWrapped is {items: {date: [{id, text}, ...]}}.
	ShapeLegacyWrapped
	// ShapeLegacyKeyed is {date: [{id, text}, ...]}.
	ShapeLegacyKeyed
)

func (s Shape) String() string {
	switch s {
	case ShapeCompact:
		return "compact"
	case ShapeLegacyWrapped:
		return "legacy-wrapped"
	case ShapeLegacyKeyed:
		return "legacy-keyed"
	default:
		return "empty"
	}
}

// legacyItemsKey is the top-level key of the wrapped legacy shape. It can
// never collide with a bucket key because bucket keys are ISO dates.
const legacyItemsKey = "items"

// wireState is the tagged union every accepted input is classified into
// before normalization.
type wireState struct {
	shape   Shape
	buckets map[string][]json.RawMessage
}

// Inspect reports the wire shape of an encoded state without normalizing it.
func Inspect(s string) (Shape, error) {
	raw, err := unbase64(s)
	if err != nil {
		return ShapeEmpty, err
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return ShapeEmpty, fmt.Errorf("%w: not a JSON object", ErrMalformedState)
	}
	ws, err := classify(top)
	if err != nil {
		return ShapeEmpty, err
	}
	return ws.shape, nil
}

// classify decides which shape top is and splits it into raw buckets.
// Bucket values that are not arrays are dropped; null counts as empty.
func classify(top map[string]json.RawMessage) (wireState, error) {
	source := top
	shape := ShapeEmpty

	if wrapped, ok := top[legacyItemsKey]; ok {
		shape = ShapeLegacyWrapped
		source = nil
		trimmed := bytes.TrimSpace(wrapped)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			if err := json.Unmarshal(trimmed, &source); err != nil {
				return wireState{}, fmt.Errorf("%w: items: %v", ErrMalformedState, err)
			}
		}
	}

	buckets := make(map[string][]json.RawMessage, len(source))
	for date, value := range source {
		trimmed := bytes.TrimSpace(value)
		if bytes.Equal(trimmed, []byte("null")) {
			buckets[date] = nil
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			continue
		}
		buckets[date] = entries

		if shape == ShapeEmpty {
			shape = entryShape(entries)
		}
	}
	return wireState{shape: shape, buckets: buckets}, nil
}

// entryShape infers compact vs keyed from the first entry of a bucket.
func entryShape(entries []json.RawMessage) Shape {
	for _, e := range entries {
		trimmed := bytes.TrimSpace(e)
		if len(trimmed) == 0 {
			continue
		}
		switch trimmed[0] {
		case '[':
			return ShapeCompact
		case '{':
			return ShapeLegacyKeyed
		}
	}
	return ShapeEmpty
}

// normalize converts every entry to the canonical {id, text} form, keeping
// bucket order. Both entry forms are accepted in every shape, so a bucket
// mixing tuples and objects still decodes.
func normalize(ws wireState) domain.ItemsMap {
	out := make(domain.ItemsMap, len(ws.buckets))
	for date, entries := range ws.buckets {
		if !dates.ValidISODate(date) {
			continue
		}
		items := make([]domain.Item, 0, len(entries))
		for _, e := range entries {
			if it, ok := decodeEntry(e); ok {
				items = append(items, it)
			}
		}
		out[date] = items
	}
	return out
}

// decodeEntry reads one tuple or object entry. Anything else is skipped.
func decodeEntry(raw json.RawMessage) (domain.Item, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return domain.Item{}, false
	}

	switch trimmed[0] {
	case '[':
		var fields []json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return domain.Item{}, false
		}
		var it domain.Item
		if len(fields) > 0 {
			it.ID = scalar(fields[0])
		}
		if len(fields) > 1 {
			it.Text = scalar(fields[1])
		}
		return it, true

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return domain.Item{}, false
		}
		return domain.Item{ID: scalar(obj["id"]), Text: scalar(obj["text"])}, true
	}
	return domain.Item{}, false
}

// scalar coerces a JSON value to a string field. Strings decode as-is,
// numbers keep their literal text, and everything else (missing, null,
// booleans, containers) becomes "".
func scalar(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return ""
		}
		return n.String()
	}
	return ""
}
