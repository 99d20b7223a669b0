package urlstate

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/h0rv/weekplan/internal/codec"
	"github.com/h0rv/weekplan/internal/domain"
)

// Adapter reads and writes the items map through the fragment of a Location.
type Adapter struct {
	loc    Location
	logger *slog.Logger
}

// NewAdapter creates an Adapter over loc. A nil logger discards output.
func NewAdapter(loc Location, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{loc: loc, logger: logger}
}

// ReadState decodes the items map from the current fragment.
// It returns nil when there is no fragment or the fragment cannot be read;
// decode failures are logged, never returned.
func (a *Adapter) ReadState() domain.ItemsMap {
	href, err := a.loc.Href()
	if err != nil {
		a.logger.Error("failed to read location", "error", err)
		return nil
	}

	_, fragment := SplitFragment(href)
	if fragment == "" {
		return nil
	}

	items, err := codec.Decode(fragment)
	if err != nil {
		a.logger.Error("failed to decode state from URL", "error", err, "fragment_len", len(fragment))
		return nil
	}
	a.logger.Debug("state loaded from URL", "days", len(items), "items", items.Count())
	return items
}

// WriteState encodes m and replaces only the fragment of the current href.
// An empty map clears the fragment, which reads back as "no state".
func (a *Adapter) WriteState(m domain.ItemsMap) error {
	href, err := a.loc.Href()
	if err != nil {
		return fmt.Errorf("read location: %w", err)
	}

	fragment := ""
	if len(m) > 0 {
		fragment, err = codec.Encode(m)
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
	}

	if err := a.loc.Replace(WithFragment(href, fragment)); err != nil {
		return fmt.Errorf("replace location: %w", err)
	}
	a.logger.Debug("state written to URL", "days", len(m), "fragment_len", len(fragment))
	return nil
}
