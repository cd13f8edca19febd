package sortview

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"video-player/internal/catalog"
	"video-player/internal/mediatypes"
)

// ErrInvalidDirective is returned by ParseDirective for unknown fields or directions.
var ErrInvalidDirective = errors.New("invalid sort directive")

// Directive selects a single sort column and direction. A nil *Directive
// means the catalog's received order.
type Directive struct {
	Field     mediatypes.SortField `json:"field"`
	Direction mediatypes.SortOrder `json:"direction"`
}

// ParseDirective builds a directive from request or stored values. An empty
// field yields nil (received order); an empty direction defaults to asc.
func ParseDirective(field, direction string) (*Directive, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	direction = strings.ToLower(strings.TrimSpace(direction))
	if field == "" {
		return nil, nil
	}

	d := &Directive{
		Field:     mediatypes.SortField(field),
		Direction: mediatypes.SortOrder(direction),
	}
	if d.Direction == "" {
		d.Direction = mediatypes.SortAsc
	}
	if !d.Field.Valid() {
		return nil, fmt.Errorf("%w: field %q", ErrInvalidDirective, field)
	}
	if !d.Direction.Valid() {
		return nil, fmt.Errorf("%w: direction %q", ErrInvalidDirective, direction)
	}
	return d, nil
}

// String renders the directive as "field:direction", or "none".
func (d *Directive) String() string {
	if d == nil {
		return "none"
	}
	return string(d.Field) + ":" + string(d.Direction)
}

// Equal reports whether two directives sort identically.
func (d *Directive) Equal(other *Directive) bool {
	if d == nil || other == nil {
		return d == nil && other == nil
	}
	return *d == *other
}

// Sort returns a sorted copy of entries. The input is never modified and the
// result is never nil. Ties keep their input order in both directions.
func Sort(entries []catalog.VideoEntry, d *Directive) []catalog.VideoEntry {
	view := make([]catalog.VideoEntry, len(entries))
	copy(view, entries)
	if d == nil || len(view) < 2 {
		return view
	}

	compare := comparator(d.Field)
	if d.Direction == mediatypes.SortDesc {
		asc := compare
		compare = func(a, b catalog.VideoEntry) int { return -asc(a, b) }
	}
	slices.SortStableFunc(view, compare)
	return view
}

func comparator(field mediatypes.SortField) func(a, b catalog.VideoEntry) int {
	switch field {
	case mediatypes.SortByPath:
		return func(a, b catalog.VideoEntry) int { return strings.Compare(a.Path, b.Path) }
	case mediatypes.SortBySize:
		return func(a, b catalog.VideoEntry) int { return cmp.Compare(a.Size, b.Size) }
	default:
		return func(a, b catalog.VideoEntry) int { return strings.Compare(a.ID, b.ID) }
	}
}
