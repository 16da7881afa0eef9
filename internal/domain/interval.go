package domain

import (
	"fmt"
	"slices"
	"time"
)

// Interval is a maximal contiguous run of free slots on one day, half-open [From, To).
// swagger:model Interval
type Interval struct {
	Day  CalendarDate `json:"day" swaggertype:"string" example:"2025-11-10"`
	From TimeOfDay    `json:"from" swaggertype:"string" example:"08:00"`
	To   TimeOfDay    `json:"to" swaggertype:"string" example:"08:45"`
}

// Validate checks From < To and that both ends are aligned to g.
func (iv Interval) Validate(g Granularity) error {
	if !iv.From.Valid() || !iv.To.Valid() || iv.From >= iv.To {
		return fmt.Errorf("%w: interval %s %s-%s is empty or out of range", ErrMalformedTimeValue, iv.Day, iv.From, iv.To)
	}
	if !g.Aligned(iv.From) || !g.Aligned(iv.To) {
		return fmt.Errorf("%w: interval %s %s-%s is not aligned to %d minutes", ErrMalformedTimeValue, iv.Day, iv.From, iv.To, int(g))
	}
	return nil
}

// Bounds returns the absolute start and end of the interval in loc.
func (iv Interval) Bounds(loc *time.Location) (start, end time.Time) {
	return iv.Day.At(iv.From, loc), iv.Day.At(iv.To, loc)
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s %s-%s", iv.Day, iv.From, iv.To)
}

// RawInterval is the persisted form of an Interval. Fields are kept as strings so a
// single malformed entry can be skipped without failing the whole record.
type RawInterval struct {
	Day  string `json:"day"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Raw returns the persisted form of iv.
func (iv Interval) Raw() RawInterval {
	return RawInterval{Day: iv.Day.String(), From: iv.From.String(), To: iv.To.String()}
}

// FreeTimeResult maps a weekday abbreviation (Sun..Sat) to ordered [from, to] pairs,
// as produced by the extraction collaborator. It is persisted verbatim.
type FreeTimeResult map[string][][2]string

// Weekdays returns the keys of r in a stable order.
func (r FreeTimeResult) Weekdays() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SelectionSet is a set of grid coordinates.
type SelectionSet map[GridCoordinate]struct{}

// NewSelectionSet returns a set holding coords.
func NewSelectionSet(coords ...GridCoordinate) SelectionSet {
	s := make(SelectionSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether c is in s.
func (s SelectionSet) Has(c GridCoordinate) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the coordinates ordered by day, then slot.
func (s SelectionSet) Sorted() []GridCoordinate {
	out := make([]GridCoordinate, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.SortFunc(out, CompareCoordinates)
	return out
}

// Clone returns an independent copy of s.
func (s SelectionSet) Clone() SelectionSet {
	out := make(SelectionSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}
