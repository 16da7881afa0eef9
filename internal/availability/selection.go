// Package availability is the interval engine: selection, interval encoding, reconciliation
// of manual and extracted free time, and event matching.
package availability

import (
	"fmt"

	"bettercorq/internal/domain"
)

type gestureMode int

const (
	gestureNone gestureMode = iota
	gestureAdd
	gestureRemove
)

// Selection is the mutable set of selected grid cells. It is not safe for concurrent use;
// callers serialise access.
type Selection struct {
	granularity domain.Granularity
	cells       domain.SelectionSet

	mode    gestureMode
	changed bool
}

// NewSelection returns an empty selection for slots of size g.
func NewSelection(g domain.Granularity) *Selection {
	return &Selection{granularity: g, cells: make(domain.SelectionSet)}
}

// Toggle flips membership of c.
func (s *Selection) Toggle(c domain.GridCoordinate) error {
	if !s.granularity.Aligned(c.Slot) {
		return fmt.Errorf("%w: slot %s is not aligned to %d minutes", domain.ErrMalformedTimeValue, c.Slot, int(s.granularity))
	}
	if s.cells.Has(c) {
		delete(s.cells, c)
	} else {
		s.cells[c] = struct{}{}
	}
	return nil
}

// Contains reports whether c is selected.
func (s *Selection) Contains(c domain.GridCoordinate) bool {
	return s.cells.Has(c)
}

// SetRange marks every aligned coordinate selected or unselected and returns how many
// cells changed state. Misaligned coordinates are skipped.
func (s *Selection) SetRange(coords []domain.GridCoordinate, selected bool) int {
	n := 0
	for _, c := range coords {
		if !s.granularity.Aligned(c.Slot) || s.cells.Has(c) == selected {
			continue
		}
		if selected {
			s.cells[c] = struct{}{}
		} else {
			delete(s.cells, c)
		}
		n++
	}
	return n
}

// All returns a snapshot of the selection.
func (s *Selection) All() domain.SelectionSet {
	return s.cells.Clone()
}

// Replace swaps the whole selection for set, e.g. after rehydrating persisted intervals.
func (s *Selection) Replace(set domain.SelectionSet) {
	s.cells = set.Clone()
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.cells = make(domain.SelectionSet)
}

// ClearDay unselects every cell of day and returns how many were removed.
func (s *Selection) ClearDay(day domain.CalendarDate) int {
	n := 0
	for c := range s.cells {
		if c.Day == day {
			delete(s.cells, c)
			n++
		}
	}
	return n
}

// GestureStart begins a drag gesture at c. The mode is fixed here: add when c was
// unselected, remove otherwise. It applies to every cell the gesture passes over.
func (s *Selection) GestureStart(c domain.GridCoordinate) error {
	if !s.granularity.Aligned(c.Slot) {
		return fmt.Errorf("%w: slot %s is not aligned to %d minutes", domain.ErrMalformedTimeValue, c.Slot, int(s.granularity))
	}
	s.mode = gestureAdd
	if s.cells.Has(c) {
		s.mode = gestureRemove
	}
	s.changed = s.SetRange([]domain.GridCoordinate{c}, s.mode == gestureAdd) > 0
	return nil
}

// GestureMove applies the gesture mode to c. It is a no-op outside a gesture.
func (s *Selection) GestureMove(c domain.GridCoordinate) {
	if s.mode == gestureNone {
		return
	}
	if s.SetRange([]domain.GridCoordinate{c}, s.mode == gestureAdd) > 0 {
		s.changed = true
	}
}

// GestureEnd closes the current gesture and reports whether it changed the selection.
func (s *Selection) GestureEnd() bool {
	changed := s.changed
	s.mode = gestureNone
	s.changed = false
	return changed
}

// InGesture reports whether a gesture is in progress.
func (s *Selection) InGesture() bool {
	return s.mode != gestureNone
}
