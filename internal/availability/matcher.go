package availability

import (
	"fmt"
	"time"

	"github.com/rdleal/intervalst/interval"

	"bettercorq/internal/domain"
)

// DefaultToleranceMinutes is the widening applied when the caller does not choose one.
const DefaultToleranceMinutes = 15

func checkTolerance(toleranceMinutes int) error {
	if toleranceMinutes < 0 {
		return fmt.Errorf("%w: %d minutes is negative", domain.ErrInvalidTolerance, toleranceMinutes)
	}
	return nil
}

// widen returns the absolute free window of iv extended by tol on both ends.
func widen(iv domain.Interval, tol time.Duration, loc *time.Location) (time.Time, time.Time) {
	start, end := iv.Bounds(loc)
	return start.Add(-tol), end.Add(tol)
}

func overlaps(ev domain.CandidateEvent, freeStart, freeEnd time.Time) bool {
	return ev.Start.Before(freeEnd) && ev.End.After(freeStart)
}

// Fits reports whether ev overlaps any free interval once each interval is widened by
// toleranceMinutes on both ends. Overlap is strict: touching windows do not fit. An event
// ending before it starts never fits.
func Fits(ev domain.CandidateEvent, free []domain.Interval, toleranceMinutes int, loc *time.Location) (bool, error) {
	if err := checkTolerance(toleranceMinutes); err != nil {
		return false, err
	}
	if ev.End.Before(ev.Start) {
		return false, nil
	}
	tol := time.Duration(toleranceMinutes) * time.Minute
	for _, iv := range free {
		start, end := widen(iv, tol, loc)
		if overlaps(ev, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// Filter keeps the events that fit, preserving their order.
func Filter(events []domain.CandidateEvent, free []domain.Interval, toleranceMinutes int, loc *time.Location) ([]domain.CandidateEvent, error) {
	m, err := NewMatcher(free, toleranceMinutes, loc)
	if err != nil {
		return nil, err
	}
	return m.Filter(events), nil
}

// Matcher answers Fits for many events against one set of free intervals using an
// interval search tree over the widened windows.
type Matcher struct {
	tree    *interval.SearchTree[int, time.Time]
	windows [][2]time.Time
}

// NewMatcher indexes free widened by toleranceMinutes.
func NewMatcher(free []domain.Interval, toleranceMinutes int, loc *time.Location) (*Matcher, error) {
	if err := checkTolerance(toleranceMinutes); err != nil {
		return nil, err
	}
	tol := time.Duration(toleranceMinutes) * time.Minute
	m := &Matcher{
		tree: interval.NewSearchTree[int](func(x, y time.Time) int { return x.Compare(y) }),
	}
	// Windows sharing a start are covered by the longest of them, so one entry per start.
	byStart := make(map[time.Time]int)
	for _, iv := range free {
		start, end := widen(iv, tol, loc)
		if !start.Before(end) {
			continue
		}
		if i, ok := byStart[start]; ok {
			if end.After(m.windows[i][1]) {
				m.windows[i][1] = end
			}
			continue
		}
		byStart[start] = len(m.windows)
		m.windows = append(m.windows, [2]time.Time{start, end})
	}
	for i, w := range m.windows {
		if err := m.tree.Insert(w[0], w[1], i); err != nil {
			return nil, fmt.Errorf("index free window %s-%s: %w", w[0].Format(time.RFC3339), w[1].Format(time.RFC3339), err)
		}
	}
	return m, nil
}

// Fits reports whether ev overlaps any indexed window.
func (m *Matcher) Fits(ev domain.CandidateEvent) bool {
	if len(m.windows) == 0 || ev.End.Before(ev.Start) {
		return false
	}
	// The tree may report windows that only touch ev; confirm with the strict test.
	idxs, ok := m.tree.AllIntersections(ev.Start, ev.End)
	if !ok {
		return false
	}
	for _, i := range idxs {
		if overlaps(ev, m.windows[i][0], m.windows[i][1]) {
			return true
		}
	}
	return false
}

// Filter keeps the events that fit, preserving their order.
func (m *Matcher) Filter(events []domain.CandidateEvent) []domain.CandidateEvent {
	out := make([]domain.CandidateEvent, 0, len(events))
	for _, ev := range events {
		if m.Fits(ev) {
			out = append(out, ev)
		}
	}
	return out
}
