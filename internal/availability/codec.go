package availability

import (
	"errors"
	"fmt"

	"bettercorq/internal/domain"
)

// Codec converts between selected cells and intervals. Its granularity must match the grid
// the cells come from; it is the contiguity step for Encode and the walk step for Decode.
type Codec struct {
	Granularity domain.Granularity
}

// NewCodec returns a codec for slots of size g.
func NewCodec(g domain.Granularity) Codec {
	return Codec{Granularity: g}
}

// Encode groups the selection into maximal same-day runs of contiguous slots. Each run
// becomes one interval whose end is the last slot plus one step, so adjacent runs never
// survive as separate intervals.
func (c Codec) Encode(set domain.SelectionSet) []domain.Interval {
	coords := set.Sorted()
	out := make([]domain.Interval, 0)
	if len(coords) == 0 {
		return out
	}
	step := c.Granularity.Step()

	first, last := coords[0], coords[0]
	for _, cur := range coords[1:] {
		if cur.Day == last.Day && cur.Slot == last.Slot+step {
			last = cur
			continue
		}
		out = append(out, domain.Interval{Day: first.Day, From: first.Slot, To: last.Slot + step})
		first, last = cur, cur
	}
	return append(out, domain.Interval{Day: first.Day, From: first.Slot, To: last.Slot + step})
}

// Decode expands intervals back into cells. Cells outside grid are skipped silently; a nil
// grid accepts every cell. Malformed intervals are skipped and reported together in the
// returned error, which never invalidates the returned set.
func (c Codec) Decode(intervals []domain.Interval, grid *domain.Grid) (domain.SelectionSet, error) {
	set := make(domain.SelectionSet)
	var errs []error
	step := c.Granularity.Step()
	for _, iv := range intervals {
		if err := iv.Validate(c.Granularity); err != nil {
			errs = append(errs, err)
			continue
		}
		for slot := iv.From; slot < iv.To; slot += step {
			coord := domain.GridCoordinate{Day: iv.Day, Slot: slot}
			if grid != nil && !grid.Contains(coord) {
				continue
			}
			set[coord] = struct{}{}
		}
	}
	return set, errors.Join(errs...)
}

// ParseIntervals parses persisted intervals one entry at a time. Entries with a bad date or
// time, or that fail Validate, are dropped and reported; the rest are returned in order.
func (c Codec) ParseIntervals(raw []domain.RawInterval) ([]domain.Interval, error) {
	out := make([]domain.Interval, 0, len(raw))
	var errs []error
	for i, r := range raw {
		iv, err := c.parseInterval(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		out = append(out, iv)
	}
	return out, errors.Join(errs...)
}

func (c Codec) parseInterval(r domain.RawInterval) (domain.Interval, error) {
	day, err := domain.ParseCalendarDate(r.Day)
	if err != nil {
		return domain.Interval{}, err
	}
	from, err := domain.ParseTimeOfDay(r.From)
	if err != nil {
		return domain.Interval{}, err
	}
	to, err := domain.ParseTimeOfDay(r.To)
	if err != nil {
		return domain.Interval{}, err
	}
	iv := domain.Interval{Day: day, From: from, To: to}
	if err := iv.Validate(c.Granularity); err != nil {
		return domain.Interval{}, err
	}
	return iv, nil
}

// RawIntervals converts intervals into their persisted form.
func RawIntervals(intervals []domain.Interval) []domain.RawInterval {
	out := make([]domain.RawInterval, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, iv.Raw())
	}
	return out
}
