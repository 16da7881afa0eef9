package availability

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"bettercorq/internal/domain"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday maps a short or full English weekday name to a time.Weekday, ignoring case.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnresolvableWeekday, name)
	}
	return wd, nil
}

// ShortWeekday returns the three letter abbreviation used as a FreeTimeResult key.
func ShortWeekday(wd time.Weekday) string {
	return wd.String()[:3]
}

// Reconciler merges manual intervals with extracted free time over one rolling window.
type Reconciler struct {
	Granularity domain.Granularity
	// Today is the first day of the window; the window is Today+0..Days-1.
	Today domain.CalendarDate
	Days  int
}

// NewReconciler returns a reconciler for the window of grid.
func NewReconciler(grid *domain.Grid) Reconciler {
	return Reconciler{
		Granularity: grid.Granularity(),
		Today:       grid.Today(),
		Days:        len(grid.AllDays()),
	}
}

// ResolveWeekday returns the first date in the window that falls on the named weekday.
// With a full week every valid name resolves; today resolves to today.
func (r Reconciler) ResolveWeekday(name string) (domain.CalendarDate, error) {
	wd, err := ParseWeekday(name)
	if err != nil {
		return domain.CalendarDate{}, err
	}
	for offset := 0; offset < r.days(); offset++ {
		d := r.Today.AddDays(offset)
		if d.Weekday() == wd {
			return d, nil
		}
	}
	return domain.CalendarDate{}, fmt.Errorf("%w: %q is outside the %d day window from %s", domain.ErrUnresolvableWeekday, name, r.days(), r.Today)
}

// ExtractedIntervals converts free time into intervals ordered by resolved date, keeping
// input order within a day. Unresolvable weekdays and malformed pairs are dropped and
// reported; everything else is returned.
func (r Reconciler) ExtractedIntervals(free domain.FreeTimeResult) ([]domain.Interval, error) {
	type resolved struct {
		day   domain.CalendarDate
		pairs [][2]string
	}
	var (
		days []resolved
		errs []error
	)
	for _, name := range free.Weekdays() {
		day, err := r.ResolveWeekday(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		days = append(days, resolved{day: day, pairs: free[name]})
	}
	slices.SortStableFunc(days, func(a, b resolved) int { return a.day.Compare(b.day) })

	out := make([]domain.Interval, 0)
	for _, d := range days {
		for _, p := range d.pairs {
			iv, err := r.pairInterval(d.day, p)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out = append(out, iv)
		}
	}
	return out, errors.Join(errs...)
}

func (r Reconciler) pairInterval(day domain.CalendarDate, p [2]string) (domain.Interval, error) {
	from, err := domain.ParseTimeOfDay(p[0])
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%s: %w", day, err)
	}
	to, err := domain.ParseTimeOfDay(p[1])
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%s: %w", day, err)
	}
	iv := domain.Interval{Day: day, From: from, To: to}
	if err := iv.Validate(r.Granularity); err != nil {
		return domain.Interval{}, err
	}
	return iv, nil
}

// Reconcile returns the canonical free intervals: manual intervals first, then extracted
// ones. The sources are additive; overlapping or duplicated windows are kept because the
// matcher tolerates them. The error only reports entries that were dropped.
func (r Reconciler) Reconcile(manual []domain.Interval, extracted domain.FreeTimeResult) ([]domain.Interval, error) {
	out := make([]domain.Interval, 0, len(manual))
	out = append(out, manual...)
	if len(extracted) == 0 {
		return out, nil
	}
	ext, err := r.ExtractedIntervals(extracted)
	return append(out, ext...), err
}

func (r Reconciler) days() int {
	if r.Days <= 0 {
		return domain.DefaultDays
	}
	return r.Days
}
