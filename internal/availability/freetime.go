package availability

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"bettercorq/internal/domain"
)

type span struct{ from, to domain.TimeOfDay }

// FreeFromBusy turns busy blocks keyed by weekday into free time over [dayStart, dayEnd)
// for all seven weekdays; a weekday with no busy blocks is free for the whole window.
// Free windows are shrunk to slot boundaries of g, so a busy block ending at 10:50 frees
// the grid from 11:00. Malformed busy entries are dropped and reported.
func FreeFromBusy(busy map[string][][2]string, dayStart, dayEnd domain.TimeOfDay, g domain.Granularity) (domain.FreeTimeResult, error) {
	var errs []error
	byDay := make(map[time.Weekday][]span)
	for name, blocks := range busy {
		wd, err := ParseWeekday(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, b := range blocks {
			from, ferr := domain.ParseTimeOfDay(b[0])
			to, terr := domain.ParseTimeOfDay(b[1])
			if ferr != nil || terr != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, errors.Join(ferr, terr)))
				continue
			}
			if from >= to {
				errs = append(errs, fmt.Errorf("%w: busy block %s %s-%s is empty", domain.ErrMalformedTimeValue, name, b[0], b[1]))
				continue
			}
			byDay[wd] = append(byDay[wd], span{from, to})
		}
	}

	out := make(domain.FreeTimeResult, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		blocks := byDay[wd]
		slices.SortFunc(blocks, func(a, b span) int { return int(a.from - b.from) })

		free := make([][2]string, 0)
		cur := dayStart
		for _, b := range blocks {
			if b.from > cur {
				free = appendSnapped(free, cur, min(b.from, dayEnd), g)
			}
			cur = max(cur, b.to)
		}
		if cur < dayEnd {
			free = appendSnapped(free, cur, dayEnd, g)
		}
		out[ShortWeekday(wd)] = free
	}
	return out, errors.Join(errs...)
}

func appendSnapped(free [][2]string, from, to domain.TimeOfDay, g domain.Granularity) [][2]string {
	from, to = g.Ceil(from), g.Floor(to)
	if from >= to {
		return free
	}
	return append(free, [2]string{from.String(), to.String()})
}
