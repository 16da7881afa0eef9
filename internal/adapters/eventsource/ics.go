package eventsource

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"bettercorq/internal/domain"
)

// maxOccurrences caps how many instances one recurring event may produce in a window.
const maxOccurrences = 500

type vevent struct {
	uid          string
	summary      string
	location     string
	organization string
	start, end   time.Time
	rrule        string
	exdates      []time.Time
	recurrenceID *time.Time
}

// parseICS flattens the VEVENTs of body into concrete events overlapping [from, to).
// Recurring events are expanded with their RRULE and EXDATEs, and RECURRENCE-ID overrides
// replace the instance they name. All-day events are skipped.
func parseICS(body []byte, from, to time.Time, loc *time.Location) ([]domain.CandidateEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var (
		bases     []vevent
		overrides = make(map[string][]vevent)
	)
	for _, ve := range cal.Events() {
		ev, ok := readVEvent(ve, loc)
		if !ok {
			continue
		}
		if ev.recurrenceID != nil {
			overrides[ev.uid] = append(overrides[ev.uid], ev)
			continue
		}
		bases = append(bases, ev)
	}

	var out []domain.CandidateEvent
	for _, ev := range bases {
		out = append(out, expand(ev, overrides[ev.uid], from, to)...)
	}
	return out, nil
}

func readVEvent(ve *ical.VEvent, loc *time.Location) (vevent, bool) {
	var ev vevent
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || !strings.Contains(dtStart.Value, "T") {
		return ev, false
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return ev, false
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start.Add(time.Hour)
	}
	ev.start = floating(start, dtStart, loc)
	ev.end = floating(end, ve.GetProperty(ical.ComponentPropertyDtEnd), loc)
	if !ev.end.After(ev.start) {
		return ev, false
	}

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.uid = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.summary = strings.TrimSpace(p.Value)
	}
	if ev.summary == "" {
		return ev, false
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ev.location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyOrganizer); p != nil {
		ev.organization = organizer(p)
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.rrule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, ev.start.Location()); err == nil {
				ev.exdates = append(ev.exdates, t)
			}
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertyRecurrenceId); p != nil {
		if t, err := parseICSTime(p.Value, ev.start.Location()); err == nil {
			ev.recurrenceID = &t
		}
	}
	return ev, true
}

// floating re-reads a time that carries neither TZID nor a Z suffix in loc instead of the
// process-local zone the parser assumes.
func floating(t time.Time, prop *ical.IANAProperty, loc *time.Location) time.Time {
	if prop == nil || strings.HasSuffix(prop.Value, "Z") {
		return t
	}
	if _, ok := prop.ICalParameters["TZID"]; ok {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func organizer(p *ical.IANAProperty) string {
	if cn, ok := p.ICalParameters["CN"]; ok && len(cn) > 0 {
		return strings.Trim(cn[0], `"`)
	}
	return strings.TrimPrefix(strings.TrimPrefix(p.Value, "mailto:"), "MAILTO:")
}

func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

func expand(ev vevent, overrides []vevent, from, to time.Time) []domain.CandidateEvent {
	if ev.rrule == "" {
		return []domain.CandidateEvent{toEvent(ev, ev.start, ev.end, "")}
	}

	r, err := rrule.StrToRRule(ev.rrule)
	if err != nil {
		return nil
	}
	r.DTStart(ev.start)
	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exdates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	dur := ev.end.Sub(ev.start)
	// Widen the lower bound by the duration so instances already running at from are kept.
	starts := set.Between(from.Add(-dur).In(ev.start.Location()), to.In(ev.start.Location()), true)
	if len(starts) > maxOccurrences {
		starts = starts[:maxOccurrences]
	}

	out := make([]domain.CandidateEvent, 0, len(starts))
	for _, s := range starts {
		start, end := s, s.Add(dur)
		inst := ev
		for _, o := range overrides {
			if o.recurrenceID.Equal(s) {
				inst, start, end = o, o.start, o.end
				break
			}
		}
		out = append(out, toEvent(inst, start, end, s.Format(time.DateOnly)))
	}
	return out
}

// toEvent names recurring instances after their date so names stay unique in the catalog.
func toEvent(ev vevent, start, end time.Time, instance string) domain.CandidateEvent {
	name := ev.summary
	if instance != "" {
		name = fmt.Sprintf("%s (%s)", ev.summary, instance)
	}
	return domain.NewCandidateEvent(name, start, end, ev.location, ev.organization)
}
