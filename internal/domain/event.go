package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CandidateEvent is an event the user might attend. Names are unique within one list.
// swagger:model CandidateEvent
type CandidateEvent struct {
	Name         string    `json:"name"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Location     string    `json:"location"`
	Organization string    `json:"organization"`
	// Source identifies the loader that produced the event (file path or feed URL).
	Source string `json:"source,omitempty"`
}

// NewCandidateEvent returns a CandidateEvent with the given fields.
func NewCandidateEvent(name string, start, end time.Time, location, organization string) CandidateEvent {
	return CandidateEvent{
		Name:         name,
		Start:        start,
		End:          end,
		Location:     location,
		Organization: organization,
	}
}

// timestampLayouts are the accepted event timestamp forms. Zone-less forms are read in the
// caller's location.
var timestampLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an event timestamp. RFC 3339 values keep their offset; zone-less
// values are interpreted in loc (time.Local when nil).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrMalformedTimeValue, s)
}

// EventRepository stores the candidate event catalog.
type EventRepository interface {
	List(ctx context.Context) ([]CandidateEvent, error)
	ReplaceAll(ctx context.Context, events []CandidateEvent) error
}

// EventSource loads candidate events from an external origin, limited to [from, to).
type EventSource interface {
	Name() string
	Load(ctx context.Context, from, to time.Time) ([]CandidateEvent, error)
}

// MatchQuery narrows a filtered event listing.
type MatchQuery struct {
	// ToleranceMinutes widens every free interval on both ends. Nil means the configured default.
	ToleranceMinutes *int
	// Weekdays restricts results to events starting on these days. Empty means all days.
	Weekdays []time.Weekday
}

// EventService defines the business logic around the candidate event catalog.
type EventService interface {
	ListEvents(ctx context.Context) ([]CandidateEvent, error)
	MatchedEvents(ctx context.Context, q MatchQuery) ([]CandidateEvent, error)
	RefreshCatalog(ctx context.Context) (int, error)
	PickedEvents(ctx context.Context) ([]CandidateEvent, error)
	TogglePicked(ctx context.Context, name string) (picked bool, err error)
}
