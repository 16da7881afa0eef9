package eventsource

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bettercorq/internal/domain"
)

// catalogEvent is one entry of a catalog file. End may be a full timestamp or a bare HH:MM
// on the start date.
type catalogEvent struct {
	Name         string `yaml:"name"`
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	Location     string `yaml:"location"`
	Organization string `yaml:"organization"`
}

// parseCatalog reads a YAML or JSON catalog: either a bare list of events or a mapping with
// an events key.
func parseCatalog(body []byte, loc *time.Location) ([]domain.CandidateEvent, error) {
	var entries []catalogEvent
	if err := yaml.Unmarshal(body, &entries); err != nil {
		var wrapped struct {
			Events []catalogEvent `yaml:"events"`
		}
		if werr := yaml.Unmarshal(body, &wrapped); werr != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
		entries = wrapped.Events
	}

	events := make([]domain.CandidateEvent, 0, len(entries))
	var errs []error
	for i, e := range entries {
		ev, err := e.toEvent(loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %d (%q): %w", i, e.Name, err))
			continue
		}
		events = append(events, ev)
	}
	if len(events) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return events, nil
}

func (e catalogEvent) toEvent(loc *time.Location) (domain.CandidateEvent, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return domain.CandidateEvent{}, errors.New("missing name")
	}
	start, err := domain.ParseTimestamp(e.Start, loc)
	if err != nil {
		return domain.CandidateEvent{}, err
	}
	end, err := domain.ParseTimestamp(e.End, loc)
	if err != nil {
		t, terr := domain.ParseTimeOfDay(e.End)
		if terr != nil {
			return domain.CandidateEvent{}, err
		}
		end = domain.DateOf(start).At(t, start.Location())
	}
	if !end.After(start) {
		return domain.CandidateEvent{}, fmt.Errorf("%w: end %s is not after start %s", domain.ErrMalformedTimeValue, e.End, e.Start)
	}
	return domain.NewCandidateEvent(name, start, end, e.Location, e.Organization), nil
}
