package eventsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bettercorq/internal/domain"
)

const sessionizePrefix = "sessionize:"

const sessionizeBaseURL = "https://sessionize.com/api/v2"

// sessionizeAll is the subset of the Sessionize "All" view used here. Session times are
// local to the conference and carry no offset.
type sessionizeAll struct {
	Sessions []sessionizeSession `json:"sessions"`
	Speakers []sessionizeSpeaker `json:"speakers"`
	Rooms    []sessionizeRoom    `json:"rooms"`
}

type sessionizeSession struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	StartsAt         string   `json:"startsAt"`
	EndsAt           string   `json:"endsAt"`
	Speakers         []string `json:"speakers"`
	RoomID           int      `json:"roomId"`
	IsServiceSession bool     `json:"isServiceSession"`
}

type sessionizeSpeaker struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

type sessionizeRoom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewSessionizeSource loads the sessions of the Sessionize event id as candidate events. The
// room becomes the location and the speakers the organization.
func NewSessionizeSource(client *http.Client, id string, loc *time.Location) domain.EventSource {
	return newSessionizeSource(client, sessionizeBaseURL, id, loc)
}

func newSessionizeSource(client *http.Client, baseURL, id string, loc *time.Location) domain.EventSource {
	if client == nil {
		client = http.DefaultClient
	}
	if loc == nil {
		loc = time.Local
	}
	return &source{
		name:   sessionizePrefix + id,
		format: formatSessionize,
		loc:    loc,
		fetch:  httpFetch(client, fmt.Sprintf("%s/%s/view/All", baseURL, id)),
	}
}

func parseSessionize(body []byte, loc *time.Location) ([]domain.CandidateEvent, error) {
	var data sessionizeAll
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode sessionize response: %w", err)
	}
	rooms := make(map[int]string, len(data.Rooms))
	for _, r := range data.Rooms {
		rooms[r.ID] = r.Name
	}
	speakers := make(map[string]string, len(data.Speakers))
	for _, sp := range data.Speakers {
		speakers[sp.ID] = sp.FullName
	}

	events := make([]domain.CandidateEvent, 0, len(data.Sessions))
	var errs []error
	for _, s := range data.Sessions {
		// Breaks and registration slots.
		if s.IsServiceSession || strings.TrimSpace(s.Title) == "" {
			continue
		}
		start, err := domain.ParseTimestamp(s.StartsAt, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", s.ID, err))
			continue
		}
		end, err := domain.ParseTimestamp(s.EndsAt, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", s.ID, err))
			continue
		}
		names := make([]string, 0, len(s.Speakers))
		for _, id := range s.Speakers {
			if n := speakers[id]; n != "" {
				names = append(names, n)
			}
		}
		events = append(events, domain.NewCandidateEvent(strings.TrimSpace(s.Title), start, end, rooms[s.RoomID], strings.Join(names, ", ")))
	}
	if len(events) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return events, nil
}
