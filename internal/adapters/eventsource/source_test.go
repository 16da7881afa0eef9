package eventsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bettercorq/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	windowFrom = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	windowTo   = time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
)

const catalogYAML = `
- name: Chess club
  start: 2025-11-10 09:10
  end: "10:00"
  location: Room 1
  organization: Chess Society
- name: Movie night
  start: 2025-11-11T19:00:00-05:00
  end: 2025-11-11T21:00:00-05:00
  location: Hall
  organization: Film Club
- name: Last month
  start: 2025-10-01 09:00
  end: 2025-10-01 10:00
- name: Broken
  start: tomorrow
  end: "10:00"
`

const catalogJSON = `{"events": [
  {"name": "Career fair", "start": "2025-11-12 11:00:00", "end": "2025-11-12 14:00:00", "location": "Gym", "organization": "Careers"}
]}`

func calendar(lines ...string) string {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//bettercorq//test//EN"}, lines...)
	all = append(all, "END:VCALENDAR")
	return strings.Join(all, "\r\n") + "\r\n"
}

var testICS = calendar(
	"BEGIN:VEVENT",
	"UID:movie",
	"DTSTAMP:20251101T000000Z",
	"DTSTART:20251112T180000Z",
	"DTEND:20251112T200000Z",
	"SUMMARY:Movie night",
	"LOCATION:Hall",
	"ORGANIZER;CN=Film Club:mailto:film@example.edu",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:chess",
	"DTSTAMP:20251101T000000Z",
	"DTSTART:20251103T090000Z",
	"DTEND:20251103T100000Z",
	"RRULE:FREQ=DAILY;COUNT=30",
	"EXDATE:20251111T090000Z",
	"SUMMARY:Chess club",
	"ORGANIZER:mailto:chess@example.edu",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:chess",
	"DTSTAMP:20251101T000000Z",
	"RECURRENCE-ID:20251112T090000Z",
	"DTSTART:20251112T130000Z",
	"DTEND:20251112T140000Z",
	"SUMMARY:Chess club",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:holiday",
	"DTSTAMP:20251101T000000Z",
	"DTSTART;VALUE=DATE:20251113",
	"SUMMARY:Holiday",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:old",
	"DTSTAMP:20251101T000000Z",
	"DTSTART:20251001T090000Z",
	"DTEND:20251001T100000Z",
	"SUMMARY:Old",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:floating",
	"DTSTAMP:20251101T000000Z",
	"DTSTART:20251114T170000",
	"DTEND:20251114T180000",
	"SUMMARY:Open mic",
	"END:VEVENT",
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func byName(events []domain.CandidateEvent) map[string]domain.CandidateEvent {
	out := make(map[string]domain.CandidateEvent, len(events))
	for _, e := range events {
		out[e.Name] = e
	}
	return out
}

func TestFileSource_YAMLCatalog(t *testing.T) {
	p := writeFile(t, "events.yaml", catalogYAML)
	src, err := New(p, nil, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, p, src.Name())

	events, err := src.Load(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)
	require.Len(t, events, 2)

	chess := events[0]
	assert.Equal(t, "Chess club", chess.Name)
	assert.True(t, chess.Start.Equal(time.Date(2025, 11, 10, 9, 10, 0, 0, time.UTC)))
	assert.True(t, chess.End.Equal(time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Chess Society", chess.Organization)
	assert.Equal(t, p, chess.Source)

	movie := events[1]
	assert.True(t, movie.Start.Equal(time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)))
}

func TestFileSource_JSONCatalog(t *testing.T) {
	p := writeFile(t, "events.json", catalogJSON)
	events, err := NewFileSource(p, time.UTC).Load(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Gym", events[0].Location)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml"), time.UTC).Load(context.Background(), windowFrom, windowTo)
	require.Error(t, err)

	p := writeFile(t, "bad.yaml", "- name: Broken\n  start: never\n  end: never\n")
	_, err = NewFileSource(p, time.UTC).Load(context.Background(), windowFrom, windowTo)
	require.ErrorIs(t, err, domain.ErrMalformedTimeValue)

	_, err = New("  ", nil, time.UTC)
	require.Error(t, err)
}

func TestICS_Flattening(t *testing.T) {
	p := writeFile(t, "campus.ics", testICS)
	loc := time.FixedZone("EST", -5*60*60)
	events, err := NewFileSource(p, loc).Load(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)

	got := byName(events)
	assert.Len(t, events, 8)

	movie, ok := got["Movie night"]
	require.True(t, ok)
	assert.Equal(t, "Film Club", movie.Organization)
	assert.Equal(t, "Hall", movie.Location)

	assert.Contains(t, got, "Chess club (2025-11-10)")
	assert.NotContains(t, got, "Chess club (2025-11-11)", "EXDATE instance must be removed")
	moved := got["Chess club (2025-11-12)"]
	assert.True(t, moved.Start.Equal(time.Date(2025, 11, 12, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "chess@example.edu", got["Chess club (2025-11-10)"].Organization)

	assert.NotContains(t, got, "Holiday")
	assert.NotContains(t, got, "Old")

	mic := got["Open mic"]
	assert.True(t, mic.Start.Equal(time.Date(2025, 11, 14, 17, 0, 0, 0, loc)), "floating time read in configured zone, got %s", mic.Start)
}

func TestURLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/campus.ics":
			w.Header().Set("Content-Type", "text/calendar")
			_, _ = w.Write([]byte(testICS))
		case "/events.json":
			_, _ = w.Write([]byte(catalogJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ics, err := New(srv.URL+"/campus.ics", srv.Client(), time.UTC)
	require.NoError(t, err)
	events, err := ics.Load(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)
	assert.Len(t, events, 8)

	catalog, err := New(srv.URL+"/events.json?token=x", srv.Client(), time.UTC)
	require.NoError(t, err)
	events, err = catalog.Load(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Career fair", events[0].Name)

	missing := NewURLSource(srv.Client(), srv.URL+"/gone.ics", time.UTC)
	_, err = missing.Load(context.Background(), windowFrom, windowTo)
	require.Error(t, err)
}

const sessionizeJSON = `{
  "sessions": [
    {"id": "1", "title": "Opening keynote", "startsAt": "2025-11-12T09:00:00", "endsAt": "2025-11-12T10:00:00", "speakers": ["a", "b"], "roomId": 10, "isServiceSession": false},
    {"id": "2", "title": "Coffee break", "startsAt": "2025-11-12T10:00:00", "endsAt": "2025-11-12T10:30:00", "speakers": [], "roomId": 10, "isServiceSession": true},
    {"id": "3", "title": "Go in production", "startsAt": "2025-11-12T10:30:00", "endsAt": "2025-11-12T11:15:00", "speakers": ["b"], "roomId": 11, "isServiceSession": false},
    {"id": "4", "title": "Next year", "startsAt": "2026-11-12T10:30:00", "endsAt": "2026-11-12T11:15:00", "speakers": [], "roomId": 11, "isServiceSession": false}
  ],
  "speakers": [{"id": "a", "fullName": "Ada Lovelace"}, {"id": "b", "fullName": "Rob Pike"}],
  "rooms": [{"id": 10, "name": "Main hall"}, {"id": 11, "name": "Room B"}]
}`

func TestSessionizeSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conf42/view/All" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sessionizeJSON))
	}))
	defer srv.Close()

	loc := time.FixedZone("CET", 60*60)
	src := newSessionizeSource(srv.Client(), srv.URL, "conf42", loc)
	assert.Equal(t, "sessionize:conf42", src.Name())

	events, err := src.Load(context.Background(), windowFrom, windowTo)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Opening keynote", events[0].Name)
	assert.Equal(t, "Main hall", events[0].Location)
	assert.Equal(t, "Ada Lovelace, Rob Pike", events[0].Organization)
	assert.True(t, events[0].Start.Equal(time.Date(2025, 11, 12, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "sessionize:conf42", events[0].Source)

	assert.Equal(t, "Go in production", events[1].Name)
	assert.Equal(t, "Room B", events[1].Location)

	missing := newSessionizeSource(srv.Client(), srv.URL, "unknown", loc)
	_, err = missing.Load(context.Background(), windowFrom, windowTo)
	require.Error(t, err)
}

func TestNew_SessionizeSpec(t *testing.T) {
	src, err := New("sessionize:abc123", nil, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "sessionize:abc123", src.Name())

	_, err = New("sessionize: ", nil, time.UTC)
	require.Error(t, err)
}
