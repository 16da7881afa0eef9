// Package eventsource loads candidate events from catalog files (YAML or JSON), iCalendar
// feeds and Sessionize conference schedules, read from disk or over HTTP.
package eventsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"bettercorq/internal/domain"
)

const maxBodyBytes = 16 << 20

type format int

const (
	formatCatalog format = iota
	formatICS
	formatSessionize
)

type source struct {
	name   string
	format format
	loc    *time.Location
	fetch  func(ctx context.Context) ([]byte, error)
}

// New returns the source described by spec: "sessionize:<id>", an http(s) URL or a file
// path. Names ending in .yaml, .yml or .json are catalogs; anything else is read as
// iCalendar. Zone-less times are interpreted in loc.
func New(spec string, client *http.Client, loc *time.Location) (domain.EventSource, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty event source")
	}
	if loc == nil {
		loc = time.Local
	}
	if id, ok := strings.CutPrefix(spec, sessionizePrefix); ok {
		if id = strings.TrimSpace(id); id == "" {
			return nil, fmt.Errorf("missing sessionize id in %q", spec)
		}
		return NewSessionizeSource(client, id, loc), nil
	}
	if u, err := url.Parse(spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return NewURLSource(client, spec, loc), nil
	}
	return NewFileSource(spec, loc), nil
}

// NewFileSource reads events from a local file on every Load.
func NewFileSource(filePath string, loc *time.Location) domain.EventSource {
	return &source{
		name:   filePath,
		format: formatOf(filePath),
		loc:    loc,
		fetch: func(ctx context.Context) ([]byte, error) {
			return os.ReadFile(filePath)
		},
	}
}

// NewURLSource fetches events from rawURL on every Load.
func NewURLSource(client *http.Client, rawURL string, loc *time.Location) domain.EventSource {
	if client == nil {
		client = http.DefaultClient
	}
	format := formatICS
	if u, err := url.Parse(rawURL); err == nil {
		format = formatOf(u.Path)
	}
	return &source{
		name:   rawURL,
		format: format,
		loc:    loc,
		fetch:  httpFetch(client, rawURL),
	}
}

func httpFetch(client *http.Client, rawURL string) func(ctx context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch events: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("event feed returned status: %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	}
}

func formatOf(p string) format {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml", ".json":
		return formatCatalog
	default:
		return formatICS
	}
}

func (s *source) Name() string { return s.name }

// Load returns the events of the source that overlap [from, to), in source order.
func (s *source) Load(ctx context.Context, from, to time.Time) ([]domain.CandidateEvent, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	var events []domain.CandidateEvent
	switch s.format {
	case formatCatalog:
		events, err = parseCatalog(body, s.loc)
	case formatSessionize:
		events, err = parseSessionize(body, s.loc)
	default:
		events, err = parseICS(body, from, to, s.loc)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}

	out := make([]domain.CandidateEvent, 0, len(events))
	for _, ev := range events {
		if ev.Start.Before(to) && ev.End.After(from) {
			ev.Source = s.name
			out = append(out, ev)
		}
	}
	return out, nil
}
