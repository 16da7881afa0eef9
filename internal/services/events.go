package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"bettercorq/internal/availability"
	"bettercorq/internal/domain"
)

type eventService struct {
	pickMu sync.Mutex

	eventRepo        domain.EventRepository
	sources          []domain.EventSource
	store            domain.RecordStore
	availability     domain.AvailabilityService
	gridCfg          domain.GridConfig
	defaultTolerance int
	logger           *slog.Logger
	contextTimeout   time.Duration
	now              func() time.Time
}

// NewEventService returns the service over the candidate event catalog. Free time comes from
// avail; picked event names are kept in store.
func NewEventService(
	eventRepo domain.EventRepository,
	sources []domain.EventSource,
	store domain.RecordStore,
	avail domain.AvailabilityService,
	gridCfg domain.GridConfig,
	defaultTolerance int,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return newEventService(eventRepo, sources, store, avail, gridCfg, defaultTolerance, logger, timeout, time.Now)
}

func newEventService(eventRepo domain.EventRepository, sources []domain.EventSource, store domain.RecordStore, avail domain.AvailabilityService, gridCfg domain.GridConfig, defaultTolerance int, logger *slog.Logger, timeout time.Duration, now func() time.Time) *eventService {
	return &eventService{
		eventRepo:        eventRepo,
		sources:          sources,
		store:            store,
		availability:     avail,
		gridCfg:          gridCfg,
		defaultTolerance: defaultTolerance,
		logger:           logger,
		contextTimeout:   timeout,
		now:              now,
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]domain.CandidateEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []domain.CandidateEvent{}
	}
	return events, nil
}

// MatchedEvents returns the catalog events that fit the user's canonical free time, in
// catalog order, optionally restricted to events starting on q.Weekdays. With no known free
// time the catalog is returned unfiltered.
func (s *eventService) MatchedEvents(ctx context.Context, q domain.MatchQuery) ([]domain.CandidateEvent, error) {
	tol := s.defaultTolerance
	if q.ToleranceMinutes != nil {
		tol = *q.ToleranceMinutes
	}
	if tol < 0 {
		return nil, fmt.Errorf("%w: %d minutes is negative", domain.ErrInvalidTolerance, tol)
	}

	free, err := s.availability.CanonicalFreeIntervals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load free time: %w", err)
	}
	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	matched := events
	if len(free) > 0 {
		m, err := availability.NewMatcher(free, tol, s.location())
		if err != nil {
			return nil, err
		}
		matched = m.Filter(events)
	}
	if len(q.Weekdays) == 0 {
		return matched, nil
	}
	out := make([]domain.CandidateEvent, 0, len(matched))
	for _, ev := range matched {
		if slices.Contains(q.Weekdays, ev.Start.In(s.location()).Weekday()) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// RefreshCatalog reloads the catalog from every source, limited to the current rolling
// window, and returns the number of events stored. A failing source is skipped; the
// refresh fails only when no source could be read.
func (s *eventService) RefreshCatalog(ctx context.Context) (int, error) {
	if len(s.sources) == 0 {
		return 0, errors.New("no event sources configured")
	}
	grid, err := domain.NewGrid(s.now(), s.gridCfg)
	if err != nil {
		return 0, err
	}
	days := grid.AllDays()
	from := days[0].At(0, s.location())
	to := days[len(days)-1].AddDays(1).At(0, s.location())

	var (
		events []domain.CandidateEvent
		errs   []error
		seen   = make(map[string]bool)
	)
	for _, src := range s.sources {
		loaded, err := src.Load(ctx, from, to)
		if err != nil {
			s.logger.WarnContext(ctx, "event source failed", "source", src.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		for _, ev := range loaded {
			if seen[ev.Name] {
				s.logger.DebugContext(ctx, "duplicate event name skipped", "source", src.Name(), "name", ev.Name)
				continue
			}
			seen[ev.Name] = true
			events = append(events, ev)
		}
	}
	if len(errs) == len(s.sources) {
		return 0, fmt.Errorf("refresh catalog: %w", errors.Join(errs...))
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	if err := s.eventRepo.ReplaceAll(ctx, events); err != nil {
		return 0, fmt.Errorf("store events: %w", err)
	}
	s.logger.InfoContext(ctx, "event catalog refreshed", "events", len(events), "sources", len(s.sources), "failed_sources", len(errs))
	return len(events), nil
}

// PickedEvents returns the catalog entries the user picked, in pick order. Picks that are no
// longer in the catalog are omitted.
func (s *eventService) PickedEvents(ctx context.Context) ([]domain.CandidateEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	names, err := s.loadPicked(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	byName := make(map[string]domain.CandidateEvent, len(events))
	for _, ev := range events {
		byName[ev.Name] = ev
	}
	out := make([]domain.CandidateEvent, 0, len(names))
	for _, name := range names {
		if ev, ok := byName[name]; ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

// TogglePicked adds name to the picks, or removes it when already picked, and reports
// whether it is picked afterwards. Unknown events are ErrNotFound.
func (s *eventService) TogglePicked(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.pickMu.Lock()
	defer s.pickMu.Unlock()

	names, err := s.loadPicked(ctx)
	if err != nil {
		return false, err
	}
	picked := true
	if i := slices.Index(names, name); i >= 0 {
		names = slices.Delete(names, i, i+1)
		picked = false
	} else {
		events, err := s.eventRepo.List(ctx)
		if err != nil {
			return false, fmt.Errorf("list events: %w", err)
		}
		if !slices.ContainsFunc(events, func(ev domain.CandidateEvent) bool { return ev.Name == name }) {
			return false, fmt.Errorf("event %q: %w", name, domain.ErrNotFound)
		}
		names = append(names, name)
	}

	data, err := json.Marshal(names)
	if err != nil {
		return false, fmt.Errorf("encode picked events: %w", err)
	}
	if err := s.store.Put(ctx, domain.KeyPickedEvents, data); err != nil {
		return false, fmt.Errorf("save picked events: %w", err)
	}
	return picked, nil
}

func (s *eventService) loadPicked(ctx context.Context) ([]string, error) {
	data, err := s.store.Get(ctx, domain.KeyPickedEvents)
	if errors.Is(err, domain.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load picked events: %w", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		s.logger.WarnContext(ctx, "ignoring malformed record", "key", domain.KeyPickedEvents, "err", err)
		return []string{}, nil
	}
	return names, nil
}

func (s *eventService) location() *time.Location {
	if s.gridCfg.Location == nil {
		return time.Local
	}
	return s.gridCfg.Location
}
