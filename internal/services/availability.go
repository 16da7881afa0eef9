package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"bettercorq/internal/availability"
	"bettercorq/internal/domain"
)

type availabilityService struct {
	mu sync.Mutex

	store          domain.RecordStore
	extractor      domain.Extractor
	gridCfg        domain.GridConfig
	codec          availability.Codec
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time

	selection *availability.Selection
	// hydratedFor is the first day of the window the selection was last rebuilt for.
	hydratedFor domain.CalendarDate
}

// NewAvailabilityService returns the service owning the user's selection. The selection is
// rebuilt from store on first use and whenever the rolling window moves to a new day.
func NewAvailabilityService(store domain.RecordStore, extractor domain.Extractor, gridCfg domain.GridConfig, logger *slog.Logger, timeout time.Duration) domain.AvailabilityService {
	return newAvailabilityService(store, extractor, gridCfg, logger, timeout, time.Now)
}

func newAvailabilityService(store domain.RecordStore, extractor domain.Extractor, gridCfg domain.GridConfig, logger *slog.Logger, timeout time.Duration, now func() time.Time) *availabilityService {
	return &availabilityService{
		store:          store,
		extractor:      extractor,
		gridCfg:        gridCfg,
		codec:          availability.NewCodec(gridCfg.Granularity),
		logger:         logger,
		contextTimeout: timeout,
		now:            now,
		selection:      availability.NewSelection(gridCfg.Granularity),
	}
}

func (s *availabilityService) Grid(ctx context.Context) (*domain.GridView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(grid), nil
}

func (s *availabilityService) Toggle(ctx context.Context, c domain.GridCoordinate) (*domain.GridView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	if !grid.Contains(c) {
		return nil, fmt.Errorf("%w: %s is not a cell of the current grid", domain.ErrMalformedTimeValue, c)
	}
	if err := s.selection.Toggle(c); err != nil {
		return nil, err
	}
	if err := s.persistManual(ctx); err != nil {
		_ = s.selection.Toggle(c)
		return nil, err
	}
	return s.view(grid), nil
}

// Gesture replays a drag: the first coordinate starts the gesture and fixes its mode, the
// rest are visited in order. Cells outside the grid are ignored.
func (s *availabilityService) Gesture(ctx context.Context, path []domain.GridCoordinate) (*domain.GridView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty gesture path", domain.ErrMalformedTimeValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	if !grid.Contains(path[0]) {
		return nil, fmt.Errorf("%w: gesture starts outside the grid at %s", domain.ErrMalformedTimeValue, path[0])
	}
	before := s.selection.All()
	if err := s.selection.GestureStart(path[0]); err != nil {
		return nil, err
	}
	for _, c := range path[1:] {
		if grid.Contains(c) {
			s.selection.GestureMove(c)
		}
	}
	if s.selection.GestureEnd() {
		if err := s.persistManual(ctx); err != nil {
			s.selection.Replace(before)
			return nil, err
		}
	}
	return s.view(grid), nil
}

// SaveManual replaces the selection with intervals and persists it. Malformed intervals are
// skipped and logged; the request fails only when every interval is malformed. The returned
// intervals are the canonical encoding of what was accepted.
func (s *availabilityService) SaveManual(ctx context.Context, intervals []domain.Interval) ([]domain.Interval, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	valid := make([]domain.Interval, 0, len(intervals))
	var errs []error
	for _, iv := range intervals {
		if err := iv.Validate(s.codec.Granularity); err != nil {
			errs = append(errs, err)
			continue
		}
		valid = append(valid, iv)
	}
	if len(errs) > 0 {
		if len(valid) == 0 {
			return nil, errors.Join(errs...)
		}
		s.logger.WarnContext(ctx, "skipped malformed intervals", "skipped", len(errs), "err", errors.Join(errs...))
	}

	set, _ := s.codec.Decode(valid, grid)
	encoded := s.codec.Encode(set)
	if err := s.putManual(ctx, encoded); err != nil {
		return nil, err
	}
	s.selection.Replace(set)
	return encoded, nil
}

// CanonicalFreeIntervals reconciles the persisted manual intervals with the persisted
// extracted free time. Dropped entries are logged, never returned.
func (s *availabilityService) CanonicalFreeIntervals(ctx context.Context) ([]domain.Interval, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	grid, err := s.grid()
	if err != nil {
		return nil, err
	}
	manual, err := s.loadManual(ctx)
	if err != nil {
		return nil, err
	}
	extracted, err := s.loadExtracted(ctx)
	if err != nil {
		return nil, err
	}
	free, err := availability.NewReconciler(grid).Reconcile(manual, extracted)
	if err != nil {
		s.logger.WarnContext(ctx, "dropped free time entries", "err", err)
	}
	return free, nil
}

// ApplyExtraction sends doc to the extractor and, only on success, persists the result and
// paints it onto the selection. A failed extraction leaves every record untouched.
func (s *availabilityService) ApplyExtraction(ctx context.Context, doc domain.Document) (domain.FreeTimeResult, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no extraction service configured", domain.ErrExtractionFailure)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	logger := s.logger.With("document_id", doc.ID, "filename", doc.Filename)

	free, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		logger.ErrorContext(ctx, "extraction failed", "err", err)
		if !errors.Is(err, domain.ErrExtractionFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrExtractionFailure, err)
		}
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(free)
	if err != nil {
		return nil, fmt.Errorf("encode free time: %w", err)
	}
	if err := s.store.Put(ctx, domain.KeyExtractedFreeTime, data); err != nil {
		return nil, fmt.Errorf("save free time: %w", err)
	}
	s.paintExtracted(ctx, grid, free)
	logger.InfoContext(ctx, "free time extracted", "weekdays", len(free))
	return free, nil
}

// ClearDay unselects every cell of day and persists the manual record. Extracted free time
// is left as is.
func (s *availabilityService) ClearDay(ctx context.Context, day domain.CalendarDate) (*domain.GridView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	grid, err := s.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	if s.selection.ClearDay(day) > 0 {
		if err := s.persistManual(ctx); err != nil {
			return nil, err
		}
	}
	return s.view(grid), nil
}

// Clear empties the selection and removes both availability records.
func (s *availabilityService) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, domain.KeyManualAvailability, domain.KeyExtractedFreeTime); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}
	s.selection.Clear()
	return nil
}

func (s *availabilityService) grid() (*domain.Grid, error) {
	return domain.NewGrid(s.now(), s.gridCfg)
}

// hydrate rebuilds the selection from the persisted records when the window has moved since
// the last rebuild. Callers hold s.mu.
func (s *availabilityService) hydrate(ctx context.Context) (*domain.Grid, error) {
	grid, err := s.grid()
	if err != nil {
		return nil, err
	}
	if s.hydratedFor == grid.Today() {
		return grid, nil
	}

	manual, err := s.loadManual(ctx)
	if err != nil {
		return nil, err
	}
	set, err := s.codec.Decode(manual, grid)
	if err != nil {
		s.logger.WarnContext(ctx, "skipped persisted intervals", "err", err)
	}
	s.selection.Replace(set)

	extracted, err := s.loadExtracted(ctx)
	if err != nil {
		return nil, err
	}
	s.paintExtracted(ctx, grid, extracted)

	s.hydratedFor = grid.Today()
	return grid, nil
}

// paintExtracted marks the cells covered by free as selected without persisting them.
func (s *availabilityService) paintExtracted(ctx context.Context, grid *domain.Grid, free domain.FreeTimeResult) {
	if len(free) == 0 {
		return
	}
	intervals, err := availability.NewReconciler(grid).ExtractedIntervals(free)
	if err != nil {
		s.logger.WarnContext(ctx, "skipped extracted free time", "err", err)
	}
	cells, err := s.codec.Decode(intervals, grid)
	if err != nil {
		s.logger.WarnContext(ctx, "skipped extracted intervals", "err", err)
	}
	s.selection.SetRange(cells.Sorted(), true)
}

// loadManual reads the manual record. An absent or undecodable record is no data.
func (s *availabilityService) loadManual(ctx context.Context) ([]domain.Interval, error) {
	data, err := s.store.Get(ctx, domain.KeyManualAvailability)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load manual availability: %w", err)
	}
	var raw []domain.RawInterval
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.WarnContext(ctx, "ignoring malformed record", "key", domain.KeyManualAvailability, "err", err)
		return nil, nil
	}
	intervals, err := s.codec.ParseIntervals(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "skipped persisted intervals", "key", domain.KeyManualAvailability, "err", err)
	}
	return intervals, nil
}

// loadExtracted reads the extracted record. An absent or undecodable record is no data.
func (s *availabilityService) loadExtracted(ctx context.Context) (domain.FreeTimeResult, error) {
	data, err := s.store.Get(ctx, domain.KeyExtractedFreeTime)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load extracted free time: %w", err)
	}
	var free domain.FreeTimeResult
	if err := json.Unmarshal(data, &free); err != nil {
		s.logger.WarnContext(ctx, "ignoring malformed record", "key", domain.KeyExtractedFreeTime, "err", err)
		return nil, nil
	}
	return free, nil
}

func (s *availabilityService) persistManual(ctx context.Context) error {
	return s.putManual(ctx, s.codec.Encode(s.selection.All()))
}

func (s *availabilityService) putManual(ctx context.Context, intervals []domain.Interval) error {
	data, err := json.Marshal(availability.RawIntervals(intervals))
	if err != nil {
		return fmt.Errorf("encode manual availability: %w", err)
	}
	if err := s.store.Put(ctx, domain.KeyManualAvailability, data); err != nil {
		return fmt.Errorf("save manual availability: %w", err)
	}
	return nil
}

func (s *availabilityService) view(grid *domain.Grid) *domain.GridView {
	return &domain.GridView{
		Granularity: int(grid.Granularity()),
		Days:        grid.AllDays(),
		Slots:       grid.AllSlots(),
		Selected:    s.selection.All().Sorted(),
	}
}
