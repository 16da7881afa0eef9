package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"bettercorq/internal/delivery/http/helpers"
	"bettercorq/internal/domain"
)

// DefaultMaxUploadBytes caps an uploaded schedule document.
const DefaultMaxUploadBytes = 10 << 20

// CoordinateRequest identifies one grid cell.
type CoordinateRequest struct {
	Day  string `json:"day" validate:"required" example:"2025-11-10"`
	Slot string `json:"slot" validate:"required" example:"08:30"`
}

func (c CoordinateRequest) coordinate() (domain.GridCoordinate, error) {
	day, err := domain.ParseCalendarDate(c.Day)
	if err != nil {
		return domain.GridCoordinate{}, err
	}
	slot, err := domain.ParseTimeOfDay(c.Slot)
	if err != nil {
		return domain.GridCoordinate{}, err
	}
	return domain.GridCoordinate{Day: day, Slot: slot}, nil
}

// GestureRequest is the request body for POST /availability/selection/gesture. The first
// cell starts the drag and fixes whether it adds or removes.
type GestureRequest struct {
	Path []CoordinateRequest `json:"path" validate:"required,min=1,dive"`
}

// IntervalRequest is one interval in PUT /availability/manual.
type IntervalRequest struct {
	Day  string `json:"day" validate:"required" example:"2025-11-10"`
	From string `json:"from" validate:"required" example:"08:00"`
	To   string `json:"to" validate:"required" example:"09:30"`
}

// SaveManualRequest is the request body for PUT /availability/manual. An empty list clears
// the selection.
type SaveManualRequest struct {
	Intervals []IntervalRequest `json:"intervals" validate:"required,dive"`
}

// GridSuccessResponse is the success envelope for endpoints returning the grid.
type GridSuccessResponse struct {
	Data  *domain.GridView  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// IntervalsSuccessResponse is the success envelope for endpoints returning intervals.
type IntervalsSuccessResponse struct {
	Data  []domain.Interval `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UploadResponse is the data returned by POST /availability/upload.
type UploadResponse struct {
	FreeTime domain.FreeTimeResult `json:"free_time" swaggertype:"object"`
}

// UploadSuccessResponse is the success envelope for POST /availability/upload.
type UploadSuccessResponse struct {
	Data  UploadResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type AvailabilityController struct {
	Logger         *slog.Logger
	Service        domain.AvailabilityService
	MaxUploadBytes int64
}

func NewAvailabilityController(logger *slog.Logger, svc domain.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		Logger:         logger,
		Service:        svc,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// GetGrid godoc
// @Summary Get the availability grid
// @Description Returns the rolling seven-day grid (days, slot starts, granularity) and the currently selected cells.
// @Tags availability
// @Produce json
// @Success 200 {object} controllers.GridSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /grid [get]
func (c *AvailabilityController) GetGrid(w http.ResponseWriter, r *http.Request) {
	view, err := c.Service.Grid(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Toggle godoc
// @Summary Toggle one grid cell
// @Description Flips the selection state of one cell and persists the manual availability.
// @Tags availability
// @Accept json
// @Produce json
// @Param cell body CoordinateRequest true "Cell to toggle"
// @Success 200 {object} controllers.GridSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability/selection/toggle [post]
func (c *AvailabilityController) Toggle(w http.ResponseWriter, r *http.Request) {
	var req CoordinateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	coord, err := req.coordinate()
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	view, err := c.Service.Toggle(r.Context(), coord)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Gesture godoc
// @Summary Apply a drag gesture
// @Description Replays a drag over the grid. The first cell fixes the mode: add when it was unselected, remove otherwise. Cells outside the grid are ignored.
// @Tags availability
// @Accept json
// @Produce json
// @Param gesture body GestureRequest true "Cells in drag order"
// @Success 200 {object} controllers.GridSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability/selection/gesture [post]
func (c *AvailabilityController) Gesture(w http.ResponseWriter, r *http.Request) {
	var req GestureRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	path := make([]domain.GridCoordinate, 0, len(req.Path))
	for i, cr := range req.Path {
		coord, err := cr.coordinate()
		if err != nil {
			writeError(c.Logger, w, r, fmt.Errorf("path[%d]: %w", i, err))
			return
		}
		path = append(path, coord)
	}
	view, err := c.Service.Gesture(r.Context(), path)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// SaveManual godoc
// @Summary Save manual availability
// @Description Replaces the selection with the given intervals and persists it. Returns the canonical encoding of what was accepted. Cells outside the grid and malformed intervals are dropped; a request with only malformed intervals is rejected.
// @Tags availability
// @Accept json
// @Produce json
// @Param intervals body SaveManualRequest true "Intervals to save"
// @Success 200 {object} controllers.IntervalsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability/manual [put]
func (c *AvailabilityController) SaveManual(w http.ResponseWriter, r *http.Request) {
	var req SaveManualRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	intervals := make([]domain.Interval, 0, len(req.Intervals))
	var errs []error
	for i, ir := range req.Intervals {
		iv, err := parseInterval(ir)
		if err != nil {
			errs = append(errs, fmt.Errorf("intervals[%d]: %w", i, err))
			continue
		}
		intervals = append(intervals, iv)
	}
	if len(errs) > 0 {
		if len(intervals) == 0 {
			writeError(c.Logger, w, r, errors.Join(errs...))
			return
		}
		c.Logger.WarnContext(r.Context(), "skipped malformed intervals", "skipped", len(errs), "err", errors.Join(errs...))
	}
	saved, err := c.Service.SaveManual(r.Context(), intervals)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, saved)
}

func parseInterval(ir IntervalRequest) (domain.Interval, error) {
	day, err := domain.ParseCalendarDate(ir.Day)
	if err != nil {
		return domain.Interval{}, err
	}
	from, err := domain.ParseTimeOfDay(ir.From)
	if err != nil {
		return domain.Interval{}, err
	}
	to, err := domain.ParseTimeOfDay(ir.To)
	if err != nil {
		return domain.Interval{}, err
	}
	return domain.Interval{Day: day, From: from, To: to}, nil
}

// GetAvailability godoc
// @Summary Get canonical free intervals
// @Description Returns manual intervals followed by extracted free time resolved to dates in the rolling week.
// @Tags availability
// @Produce json
// @Success 200 {object} controllers.IntervalsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability [get]
func (c *AvailabilityController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	free, err := c.Service.CanonicalFreeIntervals(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	if free == nil {
		free = []domain.Interval{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, free)
}

// Clear godoc
// @Summary Clear all availability
// @Description Removes the manual and extracted availability records and empties the selection.
// @Tags availability
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability [delete]
func (c *AvailabilityController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Clear(r.Context()); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ClearDay godoc
// @Summary Clear one day
// @Description Unselects every cell of the given day and persists the manual availability. Extracted free time is kept.
// @Tags availability
// @Produce json
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} controllers.GridSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability/days/{day} [delete]
func (c *AvailabilityController) ClearDay(w http.ResponseWriter, r *http.Request) {
	day, err := domain.ParseCalendarDate(r.PathValue("day"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	view, err := c.Service.ClearDay(r.Context(), day)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Upload godoc
// @Summary Extract free time from a schedule
// @Description Sends the uploaded schedule document to the extraction service. On success the free time is stored and painted onto the grid; on failure nothing changes.
// @Tags availability
// @Accept mpfd
// @Produce json
// @Param file formData file true "Schedule image or document"
// @Success 200 {object} controllers.UploadSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: extraction_failed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /availability/upload [post]
func (c *AvailabilityController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodeBadRequest, fmt.Sprintf("file exceeds %d bytes", c.MaxUploadBytes))
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "read file: "+err.Error())
		return
	}
	if len(data) == 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file is empty")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	free, err := c.Service.ApplyExtraction(r.Context(), domain.Document{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UploadResponse{FreeTime: free})
}
