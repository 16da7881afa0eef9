package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"bettercorq/internal/availability"
	"bettercorq/internal/delivery/http/helpers"
	"bettercorq/internal/domain"
)

// EventsSuccessResponse is the success envelope for endpoints returning events.
type EventsSuccessResponse struct {
	Data  []domain.CandidateEvent `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// RefreshResponse is the data returned by POST /events/refresh.
type RefreshResponse struct {
	Events int `json:"events"`
}

// TogglePickedRequest is the request body for POST /events/picked/toggle.
type TogglePickedRequest struct {
	Name string `json:"name" validate:"required"`
}

// TogglePickedResponse reports whether the event is picked after the toggle.
type TogglePickedResponse struct {
	Name   string `json:"name"`
	Picked bool   `json:"picked"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List candidate events
// @Description Returns the whole candidate event catalog in catalog order.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// MatchedEvents godoc
// @Summary List events that fit the free time
// @Description Returns catalog events overlapping a canonical free interval widened by the tolerance on both ends, in catalog order. Without any free time the catalog is returned unfiltered.
// @Tags events
// @Produce json
// @Param tolerance query int false "Tolerance in minutes (default from configuration)"
// @Param days query string false "Comma separated weekdays, e.g. Mon,Tue"
// @Success 200 {object} controllers.EventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/matched [get]
func (c *EventController) MatchedEvents(w http.ResponseWriter, r *http.Request) {
	q, err := parseMatchQuery(r)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	events, err := c.Service.MatchedEvents(r.Context(), q)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

func parseMatchQuery(r *http.Request) (domain.MatchQuery, error) {
	var q domain.MatchQuery
	if s := strings.TrimSpace(r.URL.Query().Get("tolerance")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, fmt.Errorf("%w: tolerance %q is not a number of minutes", domain.ErrInvalidTolerance, s)
		}
		q.ToleranceMinutes = &n
	}
	for _, name := range strings.Split(r.URL.Query().Get("days"), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		wd, err := availability.ParseWeekday(name)
		if err != nil {
			return q, err
		}
		if !slices.Contains(q.Weekdays, wd) {
			q.Weekdays = append(q.Weekdays, wd)
		}
	}
	return q, nil
}

// RefreshCatalog godoc
// @Summary Refresh the event catalog
// @Description Reloads the catalog from every configured source for the current rolling week. Fails only when no source could be read.
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.events: number of events stored"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/refresh [post]
func (c *EventController) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := c.Service.RefreshCatalog(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RefreshResponse{Events: n})
}

// PickedEvents godoc
// @Summary List picked events
// @Description Returns the events the user picked, in pick order.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/picked [get]
func (c *EventController) PickedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.PickedEvents(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// TogglePicked godoc
// @Summary Toggle a picked event
// @Description Adds the event to the picks, or removes it when already picked.
// @Tags events
// @Accept json
// @Produce json
// @Param event body TogglePickedRequest true "Event name"
// @Success 200 {object} helpers.APIResponse "data: name and picked state"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/picked/toggle [post]
func (c *EventController) TogglePicked(w http.ResponseWriter, r *http.Request) {
	var req TogglePickedRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	picked, err := c.Service.TogglePicked(r.Context(), req.Name)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TogglePickedResponse{Name: req.Name, Picked: picked})
}
