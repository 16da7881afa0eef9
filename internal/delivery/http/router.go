package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "bettercorq/docs"
	"bettercorq/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(availabilityController *controllers.AvailabilityController, eventController *controllers.EventController) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", controllers.Health)

	// Availability
	mux.HandleFunc("GET /grid", availabilityController.GetGrid)
	mux.HandleFunc("POST /availability/selection/toggle", availabilityController.Toggle)
	mux.HandleFunc("POST /availability/selection/gesture", availabilityController.Gesture)
	mux.HandleFunc("PUT /availability/manual", availabilityController.SaveManual)
	mux.HandleFunc("GET /availability", availabilityController.GetAvailability)
	mux.HandleFunc("DELETE /availability", availabilityController.Clear)
	mux.HandleFunc("DELETE /availability/days/{day}", availabilityController.ClearDay)
	mux.HandleFunc("POST /availability/upload", availabilityController.Upload)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/matched", eventController.MatchedEvents)
	mux.HandleFunc("POST /events/refresh", eventController.RefreshCatalog)
	mux.HandleFunc("GET /events/picked", eventController.PickedEvents)
	mux.HandleFunc("POST /events/picked/toggle", eventController.TogglePicked)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
