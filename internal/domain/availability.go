package domain

import "context"

// Record keys of the durable store. The two availability records are written independently
// and each must decode on its own.
const (
	KeyManualAvailability = "manualAvailability"
	KeyExtractedFreeTime  = "extractedFreeTime"
	KeyPickedEvents       = "pickedEvents"
)

// RecordStore is durable key-value storage keyed by string. Writes are atomic per key only.
// Get returns ErrNotFound for an absent key.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Document is an uploaded schedule file handed to the extraction collaborator.
type Document struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
}

// Extractor turns a schedule document into free time keyed by weekday.
// Implementations wrap every failure in ErrExtractionFailure.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (FreeTimeResult, error)
}

// GridView is the repaint payload: the grid shape and the currently selected cells.
// swagger:model GridView
type GridView struct {
	Granularity int              `json:"granularity_minutes"`
	Days        []CalendarDate   `json:"days" swaggertype:"array,string"`
	Slots       []TimeOfDay      `json:"slots" swaggertype:"array,string"`
	Selected    []GridCoordinate `json:"selected"`
}

// AvailabilityService owns the user's selection and both availability records.
type AvailabilityService interface {
	Grid(ctx context.Context) (*GridView, error)
	Toggle(ctx context.Context, c GridCoordinate) (*GridView, error)
	Gesture(ctx context.Context, path []GridCoordinate) (*GridView, error)
	SaveManual(ctx context.Context, intervals []Interval) ([]Interval, error)
	CanonicalFreeIntervals(ctx context.Context) ([]Interval, error)
	ApplyExtraction(ctx context.Context, doc Document) (FreeTimeResult, error)
	ClearDay(ctx context.Context, day CalendarDate) (*GridView, error)
	Clear(ctx context.Context) error
}
