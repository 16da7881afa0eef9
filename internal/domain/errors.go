package domain

import "errors"

// Sentinel errors. Callers match them with errors.Is; most are wrapped with detail.
var (
	// ErrMalformedTimeValue marks a date or time string that cannot be parsed or is not
	// aligned to the grid. Only the offending entry is skipped.
	ErrMalformedTimeValue = errors.New("malformed time value")
	// ErrUnresolvableWeekday marks a free-time key that matches no day of the rolling window.
	ErrUnresolvableWeekday = errors.New("unresolvable weekday")
	// ErrInvalidTolerance is returned when a negative matching tolerance is supplied.
	ErrInvalidTolerance = errors.New("invalid tolerance")
	// ErrExtractionFailure is returned when the document extraction collaborator fails.
	ErrExtractionFailure = errors.New("extraction failed")
	// ErrInvalidGrid is returned for an unusable grid configuration.
	ErrInvalidGrid = errors.New("invalid grid configuration")
	// ErrNotFound is returned by stores for an absent key or row.
	ErrNotFound = errors.New("not found")
)
