package booking

import (
	"errors"
	"strings"
)

var (
	ErrUnknownStatus           = errors.New("unknown booking status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidLayout           = errors.New("invalid seat layout")
	ErrSeatNotInLayout         = errors.New("seat is not part of this theater")
	ErrNoSeatsSelected         = errors.New("please select at least one seat")
	ErrSubmissionInFlight      = errors.New("a booking submission is already in progress")
	ErrNoBookingInProgress     = errors.New("no booking in progress")
	ErrSeatConflict            = errors.New("some seats are no longer available")
	ErrInvalidProof            = errors.New("invalid payment proof")
	ErrNotConfirmable          = errors.New("booking has not reached the success step")
	ErrSelectionLocked         = errors.New("seats cannot change after the booking was created")
)

// ValidationError lists form fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// LayoutError names the layout field that makes a theater unusable.
type LayoutError struct {
	Field  string
	Reason string
}

func (e *LayoutError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *LayoutError) Unwrap() error {
	return ErrInvalidLayout
}

// ConflictError carries the refreshed seat map after the backend refused
// seats that were taken in the meantime.
type ConflictError struct {
	Detail  string       `json:"detail"`
	SeatMap *SeatMapView `json:"seat_map"`
	Dropped []string     `json:"dropped"`
}

func (e *ConflictError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return ErrSeatConflict.Error()
}

func (e *ConflictError) Unwrap() error {
	return ErrSeatConflict
}

// isSeatConflict recognises the backend's "seat taken" rejections.
func isSeatConflict(status int, detail string) bool {
	if status == 409 {
		return true
	}
	if status != 400 {
		return false
	}
	d := strings.ToLower(detail)
	return strings.Contains(d, "seat") &&
		(strings.Contains(d, "already booked") || strings.Contains(d, "no longer available") || strings.Contains(d, "unavailable"))
}
