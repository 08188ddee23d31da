package domain

import "errors"

var (
	errCarNotFound      error = errors.New("Car not found")
	errBookingNotFound  error = errors.New("Booking not found")
	errCarUnavailable   error = errors.New("Car is not available for booking")
	errBookingConflict  error = errors.New("Car is already booked for the selected dates")
	errInvalidDateRange error = errors.New("invalid date range")
	errForbidden        error = errors.New("not authorized to access this booking")
)

func ErrCarNotFound() error {
	return errCarNotFound
}

func ErrBookingNotFound() error {
	return errBookingNotFound
}

func ErrCarUnavailable() error {
	return errCarUnavailable
}

func ErrBookingConflict() error {
	return errBookingConflict
}

func ErrInvalidDateRange() error {
	return errInvalidDateRange
}

func ErrForbidden() error {
	return errForbidden
}

// DateRangeError wraps ErrInvalidDateRange with the reason the dates were
// rejected, so the boundary can surface a precise message.
type DateRangeError struct {
	Message string
}

func (e DateRangeError) Error() string {
	return e.Message
}

func (e DateRangeError) Unwrap() error {
	return errInvalidDateRange
}
