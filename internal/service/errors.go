// Package service holds the booking logic: the availability engine, the
// pricing and cancellation policy, the booking flow controller and the
// reservation event publisher.
package service

import "errors"

var (
	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrDateUnavailable is returned when a date is past, closed, a holiday or fully booked.
	ErrDateUnavailable = errors.New("date not available")
	// ErrTableUnavailable is returned when a table is out of service.
	ErrTableUnavailable = errors.New("table not available")
	// ErrTimeUnavailable is returned when a slot is not bookable for the chosen table and date.
	ErrTimeUnavailable = errors.New("time not available")
	// ErrIncompleteSelection is returned when a step needs a choice that has not been made.
	ErrIncompleteSelection = errors.New("incomplete selection")
	// ErrInvalidScreen is returned when an operation is not allowed on the session's current screen.
	ErrInvalidScreen = errors.New("operation not allowed on current screen")
	// ErrPaymentInProgress is returned while the simulated payment has not finished.
	ErrPaymentInProgress = errors.New("payment in progress")
)
