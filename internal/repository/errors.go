// Package repository defines the data access layer: the static catalog and
// ledger, the booking session stores and the reservation archive.  The
// sentinel values below let higher layers such as handlers distinguish
// between "not found" and genuine storage failures.
package repository

import "errors"

// ErrRestaurantNotFound is returned when a restaurant id is not in the
// catalog.  Handlers translate it into an HTTP 404 response.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrTableNotFound is returned when a table id is not on the floor plan.
var ErrTableNotFound = errors.New("table not found")

// ErrSessionNotFound is returned when a booking session does not exist or
// has expired.
var ErrSessionNotFound = errors.New("session not found")

// ErrReservationNotFound is returned when no archived reservation matches.
var ErrReservationNotFound = errors.New("reservation not found")
