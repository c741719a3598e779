package model

import (
	"errors"
	"time"
)

// Reservation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ErrInvalidTransition is returned when a status change is not
// pending → confirmed or pending → cancelled.
var ErrInvalidTransition = errors.New("invalid reservation status transition")

// Reservation is the booking built from a session's selections.  It is
// created pending when the diner reserves a table and ends either
// confirmed (after the simulated payment) or cancelled.
//
// Fields:
//  ID             – UUID of the reservation.
//  RestaurantID   – catalog id of the restaurant.
//  RestaurantName – restaurant name at booking time.
//  TableID        – reserved table.
//  TableNumber    – number printed on the table.
//  Seats          – seat count of the table.
//  Date           – reservation date, dd/MM/yyyy.
//  ISODate        – reservation date, YYYY-MM-DD.
//  Time           – reservation slot, HH:MM.
//  UserID         – user fabricated by the login step (empty until then).
//  Status         – pending, confirmed or cancelled.
//  PaymentAmount  – seats × per-seat rate.
//  CreatedAt      – creation timestamp.
type Reservation struct {
	ID             string    `json:"id" db:"id"`
	RestaurantID   string    `json:"restaurant_id" db:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name" db:"restaurant_name"`
	TableID        string    `json:"table_id" db:"table_id"`
	TableNumber    int       `json:"table_number" db:"table_number"`
	Seats          int       `json:"seats" db:"seats"`
	Date           string    `json:"date" db:"display_date"`
	ISODate        string    `json:"iso_date" db:"iso_date"`
	Time           string    `json:"time" db:"slot_time"`
	UserID         string    `json:"user_id" db:"user_id"`
	Status         string    `json:"status" db:"status"`
	PaymentAmount  int       `json:"payment_amount" db:"payment_amount"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Transition moves the reservation to status.  Only pending reservations
// may change, and only to confirmed or cancelled.
func (r *Reservation) Transition(status string) error {
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	switch status {
	case StatusConfirmed, StatusCancelled:
		r.Status = status
		return nil
	}
	return ErrInvalidTransition
}

// StartsAt returns the instant the reservation begins in loc.
func (r Reservation) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.ISODate+" "+r.Time, loc)
}
