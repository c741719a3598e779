package model

import "time"

// Screen names the step a booking session is on.
type Screen string

const (
	ScreenRestaurants Screen = "restaurants"
	ScreenTables      Screen = "tables"
	ScreenLogin       Screen = "login"
	ScreenConfirm     Screen = "confirm"
	ScreenCancel      Screen = "cancel"
	ScreenSuccess     Screen = "success"
)

// Payment states of the simulated checkout.
const (
	PaymentIdle       = "idle"
	PaymentProcessing = "processing"
	PaymentPaid       = "paid"
)

// Selection holds the table, date and time picked on the tables screen.
// Date is YYYY-MM-DD.  Empty strings mean "not chosen yet".
type Selection struct {
	TableID string `json:"table_id,omitempty"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

// Payment tracks the simulated payment of a session.
type Payment struct {
	State     string     `json:"state"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	Deposit   int        `json:"deposit"`
}

// CancellationQuote is the outcome of the cancellation policy for a
// cancelled reservation.
type CancellationQuote struct {
	Deposit     int       `json:"deposit"`
	Refund      int       `json:"refund"`
	Refundable  bool      `json:"refundable"`
	HoursBefore float64   `json:"hours_before"`
	QuotedAt    time.Time `json:"quoted_at"`
}

// Session is the server-side state of one diner walking through the
// booking screens.  It replaces the single top-level UI state holder:
// each field is set by one step and cleared when the diner goes back
// past that step.
type Session struct {
	ID           string             `json:"id"`
	Screen       Screen             `json:"screen"`
	RestaurantID string             `json:"restaurant_id,omitempty"`
	Selection    Selection          `json:"selection"`
	Reservation  *Reservation       `json:"reservation,omitempty"`
	User         *User              `json:"user,omitempty"`
	Payment      Payment            `json:"payment"`
	Cancellation *CancellationQuote `json:"cancellation,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
