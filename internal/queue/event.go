// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  Routing keys on the default exchange equal the queue name.
const (
	ConfirmedQueue = "reservation.confirmed"
	CancelledQueue = "reservation.cancelled"
)

// ReservationEvent is published when a booking session ends with a
// confirmed or cancelled reservation.  It carries enough information for
// downstream consumers to log or notify without reading the session.
type ReservationEvent struct {
	ReservationID  string `json:"reservation_id"`
	Status         string `json:"status"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	TableNumber    int    `json:"table_number"`
	Seats          int    `json:"seats"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	UserEmail      string `json:"user_email"`
	PaymentAmount  int    `json:"payment_amount"`
	Deposit        int    `json:"deposit"`
	Refund         int    `json:"refund"`
	OccurredAt     string `json:"occurred_at"`
}

// QueueFor returns the queue an event with the given status goes to.
func QueueFor(status string) string {
	if status == "cancelled" {
		return CancelledQueue
	}
	return ConfirmedQueue
}
