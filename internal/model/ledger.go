package model

// Date and time layouts shared by the availability engine and the
// booking flow.
const (
	DateLayout        = "2006-01-02" // ledger keys, closed dates, API input
	DisplayDateLayout = "02/01/2006" // Reservation.Date
	TimeLayout        = "15:04"
)

// TimeSlots is the fixed list of bookable half-hour slots.
var TimeSlots = []string{"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30", "22:00"}

// LedgerEntry is one already-booked (table, time) pair on a given date.
type LedgerEntry struct {
	TableID string `json:"table_id" db:"table_id"`
	Time    string `json:"time" db:"slot_time"`
}
