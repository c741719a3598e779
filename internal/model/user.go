package model

// User is the identity fabricated by the mock login step.  It is never
// validated nor persisted outside of the booking session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
