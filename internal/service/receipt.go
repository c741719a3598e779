package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReceiptNotes are printed at the bottom of every receipt.
var ReceiptNotes = []string{
	"Arrival: please arrive 10 minutes before the reserved time",
	"Tolerance: the table is released after 15 minutes of delay",
	"Cancellation: up to 1 hour before with full refund",
	"Document: bring a photo ID",
}

// Receipt renders the confirmation of a successful booking as plain text.
func (s *BookingService) Receipt(ctx context.Context, id string) (string, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := requireScreen(&sess, model.ScreenSuccess); err != nil {
		return "", err
	}
	r, err := s.catalog.GetByID(ctx, sess.RestaurantID)
	if err != nil {
		return "", err
	}
	return FormatReceipt(r, *sess.Reservation, sess.User, s.pricing), nil
}

// FormatReceipt lays out a confirmed reservation.  user may be nil.
func FormatReceipt(r model.Restaurant, res model.Reservation, user *model.User, p Pricing) string {
	var b strings.Builder
	deposit := p.Deposit(res.PaymentAmount)

	fmt.Fprintf(&b, "RESERVATION %s\n", strings.ToUpper(res.ID))
	fmt.Fprintf(&b, "Status: %s\n\n", res.Status)
	fmt.Fprintf(&b, "%s (%s)\n", r.Name, r.Cuisine)
	fmt.Fprintf(&b, "%s\nPhone: %s\n\n", r.Location, r.Phone)
	fmt.Fprintf(&b, "Table %d - %d seats\n", res.TableNumber, res.Seats)
	fmt.Fprintf(&b, "Date: %s  Time: %s\n", res.Date, res.Time)
	if user != nil {
		fmt.Fprintf(&b, "Guest: %s <%s> %s\n", user.Name, user.Email, user.Phone)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Estimated total:     R$ %d.00\n", res.PaymentAmount)
	fmt.Fprintf(&b, "Paid now (deposit):  R$ %d.00\n", deposit)
	fmt.Fprintf(&b, "Due at the restaurant: R$ %d.00\n\n", p.Remaining(res.PaymentAmount))
	for _, n := range ReceiptNotes {
		fmt.Fprintf(&b, "- %s\n", n)
	}
	return b.String()
}
