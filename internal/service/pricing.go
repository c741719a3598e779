package service

import (
	"math"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Pricing computes reservation amounts and applies the cancellation
// policy.  Amounts are whole currency units.
type Pricing struct {
	PricePerSeat int
	DepositRate  float64
	RefundWindow time.Duration
}

// NewPricing extracts the pricing settings from cfg.
func NewPricing(cfg config.BookingConfig) Pricing {
	return Pricing{PricePerSeat: cfg.PricePerSeat, DepositRate: cfg.DepositRate, RefundWindow: cfg.RefundWindow}
}

// PaymentAmount is seats × per-seat price.
func (p Pricing) PaymentAmount(seats int) int { return seats * p.PricePerSeat }

// Deposit is the upfront share of amount, rounded half away from zero.
func (p Pricing) Deposit(amount int) int {
	return int(math.Round(float64(amount) * p.DepositRate))
}

// Remaining is what is left to pay at the restaurant after the deposit.
func (p Pricing) Remaining(amount int) int { return amount - p.Deposit(amount) }

// QuoteCancellation applies the refund rule: the whole deposit is
// refunded when the reservation starts more than RefundWindow after now,
// otherwise nothing is.
func (p Pricing) QuoteCancellation(res model.Reservation, loc *time.Location, now time.Time) (model.CancellationQuote, error) {
	startsAt, err := res.StartsAt(loc)
	if err != nil {
		return model.CancellationQuote{}, err
	}
	until := startsAt.Sub(now)
	q := model.CancellationQuote{
		Deposit:     p.Deposit(res.PaymentAmount),
		HoursBefore: math.Round(until.Hours()*100) / 100,
		QuotedAt:    now,
	}
	if until > p.RefundWindow {
		q.Refundable = true
		q.Refund = q.Deposit
	}
	return q, nil
}
