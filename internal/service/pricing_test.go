package service

import (
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func TestPricingAmounts(t *testing.T) {
	p := NewPricing(config.DefaultBookingConfig())
	tests := []struct {
		seats, amount, deposit, remaining int
	}{
		{2, 50, 15, 35},
		{4, 100, 30, 70},
		{6, 150, 45, 105},
		{8, 200, 60, 140},
	}
	for _, tt := range tests {
		amount := p.PaymentAmount(tt.seats)
		if amount != tt.amount {
			t.Errorf("PaymentAmount(%d) = %d, want %d", tt.seats, amount, tt.amount)
		}
		if got := p.Deposit(amount); got != tt.deposit {
			t.Errorf("Deposit(%d) = %d, want %d", amount, got, tt.deposit)
		}
		if got := p.Remaining(amount); got != tt.remaining {
			t.Errorf("Remaining(%d) = %d, want %d", amount, got, tt.remaining)
		}
	}
	if got := p.Deposit(25); got != 8 {
		t.Errorf("Deposit(25) = %d, want 8", got)
	}
}

func TestQuoteCancellation(t *testing.T) {
	p := NewPricing(config.DefaultBookingConfig())
	res := model.Reservation{ISODate: "2025-01-10", Time: "20:00", PaymentAmount: 100}
	start := time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		refund int
	}{
		{"two hours before", start.Add(-2 * time.Hour), 30},
		{"thirty minutes before", start.Add(-30 * time.Minute), 0},
		{"exactly one hour before", start.Add(-time.Hour), 0},
		{"after the start", start.Add(time.Minute), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := p.QuoteCancellation(res, time.UTC, tt.now)
			if err != nil {
				t.Fatalf("QuoteCancellation() error = %v", err)
			}
			if q.Refund != tt.refund {
				t.Errorf("Refund = %d, want %d", q.Refund, tt.refund)
			}
			if q.Deposit != 30 {
				t.Errorf("Deposit = %d, want 30", q.Deposit)
			}
			if q.Refundable != (tt.refund > 0) {
				t.Errorf("Refundable = %v with refund %d", q.Refundable, q.Refund)
			}
		})
	}

	if _, err := p.QuoteCancellation(model.Reservation{ISODate: "bad", Time: "20:00"}, time.UTC, start); err == nil {
		t.Errorf("QuoteCancellation(bad date) error = nil")
	}
}
