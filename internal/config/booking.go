package config

import "time"

// BookingConfig carries the business constants of the booking flow.  The
// defaults reproduce the demo: 25 per seat, a 30% deposit refunded in
// full when cancelling more than one hour ahead, and a payment that
// "processes" for three seconds and confirms two seconds later.
type BookingConfig struct {
	PricePerSeat    int
	DepositRate     float64
	RefundWindow    time.Duration
	ProcessingDelay time.Duration
	SuccessDelay    time.Duration
}

// DefaultBookingConfig returns the demo constants without reading the
// environment.
func DefaultBookingConfig() BookingConfig {
	return BookingConfig{
		PricePerSeat:    25,
		DepositRate:     0.3,
		RefundWindow:    time.Hour,
		ProcessingDelay: 3 * time.Second,
		SuccessDelay:    2 * time.Second,
	}
}

// LoadBookingConfig overrides the defaults with PRICE_PER_SEAT,
// DEPOSIT_RATE, REFUND_WINDOW, PAYMENT_PROCESSING_DELAY and
// PAYMENT_SUCCESS_DELAY.  Out of range values fall back to the defaults.
func LoadBookingConfig() BookingConfig {
	def := DefaultBookingConfig()
	cfg := BookingConfig{
		PricePerSeat:    envInt("PRICE_PER_SEAT", def.PricePerSeat),
		DepositRate:     envFloat("DEPOSIT_RATE", def.DepositRate),
		RefundWindow:    envDur("REFUND_WINDOW", def.RefundWindow),
		ProcessingDelay: envDur("PAYMENT_PROCESSING_DELAY", def.ProcessingDelay),
		SuccessDelay:    envDur("PAYMENT_SUCCESS_DELAY", def.SuccessDelay),
	}
	if cfg.PricePerSeat < 0 {
		cfg.PricePerSeat = def.PricePerSeat
	}
	if cfg.DepositRate < 0 || cfg.DepositRate > 1 {
		cfg.DepositRate = def.DepositRate
	}
	if cfg.RefundWindow < 0 {
		cfg.RefundWindow = def.RefundWindow
	}
	if cfg.ProcessingDelay < 0 {
		cfg.ProcessingDelay = 0
	}
	if cfg.SuccessDelay < 0 {
		cfg.SuccessDelay = 0
	}
	return cfg
}
