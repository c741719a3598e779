package model

import (
	"testing"
	"time"
)

func TestReservationTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, false},
		{"pending to cancelled", StatusPending, StatusCancelled, false},
		{"pending to pending", StatusPending, StatusPending, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, true},
		{"unknown status", StatusPending, "refunded", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reservation{Status: tt.from}
			err := r.Transition(tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Transition(%q) error = %v, wantErr %v", tt.to, err, tt.wantErr)
			}
			if tt.wantErr && r.Status != tt.from {
				t.Errorf("Status = %v, want %v", r.Status, tt.from)
			}
			if !tt.wantErr && r.Status != tt.to {
				t.Errorf("Status = %v, want %v", r.Status, tt.to)
			}
		})
	}
}

func TestReservationStartsAt(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	r := Reservation{ISODate: "2025-01-10", Time: "19:30"}
	got, err := r.StartsAt(loc)
	if err != nil {
		t.Fatalf("StartsAt() error = %v", err)
	}
	want := time.Date(2025, 1, 10, 19, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartsAt() = %v, want %v", got, want)
	}

	r.Time = "7pm"
	if _, err := r.StartsAt(loc); err == nil {
		t.Error("StartsAt() with malformed time returned nil error")
	}
}

func TestRestaurantDays(t *testing.T) {
	r := Restaurant{OperatingDays: []int{2, 3, 4, 5, 6}, ClosedDates: []string{"2024-12-25"}}
	if r.OpensOn(0) {
		t.Errorf("OpensOn(0) = true, want false")
	}
	if !r.OpensOn(3) {
		t.Errorf("OpensOn(3) = false, want true")
	}
	if !r.ClosedOn("2024-12-25") {
		t.Errorf("ClosedOn(2024-12-25) = false, want true")
	}
	if r.ClosedOn("2024-12-26") {
		t.Errorf("ClosedOn(2024-12-26) = true, want false")
	}
}
