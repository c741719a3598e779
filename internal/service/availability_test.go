package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

func newTestAvailability(now time.Time) *AvailabilityService {
	svc := NewAvailabilityService(repository.NewSeedCatalogRepo(), repository.NewMemoryLedgerRepo(repository.SeedLedger()), time.UTC)
	svc.SetClock(func() time.Time { return now })
	return svc
}

func TestEvaluateDate(t *testing.T) {
	bella := repository.SeedRestaurants()[0]
	churrascaria := repository.SeedRestaurants()[2]
	tables := repository.SeedTables()
	ledger := repository.SeedLedger()

	tests := []struct {
		name  string
		r     model.Restaurant
		date  string
		today string
		want  DateState
	}{
		{"yesterday", bella, "2024-11-30", "2024-12-01", DatePast},
		{"today on a closed weekday", bella, "2024-12-01", "2024-12-01", DateClosed},
		{"holiday on an operating weekday", bella, "2024-12-25", "2024-12-01", DateHoliday},
		{"regular tuesday", bella, "2024-12-03", "2024-12-01", DateAvailable},
		{"saturated ledger", churrascaria, "2025-01-12", "2025-01-01", DateFull},
		{"partially booked", churrascaria, "2025-01-10", "2025-01-01", DateAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, _ := ParseDate(tt.date, time.UTC)
			today, _ := ParseDate(tt.today, time.UTC)
			got := EvaluateDate(tt.r, tables, ledger[tt.date], day, today.Add(15*time.Hour))
			if got.State != tt.want {
				t.Errorf("EvaluateDate(%s) = %v (%q), want %v", tt.date, got.State, got.Message, tt.want)
			}
			if got.Date != tt.date {
				t.Errorf("Date = %q, want %q", got.Date, tt.date)
			}
			if got.State != DateAvailable && got.Message == "" {
				t.Errorf("rejected date has no message")
			}
			if IsDateDisabled(tt.r, tables, ledger[tt.date], day, today) == (tt.want == DateAvailable) {
				t.Errorf("IsDateDisabled disagrees with state %v", tt.want)
			}
		})
	}
}

func TestIsDateOpenIgnoresLedger(t *testing.T) {
	churrascaria := repository.SeedRestaurants()[2]
	day, _ := ParseDate("2025-01-12", time.UTC)
	today, _ := ParseDate("2025-01-01", time.UTC)
	if !IsDateOpen(churrascaria, day, today) {
		t.Errorf("IsDateOpen(2025-01-12) = false, want true")
	}
	if HasAvailableTables(repository.SeedTables(), repository.SeedLedger()["2025-01-12"]) {
		t.Errorf("HasAvailableTables(2025-01-12) = true, want false")
	}
}

func TestAvailableTimes(t *testing.T) {
	entries := repository.SeedLedger()["2025-01-10"]
	got := AvailableTimes("1", entries)
	want := []string{"18:00", "18:30", "19:30", "20:00", "20:30", "21:30", "22:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableTimes(1) = %v, want %v", got, want)
	}
	if got := AvailableTimes("6", entries); len(got) != len(model.TimeSlots) {
		t.Errorf("AvailableTimes(6) has %d slots, want %d", len(got), len(model.TimeSlots))
	}
	if got := AvailableTimes("1", nil); got == nil || len(got) != len(model.TimeSlots) {
		t.Errorf("AvailableTimes with no entries = %v", got)
	}
}

func TestHasAvailableTablesSkipsOutOfService(t *testing.T) {
	tables := []model.Table{{ID: "3", Available: false}}
	if HasAvailableTables(tables, nil) {
		t.Errorf("HasAvailableTables with only an out-of-service table = true, want false")
	}
}

func TestAvailabilityServiceTableTimes(t *testing.T) {
	ctx := context.Background()
	svc := newTestAvailability(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))

	st, times, err := svc.TableTimes(ctx, "3", "1", "2025-01-12")
	if err != nil {
		t.Fatalf("TableTimes() error = %v", err)
	}
	if st.State != DateFull || len(times) != 0 {
		t.Errorf("TableTimes(2025-01-12) = %v %v, want full and no times", st.State, times)
	}

	_, slots, err := svc.Tables(ctx, "3", "2025-01-12")
	if err != nil {
		t.Fatalf("Tables() error = %v", err)
	}
	for _, ts := range slots {
		if len(ts.Times) != 0 {
			t.Errorf("table %s has times %v on a full date", ts.Table.ID, ts.Times)
		}
	}

	if _, _, err := svc.TableTimes(ctx, "3", "3", "2025-01-10"); !errors.Is(err, ErrTableUnavailable) {
		t.Errorf("TableTimes(table 3) error = %v, want %v", err, ErrTableUnavailable)
	}
	if _, _, err := svc.TableTimes(ctx, "3", "1", "10/01/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("TableTimes(bad date) error = %v, want %v", err, ErrInvalidDate)
	}
	if _, err := svc.DateStatus(ctx, "99", "2025-01-10"); !errors.Is(err, repository.ErrRestaurantNotFound) {
		t.Errorf("DateStatus(unknown restaurant) error = %v, want %v", err, repository.ErrRestaurantNotFound)
	}
}

func TestAvailabilityServiceCalendar(t *testing.T) {
	ctx := context.Background()
	svc := newTestAvailability(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))

	got, err := svc.Calendar(ctx, "3", "2025-01-10", 3)
	if err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}
	want := []DateState{DateAvailable, DateAvailable, DateFull}
	if len(got) != len(want) {
		t.Fatalf("Calendar() returned %d days, want %d", len(got), len(want))
	}
	for i, st := range got {
		if st.State != want[i] {
			t.Errorf("day %s = %v, want %v", st.Date, st.State, want[i])
		}
	}

	all, err := svc.Calendar(ctx, "3", "", 500)
	if err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}
	if len(all) != 62 {
		t.Errorf("Calendar(days=500) returned %d days, want 62", len(all))
	}
	if all[0].Date != "2025-01-01" {
		t.Errorf("Calendar() starts at %s, want today", all[0].Date)
	}
}
