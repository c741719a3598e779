package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// DateState classifies a calendar day for a restaurant.
type DateState string

const (
	DatePast      DateState = "past"
	DateClosed    DateState = "closed"
	DateHoliday   DateState = "holiday"
	DateFull      DateState = "full"
	DateAvailable DateState = "available"
)

// DateStatus is the verdict of the availability engine for one day.
type DateStatus struct {
	Date    string    `json:"date"`
	State   DateState `json:"state"`
	Message string    `json:"message,omitempty"`
}

// Available reports whether the day can be booked.
func (d DateStatus) Available() bool { return d.State == DateAvailable }

// TableSlots lists the bookable times of one table on one day.
type TableSlots struct {
	Table model.Table `json:"table"`
	Times []string    `json:"times"`
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDateOpen applies the calendar rules: day is not before today, falls on
// an operating weekday and is not a closed date.  today is converted to
// day's location before comparing.
func IsDateOpen(r model.Restaurant, day, today time.Time) bool {
	return calendarState(r, day, today) == DateAvailable
}

func calendarState(r model.Restaurant, day, today time.Time) DateState {
	day = startOfDay(day)
	if day.Before(startOfDay(today.In(day.Location()))) {
		return DatePast
	}
	if !r.OpensOn(int(day.Weekday())) {
		return DateClosed
	}
	if r.ClosedOn(day.Format(model.DateLayout)) {
		return DateHoliday
	}
	return DateAvailable
}

// AvailableTimes returns the fixed slots not booked for tableID in
// entries, in slot order.  It never returns nil.
func AvailableTimes(tableID string, entries []model.LedgerEntry) []string {
	taken := make(map[string]struct{})
	for _, e := range entries {
		if e.TableID == tableID {
			taken[e.Time] = struct{}{}
		}
	}
	out := make([]string, 0, len(model.TimeSlots))
	for _, slot := range model.TimeSlots {
		if _, ok := taken[slot]; !ok {
			out = append(out, slot)
		}
	}
	return out
}

// HasAvailableTables reports whether at least one table flagged available
// keeps at least one free slot given the day's ledger entries.
func HasAvailableTables(tables []model.Table, entries []model.LedgerEntry) bool {
	for _, t := range tables {
		if t.Available && len(AvailableTimes(t.ID, entries)) > 0 {
			return true
		}
	}
	return false
}

// EvaluateDate runs every rule in order (past, weekday, closed date,
// fully booked) and returns the first that rejects day.
func EvaluateDate(r model.Restaurant, tables []model.Table, entries []model.LedgerEntry, day, today time.Time) DateStatus {
	st := DateStatus{Date: day.Format(model.DateLayout), State: calendarState(r, day, today)}
	switch st.State {
	case DatePast:
		st.Message = "This date is in the past."
	case DateClosed:
		names := make([]string, 0, len(r.OperatingDays))
		for _, d := range r.OperatingDays {
			if d >= 0 && d < len(model.WeekdayNames) {
				names = append(names, model.WeekdayNames[d])
			}
		}
		st.Message = fmt.Sprintf("%s does not open on %ss. Operating days: %s.",
			r.Name, model.WeekdayNames[day.Weekday()], strings.Join(names, ", "))
	case DateHoliday:
		st.Message = fmt.Sprintf("%s is closed on this date for a holiday or special event.", r.Name)
	default:
		if !HasAvailableTables(tables, entries) {
			st.State = DateFull
			st.Message = "Every table is booked on this date. Try another date."
		}
	}
	return st
}

// IsDateDisabled is the negation used by calendars: a day is disabled
// unless it is open and some table still has a free slot.
func IsDateDisabled(r model.Restaurant, tables []model.Table, entries []model.LedgerEntry, day, today time.Time) bool {
	return !EvaluateDate(r, tables, entries, day, today).Available()
}

// Catalog is the read side of the restaurant catalog used by the engine.
type Catalog interface {
	GetByID(ctx context.Context, id string) (model.Restaurant, error)
	Tables(ctx context.Context) ([]model.Table, error)
	TableByID(ctx context.Context, id string) (model.Table, error)
}

// Ledger returns the already booked slots of a day.
type Ledger interface {
	EntriesOn(ctx context.Context, isoDate string) ([]model.LedgerEntry, error)
}

// AvailabilityService binds the engine to the catalog and ledger and to
// the restaurants' time zone.
type AvailabilityService struct {
	catalog Catalog
	ledger  Ledger
	loc     *time.Location
	now     func() time.Time
}

// NewAvailabilityService returns an engine evaluating "today" in loc.
func NewAvailabilityService(catalog Catalog, ledger Ledger, loc *time.Location) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityService{catalog: catalog, ledger: ledger, loc: loc, now: time.Now}
}

// SetClock replaces the clock.  It is meant for tests and demos that
// replay the seeded ledger dates.
func (s *AvailabilityService) SetClock(now func() time.Time) { s.now = now }

// Location returns the time zone dates are evaluated in.
func (s *AvailabilityService) Location() *time.Location { return s.loc }

// Now returns the current instant in the service time zone.
func (s *AvailabilityService) Now() time.Time { return s.now().In(s.loc) }

// DateStatus evaluates isoDate for a restaurant.
func (s *AvailabilityService) DateStatus(ctx context.Context, restaurantID, isoDate string) (DateStatus, error) {
	r, err := s.catalog.GetByID(ctx, restaurantID)
	if err != nil {
		return DateStatus{}, err
	}
	day, err := ParseDate(isoDate, s.loc)
	if err != nil {
		return DateStatus{}, err
	}
	return s.evaluate(ctx, r, day)
}

func (s *AvailabilityService) evaluate(ctx context.Context, r model.Restaurant, day time.Time) (DateStatus, error) {
	tables, err := s.catalog.Tables(ctx)
	if err != nil {
		return DateStatus{}, err
	}
	entries, err := s.ledger.EntriesOn(ctx, day.Format(model.DateLayout))
	if err != nil {
		return DateStatus{}, err
	}
	return EvaluateDate(r, tables, entries, day, s.Now()), nil
}

// DateOpen reports whether isoDate passes the calendar rules for the
// restaurant, ignoring the ledger.
func (s *AvailabilityService) DateOpen(ctx context.Context, restaurantID, isoDate string) (bool, error) {
	r, err := s.catalog.GetByID(ctx, restaurantID)
	if err != nil {
		return false, err
	}
	day, err := ParseDate(isoDate, s.loc)
	if err != nil {
		return false, err
	}
	return IsDateOpen(r, day, s.Now()), nil
}

// Tables returns every table with its bookable times on isoDate.  Tables
// flagged unavailable, and every table on a day that is not open, get no
// times.
func (s *AvailabilityService) Tables(ctx context.Context, restaurantID, isoDate string) (DateStatus, []TableSlots, error) {
	r, err := s.catalog.GetByID(ctx, restaurantID)
	if err != nil {
		return DateStatus{}, nil, err
	}
	day, err := ParseDate(isoDate, s.loc)
	if err != nil {
		return DateStatus{}, nil, err
	}
	tables, err := s.catalog.Tables(ctx)
	if err != nil {
		return DateStatus{}, nil, err
	}
	entries, err := s.ledger.EntriesOn(ctx, isoDate)
	if err != nil {
		return DateStatus{}, nil, err
	}
	st := EvaluateDate(r, tables, entries, day, s.Now())
	out := make([]TableSlots, 0, len(tables))
	for _, t := range tables {
		ts := TableSlots{Table: t, Times: []string{}}
		if t.Available && (st.State == DateAvailable || st.State == DateFull) {
			ts.Times = AvailableTimes(t.ID, entries)
		}
		out = append(out, ts)
	}
	return st, out, nil
}

// TableTimes returns the bookable times of one table on isoDate.  An
// out-of-service table yields ErrTableUnavailable; a day that is not
// bookable yields an empty list alongside its status.
func (s *AvailabilityService) TableTimes(ctx context.Context, restaurantID, tableID, isoDate string) (DateStatus, []string, error) {
	table, err := s.catalog.TableByID(ctx, tableID)
	if err != nil {
		return DateStatus{}, nil, err
	}
	if !table.Available {
		return DateStatus{}, nil, ErrTableUnavailable
	}
	st, err := s.DateStatus(ctx, restaurantID, isoDate)
	if err != nil {
		return DateStatus{}, nil, err
	}
	if !st.Available() {
		return st, []string{}, nil
	}
	entries, err := s.ledger.EntriesOn(ctx, isoDate)
	if err != nil {
		return DateStatus{}, nil, err
	}
	return st, AvailableTimes(table.ID, entries), nil
}

// Calendar evaluates days consecutive dates starting at from.  An empty
// from means today.  days is clamped to 1..62.
func (s *AvailabilityService) Calendar(ctx context.Context, restaurantID, from string, days int) ([]DateStatus, error) {
	r, err := s.catalog.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	start := startOfDay(s.Now())
	if from != "" {
		if start, err = ParseDate(from, s.loc); err != nil {
			return nil, err
		}
	}
	if days < 1 {
		days = 1
	}
	if days > 62 {
		days = 62
	}
	out := make([]DateStatus, 0, days)
	for i := 0; i < days; i++ {
		st, err := s.evaluate(ctx, r, start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
