package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	q "github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []q.ReservationEvent
}

func (p *recordingPublisher) PublishReservation(_ context.Context, ev q.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) PublishReservation(context.Context, q.ReservationEvent) error {
	return errors.New("broker down")
}

func (p *recordingPublisher) all() []q.ReservationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]q.ReservationEvent(nil), p.events...)
}

type bookingFixture struct {
	svc     *BookingService
	archive *repository.MemoryReservationRepo
	events  *recordingPublisher
}

func newBookingFixture(t *testing.T, now time.Time) bookingFixture {
	t.Helper()
	logger := log.New("test")
	logger.SetOutput(io.Discard)
	cfg := config.DefaultBookingConfig()
	cfg.ProcessingDelay = 0
	cfg.SuccessDelay = 0

	catalog := repository.NewSeedCatalogRepo()
	avail := NewAvailabilityService(catalog, repository.NewMemoryLedgerRepo(repository.SeedLedger()), time.UTC)
	avail.SetClock(func() time.Time { return now })
	f := bookingFixture{archive: repository.NewMemoryReservationRepo(), events: &recordingPublisher{}}
	f.svc = NewBookingService(BookingDeps{
		Catalog:      catalog,
		Availability: avail,
		Sessions:     repository.NewMemorySessionStore(time.Hour),
		Archive:      f.archive,
		Events:       f.events,
		Config:       cfg,
		Logger:       logger,
	})
	return f
}

// toTables starts a session at Churrascaria Tradição, which opens every day.
func toTables(t *testing.T, svc *BookingService) string {
	t.Helper()
	ctx := context.Background()
	sess, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sess.Screen != model.ScreenRestaurants {
		t.Fatalf("new session screen = %v, want %v", sess.Screen, model.ScreenRestaurants)
	}
	if _, err := svc.SelectRestaurant(ctx, sess.ID, "3"); err != nil {
		t.Fatalf("SelectRestaurant() error = %v", err)
	}
	return sess.ID
}

// toConfirm books table 2 (4 seats) on 2025-01-10 at 20:00 and logs in.
func toConfirm(t *testing.T, svc *BookingService) string {
	t.Helper()
	ctx := context.Background()
	id := toTables(t, svc)
	steps := []func() (model.Session, error){
		func() (model.Session, error) { return svc.SelectTable(ctx, id, "2") },
		func() (model.Session, error) { return svc.SelectDate(ctx, id, "2025-01-10") },
		func() (model.Session, error) { return svc.SelectTime(ctx, id, "20:00") },
		func() (model.Session, error) { return svc.Reserve(ctx, id) },
		func() (model.Session, error) { return svc.Login(ctx, id, LoginInput{Mode: "login"}) },
	}
	for i, step := range steps {
		if _, err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}
	return id
}

func TestBookingConfirmFlow(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	gate := make(chan time.Time)
	f.svc.after = func(time.Duration) <-chan time.Time { return gate }

	id := toTables(t, f.svc)
	f.svc.SelectTable(ctx, id, "2")
	f.svc.SelectDate(ctx, id, "2025-01-10")
	f.svc.SelectTime(ctx, id, "20:00")
	sess, err := f.svc.Reserve(ctx, id)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	res := sess.Reservation
	if sess.Screen != model.ScreenLogin || res == nil {
		t.Fatalf("Reserve() screen = %v reservation = %v", sess.Screen, res)
	}
	if res.PaymentAmount != 100 || res.Seats != 4 || res.TableNumber != 2 {
		t.Errorf("reservation = %+v, want 4 seats at table 2 for 100", *res)
	}
	if res.Date != "10/01/2025" || res.ISODate != "2025-01-10" || res.Time != "20:00" {
		t.Errorf("reservation date = %s %s %s", res.Date, res.ISODate, res.Time)
	}
	if res.Status != model.StatusPending || res.UserID != "" {
		t.Errorf("reservation status = %v user = %q, want pending without user", res.Status, res.UserID)
	}

	sess, err = f.svc.Login(ctx, id, LoginInput{Mode: "login", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.User == nil || sess.User.Name != DemoUserName || sess.User.Email != "ana@example.com" {
		t.Fatalf("Login() user = %+v", sess.User)
	}
	if sess.Reservation.UserID != sess.User.ID {
		t.Errorf("reservation user = %q, want %q", sess.Reservation.UserID, sess.User.ID)
	}
	if sess.Payment.Deposit != 30 || sess.Screen != model.ScreenConfirm {
		t.Errorf("Login() deposit = %d screen = %v", sess.Payment.Deposit, sess.Screen)
	}

	sess, err = f.svc.Pay(ctx, id)
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if sess.Payment.State != model.PaymentProcessing || sess.Payment.StartedAt == nil {
		t.Errorf("Pay() payment = %+v, want processing", sess.Payment)
	}
	if _, err := f.svc.Pay(ctx, id); !errors.Is(err, ErrPaymentInProgress) {
		t.Errorf("second Pay() error = %v, want %v", err, ErrPaymentInProgress)
	}
	if _, err := f.svc.Cancel(ctx, id); !errors.Is(err, ErrPaymentInProgress) {
		t.Errorf("Cancel() during payment error = %v, want %v", err, ErrPaymentInProgress)
	}
	if _, err := f.svc.Back(ctx, id, model.ScreenRestaurants); !errors.Is(err, ErrPaymentInProgress) {
		t.Errorf("Back() during payment error = %v, want %v", err, ErrPaymentInProgress)
	}
	if err := f.svc.End(ctx, id); !errors.Is(err, ErrPaymentInProgress) {
		t.Errorf("End() during payment error = %v, want %v", err, ErrPaymentInProgress)
	}

	gate <- time.Time{}
	gate <- time.Time{}
	f.svc.Wait()

	sess, err = f.svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess.Screen != model.ScreenSuccess {
		t.Fatalf("screen after payment = %v, want %v", sess.Screen, model.ScreenSuccess)
	}
	if sess.Payment.State != model.PaymentPaid || sess.Payment.PaidAt == nil {
		t.Errorf("payment after settle = %+v, want paid", sess.Payment)
	}
	if sess.Reservation.Status != model.StatusConfirmed {
		t.Errorf("reservation status = %v, want %v", sess.Reservation.Status, model.StatusConfirmed)
	}

	archived, err := f.svc.Reservation(ctx, sess.Reservation.ID)
	if err != nil {
		t.Fatalf("Reservation() error = %v", err)
	}
	if archived.Status != model.StatusConfirmed {
		t.Errorf("archived status = %v, want %v", archived.Status, model.StatusConfirmed)
	}
	events := f.events.all()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if ev := events[0]; ev.Status != model.StatusConfirmed || ev.Deposit != 30 || ev.UserName != DemoUserName {
		t.Errorf("event = %+v", ev)
	}

	receipt, err := f.svc.Receipt(ctx, id)
	if err != nil {
		t.Fatalf("Receipt() error = %v", err)
	}
	for _, want := range []string{strings.ToUpper(sess.Reservation.ID), "Churrascaria Tradição", "Table 2 - 4 seats", "10/01/2025", "R$ 100.00", "R$ 30.00", "R$ 70.00"} {
		if !strings.Contains(receipt, want) {
			t.Errorf("receipt missing %q:\n%s", want, receipt)
		}
	}

	if _, err := f.svc.Back(ctx, id, model.ScreenRestaurants); err != nil {
		t.Fatalf("Back(restaurants) after success error = %v", err)
	}
}

func TestBookingCancelRefund(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		refund int
	}{
		{"days ahead", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), 30},
		{"half an hour before", time.Date(2025, 1, 10, 19, 30, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newBookingFixture(t, tt.now)
			id := toConfirm(t, f.svc)

			sess, err := f.svc.Cancel(ctx, id)
			if err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}
			if sess.Screen != model.ScreenCancel || sess.Reservation.Status != model.StatusCancelled {
				t.Errorf("Cancel() screen = %v status = %v", sess.Screen, sess.Reservation.Status)
			}
			if sess.Cancellation == nil || sess.Cancellation.Refund != tt.refund || sess.Cancellation.Deposit != 30 {
				t.Fatalf("Cancel() quote = %+v, want refund %d", sess.Cancellation, tt.refund)
			}
			archived, err := f.archive.GetByID(ctx, sess.Reservation.ID)
			if err != nil || archived.Status != model.StatusCancelled {
				t.Errorf("archived = %+v, %v", archived, err)
			}
			events := f.events.all()
			if len(events) != 1 || events[0].Status != model.StatusCancelled || events[0].Refund != tt.refund {
				t.Errorf("events = %+v", events)
			}
			if _, err := f.svc.Receipt(ctx, id); !errors.Is(err, ErrInvalidScreen) {
				t.Errorf("Receipt() on cancel screen error = %v, want %v", err, ErrInvalidScreen)
			}

			sess, err = f.svc.Back(ctx, id, model.ScreenRestaurants)
			if err != nil {
				t.Fatalf("Back(restaurants) error = %v", err)
			}
			if sess.RestaurantID != "" || sess.Reservation != nil || sess.User != nil || sess.Cancellation != nil || sess.Selection != (model.Selection{}) {
				t.Errorf("Back(restaurants) left state behind: %+v", sess)
			}
		})
	}
}

func TestSelectionChangesClearTime(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	id := toTables(t, f.svc)

	f.svc.SelectTable(ctx, id, "2")
	f.svc.SelectDate(ctx, id, "2025-01-10")
	sess, _ := f.svc.SelectTime(ctx, id, "20:00")
	if sess.Selection.Time != "20:00" {
		t.Fatalf("time = %q, want 20:00", sess.Selection.Time)
	}
	sess, err := f.svc.SelectTable(ctx, id, "4")
	if err != nil {
		t.Fatalf("SelectTable() error = %v", err)
	}
	if sess.Selection.Time != "" || sess.Selection.TableID != "4" || sess.Selection.Date != "2025-01-10" {
		t.Errorf("selection after table change = %+v", sess.Selection)
	}

	f.svc.SelectTime(ctx, id, "18:00")
	sess, _ = f.svc.SelectDate(ctx, id, "2025-01-11")
	if sess.Selection.Time != "" {
		t.Errorf("time after date change = %q, want empty", sess.Selection.Time)
	}
}

func TestRestaurantChangeRevalidatesDate(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	id := toTables(t, f.svc)

	f.svc.SelectTable(ctx, id, "1")
	f.svc.SelectDate(ctx, id, "2025-01-13") // Monday
	f.svc.SelectTime(ctx, id, "19:00")

	sess, err := f.svc.SelectRestaurant(ctx, id, "2")
	if err != nil {
		t.Fatalf("SelectRestaurant(2) error = %v", err)
	}
	if sess.Selection.Date != "2025-01-13" || sess.Selection.Time != "19:00" {
		t.Errorf("selection after switching to a restaurant open on Mondays = %+v", sess.Selection)
	}

	sess, err = f.svc.SelectRestaurant(ctx, id, "1")
	if err != nil {
		t.Fatalf("SelectRestaurant(1) error = %v", err)
	}
	if sess.Selection.Date != "" || sess.Selection.Time != "" {
		t.Errorf("selection after switching to a restaurant closed on Mondays = %+v", sess.Selection)
	}
	if sess.Selection.TableID != "1" || sess.RestaurantID != "1" {
		t.Errorf("table or restaurant lost: %+v", sess)
	}
}

func TestBookingRejections(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))

	fresh, _ := f.svc.Start(ctx)
	if _, err := f.svc.SelectTable(ctx, fresh.ID, "1"); !errors.Is(err, ErrInvalidScreen) {
		t.Errorf("SelectTable() on restaurants screen error = %v, want %v", err, ErrInvalidScreen)
	}
	if _, err := f.svc.SelectRestaurant(ctx, fresh.ID, "42"); !errors.Is(err, repository.ErrRestaurantNotFound) {
		t.Errorf("SelectRestaurant(42) error = %v, want %v", err, repository.ErrRestaurantNotFound)
	}
	if _, err := f.svc.Get(ctx, "missing"); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Errorf("Get(missing) error = %v, want %v", err, repository.ErrSessionNotFound)
	}

	id := toTables(t, f.svc)
	tests := []struct {
		name string
		op   func() (model.Session, error)
		want error
	}{
		{"time before table", func() (model.Session, error) { return f.svc.SelectTime(ctx, id, "20:00") }, ErrIncompleteSelection},
		{"reserve without selection", func() (model.Session, error) { return f.svc.Reserve(ctx, id) }, ErrIncompleteSelection},
		{"out of service table", func() (model.Session, error) { return f.svc.SelectTable(ctx, id, "3") }, ErrTableUnavailable},
		{"unknown table", func() (model.Session, error) { return f.svc.SelectTable(ctx, id, "9") }, repository.ErrTableNotFound},
		{"full date", func() (model.Session, error) { return f.svc.SelectDate(ctx, id, "2025-01-12") }, ErrDateUnavailable},
		{"past date", func() (model.Session, error) { return f.svc.SelectDate(ctx, id, "2024-12-31") }, ErrDateUnavailable},
		{"malformed date", func() (model.Session, error) { return f.svc.SelectDate(ctx, id, "12/01/2025") }, ErrInvalidDate},
		{"login before reserve", func() (model.Session, error) { return f.svc.Login(ctx, id, LoginInput{}) }, ErrInvalidScreen},
		{"pay before login", func() (model.Session, error) { return f.svc.Pay(ctx, id) }, ErrInvalidScreen},
		{"back to tables from tables", func() (model.Session, error) { return f.svc.Back(ctx, id, model.ScreenTables) }, ErrInvalidScreen},
		{"back to success", func() (model.Session, error) { return f.svc.Back(ctx, id, model.ScreenSuccess) }, ErrInvalidScreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.op(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	f.svc.SelectTable(ctx, id, "1")
	f.svc.SelectDate(ctx, id, "2025-01-10")
	if _, err := f.svc.SelectTime(ctx, id, "19:00"); !errors.Is(err, ErrTimeUnavailable) {
		t.Errorf("SelectTime(booked slot) error = %v, want %v", err, ErrTimeUnavailable)
	}
	if _, err := f.svc.SelectTime(ctx, id, "23:00"); !errors.Is(err, ErrTimeUnavailable) {
		t.Errorf("SelectTime(23:00) error = %v, want %v", err, ErrTimeUnavailable)
	}
}

func TestBookingBackNavigation(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	id := toConfirm(t, f.svc)

	sess, err := f.svc.Back(ctx, id, model.ScreenLogin)
	if err != nil {
		t.Fatalf("Back(login) error = %v", err)
	}
	if sess.Screen != model.ScreenLogin || sess.User != nil || sess.Reservation == nil || sess.Reservation.UserID != "" {
		t.Errorf("Back(login) = %+v", sess)
	}

	sess, err = f.svc.Login(ctx, id, LoginInput{Mode: "register", Name: "Ana"})
	if err != nil {
		t.Fatalf("Login(register) error = %v", err)
	}
	if u := sess.User; u.Name != "Ana" || u.Email != DemoUserEmail || u.Phone != DemoUserPhone {
		t.Errorf("registered user = %+v", u)
	}
	if _, err := f.svc.Back(ctx, id, model.ScreenLogin); err != nil {
		t.Fatalf("Back(login) error = %v", err)
	}
	sess, _ = f.svc.Login(ctx, id, LoginInput{Mode: LoginModeSocial, Email: "ignored@example.com"})
	if sess.User.Name != SocialUserName || sess.User.Email != SocialUserEmail {
		t.Errorf("social user = %+v", sess.User)
	}
	if _, err := f.svc.Back(ctx, id, model.ScreenLogin); err != nil {
		t.Fatalf("Back(login) error = %v", err)
	}

	sess, err = f.svc.Back(ctx, id, model.ScreenTables)
	if err != nil {
		t.Fatalf("Back(tables) error = %v", err)
	}
	if sess.Screen != model.ScreenTables || sess.Reservation != nil || sess.User != nil || sess.Selection != (model.Selection{}) {
		t.Errorf("Back(tables) = %+v", sess)
	}
	if sess.RestaurantID != "3" {
		t.Errorf("Back(tables) restaurant = %q, want 3", sess.RestaurantID)
	}

	if err := f.svc.End(ctx, id); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if _, err := f.svc.Get(ctx, id); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Errorf("Get() after End error = %v, want %v", err, repository.ErrSessionNotFound)
	}
}

func TestLostPaymentStopsBlocking(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	f := newBookingFixture(t, start)
	gate := make(chan time.Time)
	f.svc.after = func(time.Duration) <-chan time.Time { return gate }

	id := toConfirm(t, f.svc)
	if _, err := f.svc.Pay(ctx, id); err != nil {
		t.Fatalf("Pay() error = %v", err)
	}

	f.svc.avail.SetClock(func() time.Time { return start.Add(paymentGrace) })
	if _, err := f.svc.Back(ctx, id, model.ScreenLogin); !errors.Is(err, ErrPaymentInProgress) {
		t.Errorf("Back() within grace error = %v, want %v", err, ErrPaymentInProgress)
	}

	f.svc.avail.SetClock(func() time.Time { return start.Add(paymentGrace + time.Second) })
	sess, err := f.svc.Back(ctx, id, model.ScreenLogin)
	if err != nil {
		t.Fatalf("Back() after grace error = %v", err)
	}
	if sess.Screen != model.ScreenLogin || sess.Payment.State != model.PaymentIdle {
		t.Errorf("Back() after grace = screen %v payment %+v", sess.Screen, sess.Payment)
	}

	// The stalled settle sees the session left confirm and gives up.
	gate <- time.Time{}
	f.svc.Wait()
	if sess, _ := f.svc.Get(ctx, id); sess.Screen != model.ScreenLogin {
		t.Errorf("screen after stalled settle = %v, want %v", sess.Screen, model.ScreenLogin)
	}
	if n := len(f.events.all()); n != 0 {
		t.Errorf("published %d events, want 0", n)
	}
}

func TestPublishFailureLoggedOnce(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	var buf bytes.Buffer
	logger := log.New("test")
	logger.SetOutput(&buf)
	f.svc.logger = logger
	f.svc.events = failingPublisher{}

	id := toConfirm(t, f.svc)
	sess, err := f.svc.Cancel(ctx, id)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if sess.Screen != model.ScreenCancel {
		t.Errorf("screen = %v, want %v", sess.Screen, model.ScreenCancel)
	}
	if n := strings.Count(buf.String(), "broker down"); n != 1 {
		t.Errorf("publish failure logged %d times, want 1 (log %s)", n, buf.String())
	}
	if _, err := f.svc.Reservation(ctx, sess.Reservation.ID); err != nil {
		t.Errorf("Reservation() error = %v, want archived despite publish failure", err)
	}
}
