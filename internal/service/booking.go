package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	q "github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

// SessionStore persists booking sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (model.Session, error)
	Save(ctx context.Context, s model.Session) error
	Delete(ctx context.Context, id string) error
}

// ReservationArchive keeps finished reservations for later lookup.
type ReservationArchive interface {
	Save(ctx context.Context, res model.Reservation) error
	GetByID(ctx context.Context, id string) (model.Reservation, error)
}

// Identity used by the mock login when the form leaves fields empty.
const (
	DemoUserName  = "João Silva"
	DemoUserEmail = "joao@exemplo.com"
	DemoUserPhone = "(11) 99999-9999"
	NewUserName   = "New User"

	SocialUserName  = "Maria Santos"
	SocialUserEmail = "maria@exemplo.com"
	SocialUserPhone = "(11) 98888-8888"
)

// Login modes.
const (
	LoginModeLogin    = "login"
	LoginModeRegister = "register"
	LoginModeSocial   = "social"
)

// LoginInput is the mock login form.  Mode is one of the LoginMode
// constants; an empty mode means login.  Credentials are accepted as
// given and never checked.
type LoginInput struct {
	Mode  string
	Name  string
	Email string
	Phone string
}

// BookingDeps lists the collaborators of a BookingService.  Events and
// Logger are optional.
type BookingDeps struct {
	Catalog      Catalog
	Availability *AvailabilityService
	Sessions     SessionStore
	Archive      ReservationArchive
	Events       EventPublisher
	Config       config.BookingConfig
	Logger       echo.Logger
}

// BookingService is the booking flow controller.  It moves a session
// through restaurants → tables → login → confirm → success|cancel.  Each
// forward step needs the output of the previous one, and going back
// clears whatever the abandoned steps introduced.  Operations on one
// session are serialized, including the simulated payment that finishes
// on a background goroutine.
type BookingService struct {
	catalog  Catalog
	avail    *AvailabilityService
	sessions SessionStore
	archive  ReservationArchive
	events   EventPublisher
	pricing  Pricing
	cfg      config.BookingConfig
	logger   echo.Logger

	newID func() string
	after func(time.Duration) <-chan time.Time

	locks [32]sync.Mutex
	wg    sync.WaitGroup
}

// errAbandoned stops a payment whose session moved on or expired.
var errAbandoned = errors.New("session left the confirm screen")

// paymentGrace is added to both payment delays before a payment that
// never settled stops blocking its session.
const paymentGrace = 30 * time.Second

// NewBookingService constructs a BookingService.  Catalog, Availability,
// Sessions and Archive must be non-nil.
func NewBookingService(d BookingDeps) *BookingService {
	if d.Catalog == nil || d.Availability == nil || d.Sessions == nil || d.Archive == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if d.Events == nil {
		d.Events = NopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = log.New("booking")
	}
	return &BookingService{
		catalog:  d.Catalog,
		avail:    d.Availability,
		sessions: d.Sessions,
		archive:  d.Archive,
		events:   d.Events,
		pricing:  NewPricing(d.Config),
		cfg:      d.Config,
		logger:   d.Logger,
		newID:    uuid.NewString,
		after:    time.After,
	}
}

// Pricing returns the pricing rules the service applies.
func (s *BookingService) Pricing() Pricing { return s.pricing }

func (s *BookingService) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &s.locks[h.Sum32()%uint32(len(s.locks))]
	m.Lock()
	return m.Unlock
}

// mutate applies fn to the stored session under the session lock and
// saves the result.  Nothing is saved when fn fails.
func (s *BookingService) mutate(ctx context.Context, id string, fn func(*model.Session) error) (model.Session, error) {
	unlock := s.lock(id)
	defer unlock()
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return model.Session{}, err
	}
	if err := fn(&sess); err != nil {
		return model.Session{}, err
	}
	sess.UpdatedAt = s.avail.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

func requireScreen(sess *model.Session, screens ...model.Screen) error {
	for _, sc := range screens {
		if sess.Screen == sc {
			return nil
		}
	}
	return fmt.Errorf("%w: session is on %q", ErrInvalidScreen, sess.Screen)
}

// Start opens a new session on the restaurants screen.
func (s *BookingService) Start(ctx context.Context) (model.Session, error) {
	now := s.avail.Now()
	sess := model.Session{
		ID:        s.newID(),
		Screen:    model.ScreenRestaurants,
		Payment:   model.Payment{State: model.PaymentIdle},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// Get returns the current state of a session.
func (s *BookingService) Get(ctx context.Context, id string) (model.Session, error) {
	return s.sessions.Get(ctx, id)
}

// SelectRestaurant picks (or switches) the restaurant and moves to the
// tables screen.  A date chosen earlier that the new restaurant does not
// open on is cleared together with the time.
func (s *BookingService) SelectRestaurant(ctx context.Context, id, restaurantID string) (model.Session, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if err := requireScreen(sess, model.ScreenRestaurants, model.ScreenTables); err != nil {
			return err
		}
		r, err := s.catalog.GetByID(ctx, restaurantID)
		if err != nil {
			return err
		}
		sess.RestaurantID = r.ID
		sess.Screen = model.ScreenTables
		if sess.Selection.Date != "" {
			open, err := s.avail.DateOpen(ctx, r.ID, sess.Selection.Date)
			if err != nil {
				return err
			}
			if !open {
				sess.Selection.Date = ""
				sess.Selection.Time = ""
			}
		}
		return nil
	})
}

// SelectTable picks a table and clears the chosen time.
func (s *BookingService) SelectTable(ctx context.Context, id, tableID string) (model.Session, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if err := requireScreen(sess, model.ScreenTables); err != nil {
			return err
		}
		t, err := s.catalog.TableByID(ctx, tableID)
		if err != nil {
			return err
		}
		if !t.Available {
			return fmt.Errorf("%w: table %d", ErrTableUnavailable, t.Number)
		}
		sess.Selection.TableID = t.ID
		sess.Selection.Time = ""
		return nil
	})
}

// SelectDate picks a bookable date and clears the chosen time.
func (s *BookingService) SelectDate(ctx context.Context, id, isoDate string) (model.Session, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if err := requireScreen(sess, model.ScreenTables); err != nil {
			return err
		}
		st, err := s.avail.DateStatus(ctx, sess.RestaurantID, isoDate)
		if err != nil {
			return err
		}
		if !st.Available() {
			return fmt.Errorf("%w: %s", ErrDateUnavailable, st.Message)
		}
		sess.Selection.Date = st.Date
		sess.Selection.Time = ""
		return nil
	})
}

// SelectTime picks one of the free slots of the chosen table and date.
func (s *BookingService) SelectTime(ctx context.Context, id, slot string) (model.Session, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if err := requireScreen(sess, model.ScreenTables); err != nil {
			return err
		}
		sel := sess.Selection
		if sel.TableID == "" || sel.Date == "" {
			return fmt.Errorf("%w: choose a table and a date first", ErrIncompleteSelection)
		}
		if err := s.checkSlot(ctx, sess.RestaurantID, sel.TableID, sel.Date, slot); err != nil {
			return err
		}
		sess.Selection.Time = slot
		return nil
	})
}

func (s *BookingService) checkSlot(ctx context.Context, restaurantID, tableID, isoDate, slot string) error {
	st, times, err := s.avail.TableTimes(ctx, restaurantID, tableID, isoDate)
	if err != nil {
		return err
	}
	if !st.Available() {
		return fmt.Errorf("%w: %s", ErrDateUnavailable, st.Message)
	}
	for _, t := range times {
		if t == slot {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTimeUnavailable, slot)
}

// Reserve builds the pending reservation from the complete selection and
// moves to the login screen.
func (s *BookingService) Reserve(ctx context.Context, id string) (model.Session, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if err := requireScreen(sess, model.ScreenTables); err != nil {
			return err
		}
		sel := sess.Selection
		if sel.TableID == "" || sel.Date == "" || sel.Time == "" {
			return fmt.Errorf("%w: choose a table, a date and a time", ErrIncompleteSelection)
		}
		if err := s.checkSlot(ctx, sess.RestaurantID, sel.TableID, sel.Date, sel.Time); err != nil {
			return err
		}
		r, err := s.catalog.GetByID(ctx, sess.RestaurantID)
		if err != nil {
			return err
		}
		t, err := s.catalog.TableByID(ctx, sel.TableID)
		if err != nil {
			return err
		}
		day, err := ParseDate(sel.Date, s.avail.Location())
		if err != nil {
			return err
		}
		sess.Reservation = &model.Reservation{
			ID:             s.newID(),
			RestaurantID:   r.ID,
			RestaurantName: r.Name,
			TableID:        t.ID,
			TableNumber:    t.Number,
			Seats:          t.Seats,
			Date:           day.Format(model.DisplayDateLayout),
			ISODate:        sel.Date,
			Time:           sel.Time,
			Status:         model.StatusPending,
			PaymentAmount:  s.pricing.PaymentAmount(t.Seats),
			CreatedAt:      s.avail.Now(),
		}
		sess.Screen = model.ScreenLogin
		return nil
	})
}

// Login fabricates the diner's identity and moves to the confirm screen.
func (s *BookingService) Login(ctx context.Context, id string, in LoginInput) (model.Session, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if err := requireScreen(sess, model.ScreenLogin); err != nil {
			return err
		}
		if sess.Reservation == nil {
			return fmt.Errorf("%w: no reservation to confirm", ErrIncompleteSelection)
		}
		u := mockUser(s.newID(), in)
		sess.User = &u
		sess.Reservation.UserID = u.ID
		sess.Payment = model.Payment{State: model.PaymentIdle, Deposit: s.pricing.Deposit(sess.Reservation.PaymentAmount)}
		sess.Screen = model.ScreenConfirm
		return nil
	})
}

func mockUser(id string, in LoginInput) model.User {
	switch in.Mode {
	case LoginModeSocial:
		return model.User{ID: id, Name: SocialUserName, Email: SocialUserEmail, Phone: SocialUserPhone}
	case LoginModeRegister:
		return model.User{
			ID:    id,
			Name:  firstNonEmpty(in.Name, NewUserName),
			Email: firstNonEmpty(in.Email, DemoUserEmail),
			Phone: firstNonEmpty(in.Phone, DemoUserPhone),
		}
	}
	return model.User{ID: id, Name: DemoUserName, Email: firstNonEmpty(in.Email, DemoUserEmail), Phone: DemoUserPhone}
}

func firstNonEmpty(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// Pay starts the simulated payment.  The session shows "processing" for
// the processing delay, then "paid", and the reservation is confirmed
// after the success delay.  Payment never fails.
func (s *BookingService) Pay(ctx context.Context, id string) (model.Session, error) {
	sess, err := s.mutate(ctx, id, func(sess *model.Session) error {
		if err := requireScreen(sess, model.ScreenConfirm); err != nil {
			return err
		}
		if sess.Payment.State != model.PaymentIdle {
			return ErrPaymentInProgress
		}
		now := s.avail.Now()
		sess.Payment.State = model.PaymentProcessing
		sess.Payment.StartedAt = &now
		return nil
	})
	if err != nil {
		return model.Session{}, err
	}
	s.wg.Add(1)
	go s.settle(id)
	return sess, nil
}

func (s *BookingService) settle(id string) {
	defer s.wg.Done()
	ctx := context.Background()

	<-s.after(s.cfg.ProcessingDelay)
	_, err := s.mutate(ctx, id, func(sess *model.Session) error {
		if sess.Screen != model.ScreenConfirm || sess.Payment.State != model.PaymentProcessing {
			return errAbandoned
		}
		now := s.avail.Now()
		sess.Payment.State = model.PaymentPaid
		sess.Payment.PaidAt = &now
		return nil
	})
	if err != nil {
		s.logger.Warnf("payment %s: %v", id, err)
		return
	}

	<-s.after(s.cfg.SuccessDelay)
	sess, err := s.mutate(ctx, id, func(sess *model.Session) error {
		if sess.Screen != model.ScreenConfirm || sess.Payment.State != model.PaymentPaid {
			return errAbandoned
		}
		if err := sess.Reservation.Transition(model.StatusConfirmed); err != nil {
			return err
		}
		sess.Screen = model.ScreenSuccess
		return nil
	})
	if err != nil {
		s.logger.Warnf("payment %s: %v", id, err)
		return
	}
	s.logger.Infof("reservation %s confirmed for session %s", sess.Reservation.ID, id)
	s.finish(ctx, sess)
}

// Wait blocks until every payment started so far has settled.
func (s *BookingService) Wait() { s.wg.Wait() }

// Cancel cancels the pending reservation from the confirm screen and
// records the refund quote.
func (s *BookingService) Cancel(ctx context.Context, id string) (model.Session, error) {
	sess, err := s.mutate(ctx, id, func(sess *model.Session) error {
		if err := requireScreen(sess, model.ScreenConfirm); err != nil {
			return err
		}
		if sess.Payment.State != model.PaymentIdle {
			return ErrPaymentInProgress
		}
		quote, err := s.pricing.QuoteCancellation(*sess.Reservation, s.avail.Location(), s.avail.Now())
		if err != nil {
			return err
		}
		if err := sess.Reservation.Transition(model.StatusCancelled); err != nil {
			return err
		}
		sess.Cancellation = &quote
		sess.Screen = model.ScreenCancel
		return nil
	})
	if err != nil {
		return model.Session{}, err
	}
	s.logger.Infof("reservation %s cancelled for session %s (refund %d)", sess.Reservation.ID, id, sess.Cancellation.Refund)
	s.finish(ctx, sess)
	return sess, nil
}

// finish archives the reservation and publishes its event.  Failures are
// logged only: the booking outcome stands regardless.
func (s *BookingService) finish(ctx context.Context, sess model.Session) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.archive.Save(ctx, *sess.Reservation); err != nil {
		s.logger.Errorf("archive reservation %s: %v", sess.Reservation.ID, err)
	}
	if err := s.events.PublishReservation(ctx, s.eventFor(sess)); err != nil {
		s.logger.Errorf("publish reservation %s: %v", sess.Reservation.ID, err)
	}
}

func (s *BookingService) eventFor(sess model.Session) q.ReservationEvent {
	res := sess.Reservation
	ev := q.ReservationEvent{
		ReservationID:  res.ID,
		Status:         res.Status,
		RestaurantID:   res.RestaurantID,
		RestaurantName: res.RestaurantName,
		TableNumber:    res.TableNumber,
		Seats:          res.Seats,
		Date:           res.Date,
		Time:           res.Time,
		UserID:         res.UserID,
		PaymentAmount:  res.PaymentAmount,
		Deposit:        s.pricing.Deposit(res.PaymentAmount),
		OccurredAt:     s.avail.Now().UTC().Format(time.RFC3339),
	}
	if sess.User != nil {
		ev.UserName = sess.User.Name
		ev.UserEmail = sess.User.Email
	}
	if sess.Cancellation != nil {
		ev.Refund = sess.Cancellation.Refund
	}
	return ev
}

// paymentRunning reports whether sess has a payment that is still
// settling.  A payment older than both delays plus paymentGrace was lost
// with the process that ran it (sessions kept in Redis outlive it) and no
// longer counts.
func (s *BookingService) paymentRunning(sess *model.Session) bool {
	if sess.Screen != model.ScreenConfirm || sess.Payment.State == model.PaymentIdle {
		return false
	}
	if sess.Payment.StartedAt == nil {
		return true
	}
	limit := s.cfg.ProcessingDelay + s.cfg.SuccessDelay + paymentGrace
	return s.avail.Now().Sub(*sess.Payment.StartedAt) <= limit
}

// Back returns to an earlier screen.  "restaurants" is allowed from any
// screen and starts over; "tables" is allowed from login and drops the
// selection, reservation and user; "login" is allowed from confirm and
// drops the user.  Nothing can go back while a payment is running.
func (s *BookingService) Back(ctx context.Context, id string, to model.Screen) (model.Session, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if s.paymentRunning(sess) {
			return ErrPaymentInProgress
		}
		switch to {
		case model.ScreenRestaurants:
			sess.RestaurantID = ""
			sess.Selection = model.Selection{}
			sess.Reservation = nil
			sess.User = nil
			sess.Cancellation = nil
		case model.ScreenTables:
			if err := requireScreen(sess, model.ScreenLogin); err != nil {
				return err
			}
			sess.Selection = model.Selection{}
			sess.Reservation = nil
			sess.User = nil
		case model.ScreenLogin:
			if err := requireScreen(sess, model.ScreenConfirm); err != nil {
				return err
			}
			sess.User = nil
			sess.Reservation.UserID = ""
		default:
			return fmt.Errorf("%w: cannot go back to %q", ErrInvalidScreen, to)
		}
		sess.Payment = model.Payment{State: model.PaymentIdle}
		sess.Screen = to
		return nil
	})
}

// End discards a session.  A session whose payment is running cannot be
// ended until it settles.
func (s *BookingService) End(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.paymentRunning(&sess) {
		return ErrPaymentInProgress
	}
	return s.sessions.Delete(ctx, id)
}

// Reservation returns an archived reservation.
func (s *BookingService) Reservation(ctx context.Context, id string) (model.Reservation, error) {
	return s.archive.GetByID(ctx, id)
}
