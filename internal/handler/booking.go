package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// BookingHandler drives booking sessions over HTTP.  Every session
// endpoint answers with the session snapshot so clients can render the
// current screen.  Pay, Cancel and Receipt run behind JWTAuth and
// RequireSessionOwner.
type BookingHandler struct {
	Booking   *service.BookingService
	JWTSecret string
	TokenTTL  time.Duration
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(booking *service.BookingService, secret string, ttl time.Duration) *BookingHandler {
	if booking == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{Booking: booking, JWTSecret: secret, TokenTTL: ttl}
}

type restaurantRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
}

type tableRequest struct {
	TableID string `json:"table_id" validate:"required"`
}

type dateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type timeRequest struct {
	Time string `json:"time" validate:"required,datetime=15:04"`
}

// loginRequest mirrors the mock login form.  E-mail and password are
// required except for the social shortcut; the password is never read.
type loginRequest struct {
	Mode     string `json:"mode" validate:"omitempty,oneof=login register social"`
	Name     string `json:"name" validate:"max=120"`
	Email    string `json:"email" validate:"required_unless=Mode social"`
	Password string `json:"password" validate:"required_unless=Mode social"`
	Phone    string `json:"phone" validate:"max=40"`
}

type backRequest struct {
	To model.Screen `json:"to" validate:"required,oneof=restaurants tables login"`
}

func (h *BookingHandler) respond(c echo.Context, status int, sess model.Session, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, sess)
}

// Start handles POST /v1/sessions.
func (h *BookingHandler) Start(c echo.Context) error {
	sess, err := h.Booking.Start(c.Request().Context())
	return h.respond(c, http.StatusCreated, sess, err)
}

// Get handles GET /v1/sessions/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	sess, err := h.Booking.Get(c.Request().Context(), c.Param("id"))
	return h.respond(c, http.StatusOK, sess, err)
}

// End handles DELETE /v1/sessions/:id.
func (h *BookingHandler) End(c echo.Context) error {
	if err := h.Booking.End(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SelectRestaurant handles POST /v1/sessions/:id/restaurant.
func (h *BookingHandler) SelectRestaurant(c echo.Context) error {
	var req restaurantRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sess, err := h.Booking.SelectRestaurant(c.Request().Context(), c.Param("id"), req.RestaurantID)
	return h.respond(c, http.StatusOK, sess, err)
}

// SelectTable handles POST /v1/sessions/:id/table.
func (h *BookingHandler) SelectTable(c echo.Context) error {
	var req tableRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sess, err := h.Booking.SelectTable(c.Request().Context(), c.Param("id"), req.TableID)
	return h.respond(c, http.StatusOK, sess, err)
}

// SelectDate handles POST /v1/sessions/:id/date.
func (h *BookingHandler) SelectDate(c echo.Context) error {
	var req dateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sess, err := h.Booking.SelectDate(c.Request().Context(), c.Param("id"), req.Date)
	return h.respond(c, http.StatusOK, sess, err)
}

// SelectTime handles POST /v1/sessions/:id/time.
func (h *BookingHandler) SelectTime(c echo.Context) error {
	var req timeRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sess, err := h.Booking.SelectTime(c.Request().Context(), c.Param("id"), req.Time)
	return h.respond(c, http.StatusOK, sess, err)
}

// Reserve handles POST /v1/sessions/:id/reserve.
func (h *BookingHandler) Reserve(c echo.Context) error {
	sess, err := h.Booking.Reserve(c.Request().Context(), c.Param("id"))
	return h.respond(c, http.StatusOK, sess, err)
}

// Login handles POST /v1/sessions/:id/login.  On success it returns the
// session together with an access token bound to it.
func (h *BookingHandler) Login(c echo.Context) error {
	var req loginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sess, err := h.Booking.Login(c.Request().Context(), c.Param("id"), service.LoginInput{
		Mode:  req.Mode,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	tok, err := utils.NewAccessToken(h.JWTSecret, sess.User.ID, sess.ID, h.TokenTTL)
	if err != nil {
		c.Logger().Errorf("sign token for session %s: %v", sess.ID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session":      sess,
		"access_token": tok.Token,
		"token_type":   "Bearer",
		"expires_at":   tok.Exp,
	})
}

// Back handles POST /v1/sessions/:id/back with {"to": screen}.
func (h *BookingHandler) Back(c echo.Context) error {
	var req backRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sess, err := h.Booking.Back(c.Request().Context(), c.Param("id"), req.To)
	return h.respond(c, http.StatusOK, sess, err)
}

// Pay handles POST /v1/sessions/:id/pay.  The payment settles in the
// background, so the answer is 202 with the session in "processing".
func (h *BookingHandler) Pay(c echo.Context) error {
	sess, err := h.Booking.Pay(c.Request().Context(), c.Param("id"))
	return h.respond(c, http.StatusAccepted, sess, err)
}

// Cancel handles POST /v1/sessions/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	sess, err := h.Booking.Cancel(c.Request().Context(), c.Param("id"))
	return h.respond(c, http.StatusOK, sess, err)
}

// Receipt handles GET /v1/sessions/:id/receipt as plain text.
func (h *BookingHandler) Receipt(c echo.Context) error {
	text, err := h.Booking.Receipt(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.String(http.StatusOK, text)
}

// GetReservation handles GET /v1/reservations/:id.
func (h *BookingHandler) GetReservation(c echo.Context) error {
	res, err := h.Booking.Reservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
