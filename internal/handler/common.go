// Package handler exposes the HTTP handlers of the reservation API: the
// public catalog and availability browsing, the booking session flow and
// the health check.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// RequestValidator plugs go-playground/validator into echo so handlers can
// call c.Validate on bound request bodies.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator returns a validator using the "validate" struct tag.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error { return rv.v.Struct(i) }

// bindAndValidate decodes the body into dst and validates it.  It writes
// the 400 response itself and returns false when the request is invalid.
func bindAndValidate(c echo.Context, dst interface{}) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "invalid " + fe.Field() + ": failed " + fe.Tag()
	}
	return "invalid request"
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrRestaurantNotFound),
		errors.Is(err, repository.ErrTableNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrIncompleteSelection):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDateUnavailable),
		errors.Is(err, service.ErrTableUnavailable),
		errors.Is(err, service.ErrTimeUnavailable),
		errors.Is(err, service.ErrInvalidScreen),
		errors.Is(err, service.ErrPaymentInProgress),
		errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": "..."}.  Unexpected errors are
// logged and hidden behind a generic message.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
