package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireSessionOwner returns a middleware that only lets a request
// through when the session claim of its token equals the path parameter
// named param.  A token issued for one booking session can therefore not
// pay for or cancel another.  It assumes JWTAuth ran first.
func RequireSessionOwner(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, ok := c.Get(CtxSessionID).(string)
			if !ok || sid == "" || sid != c.Param(param) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "token does not belong to this session"})
			}
			return next(c)
		}
	}
}
