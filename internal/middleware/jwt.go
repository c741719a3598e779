package middleware // middleware holds the HTTP middleware shared by the route groups

import (
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// Context keys written by JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxSessionID = "session_id"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and session claims into the request
// context.  The secret must match the one used by the login handler.
// Handlers read the values via c.Get(CtxUserID) and c.Get(CtxSessionID).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxSessionID, claims.SessionID)
			return next(c)
		}
	}
}
