package middleware

// identity.go reads the caller identity stored by JWTAuth.  Public routes
// carry no token, so the helpers fall back to "anon".

import (
	"strings"

	"github.com/labstack/echo/v4"
)

func contextString(c echo.Context, key string) string {
	if s, ok := c.Get(key).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// userID returns the mock user of the token, or "anon".
func userID(c echo.Context) string { return contextString(c, CtxUserID) }

// sessionID returns the booking session of the token.  Without a token it
// falls back to the :id parameter of /v1/sessions routes, then "anon".
func sessionID(c echo.Context) string {
	if sid := contextString(c, CtxSessionID); sid != "anon" {
		return sid
	}
	if strings.HasPrefix(c.Path(), "/v1/sessions/") {
		if id := c.Param("id"); id != "" {
			return id
		}
	}
	return "anon"
}
