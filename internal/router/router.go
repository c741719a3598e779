package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"    // handlers implementing each endpoint
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware" // JWT session tokens, cache and rate limit
)

// RegisterRoutes registers operational routes that sit outside the
// versioned API.  Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	// Load balancers and monitoring systems probe this endpoint.
	e.GET("/healthz", h.Health)
}

// RegisterCatalog registers the public browsing endpoints under
// /v1/restaurants.  They need no token.  mw is applied to the whole group;
// the server passes the rate limiter and the response cache.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/restaurants", mw...)
	// List and search restaurants by name, cuisine and location.
	g.GET("", h.ListRestaurants)
	// Distinct cuisines and locations for the filter controls.  Registered
	// before /:id so the static segment wins.
	g.GET("/facets", h.Facets)
	g.GET("/:id", h.GetRestaurant)
	// The floor plan shared by every restaurant.
	g.GET("/:id/tables", h.ListTables)
	// Date status plus the free times of every table on ?date=.
	g.GET("/:id/availability", h.Availability)
	g.GET("/:id/tables/:table_id/times", h.TableTimes)
	// Per-day statuses used to disable days in a date picker.
	g.GET("/:id/calendar", h.Calendar)
}

// RegisterBooking registers the booking session flow under /v1/sessions
// and the archived reservation lookup.  The steps up to the mock login are
// open to anyone holding the session id; pay, cancel and receipt require
// the token returned by login, and the token must belong to the session
// in the path.  limiter is applied to every booking route.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/sessions", limiter)
	g.POST("", h.Start)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.End)
	g.POST("/:id/restaurant", h.SelectRestaurant)
	g.POST("/:id/table", h.SelectTable)
	g.POST("/:id/date", h.SelectDate)
	g.POST("/:id/time", h.SelectTime)
	g.POST("/:id/reserve", h.Reserve)
	g.POST("/:id/login", h.Login)
	g.POST("/:id/back", h.Back)

	// Protected steps: JWTAuth validates the bearer token, then
	// RequireSessionOwner checks its sid claim against :id.
	auth := e.Group("/v1/sessions/:id", limiter, middleware.JWTAuth(jwtSecret), middleware.RequireSessionOwner("id"))
	auth.POST("/pay", h.Pay)
	auth.POST("/cancel", h.Cancel)
	auth.GET("/receipt", h.Receipt)

	e.GET("/v1/reservations/:id", h.GetReservation, limiter)
}
