package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// CatalogHandler serves the public, unauthenticated browsing API:
// restaurants, the floor plan and date availability.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo      // static restaurants and tables
	Avail   *service.AvailabilityService // availability engine
}

// NewCatalogHandler constructs a CatalogHandler.  Both dependencies must be
// non-nil.
func NewCatalogHandler(catalog *repository.CatalogRepo, avail *service.AvailabilityService) *CatalogHandler {
	if catalog == nil || avail == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog, Avail: avail}
}

// ListRestaurants handles GET /v1/restaurants.  Query parameters: q (name
// or cuisine substring), cuisine and location ("all" or empty for any).
func (h *CatalogHandler) ListRestaurants(c echo.Context) error {
	q := repository.CatalogQuery{
		Term:     strings.TrimSpace(c.QueryParam("q")),
		Cuisine:  strings.TrimSpace(c.QueryParam("cuisine")),
		Location: strings.TrimSpace(c.QueryParam("location")),
	}
	items, err := h.Catalog.Search(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// Facets handles GET /v1/restaurants/facets: the cuisine and location
// filter values.
func (h *CatalogHandler) Facets(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, echo.Map{
		"cuisines":  h.Catalog.Cuisines(ctx),
		"locations": h.Catalog.Locations(ctx),
	})
}

// GetRestaurant handles GET /v1/restaurants/:id.
func (h *CatalogHandler) GetRestaurant(c echo.Context) error {
	r, err := h.Catalog.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// ListTables handles GET /v1/restaurants/:id/tables: the floor plan.
func (h *CatalogHandler) ListTables(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.Catalog.GetByID(ctx, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	tables, err := h.Catalog.Tables(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tables})
}

// Availability handles GET /v1/restaurants/:id/availability?date=.  It
// returns the date status and the free times of every table.
func (h *CatalogHandler) Availability(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	st, tables, err := h.Avail.Tables(c.Request().Context(), c.Param("id"), date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": st, "tables": tables})
}

// TableTimes handles GET /v1/restaurants/:id/tables/:table_id/times?date=.
func (h *CatalogHandler) TableTimes(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	st, times, err := h.Avail.TableTimes(c.Request().Context(), c.Param("id"), c.Param("table_id"), date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": st, "times": times})
}

// Calendar handles GET /v1/restaurants/:id/calendar?from=&days=.  from
// defaults to today and days to 30.
func (h *CatalogHandler) Calendar(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid days"})
		}
		days = n
	}
	items, err := h.Avail.Calendar(c.Request().Context(), c.Param("id"), c.QueryParam("from"), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
