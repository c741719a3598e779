package handler // declare the package name; contains HTTP handlers

import (
	"context"  // per-probe timeouts
	"net/http" // net/http provides status codes and response helpers
	"time"     // probe timeout

	"github.com/jmoiron/sqlx"      // MySQL handle when STORE_DRIVER=mysql
	"github.com/labstack/echo/v4"  // echo is the web framework used for this project
	"github.com/redis/go-redis/v9" // Redis client when sessions, cache or rate limit use it
)

// HealthHandler reports whether the service and its optional backends are
// reachable.  Nil backends are reported as "disabled".
type HealthHandler struct {
	Redis *redis.Client
	DB    *sqlx.DB
}

// Health is used by load balancers and monitoring systems to verify that
// the service is running.  It returns 200 with the status of every
// backend, or 503 when an enabled backend does not answer a ping.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := echo.Map{"redis": "disabled", "mysql": "disabled"}
	if h.Redis != nil {
		checks["redis"] = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.DB != nil {
		checks["mysql"] = "ok"
		if err := h.DB.PingContext(ctx); err != nil {
			checks["mysql"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	return c.JSON(status, echo.Map{"status": state, "checks": checks})
}
