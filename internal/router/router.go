package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-reservation/internal/handler"
)

// RegisterRoutes registers the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterReservations registers the seat map and reservation routes
// under /api.  cache wraps the seat map read; limit wraps the routes
// that change state.  Either may be nil.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, cache, limit echo.MiddlewareFunc) {
	cache, limit = orPass(cache), orPass(limit)
	g := e.Group("/api")
	g.GET("/seats", h.ListSeats, cache)
	g.POST("/reservations", h.CreateReservation, limit)
	g.GET("/reservations/:pnr", h.GetReservation)
	g.DELETE("/reservations/:pnr", h.CancelReservation, limit)
}

func orPass(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	if mw == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return mw
}
