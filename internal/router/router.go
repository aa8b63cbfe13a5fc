package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"mesaYaBooking/internal/config"
	"mesaYaBooking/internal/handler"
	"mesaYaBooking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the customer-facing booking endpoints.  The
// availability and creation routes are public with optional authentication:
// a valid bearer token attaches the booking to the account, no token books
// as a guest.  Creation is rate limited per client IP so one misbehaving
// client cannot flood the admission path.
func RegisterBooking(e *echo.Echo, h *handler.ReservationHandler, cfg config.Config, rdb *redis.Client) {
	pub := e.Group("/v1")
	pub.Use(middleware.OptionalJWT(cfg.JWTSecret))

	// Availability is advisory and read-only.
	pub.GET("/restaurants/:id/tables", h.ListTables)
	pub.GET("/restaurants/:id/tables/:tableId/availability", h.GetAvailabilityMap)
	pub.GET("/restaurants/:id/tables/:tableId/check", h.CheckAvailability)

	// Booking writes carry the limiter.
	limited := middleware.RateLimit(cfg.RateLimit, rdb)
	pub.POST("/restaurants/:id/reservations", h.CreateReservation, limited)
	pub.POST("/reservations/:id/cancel", h.CancelByToken, limited)

	// Account endpoints require a valid token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER"))
	auth.GET("/my-reservations", h.ListMyReservations)
	auth.DELETE("/reservations/:id", h.CancelReservation)
}

// RegisterOwner registers the staff-side endpoints under /v1/owner.  Every
// route requires a valid token with the OWNER role; per-restaurant ownership
// is verified by the service layer.
func RegisterOwner(e *echo.Echo, h *handler.OwnerReservationHandler, cfg config.Config) {
	owner := e.Group("/v1/owner")
	owner.Use(middleware.JWTAuth(cfg.JWTSecret))
	owner.Use(middleware.RequireRole("OWNER"))

	owner.GET("/restaurants/:id/reservations", h.DaySheet)
	owner.PATCH("/reservations/:id/status", h.UpdateStatus)
	owner.POST("/reservations/:id/table", h.AssignTable)
}
