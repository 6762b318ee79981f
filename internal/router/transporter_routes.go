package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/mounti/trip-booking/internal/handler"
    "github.com/mounti/trip-booking/internal/middleware"
)

// RegisterTransporter registers transporter-scoped endpoints under /v1.
// All routes require a valid JWT and the transporter flag.
func RegisterTransporter(e *echo.Echo, t *handler.TripHandler, b *handler.BookingHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireTransporter(),
    )

    // ---- Trips ----
    g.POST("/trips", t.CreateTrip)
    g.GET("/trips/mine", t.MyTrips)
    g.PUT("/trips/:id", t.UpdateTrip)
    g.PATCH("/trips/:id", t.UpdateTrip) // allow partial updates via PATCH as well
    g.DELETE("/trips/:id", t.DeleteTrip)
    g.POST("/trips/:id/complete", t.CompleteTrip)

    // ---- Bookings on own trips ----
    g.GET("/trips/:id/bookings", b.TripBookings)
}
