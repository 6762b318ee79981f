package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/mounti/trip-booking/internal/config"
    "github.com/mounti/trip-booking/internal/handler"
    "github.com/mounti/trip-booking/internal/middleware"
)

// RegisterClient registers endpoints shared by every authenticated user:
// placing and reading bookings, acting on booking status, and the
// notification feed.  Transporters use these too; confirming a booking on
// someone else's trip is rejected in the service layer, not here.
func RegisterClient(e *echo.Echo, b *handler.BookingHandler, n *handler.NotificationHandler, jwtSecret string, rdb *redis.Client) {
    mws := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}
    if rdb != nil {
        // Per-user token bucket; passes through when Redis is down.
        mws = append(mws, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    }
    g := e.Group("/v1", mws...)

    // ---- Bookings ----
    g.POST("/bookings", b.CreateBooking)
    g.GET("/bookings/mine", b.MyBookings)
    g.GET("/bookings/:id", b.GetBooking)
    g.PATCH("/bookings/:id/status", b.UpdateStatus)

    // ---- Notifications ----
    g.GET("/notifications", n.List)
    g.GET("/notifications/unread-count", n.UnreadCount)
    g.PATCH("/notifications/:id/read", n.MarkRead)
}
