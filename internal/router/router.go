package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/mounti/trip-booking/internal/config"
    "github.com/mounti/trip-booking/internal/handler"
    "github.com/mounti/trip-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Issues a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout does not require JWT authentication; the handler accepts a
    // refresh_token body or an Authorization header.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)

    // Alias outside the protected group so a refresh token alone is enough.
    e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  The trip
// search is the guest-facing surface; responses are served through the
// Redis read cache when a client is available.
func RegisterPublic(e *echo.Echo, s *handler.SearchHandler, t *handler.TripHandler, rdb *redis.Client) {
    mws := []echo.MiddlewareFunc{}
    if rdb != nil {
        mws = append(mws, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
    }
    e.GET("/v1/trips/search", s.SearchTrips, mws...)
    // Trip details are public so a client can inspect a trip before
    // registering.
    e.GET("/v1/trips/:id", t.GetTrip, mws...)
}
