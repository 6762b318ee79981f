package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireTransporter enforces that the authenticated caller carries the
// transporter flag.  It assumes JWTAuth has already stored the flag in
// the context under "transporter"; anything else is treated as a plain
// client and rejected with 403.
func RequireTransporter() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if flag, ok := c.Get("transporter").(bool); !ok || !flag {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "transporter account required"})
            }
            return next(c)
        }
    }
}
