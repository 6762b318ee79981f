package middleware // middleware provides reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and transporter claims into the request
// context.  The provided secret must match the one used when issuing
// tokens.  Handlers behind this middleware read the caller's identity via
// c.Get("user_id") (uint64) and c.Get("transporter") (bool); the core
// trusts these values and performs no further credential checks.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                // Reject any signing method other than HMAC.
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // The sub claim round-trips through JSON as float64.
            sub, ok := claims["sub"].(float64)
            if !ok || sub <= 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
            }
            transporter, _ := claims["transporter"].(bool)

            c.Set("user_id", uint64(sub))
            c.Set("transporter", transporter)
            return next(c)
        }
    }
}
